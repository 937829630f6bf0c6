package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"revforecast-api/internal/models"
)

const (
	SessionHeader = "X-Session-ID"
	sessionKey    = "sessionID"
)

// SessionMiddleware scopes every request to a session. Clients that send
// no X-Session-ID get a fresh one echoed back in the response header.
func SessionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(SessionHeader)
		if id == "" {
			id = uuid.NewString()
		} else if _, err := uuid.Parse(id); err != nil {
			return c.Status(400).JSON(models.ErrorResponse{
				Error:   "Invalid session id",
				Message: "X-Session-ID must be a UUID",
				Code:    400,
			})
		}

		c.Locals(sessionKey, id)
		c.Set(SessionHeader, id)
		return c.Next()
	}
}

func sessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(sessionKey).(string)
	return id
}
