package services

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"revforecast-api/internal/config"
	"revforecast-api/internal/models"
)

var (
	ErrArchiveDisabled = errors.New("scenario archive is not configured")
	ErrArchiveNotFound = errors.New("scenario not found in archive")
)

// ScenarioArchive exports snapshots beyond the life of the process and
// imports them back.
type ScenarioArchive interface {
	Export(ctx context.Context, sessionID string, snap models.Snapshot) error
	Import(ctx context.Context, sessionID, name string) (models.Snapshot, error)
	Enabled() bool
	Close() error
}

// FirestoreArchive keeps snapshots at sessions/{session}/scenarios/{name}
type FirestoreArchive struct {
	client *firestore.Client
	logger *logrus.Logger
}

// NewFirestoreArchive connects to the configured project. Without a
// project, or when the client cannot be created, it returns an archive
// that reports ErrArchiveDisabled and the service runs memory-only.
func NewFirestoreArchive(cfg *config.Config, logger *logrus.Logger) *FirestoreArchive {
	archive := &FirestoreArchive{logger: logger}
	if cfg.FirestoreProject == "" {
		return archive
	}

	client, err := firestore.NewClient(context.Background(), cfg.FirestoreProject)
	if err != nil {
		// Log error but don't fail - fallback to in-memory only
		logger.WithError(err).Warn("failed to initialize Firestore, archive disabled")
		return archive
	}

	archive.client = client
	return archive
}

func (a *FirestoreArchive) Enabled() bool {
	return a.client != nil
}

func (a *FirestoreArchive) doc(sessionID, name string) *firestore.DocumentRef {
	return a.client.Collection("sessions").Doc(sessionID).Collection("scenarios").Doc(name)
}

func (a *FirestoreArchive) Export(ctx context.Context, sessionID string, snap models.Snapshot) error {
	if a.client == nil {
		return ErrArchiveDisabled
	}

	if _, err := a.doc(sessionID, snap.Name).Set(ctx, snap); err != nil {
		return fmt.Errorf("export scenario %s: %w", snap.Name, err)
	}

	a.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"scenario":   snap.Name,
	}).Info("scenario exported")
	return nil
}

func (a *FirestoreArchive) Import(ctx context.Context, sessionID, name string) (models.Snapshot, error) {
	if a.client == nil {
		return models.Snapshot{}, ErrArchiveDisabled
	}

	doc, err := a.doc(sessionID, name).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return models.Snapshot{}, ErrArchiveNotFound
		}
		return models.Snapshot{}, fmt.Errorf("import scenario %s: %w", name, err)
	}

	var snap models.Snapshot
	if err := doc.DataTo(&snap); err != nil {
		return models.Snapshot{}, fmt.Errorf("decode scenario %s: %w", name, err)
	}
	return snap, nil
}

// Close closes the Firestore client
func (a *FirestoreArchive) Close() error {
	if a.client != nil {
		return a.client.Close()
	}
	return nil
}
