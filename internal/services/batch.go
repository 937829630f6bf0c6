package services

import (
	"context"
	"fmt"
	"sync"

	"revforecast-api/internal/models"
	"revforecast-api/internal/projection"
)

// BatchProjector runs many projections with bounded concurrency
type BatchProjector struct {
	workerPool chan struct{} // Semaphore for bounded concurrency
}

func NewBatchProjector(maxConcurrent int) *BatchProjector {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &BatchProjector{
		workerPool: make(chan struct{}, maxConcurrent),
	}
}

// RequestCheck rejects a request before it is projected
type RequestCheck func(models.ProjectionRequest) error

// Run projects every item and returns results in request order. Item
// failures, including check failures, are reported per item; the batch
// fails only when every item failed or the context ends first. check may
// be nil.
func (b *BatchProjector) Run(ctx context.Context, items []models.BatchItem, check RequestCheck) ([]models.BatchResult, error) {
	results := make([]models.BatchResult, len(items))
	errs := make([]error, len(items))
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Add(1)

		go func(i int, item models.BatchItem) {
			defer wg.Done()

			// Acquire worker slot (bounded concurrency)
			select {
			case b.workerPool <- struct{}{}:
			case <-ctx.Done():
				errs[i] = ctx.Err()
				results[i] = models.BatchResult{Name: item.Name, Error: ctx.Err().Error()}
				return
			}
			defer func() { <-b.workerPool }()

			var p *models.Projection
			err := b.checkRequest(check, item.ProjectionRequest)
			if err == nil {
				p, err = projection.ProjectRequest(item.ProjectionRequest)
			}
			if err != nil {
				errs[i] = err
				results[i] = models.BatchResult{Name: item.Name, Error: err.Error()}
				return
			}
			results[i] = models.BatchResult{Name: item.Name, Projection: p}
		}(i, item)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	if len(items) > 0 && failed == len(items) {
		return nil, fmt.Errorf("all projections failed: %w", errs[0])
	}

	return results, nil
}

func (b *BatchProjector) checkRequest(check RequestCheck, req models.ProjectionRequest) error {
	if check == nil {
		return nil
	}
	return check(req)
}
