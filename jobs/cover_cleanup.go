package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/bookhaven/bookhaven/internal/storage"
)

// CoverCleanupJob deletes replaced or orphaned cover images from object
// storage after the owning book row is already gone.
type CoverCleanupJob struct {
	Store  storage.ObjectStore
	Logger *slog.Logger
}

// NewCoverCleanupJob initialises the cleanup handler.
func NewCoverCleanupJob(store storage.ObjectStore, logger *slog.Logger) *CoverCleanupJob {
	return &CoverCleanupJob{Store: store, Logger: logger}
}

// Handle executes the cleanup.
func (j *CoverCleanupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Store == nil {
		return errors.New("cover cleanup: handler not configured")
	}
	var payload CoverCleanupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Key == "" {
		return asynq.SkipRetry
	}
	if err := j.Store.Delete(ctx, payload.Key); err != nil {
		if j.Logger != nil {
			j.Logger.Warn("cover cleanup failed", slog.String("key", payload.Key), slog.Any("error", err))
		}
		return err
	}
	if j.Logger != nil {
		j.Logger.Info("cover image removed", slog.String("key", payload.Key))
	}
	return nil
}
