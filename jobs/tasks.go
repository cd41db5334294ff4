// Package jobs defines background tasks processed by the asynq worker.
package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// TypeCoverCleanup removes an orphaned cover image from object storage.
const TypeCoverCleanup = "cover:cleanup"

// CoverCleanupPayload names the object to delete.
type CoverCleanupPayload struct {
	Key string `json:"key"`
}

// NewCoverCleanupTask builds a cleanup task for the given object key.
func NewCoverCleanupTask(key string) (*asynq.Task, error) {
	if key == "" {
		return nil, fmt.Errorf("jobs: cover cleanup requires an object key")
	}
	payload, err := json.Marshal(CoverCleanupPayload{Key: key})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeCoverCleanup, payload, asynq.MaxRetry(5)), nil
}
