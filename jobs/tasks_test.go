package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

func TestNewCoverCleanupTask(t *testing.T) {
	task, err := NewCoverCleanupTask("covers/abc.png")
	require.NoError(t, err)
	require.Equal(t, TypeCoverCleanup, task.Type())

	var payload CoverCleanupPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	require.Equal(t, "covers/abc.png", payload.Key)
}

func TestNewCoverCleanupTaskRequiresKey(t *testing.T) {
	_, err := NewCoverCleanupTask("")
	require.Error(t, err)
}

type recordingStore struct {
	deleted []string
	err     error
}

func (s *recordingStore) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, string, error) {
	return "", "", errors.New("not used")
}

func (s *recordingStore) Delete(ctx context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCoverCleanupHandle(t *testing.T) {
	store := &recordingStore{}
	job := NewCoverCleanupJob(store, discardLogger())

	task, err := NewCoverCleanupTask("covers/abc.png")
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, []string{"covers/abc.png"}, store.deleted)
}

func TestCoverCleanupHandleSkipsBadPayload(t *testing.T) {
	store := &recordingStore{}
	job := NewCoverCleanupJob(store, discardLogger())

	err := job.Handle(context.Background(), asynq.NewTask(TypeCoverCleanup, []byte("not json")))
	require.ErrorIs(t, err, asynq.SkipRetry, "malformed payloads are not retried")
	require.Empty(t, store.deleted)

	err = job.Handle(context.Background(), asynq.NewTask(TypeCoverCleanup, []byte(`{"key":""}`)))
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestCoverCleanupHandlePropagatesStoreError(t *testing.T) {
	store := &recordingStore{err: errors.New("s3 down")}
	job := NewCoverCleanupJob(store, discardLogger())

	task, err := NewCoverCleanupTask("covers/abc.png")
	require.NoError(t, err)
	require.Error(t, job.Handle(context.Background(), task))
}
