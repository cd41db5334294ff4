package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/bookhaven/bookhaven/internal/observability"
)

// Worker wraps the asynq server and its task mux.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	logger *slog.Logger
}

// NewWorker builds the asynq server against the given Redis address and
// registers all task handlers.
func NewWorker(redisAddr string, logger *slog.Logger, metrics *observability.Metrics, cover *CoverCleanupJob) *Worker {
	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 4,
			Queues:      map[string]int{"default": 1},
		},
	)
	mux := asynq.NewServeMux()
	mux.Use(func(next asynq.Handler) asynq.Handler {
		return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
			err := next.ProcessTask(ctx, t)
			status := "ok"
			if err != nil {
				status = "error"
			}
			metrics.ObserveJob(t.Type(), status)
			return err
		})
	})
	mux.HandleFunc(TypeCoverCleanup, cover.Handle)
	return &Worker{server: server, mux: mux, logger: logger}
}

// Run blocks processing tasks until Shutdown is called.
func (w *Worker) Run() error {
	if err := w.server.Run(w.mux); err != nil {
		return fmt.Errorf("jobs: worker run: %w", err)
	}
	return nil
}

// Shutdown stops the server, waiting for in-flight tasks.
func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

// Enqueuer narrows the asynq client to what handlers need.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// NewClient builds an asynq client for enqueueing from the API process.
func NewClient(redisAddr string) *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
}
