package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	// TypeEmailSend is the asynq task type carrying a Message.
	TypeEmailSend = "email:send"

	// QueueName is the asynq queue notifications are enqueued on.
	QueueName = "notifications"

	maxRetry = 5
)

// NewEmailTask wraps msg in an asynq task.
func NewEmailTask(msg Message) (*asynq.Task, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal email payload: %w", err)
	}
	return asynq.NewTask(TypeEmailSend, payload), nil
}

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueGateway hands messages to a Redis-backed asynq queue. Delivery happens
// in a Worker, so Send only fails when the task cannot be enqueued.
type QueueGateway struct {
	client enqueuer
	logger *zap.Logger
}

// NewQueueGateway creates a QueueGateway backed by client.
func NewQueueGateway(client *asynq.Client, logger *zap.Logger) *QueueGateway {
	return &QueueGateway{client: client, logger: logger}
}

// Send enqueues msg for background delivery.
func (g *QueueGateway) Send(ctx context.Context, msg Message) error {
	task, err := NewEmailTask(msg)
	if err != nil {
		return err
	}
	info, err := g.client.EnqueueContext(ctx, task, asynq.Queue(QueueName), asynq.MaxRetry(maxRetry))
	if err != nil {
		return fmt.Errorf("failed to enqueue email: %w", err)
	}
	g.logger.Debug("email enqueued",
		zap.String("task_id", info.ID),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}

// Worker consumes email tasks and delivers them through a downstream Gateway.
type Worker struct {
	server     *asynq.Server
	downstream Gateway
	logger     *zap.Logger
}

// NewWorker creates a Worker reading from the notifications queue.
func NewWorker(opt asynq.RedisClientOpt, concurrency int, downstream Gateway, logger *zap.Logger) *Worker {
	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{QueueName: 1},
		Logger:      logger.Sugar(),
	})
	return &Worker{server: srv, downstream: downstream, logger: logger}
}

// Start begins processing tasks in background goroutines.
func (w *Worker) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeEmailSend, w.HandleEmailTask)
	if err := w.server.Start(mux); err != nil {
		return fmt.Errorf("failed to start notification worker: %w", err)
	}
	w.logger.Info("notification worker started")
	return nil
}

// Shutdown waits for in-flight tasks and stops the worker.
func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

// HandleEmailTask delivers one queued message. A malformed payload is
// skipped since retrying it can never succeed.
func (w *Worker) HandleEmailTask(ctx context.Context, task *asynq.Task) error {
	var msg Message
	if err := json.Unmarshal(task.Payload(), &msg); err != nil {
		w.logger.Error("invalid email payload", zap.Error(err))
		return fmt.Errorf("invalid email payload: %w", asynq.SkipRetry)
	}
	if err := w.downstream.Send(ctx, msg); err != nil {
		w.logger.Error("failed to deliver email",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
		return err
	}
	return nil
}
