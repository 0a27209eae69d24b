package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageHandler processes one message. Returning an error leaves the offset
// uncommitted and the same message is handled again after a backoff.
type MessageHandler func(ctx context.Context, msg kafkago.Message) error

type messageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Consumer reads a single topic as part of a consumer group.
type Consumer struct {
	reader     messageReader
	newBackOff func() backoff.BackOff
	logger     *zap.Logger
}

// NewConsumer creates a group consumer for topic.
func NewConsumer(brokers []string, groupID, topic string, logger *zap.Logger) *Consumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return newConsumer(reader, defaultBackOff,
		logger.With(zap.String("topic", topic), zap.String("group_id", groupID)))
}

func newConsumer(reader messageReader, newBackOff func() backoff.BackOff, logger *zap.Logger) *Consumer {
	return &Consumer{reader: reader, newBackOff: newBackOff, logger: logger}
}

// defaultBackOff retries a failing message until it succeeds, waiting at
// most 30s between attempts.
func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0
	return b
}

// Consume fetches messages until ctx is cancelled. A message is committed
// only once the handler accepts it, and no later message is fetched before
// that, so a failed offset is never committed past.
func (c *Consumer) Consume(ctx context.Context, handler MessageHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return ctx.Err()
			}
			return fmt.Errorf("failed to fetch message: %w", err)
		}

		if err := c.handle(ctx, handler, msg); err != nil {
			return err
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("failed to commit message",
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, handler MessageHandler, msg kafkago.Message) error {
	attempt := 0
	operation := func() error {
		attempt++
		return handler(ctx, msg)
	}
	notify := func(err error, wait time.Duration) {
		c.logger.Error("message handler failed, retrying",
			zap.Int64("offset", msg.Offset),
			zap.Int("partition", msg.Partition),
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", wait),
			zap.Error(err),
		)
	}
	return backoff.RetryNotify(operation, backoff.WithContext(c.newBackOff(), ctx), notify)
}

// Close closes the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
