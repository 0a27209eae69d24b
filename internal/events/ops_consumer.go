package events

import (
	"context"
	"errors"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/GoCleeny/service-booking/internal/application"
	"github.com/GoCleeny/service-booking/pkg/domain"
	"github.com/GoCleeny/service-booking/pkg/kafka"
)

// TopicOpsEvents carries scheduling decisions made by the operations team.
const TopicOpsEvents = "ops.events"

// Operations event types.
const (
	OpsBookingConfirmed = "ops.booking.confirmed"
	OpsBookingCompleted = "ops.booking.completed"
)

// OpsBookingEvent is the payload of every operations booking event.
type OpsBookingEvent struct {
	BookingID uuid.UUID `json:"booking_id"`
}

// OpsEventConsumer listens to operations events and advances booking status.
type OpsEventConsumer struct {
	consumer *kafka.Consumer
	service  *application.BookingService
	logger   *zap.Logger
}

// NewOpsEventConsumer creates a new OpsEventConsumer.
func NewOpsEventConsumer(
	brokers []string,
	groupID string,
	service *application.BookingService,
	logger *zap.Logger,
) *OpsEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, TopicOpsEvents, logger)
	return &OpsEventConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming operations events. This blocks until the context is cancelled.
func (c *OpsEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *OpsEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *OpsEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from ops topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case OpsBookingConfirmed:
		return c.transition(ctx, cloudEvent, "confirm", c.service.ConfirmBooking)
	case OpsBookingCompleted:
		return c.transition(ctx, cloudEvent, "complete", c.service.CompleteBooking)
	default:
		c.logger.Debug("ignoring unhandled ops event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *OpsEventConsumer) transition(
	ctx context.Context,
	cloudEvent kafka.CloudEvent,
	action string,
	apply func(context.Context, uuid.UUID) (*application.BookingDTO, error),
) error {
	var evt OpsBookingEvent
	if err := cloudEvent.ParseData(&evt); err != nil || evt.BookingID == uuid.Nil {
		c.logger.Error("failed to parse ops booking event data",
			zap.String("type", cloudEvent.Type),
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	if _, err := apply(ctx, evt.BookingID); err != nil {
		// Replaying a stale or unknown booking can never succeed.
		if errors.Is(err, domain.ErrInvalidState) || errors.Is(err, domain.ErrNotFound) {
			c.logger.Warn("skipping ops event",
				zap.String("action", action),
				zap.String("booking_id", evt.BookingID.String()),
				zap.Error(err),
			)
			return nil
		}
		c.logger.Error("failed to apply ops event",
			zap.String("action", action),
			zap.String("booking_id", evt.BookingID.String()),
			zap.Error(err),
		)
		return err
	}

	c.logger.Info("ops event applied",
		zap.String("action", action),
		zap.String("booking_id", evt.BookingID.String()),
	)
	return nil
}
