package application

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/GoCleeny/service-booking/pkg/kafka"
)

// TopicBookingEvents carries every booking lifecycle event.
const TopicBookingEvents = "booking.events"

// Booking event types.
const (
	EventBookingCreated     = "booking.created"
	EventBookingRescheduled = "booking.rescheduled"
	EventBookingCancelled   = "booking.cancelled"
	EventBookingConfirmed   = "booking.confirmed"
	EventBookingCompleted   = "booking.completed"
)

const eventSource = "service-booking"

// EventPublisher publishes CloudEvents to a topic. *kafka.Producer satisfies it.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// BookingEvent is the payload of every booking lifecycle event.
type BookingEvent struct {
	BookingID          uuid.UUID `json:"booking_id"`
	Reference          string    `json:"reference"`
	Email              string    `json:"email"`
	ServiceType        string    `json:"service_type"`
	Date               string    `json:"date"`
	Time               string    `json:"time"`
	Status             string    `json:"status"`
	CancellationReason string    `json:"cancellation_reason,omitempty"`
	OccurredAt         time.Time `json:"occurred_at"`
}
