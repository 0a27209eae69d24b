//go:build integration

package main_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoCleeny/service-booking/internal/application"
	bookingDomain "github.com/GoCleeny/service-booking/internal/domain/booking"
	bookingEvents "github.com/GoCleeny/service-booking/internal/events"
	"github.com/GoCleeny/service-booking/pkg/domain"
)

func newBookingRequest(email string) application.CreateBookingRequest {
	return application.CreateBookingRequest{
		Name:        "John Doe",
		Email:       email,
		Phone:       "+44 7700 900123",
		ServiceType: "deep",
		Date:        "2025-04-25",
		Time:        "10:00",
	}
}

// TestOpsConfirmed_ConfirmsBooking verifies that an ops.booking.confirmed
// event moves a pending booking to confirmed and emits booking.confirmed.
func TestOpsConfirmed_ConfirmsBooking(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupBookingStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()
	defer func() { _ = stack.Consumer.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	created, err := stack.Service.CreateBooking(ctx, newBookingRequest("john@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "pending", created.Status)
	assert.Len(t, stack.Notifier.Messages(), 2)

	go func() { _ = stack.Consumer.Start(ctx) }()

	publishTestEvent(t, infra.KafkaBrokers,
		bookingEvents.TopicOpsEvents,
		"ops-console",
		bookingEvents.OpsBookingConfirmed,
		bookingEvents.OpsBookingEvent{BookingID: created.ID},
	)

	model := waitForBookingStatus(t, infra.DB, created.ID, "confirmed", 30*time.Second)
	assert.NotNil(t, model.ConfirmedAt)
	assert.Equal(t, int64(2), model.Version)

	ce := consumeOneEvent(t, infra.KafkaBrokers,
		application.TopicBookingEvents,
		application.EventBookingConfirmed,
		30*time.Second,
	)
	var payload application.BookingEvent
	require.NoError(t, ce.ParseData(&payload))
	assert.Equal(t, created.ID, payload.BookingID)
	assert.Equal(t, created.Reference, payload.Reference)
	assert.Equal(t, "confirmed", payload.Status)
}

// TestGormRepository_ConcurrentCancels verifies row locking lets exactly one
// of many concurrent cancellations win.
func TestGormRepository_ConcurrentCancels(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupBookingStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	ctx := context.Background()
	created, err := stack.Service.CreateBooking(ctx, newBookingRequest("jane@example.com"))
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := stack.Repo.Update(ctx, created.ID, func(b *bookingDomain.Booking) error {
				return b.Cancel("parallel")
			})
			if err == nil {
				succeeded.Add(1)
				return
			}
			assert.True(t, errors.Is(err, domain.ErrInvalidState), "unexpected error: %v", err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
	bk, err := stack.Repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, bookingDomain.StatusCancelled, bk.Status())
	assert.Equal(t, int64(2), bk.Version())
}

// TestGormRepository_Queries covers duplicate ids, email lookup and counts.
func TestGormRepository_Queries(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupBookingStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	ctx := context.Background()
	first, err := stack.Service.CreateBooking(ctx, newBookingRequest("Mixed@Example.com"))
	require.NoError(t, err)
	_, err = stack.Service.CreateBooking(ctx, newBookingRequest("mixed@example.com"))
	require.NoError(t, err)
	_, err = stack.Service.CancelBooking(ctx, first.ID, "")
	require.NoError(t, err)

	existing, err := stack.Repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	err = stack.Repo.Save(ctx, existing)
	var dup *domain.DuplicateIDError
	assert.True(t, errors.As(err, &dup), "expected duplicate id error, got %v", err)

	bookings, total, err := stack.Repo.FindByEmail(ctx, "MIXED@example.com", nil, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, bookings, 2)

	cancelled := bookingDomain.StatusCancelled
	bookings, total, err = stack.Repo.FindByEmail(ctx, "mixed@example.com", &cancelled, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, bookings, 1)
	assert.Equal(t, first.ID, bookings[0].ID())

	counts, err := stack.Repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts["pending"])
	assert.Equal(t, int64(1), counts["cancelled"])
}
