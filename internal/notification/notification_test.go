package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GoCleeny/service-booking/internal/domain/booking"
	"github.com/GoCleeny/service-booking/internal/domain/inquiry"
)

func newBooking(t *testing.T) *booking.Booking {
	t.Helper()
	b, err := booking.NewBooking(booking.Input{
		Contact:     booking.Contact{Name: "John Doe", Email: "john@example.com", Phone: "0123"},
		ServiceType: "home",
		Date:        "2025-04-25",
		Time:        "09:00",
	})
	require.NoError(t, err)
	return b
}

func TestBookingCreated(t *testing.T) {
	msgs := BookingCreated(newBooking(t), "ops@gocleeny.test")
	require.Len(t, msgs, 2)

	assert.Equal(t, "john@example.com", msgs[0].To)
	assert.Equal(t, "Booking Confirmation - GoCleeny", msgs[0].Subject)
	assert.Equal(t, "Thank you for booking with GoCleeny. Your home cleaning is scheduled for 25 April 2025 at 09:00.", msgs[0].Body)

	assert.Equal(t, "ops@gocleeny.test", msgs[1].To)
	assert.Equal(t, "New Booking Received", msgs[1].Subject)
	assert.Contains(t, msgs[1].Body, "John Doe (john@example.com)")
}

func TestBookingCancelled(t *testing.T) {
	b := newBooking(t)
	require.NoError(t, b.Cancel("Schedule conflict"))
	msg := BookingCancelled(b)
	assert.Equal(t, "Booking Cancellation - GoCleeny", msg.Subject)
	assert.Equal(t, "Your booking has been cancelled. Reason: Schedule conflict", msg.Body)

	other := newBooking(t)
	require.NoError(t, other.Cancel(""))
	assert.Equal(t, "Your booking has been cancelled.", BookingCancelled(other).Body)
}

func TestBookingRescheduled(t *testing.T) {
	b := newBooking(t)
	require.NoError(t, b.Reschedule("2025-05-02", "14:00"))
	msg := BookingRescheduled(b)
	assert.Equal(t, "Booking Update - GoCleeny", msg.Subject)
	assert.Contains(t, msg.Body, "2 May 2025 at 14:00")
}

func TestInquiryReceived(t *testing.T) {
	inq, err := inquiry.NewInquiry(inquiry.Input{
		Kind:    inquiry.KindJobApplication,
		Name:    "Jane",
		Email:   "jane@example.com",
		Phone:   "0456",
		Topic:   "cleaner",
		Details: map[string]string{"experience": "1-3"},
	})
	require.NoError(t, err)

	msgs := InquiryReceived(inq, "ops@gocleeny.test")
	require.Len(t, msgs, 2)
	assert.Equal(t, "New Job Application: cleaner", msgs[0].Subject)
	assert.Contains(t, msgs[0].Body, "Resume: Not provided")
	assert.Equal(t, "jane@example.com", msgs[1].To)
	assert.Equal(t, "Application Received - GoCleeny", msgs[1].Subject)
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	require.NoError(t, r.Send(context.Background(), Message{To: "a"}))

	r.SetFail(true)
	err := r.Send(context.Background(), Message{To: "b"})
	assert.True(t, errors.Is(err, ErrDeliveryFailed))
	assert.Len(t, r.Messages(), 2)

	r.Reset()
	assert.Empty(t, r.Messages())
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Type: task.Type()}, nil
}

func TestQueueGateway_Send(t *testing.T) {
	q := &fakeEnqueuer{}
	g := &QueueGateway{client: q, logger: zap.NewNop()}

	msg := Message{To: "john@example.com", Subject: "s", Body: "b"}
	require.NoError(t, g.Send(context.Background(), msg))
	require.Len(t, q.tasks, 1)
	assert.Equal(t, TypeEmailSend, q.tasks[0].Type())

	var got Message
	require.NoError(t, json.Unmarshal(q.tasks[0].Payload(), &got))
	assert.Equal(t, msg, got)

	q.err = errors.New("redis down")
	assert.Error(t, g.Send(context.Background(), msg))
}

func TestWorker_HandleEmailTask(t *testing.T) {
	rec := NewRecorder()
	w := &Worker{downstream: rec, logger: zap.NewNop()}

	task, err := NewEmailTask(Message{To: "john@example.com", Subject: "hello"})
	require.NoError(t, err)
	require.NoError(t, w.HandleEmailTask(context.Background(), task))
	assert.Equal(t, "hello", rec.Messages()[0].Subject)

	err = w.HandleEmailTask(context.Background(), asynq.NewTask(TypeEmailSend, []byte("{")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))

	rec.SetFail(true)
	assert.Error(t, w.HandleEmailTask(context.Background(), task))
}
