package booking

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoCleeny/service-booking/pkg/domain"
)

func validInput() Input {
	return Input{
		Contact:     Contact{Name: "John Doe", Email: "john@example.com", Phone: "+44 7700 900123"},
		ServiceType: "home",
		Date:        "2025-04-25",
		Time:        "09:00",
		Notes:       "Two cats, please close the doors",
	}
}

func TestNewBooking(t *testing.T) {
	bk, err := NewBooking(validInput())
	require.NoError(t, err)

	assert.NotEmpty(t, bk.ID())
	assert.Regexp(t, `^GC-[A-Z2-9]{6}$`, bk.Reference())
	assert.Equal(t, StatusPending, bk.Status())
	assert.Equal(t, ServiceHome, bk.ServiceType())
	assert.Equal(t, time.Date(2025, 4, 25, 0, 0, 0, 0, time.UTC), bk.Date())
	assert.Equal(t, TimeSlot("09:00"), bk.TimeSlot())
	assert.Equal(t, DefaultAddress, bk.Address())
	assert.Equal(t, "John Doe", bk.Contact().Name)
	assert.Equal(t, int64(1), bk.Version())
	assert.False(t, bk.CreatedAt().IsZero())
}

func TestNewBooking_TrimsContact(t *testing.T) {
	in := validInput()
	in.Contact.Email = "  john@example.com "
	bk, err := NewBooking(in)
	require.NoError(t, err)
	assert.Equal(t, "john@example.com", bk.Contact().Email)
}

func TestNewBooking_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
		fields []string
	}{
		{"missing service type", func(in *Input) { in.ServiceType = "" }, []string{"serviceType"}},
		{"unknown service type", func(in *Input) { in.ServiceType = "windows" }, []string{"serviceType"}},
		{"blank name", func(in *Input) { in.Contact.Name = "   " }, []string{"name"}},
		{"bad date", func(in *Input) { in.Date = "25/04/2025" }, []string{"date"}},
		{"slot outside hours", func(in *Input) { in.Time = "18:00" }, []string{"time"}},
		{"name too long", func(in *Input) { in.Contact.Name = strings.Repeat("a", 201) }, []string{"name"}},
		{"email too long", func(in *Input) { in.Contact.Email = strings.Repeat("e", 310) + "@example.com" }, []string{"email"}},
		{"phone too long", func(in *Input) { in.Contact.Phone = strings.Repeat("7", 51) }, []string{"phone"}},
		{"notes too long", func(in *Input) { in.Notes = strings.Repeat("n", MaxNotesLength+1) }, []string{"notes"}},
		{"everything missing", func(in *Input) { *in = Input{} }, []string{"name", "email", "phone", "serviceType", "date", "time"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			bk, err := NewBooking(in)
			assert.Nil(t, bk)
			require.Error(t, err)

			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.fields, ve.Fields)
		})
	}
}

func TestBooking_Cancel(t *testing.T) {
	bk, err := NewBooking(validInput())
	require.NoError(t, err)

	require.NoError(t, bk.Cancel("Schedule conflict"))
	assert.Equal(t, StatusCancelled, bk.Status())
	assert.Equal(t, "Schedule conflict", bk.CancellationReason())
	assert.NotNil(t, bk.CancelledAt())

	err = bk.Cancel("")
	assert.True(t, errors.Is(err, domain.ErrInvalidState))
	assert.Equal(t, "Schedule conflict", bk.CancellationReason())
}

func TestNewBooking_LengthLimitsCountCharacters(t *testing.T) {
	in := validInput()
	in.Contact.Name = strings.Repeat("é", 200)
	in.Notes = strings.Repeat("ü", MaxNotesLength)

	bk, err := NewBooking(in)
	require.NoError(t, err)
	assert.Equal(t, in.Notes, bk.Notes())
}

func TestBooking_CancelReasonTooLong(t *testing.T) {
	bk, err := NewBooking(validInput())
	require.NoError(t, err)

	err = bk.Cancel(strings.Repeat("r", MaxReasonLength+1))
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"reason"}, ve.Fields)
	assert.Equal(t, StatusPending, bk.Status())
	assert.Nil(t, bk.CancelledAt())

	require.NoError(t, bk.Cancel(strings.Repeat("r", MaxReasonLength)))
	assert.Equal(t, StatusCancelled, bk.Status())
}

func TestBooking_Reschedule(t *testing.T) {
	bk, err := NewBooking(validInput())
	require.NoError(t, err)
	id, created := bk.ID(), bk.CreatedAt()

	require.NoError(t, bk.Reschedule("2025-05-02", "14:00"))
	assert.Equal(t, time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC), bk.Date())
	assert.Equal(t, TimeSlot("14:00"), bk.TimeSlot())
	assert.Equal(t, id, bk.ID())
	assert.Equal(t, created, bk.CreatedAt())
	assert.Equal(t, StatusPending, bk.Status())

	err = bk.Reschedule("", "07:00")
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"date", "time"}, ve.Fields)
	assert.Equal(t, TimeSlot("14:00"), bk.TimeSlot())
}

func TestBooking_RescheduleTerminal(t *testing.T) {
	cancelled, err := NewBooking(validInput())
	require.NoError(t, err)
	require.NoError(t, cancelled.Cancel(""))
	assert.True(t, errors.Is(cancelled.Reschedule("2025-05-02", "14:00"), domain.ErrInvalidState))

	completed, err := NewBooking(validInput())
	require.NoError(t, err)
	require.NoError(t, completed.Confirm())
	require.NoError(t, completed.Complete())
	assert.True(t, errors.Is(completed.Reschedule("2025-05-02", "14:00"), domain.ErrInvalidState))
}

func TestBooking_ConfirmComplete(t *testing.T) {
	bk, err := NewBooking(validInput())
	require.NoError(t, err)

	assert.True(t, errors.Is(bk.Complete(), domain.ErrInvalidState), "pending cannot complete")

	require.NoError(t, bk.Confirm())
	assert.Equal(t, StatusConfirmed, bk.Status())
	assert.NotNil(t, bk.ConfirmedAt())

	require.NoError(t, bk.Complete())
	assert.Equal(t, StatusCompleted, bk.Status())
	assert.NotNil(t, bk.CompletedAt())

	assert.True(t, errors.Is(bk.Cancel("too late"), domain.ErrInvalidState))
	assert.True(t, errors.Is(bk.Confirm(), domain.ErrInvalidState))
}

func TestBooking_SnapshotRoundTrip(t *testing.T) {
	bk, err := NewBooking(validInput())
	require.NoError(t, err)
	require.NoError(t, bk.Cancel("No longer needed"))

	rebuilt := ReconstructBooking(bk.Snapshot())
	assert.Equal(t, bk.Snapshot(), rebuilt.Snapshot())
}
