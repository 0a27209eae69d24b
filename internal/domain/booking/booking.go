package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GoCleeny/service-booking/pkg/domain"
)

const referenceChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Free-text limits, matching the bookings table.
const (
	MaxNotesLength  = 2000
	MaxReasonLength = 500
)

// Booking is the aggregate root for the booking domain.
type Booking struct {
	id          uuid.UUID
	reference   string
	contact     Contact
	serviceType ServiceType
	date        time.Time
	timeSlot    TimeSlot
	notes       string
	address     string
	status      BookingStatus

	cancellationReason string
	cancelledAt        *time.Time
	confirmedAt        *time.Time
	completedAt        *time.Time

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// Input is the raw, boundary-sourced data for a new booking.
type Input struct {
	Contact     Contact
	ServiceType string
	Date        string
	Time        string
	Notes       string
}

// generateReference creates a customer-facing reference in the format "GC-XXXXXX".
func generateReference() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referenceChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking reference: %w", err)
		}
		result[i] = referenceChars[n.Int64()]
	}
	return "GC-" + string(result), nil
}

// NewBooking validates in and creates a pending Booking. Every missing or
// invalid field is reported in a single ValidationError.
func NewBooking(in Input) (*Booking, error) {
	contact := in.Contact.normalized()
	var invalid []string

	if contact.Name == "" || domain.ExceedsLength(contact.Name, domain.MaxNameLength) {
		invalid = append(invalid, "name")
	}
	if contact.Email == "" || domain.ExceedsLength(contact.Email, domain.MaxEmailLength) {
		invalid = append(invalid, "email")
	}
	if contact.Phone == "" || domain.ExceedsLength(contact.Phone, domain.MaxPhoneLength) {
		invalid = append(invalid, "phone")
	}

	serviceType := ServiceType(strings.TrimSpace(in.ServiceType))
	if !serviceType.IsValid() {
		invalid = append(invalid, "serviceType")
	}

	date, slot, scheduleInvalid := parseSchedule(in.Date, in.Time)
	invalid = append(invalid, scheduleInvalid...)

	notes := strings.TrimSpace(in.Notes)
	if domain.ExceedsLength(notes, MaxNotesLength) {
		invalid = append(invalid, "notes")
	}

	if len(invalid) > 0 {
		return nil, domain.NewFieldsError(invalid)
	}

	reference, err := generateReference()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Booking{
		id:          uuid.New(),
		reference:   reference,
		contact:     contact,
		serviceType: serviceType,
		date:        date,
		timeSlot:    slot,
		notes:       notes,
		address:     DefaultAddress,
		status:      StatusPending,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func parseSchedule(rawDate, rawTime string) (time.Time, TimeSlot, []string) {
	var invalid []string

	date, err := ParseDate(rawDate)
	if strings.TrimSpace(rawDate) == "" || err != nil {
		invalid = append(invalid, "date")
	}

	slot := TimeSlot(strings.TrimSpace(rawTime))
	if !slot.IsValid() {
		invalid = append(invalid, "time")
	}
	return date, slot, invalid
}

// Snapshot holds every persisted field of a Booking.
type Snapshot struct {
	ID                 uuid.UUID
	Reference          string
	Contact            Contact
	ServiceType        ServiceType
	Date               time.Time
	TimeSlot           TimeSlot
	Notes              string
	Address            string
	Status             BookingStatus
	CancellationReason string
	CancelledAt        *time.Time
	ConfirmedAt        *time.Time
	CompletedAt        *time.Time
	Version            int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(s Snapshot) *Booking {
	return &Booking{
		id:                 s.ID,
		reference:          s.Reference,
		contact:            s.Contact,
		serviceType:        s.ServiceType,
		date:               s.Date,
		timeSlot:           s.TimeSlot,
		notes:              s.Notes,
		address:            s.Address,
		status:             s.Status,
		cancellationReason: s.CancellationReason,
		cancelledAt:        s.CancelledAt,
		confirmedAt:        s.ConfirmedAt,
		completedAt:        s.CompletedAt,
		version:            s.Version,
		createdAt:          s.CreatedAt,
		updatedAt:          s.UpdatedAt,
	}
}

// Snapshot exports the booking's state for persistence.
func (b *Booking) Snapshot() Snapshot {
	return Snapshot{
		ID:                 b.id,
		Reference:          b.reference,
		Contact:            b.contact,
		ServiceType:        b.serviceType,
		Date:               b.date,
		TimeSlot:           b.timeSlot,
		Notes:              b.notes,
		Address:            b.address,
		Status:             b.status,
		CancellationReason: b.cancellationReason,
		CancelledAt:        copyTime(b.cancelledAt),
		ConfirmedAt:        copyTime(b.confirmedAt),
		CompletedAt:        copyTime(b.completedAt),
		Version:            b.version,
		CreatedAt:          b.createdAt,
		UpdatedAt:          b.updatedAt,
	}
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// Reference returns the human-readable booking reference.
func (b *Booking) Reference() string { return b.reference }

// Contact returns the customer's contact details.
func (b *Booking) Contact() Contact { return b.contact }

// ServiceType returns the requested cleaning service.
func (b *Booking) ServiceType() ServiceType { return b.serviceType }

// Date returns the scheduled civil date (UTC midnight).
func (b *Booking) Date() time.Time { return b.date }

// TimeSlot returns the scheduled start slot.
func (b *Booking) TimeSlot() TimeSlot { return b.timeSlot }

// Notes returns any additional notes for the booking.
func (b *Booking) Notes() string { return b.notes }

// Address returns the service address.
func (b *Booking) Address() string { return b.address }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// CancellationReason returns the reason given on cancellation.
func (b *Booking) CancellationReason() string { return b.cancellationReason }

// CancelledAt returns the time the booking was cancelled.
func (b *Booking) CancelledAt() *time.Time { return b.cancelledAt }

// ConfirmedAt returns the time operations confirmed the booking.
func (b *Booking) ConfirmedAt() *time.Time { return b.confirmedAt }

// CompletedAt returns the time the cleaning was completed.
func (b *Booking) CompletedAt() *time.Time { return b.completedAt }

// Version returns the number of persisted revisions.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// Reschedule moves a non-terminal booking to a new date and slot.
func (b *Booking) Reschedule(rawDate, rawTime string) error {
	if b.status.IsTerminal() {
		return domain.NewInvalidStateError(string(b.status), "rescheduled")
	}
	date, slot, invalid := parseSchedule(rawDate, rawTime)
	if len(invalid) > 0 {
		return domain.NewFieldsError(invalid)
	}
	b.date = date
	b.timeSlot = slot
	b.updatedAt = time.Now().UTC()
	return nil
}

// Confirm transitions the booking from pending to confirmed.
func (b *Booking) Confirm() error {
	if !b.status.CanTransitionTo(StatusConfirmed) {
		return domain.NewInvalidStateError(string(b.status), string(StatusConfirmed))
	}
	now := time.Now().UTC()
	b.status = StatusConfirmed
	b.confirmedAt = &now
	b.updatedAt = now
	return nil
}

// Complete transitions the booking from confirmed to completed.
func (b *Booking) Complete() error {
	if !b.status.CanTransitionTo(StatusCompleted) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCompleted))
	}
	now := time.Now().UTC()
	b.status = StatusCompleted
	b.completedAt = &now
	b.updatedAt = now
	return nil
}

// Cancel transitions the booking to cancelled if it is not in a terminal state.
func (b *Booking) Cancel(reason string) error {
	if !b.status.CanBeCancelled() {
		return domain.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	reason = strings.TrimSpace(reason)
	if domain.ExceedsLength(reason, MaxReasonLength) {
		return domain.NewValidationError(
			fmt.Sprintf("reason must be at most %d characters", MaxReasonLength), "reason")
	}
	now := time.Now().UTC()
	b.status = StatusCancelled
	b.cancellationReason = reason
	b.cancelledAt = &now
	b.updatedAt = now
	return nil
}

// IncrementVersion bumps the revision counter after a persisted change.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
