package booking

import (
	"context"

	"github.com/google/uuid"
)

// MutateFunc applies a change to a loaded booking. Returning an error aborts
// the update and leaves the stored record untouched.
type MutateFunc func(b *Booking) error

// BookingRepository defines the persistence contract for booking aggregates.
// Bookings are never deleted; cancelled bookings stay with status cancelled.
type BookingRepository interface {
	// Save inserts a new booking, failing with DuplicateIDError on id collision.
	Save(ctx context.Context, booking *Booking) error

	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// Update loads the booking, applies mutate and persists the result.
	// Concurrent updates of the same id are serialized.
	Update(ctx context.Context, id uuid.UUID, mutate MutateFunc) (*Booking, error)

	// FindByEmail retrieves a customer's bookings, optionally filtered by status.
	FindByEmail(ctx context.Context, email string, status *BookingStatus, page, limit int) ([]*Booking, int64, error)

	// ListAll retrieves all bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)
}
