package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	bookingDomain "github.com/GoCleeny/service-booking/internal/domain/booking"
	"github.com/GoCleeny/service-booking/pkg/domain"
)

// MemoryBookingRepository keeps bookings in process memory. Stored values are
// snapshots, so callers never share state with the store.
type MemoryBookingRepository struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]bookingDomain.Snapshot
}

// NewMemoryBookingRepository creates an empty in-memory booking store.
func NewMemoryBookingRepository() *MemoryBookingRepository {
	return &MemoryBookingRepository{bookings: make(map[uuid.UUID]bookingDomain.Snapshot)}
}

// Save inserts a new booking.
func (r *MemoryBookingRepository) Save(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.bookings[bk.ID()]; exists {
		return domain.NewDuplicateIDError("Booking", bk.ID().String())
	}
	r.bookings[bk.ID()] = bk.Snapshot()
	return nil
}

// FindByID retrieves a booking by its unique identifier.
func (r *MemoryBookingRepository) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return bookingDomain.ReconstructBooking(s), nil
}

// Update applies mutate under the store lock. On error nothing is written.
func (r *MemoryBookingRepository) Update(_ context.Context, id uuid.UUID, mutate bookingDomain.MutateFunc) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}

	bk := bookingDomain.ReconstructBooking(s)
	if err := mutate(bk); err != nil {
		return nil, err
	}
	bk.IncrementVersion()
	r.bookings[id] = bk.Snapshot()
	return bookingDomain.ReconstructBooking(bk.Snapshot()), nil
}

// FindByEmail retrieves a customer's bookings, optionally filtered by status.
func (r *MemoryBookingRepository) FindByEmail(_ context.Context, email string, status *bookingDomain.BookingStatus, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.page(func(s bookingDomain.Snapshot) bool {
		if !strings.EqualFold(s.Contact.Email, email) {
			return false
		}
		return status == nil || s.Status == *status
	}, page, limit)
}

// ListAll retrieves all bookings with pagination.
func (r *MemoryBookingRepository) ListAll(_ context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.page(func(bookingDomain.Snapshot) bool { return true }, page, limit)
}

// CountByStatus returns booking counts grouped by status.
func (r *MemoryBookingRepository) CountByStatus(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, s := range r.bookings {
		counts[string(s.Status)]++
	}
	return counts, nil
}

// page must be called with r.mu held.
func (r *MemoryBookingRepository) page(match func(bookingDomain.Snapshot) bool, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var matched []bookingDomain.Snapshot
	for _, s := range r.bookings {
		if match(s) {
			matched = append(matched, s)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := domain.Offset(page, limit)
	if start >= len(matched) {
		return []*bookingDomain.Booking{}, total, nil
	}
	end := start + limit
	if limit <= 0 || end > len(matched) {
		end = len(matched)
	}

	out := make([]*bookingDomain.Booking, 0, end-start)
	for _, s := range matched[start:end] {
		out = append(out, bookingDomain.ReconstructBooking(s))
	}
	return out, total, nil
}
