package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	bookingDomain "github.com/GoCleeny/service-booking/internal/domain/booking"
	"github.com/GoCleeny/service-booking/pkg/domain"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Reference          string     `gorm:"uniqueIndex;not null;size:20"`
	Name               string     `gorm:"not null;size:200"`
	Email              string     `gorm:"not null;size:320;index"`
	Phone              string     `gorm:"not null;size:50"`
	ServiceType        string     `gorm:"not null;size:20"`
	ServiceDate        time.Time  `gorm:"type:date;not null"`
	TimeSlot           string     `gorm:"not null;size:5"`
	Notes              string     `gorm:"size:2000"`
	Address            string     `gorm:"not null;size:500"`
	Status             string     `gorm:"not null;size:20;index"`
	CancellationReason string     `gorm:"size:500"`
	CancelledAt        *time.Time
	ConfirmedAt        *time.Time
	CompletedAt        *time.Time
	Version            int64      `gorm:"not null;default:1"`
	CreatedAt          time.Time  `gorm:"not null"`
	UpdatedAt          time.Time  `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// Save inserts a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewDuplicateIDError("Booking", bk.ID().String())
		}
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// Update applies mutate to the booking while holding its row lock, so
// concurrent updates of the same id run one after another.
func (r *GormBookingRepository) Update(ctx context.Context, id uuid.UUID, mutate bookingDomain.MutateFunc) (*bookingDomain.Booking, error) {
	var updated *bookingDomain.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model BookingModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewNotFoundError("Booking", id.String())
			}
			return fmt.Errorf("failed to lock booking: %w", err)
		}

		bk, err := toDomainBooking(&model)
		if err != nil {
			return err
		}
		if err := mutate(bk); err != nil {
			return err
		}
		bk.IncrementVersion()

		next := toBookingModel(bk)
		if err := tx.Model(&BookingModel{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"service_date":        next.ServiceDate,
				"time_slot":           next.TimeSlot,
				"notes":               next.Notes,
				"address":             next.Address,
				"status":              next.Status,
				"cancellation_reason": next.CancellationReason,
				"cancelled_at":        next.CancelledAt,
				"confirmed_at":        next.ConfirmedAt,
				"completed_at":        next.CompletedAt,
				"version":             next.Version,
				"updated_at":          next.UpdatedAt,
			}).Error; err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}
		updated = bk
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// FindByEmail retrieves a customer's bookings, optionally filtered by status.
func (r *GormBookingRepository) FindByEmail(ctx context.Context, email string, status *bookingDomain.BookingStatus, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	query := r.db.WithContext(ctx).Model(&BookingModel{}).Where("LOWER(email) = LOWER(?)", email)
	if status != nil {
		query = query.Where("status = ?", string(*status))
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count customer bookings: %w", err)
	}

	var models []BookingModel
	if err := query.
		Order("created_at DESC").
		Offset(domain.Offset(page, limit)).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find customer bookings: %w", err)
	}

	bookings, err := toDomainBookings(models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(domain.Offset(page, limit)).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings, err := toDomainBookings(models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	s := bk.Snapshot()
	return &BookingModel{
		ID:                 s.ID,
		Reference:          s.Reference,
		Name:               s.Contact.Name,
		Email:              s.Contact.Email,
		Phone:              s.Contact.Phone,
		ServiceType:        string(s.ServiceType),
		ServiceDate:        s.Date,
		TimeSlot:           string(s.TimeSlot),
		Notes:              s.Notes,
		Address:            s.Address,
		Status:             string(s.Status),
		CancellationReason: s.CancellationReason,
		CancelledAt:        s.CancelledAt,
		ConfirmedAt:        s.ConfirmedAt,
		CompletedAt:        s.CompletedAt,
		Version:            s.Version,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}
	y, mo, d := m.ServiceDate.Date()

	return bookingDomain.ReconstructBooking(bookingDomain.Snapshot{
		ID:                 m.ID,
		Reference:          m.Reference,
		Contact:            bookingDomain.Contact{Name: m.Name, Email: m.Email, Phone: m.Phone},
		ServiceType:        bookingDomain.ServiceType(m.ServiceType),
		Date:               time.Date(y, mo, d, 0, 0, 0, 0, time.UTC),
		TimeSlot:           bookingDomain.TimeSlot(m.TimeSlot),
		Notes:              m.Notes,
		Address:            m.Address,
		Status:             status,
		CancellationReason: m.CancellationReason,
		CancelledAt:        m.CancelledAt,
		ConfirmedAt:        m.ConfirmedAt,
		CompletedAt:        m.CompletedAt,
		Version:            m.Version,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bk, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}
