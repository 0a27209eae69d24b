package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/GoCleeny/service-booking/internal/domain/booking"
	"github.com/GoCleeny/service-booking/internal/notification"
	"github.com/GoCleeny/service-booking/pkg/domain"
	"github.com/GoCleeny/service-booking/pkg/kafka"
)

// CreateBookingRequest holds the data needed to create a new booking.
// Required fields are checked by the aggregate so every missing field is
// reported together.
type CreateBookingRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	ServiceType string `json:"serviceType"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Notes       string `json:"notes"`
}

// ModifyBookingRequest holds a new date and time slot for a booking.
type ModifyBookingRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID                 uuid.UUID  `json:"id"`
	Reference          string     `json:"reference"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	Phone              string     `json:"phone"`
	ServiceType        string     `json:"serviceType"`
	ServiceName        string     `json:"serviceName"`
	Date               string     `json:"date"`
	Time               string     `json:"time"`
	Notes              string     `json:"notes,omitempty"`
	Address            string     `json:"address"`
	Status             string     `json:"status"`
	CancellationReason string     `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	ConfirmedAt        *time.Time `json:"confirmedAt,omitempty"`
	CompletedAt        *time.Time `json:"completedAt,omitempty"`
	Version            int64      `json:"version"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// BookingStatsDTO holds aggregate booking statistics.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// BookingService is the application service orchestrating booking use cases.
// Store changes are authoritative: notification and event failures are
// logged and never undo a successful mutation.
type BookingService struct {
	repo          bookingDomain.BookingRepository
	notifier      notification.Gateway
	publisher     EventPublisher
	operatorEmail string
	logger        *zap.Logger
}

// NewBookingService creates a new BookingService. publisher may be nil when
// event streaming is disabled.
func NewBookingService(
	repo bookingDomain.BookingRepository,
	notifier notification.Gateway,
	publisher EventPublisher,
	operatorEmail string,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:          repo,
		notifier:      notifier,
		publisher:     publisher,
		operatorEmail: operatorEmail,
		logger:        logger,
	}
}

// CreateBooking validates and stores a new pending booking, then notifies
// the customer and the operator.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*BookingDTO, error) {
	bk, err := bookingDomain.NewBooking(bookingDomain.Input{
		Contact: bookingDomain.Contact{
			Name:  req.Name,
			Email: req.Email,
			Phone: req.Phone,
		},
		ServiceType: req.ServiceType,
		Date:        req.Date,
		Time:        req.Time,
		Notes:       req.Notes,
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	s.logger.Info("booking created",
		zap.String("booking_id", bk.ID().String()),
		zap.String("reference", bk.Reference()),
		zap.String("service_type", string(bk.ServiceType())),
	)

	s.notify(ctx, bk, notification.BookingCreated(bk, s.operatorEmail)...)
	s.publishBookingEvent(ctx, EventBookingCreated, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// ModifyBooking moves a booking to a new date and time slot.
func (s *BookingService) ModifyBooking(ctx context.Context, bookingID uuid.UUID, req ModifyBookingRequest) (*BookingDTO, error) {
	bk, err := s.repo.Update(ctx, bookingID, func(b *bookingDomain.Booking) error {
		return b.Reschedule(req.Date, req.Time)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking rescheduled",
		zap.String("booking_id", bookingID.String()),
		zap.String("date", bk.Date().Format(bookingDomain.DateLayout)),
		zap.String("time", bk.TimeSlot().String()),
	)

	s.notify(ctx, bk, notification.BookingRescheduled(bk))
	s.publishBookingEvent(ctx, EventBookingRescheduled, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// CancelBooking cancels a pending or confirmed booking. Cancelling twice fails.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID uuid.UUID, reason string) (*BookingDTO, error) {
	bk, err := s.repo.Update(ctx, bookingID, func(b *bookingDomain.Booking) error {
		return b.Cancel(reason)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking cancelled",
		zap.String("booking_id", bookingID.String()),
		zap.String("reason", bk.CancellationReason()),
	)

	s.notify(ctx, bk, notification.BookingCancelled(bk))
	s.publishBookingEvent(ctx, EventBookingCancelled, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// ConfirmBooking marks a pending booking as accepted by operations.
func (s *BookingService) ConfirmBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.Update(ctx, bookingID, func(b *bookingDomain.Booking) error {
		return b.Confirm()
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking confirmed", zap.String("booking_id", bookingID.String()))

	s.notify(ctx, bk, notification.BookingConfirmed(bk))
	s.publishBookingEvent(ctx, EventBookingConfirmed, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// CompleteBooking marks a confirmed booking as cleaned.
func (s *BookingService) CompleteBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.Update(ctx, bookingID, func(b *bookingDomain.Booking) error {
		return b.Complete()
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking completed", zap.String("booking_id", bookingID.String()))
	s.publishBookingEvent(ctx, EventBookingCompleted, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking retrieves a single booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// GetCustomerBookings retrieves paginated bookings made with the given email.
func (s *BookingService) GetCustomerBookings(ctx context.Context, email string, status *bookingDomain.BookingStatus, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, domain.NewValidationError("email is required", "email")
	}
	bookings, total, err := s.repo.FindByEmail(ctx, email, status, page, limit)
	if err != nil {
		return nil, err
	}

	result := domain.NewPaginatedResult(toBookingDTOs(bookings), total, page, limit)
	return &result, nil
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	return toBookingDTOs(bookings), total, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
	}, nil
}

// --- Helpers ---

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	c := bk.Contact()
	return BookingDTO{
		ID:                 bk.ID(),
		Reference:          bk.Reference(),
		Name:               c.Name,
		Email:              c.Email,
		Phone:              c.Phone,
		ServiceType:        string(bk.ServiceType()),
		ServiceName:        bk.ServiceType().DisplayName(),
		Date:               bk.Date().Format(bookingDomain.DateLayout),
		Time:               bk.TimeSlot().String(),
		Notes:              bk.Notes(),
		Address:            bk.Address(),
		Status:             string(bk.Status()),
		CancellationReason: bk.CancellationReason(),
		CancelledAt:        bk.CancelledAt(),
		ConfirmedAt:        bk.ConfirmedAt(),
		CompletedAt:        bk.CompletedAt(),
		Version:            bk.Version(),
		CreatedAt:          bk.CreatedAt(),
		UpdatedAt:          bk.UpdatedAt(),
	}
}

func toBookingDTOs(bookings []*bookingDomain.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos
}

func (s *BookingService) notify(ctx context.Context, bk *bookingDomain.Booking, msgs ...notification.Message) {
	for _, msg := range msgs {
		if err := s.notifier.Send(ctx, msg); err != nil {
			s.logger.Error("failed to send notification",
				zap.String("booking_id", bk.ID().String()),
				zap.String("to", msg.To),
				zap.String("subject", msg.Subject),
				zap.Error(err),
			)
		}
	}
}

func (s *BookingService) publishBookingEvent(ctx context.Context, eventType string, bk *bookingDomain.Booking) {
	evt := BookingEvent{
		BookingID:          bk.ID(),
		Reference:          bk.Reference(),
		Email:              bk.Contact().Email,
		ServiceType:        string(bk.ServiceType()),
		Date:               bk.Date().Format(bookingDomain.DateLayout),
		Time:               bk.TimeSlot().String(),
		Status:             string(bk.Status()),
		CancellationReason: bk.CancellationReason(),
		OccurredAt:         time.Now().UTC(),
	}
	s.publishEvent(ctx, TopicBookingEvents, eventType, bk.ID().String(), evt)
}

func (s *BookingService) publishEvent(ctx context.Context, topic, eventType, subject string, data interface{}) {
	if s.publisher == nil {
		return
	}

	cloudEvent, err := kafka.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	cloudEvent.Subject = subject

	if err := s.publisher.PublishEvent(ctx, topic, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
