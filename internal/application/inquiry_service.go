package application

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	inquiryDomain "github.com/GoCleeny/service-booking/internal/domain/inquiry"
	"github.com/GoCleeny/service-booking/internal/notification"
	"github.com/GoCleeny/service-booking/pkg/domain"
)

// ContactRequest is a message from the contact form.
type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,oneof=general quote feedback support"`
	Message string `json:"message" validate:"required"`
}

// JobApplicationRequest is an application from the careers form.
type JobApplicationRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required"`
	Position   string `json:"position" validate:"required,oneof=cleaner team-leader customer-service other"`
	Experience string `json:"experience" validate:"required,oneof=0-1 1-3 3-5 5+"`
	Message    string `json:"message"`
	ResumeURL  string `json:"resume_url" validate:"omitempty,url"`
}

// FranchiseInquiryRequest is an inquiry from the franchise form.
type FranchiseInquiryRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required"`
	Location   string `json:"location" validate:"required"`
	Investment string `json:"investment" validate:"required,oneof=25k-50k 50k-75k 75k-100k 100k+"`
	Experience string `json:"experience" validate:"required,oneof=none some experienced cleaning"`
	Message    string `json:"message"`
}

// InquiryDTO is the response representation of an inquiry.
type InquiryDTO struct {
	ID        uuid.UUID         `json:"id"`
	Kind      string            `json:"kind"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone,omitempty"`
	Topic     string            `json:"topic"`
	Message   string            `json:"message,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// InquiryService stores public form submissions and notifies both sides.
type InquiryService struct {
	repo          inquiryDomain.InquiryRepository
	notifier      notification.Gateway
	operatorEmail string
	validate      *validator.Validate
	logger        *zap.Logger
}

// NewInquiryService creates a new InquiryService.
func NewInquiryService(
	repo inquiryDomain.InquiryRepository,
	notifier notification.Gateway,
	operatorEmail string,
	logger *zap.Logger,
) *InquiryService {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &InquiryService{
		repo:          repo,
		notifier:      notifier,
		operatorEmail: operatorEmail,
		validate:      v,
		logger:        logger,
	}
}

// SubmitContact records a contact form message.
func (s *InquiryService) SubmitContact(ctx context.Context, req ContactRequest) (*InquiryDTO, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	return s.submit(ctx, inquiryDomain.Input{
		Kind:    inquiryDomain.KindContact,
		Name:    req.Name,
		Email:   req.Email,
		Topic:   req.Subject,
		Message: req.Message,
	})
}

// SubmitJobApplication records a job application.
func (s *InquiryService) SubmitJobApplication(ctx context.Context, req JobApplicationRequest) (*InquiryDTO, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	details := map[string]string{"experience": req.Experience}
	if req.ResumeURL != "" {
		details["resume_url"] = req.ResumeURL
	}
	return s.submit(ctx, inquiryDomain.Input{
		Kind:    inquiryDomain.KindJobApplication,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Topic:   req.Position,
		Message: req.Message,
		Details: details,
	})
}

// SubmitFranchiseInquiry records a franchise inquiry.
func (s *InquiryService) SubmitFranchiseInquiry(ctx context.Context, req FranchiseInquiryRequest) (*InquiryDTO, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	return s.submit(ctx, inquiryDomain.Input{
		Kind:    inquiryDomain.KindFranchise,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Topic:   req.Location,
		Message: req.Message,
		Details: map[string]string{
			"investment": req.Investment,
			"experience": req.Experience,
		},
	})
}

// ListInquiries returns a page of inquiries, optionally of one kind (admin).
func (s *InquiryService) ListInquiries(ctx context.Context, kind *inquiryDomain.Kind, page, limit int) (*domain.PaginatedResult[InquiryDTO], error) {
	inquiries, total, err := s.repo.List(ctx, kind, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list inquiries: %w", err)
	}
	dtos := make([]InquiryDTO, len(inquiries))
	for i, inq := range inquiries {
		dtos[i] = toInquiryDTO(inq)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

func (s *InquiryService) submit(ctx context.Context, in inquiryDomain.Input) (*InquiryDTO, error) {
	inq, err := inquiryDomain.NewInquiry(in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, inq); err != nil {
		return nil, fmt.Errorf("failed to save inquiry: %w", err)
	}

	s.logger.Info("inquiry received",
		zap.String("inquiry_id", inq.ID().String()),
		zap.String("kind", string(inq.Kind())),
	)

	for _, msg := range notification.InquiryReceived(inq, s.operatorEmail) {
		if err := s.notifier.Send(ctx, msg); err != nil {
			s.logger.Error("failed to send notification",
				zap.String("inquiry_id", inq.ID().String()),
				zap.String("to", msg.To),
				zap.Error(err),
			)
		}
	}

	result := toInquiryDTO(inq)
	return &result, nil
}

// validateRequest runs struct validation and reports every failing field.
func (s *InquiryService) validateRequest(req interface{}) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate request: %w", err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return domain.NewFieldsError(fields)
}

func toInquiryDTO(inq *inquiryDomain.Inquiry) InquiryDTO {
	return InquiryDTO{
		ID:        inq.ID(),
		Kind:      string(inq.Kind()),
		Name:      inq.Name(),
		Email:     inq.Email(),
		Phone:     inq.Phone(),
		Topic:     inq.Topic(),
		Message:   inq.Message(),
		Details:   inq.Details(),
		CreatedAt: inq.CreatedAt(),
	}
}
