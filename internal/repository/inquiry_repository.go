package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	inquiryDomain "github.com/GoCleeny/service-booking/internal/domain/inquiry"
	"github.com/GoCleeny/service-booking/pkg/domain"
)

// InquiryModel is the GORM model for the inquiries table.
type InquiryModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Kind      string          `gorm:"not null;size:30;index"`
	Name      string          `gorm:"not null;size:200"`
	Email     string          `gorm:"not null;size:320"`
	Phone     string          `gorm:"size:50"`
	Topic     string          `gorm:"not null;size:200"`
	Message   string          `gorm:"type:text"`
	Details   json.RawMessage `gorm:"type:jsonb;not null"`
	CreatedAt time.Time       `gorm:"not null"`
}

func (InquiryModel) TableName() string { return "inquiries" }

// GormInquiryRepository implements InquiryRepository using GORM.
type GormInquiryRepository struct {
	db *gorm.DB
}

func NewGormInquiryRepository(db *gorm.DB) *GormInquiryRepository {
	return &GormInquiryRepository{db: db}
}

func (r *GormInquiryRepository) Save(ctx context.Context, inq *inquiryDomain.Inquiry) error {
	model, err := toInquiryModel(inq)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewDuplicateIDError("Inquiry", inq.ID().String())
		}
		return fmt.Errorf("failed to save inquiry: %w", err)
	}
	return nil
}

func (r *GormInquiryRepository) FindByID(ctx context.Context, id uuid.UUID) (*inquiryDomain.Inquiry, error) {
	var model InquiryModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Inquiry", id.String())
		}
		return nil, fmt.Errorf("failed to find inquiry: %w", err)
	}
	return toInquiryDomain(&model)
}

func (r *GormInquiryRepository) List(ctx context.Context, kind *inquiryDomain.Kind, page, limit int) ([]*inquiryDomain.Inquiry, int64, error) {
	query := r.db.WithContext(ctx).Model(&InquiryModel{})
	if kind != nil {
		query = query.Where("kind = ?", string(*kind))
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count inquiries: %w", err)
	}

	var models []InquiryModel
	if err := query.
		Order("created_at DESC").
		Offset(domain.Offset(page, limit)).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list inquiries: %w", err)
	}

	inquiries := make([]*inquiryDomain.Inquiry, len(models))
	for i := range models {
		inq, err := toInquiryDomain(&models[i])
		if err != nil {
			return nil, 0, err
		}
		inquiries[i] = inq
	}
	return inquiries, total, nil
}

// --- Conversions ---

func toInquiryModel(inq *inquiryDomain.Inquiry) (*InquiryModel, error) {
	details, err := json.Marshal(inq.Details())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal inquiry details: %w", err)
	}
	return &InquiryModel{
		ID:        inq.ID(),
		Kind:      string(inq.Kind()),
		Name:      inq.Name(),
		Email:     inq.Email(),
		Phone:     inq.Phone(),
		Topic:     inq.Topic(),
		Message:   inq.Message(),
		Details:   details,
		CreatedAt: inq.CreatedAt(),
	}, nil
}

func toInquiryDomain(m *InquiryModel) (*inquiryDomain.Inquiry, error) {
	var details map[string]string
	if len(m.Details) > 0 {
		if err := json.Unmarshal(m.Details, &details); err != nil {
			return nil, fmt.Errorf("failed to unmarshal inquiry details: %w", err)
		}
	}
	return inquiryDomain.Reconstruct(
		m.ID,
		inquiryDomain.Kind(m.Kind),
		m.Name, m.Email, m.Phone, m.Topic, m.Message,
		details,
		m.CreatedAt,
	), nil
}

// MemoryInquiryRepository keeps inquiries in process memory.
type MemoryInquiryRepository struct {
	mu        sync.RWMutex
	inquiries []*inquiryDomain.Inquiry
}

func NewMemoryInquiryRepository() *MemoryInquiryRepository {
	return &MemoryInquiryRepository{}
}

func (r *MemoryInquiryRepository) Save(_ context.Context, inq *inquiryDomain.Inquiry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.inquiries {
		if existing.ID() == inq.ID() {
			return domain.NewDuplicateIDError("Inquiry", inq.ID().String())
		}
	}
	r.inquiries = append(r.inquiries, inq)
	return nil
}

func (r *MemoryInquiryRepository) FindByID(_ context.Context, id uuid.UUID) (*inquiryDomain.Inquiry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, inq := range r.inquiries {
		if inq.ID() == id {
			return inq, nil
		}
	}
	return nil, domain.NewNotFoundError("Inquiry", id.String())
}

func (r *MemoryInquiryRepository) List(_ context.Context, kind *inquiryDomain.Kind, page, limit int) ([]*inquiryDomain.Inquiry, int64, error) {
	r.mu.RLock()
	var matched []*inquiryDomain.Inquiry
	for _, inq := range r.inquiries {
		if kind == nil || inq.Kind() == *kind {
			matched = append(matched, inq)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt().After(matched[j].CreatedAt())
	})

	total := int64(len(matched))
	start := domain.Offset(page, limit)
	if start >= len(matched) {
		return []*inquiryDomain.Inquiry{}, total, nil
	}
	end := start + limit
	if limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}
