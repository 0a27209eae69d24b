package inquiry

import (
	"context"

	"github.com/google/uuid"
)

// InquiryRepository defines persistence operations for submitted inquiries.
type InquiryRepository interface {
	Save(ctx context.Context, inquiry *Inquiry) error
	FindByID(ctx context.Context, id uuid.UUID) (*Inquiry, error)
	// List returns inquiries newest first; a nil kind lists every kind.
	List(ctx context.Context, kind *Kind, page, limit int) ([]*Inquiry, int64, error)
}
