package inquiry

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GoCleeny/service-booking/pkg/domain"
)

// Kind distinguishes the public forms an inquiry can come from.
type Kind string

const (
	KindContact        Kind = "contact"
	KindJobApplication Kind = "job_application"
	KindFranchise      Kind = "franchise"
)

// IsValid returns true if k is a known inquiry kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindContact, KindJobApplication, KindFranchise:
		return true
	}
	return false
}

// ParseKind converts a string to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid inquiry kind: %s", s)
	}
	return k, nil
}

// MaxTopicLength bounds the subject, position or location of an inquiry.
const MaxTopicLength = 200

// Inquiry is the aggregate root for a submitted public form. Inquiries are
// insert-only.
type Inquiry struct {
	id        uuid.UUID
	kind      Kind
	name      string
	email     string
	phone     string
	topic     string
	message   string
	details   map[string]string
	createdAt time.Time
}

// Input carries the fields shared by every form. Topic is the subject of a
// contact message, the position of a job application or the location of a
// franchise inquiry. Details holds the remaining kind-specific answers.
type Input struct {
	Kind    Kind
	Name    string
	Email   string
	Phone   string
	Topic   string
	Message string
	Details map[string]string
}

// NewInquiry creates an inquiry after checking the fields every kind requires.
func NewInquiry(in Input) (*Inquiry, error) {
	if !in.Kind.IsValid() {
		return nil, domain.NewValidationError("invalid inquiry kind", "kind")
	}

	var invalid []string
	name := strings.TrimSpace(in.Name)
	if name == "" || domain.ExceedsLength(name, domain.MaxNameLength) {
		invalid = append(invalid, "name")
	}
	email := strings.TrimSpace(in.Email)
	if email == "" || domain.ExceedsLength(email, domain.MaxEmailLength) {
		invalid = append(invalid, "email")
	}
	phone := strings.TrimSpace(in.Phone)
	if domain.ExceedsLength(phone, domain.MaxPhoneLength) {
		invalid = append(invalid, "phone")
	}
	topic := strings.TrimSpace(in.Topic)
	if topic == "" || domain.ExceedsLength(topic, MaxTopicLength) {
		invalid = append(invalid, topicField(in.Kind))
	}
	if len(invalid) > 0 {
		return nil, domain.NewFieldsError(invalid)
	}

	return &Inquiry{
		id:        uuid.New(),
		kind:      in.Kind,
		name:      name,
		email:     email,
		phone:     phone,
		topic:     topic,
		message:   strings.TrimSpace(in.Message),
		details:   copyDetails(in.Details),
		createdAt: time.Now().UTC(),
	}, nil
}

func topicField(k Kind) string {
	switch k {
	case KindJobApplication:
		return "position"
	case KindFranchise:
		return "location"
	default:
		return "subject"
	}
}

// Reconstruct rebuilds an Inquiry from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	kind Kind,
	name, email, phone, topic, message string,
	details map[string]string,
	createdAt time.Time,
) *Inquiry {
	return &Inquiry{
		id:        id,
		kind:      kind,
		name:      name,
		email:     email,
		phone:     phone,
		topic:     topic,
		message:   message,
		details:   copyDetails(details),
		createdAt: createdAt,
	}
}

func copyDetails(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// --- Getters ---

func (i *Inquiry) ID() uuid.UUID        { return i.id }
func (i *Inquiry) Kind() Kind           { return i.kind }
func (i *Inquiry) Name() string         { return i.name }
func (i *Inquiry) Email() string        { return i.email }
func (i *Inquiry) Phone() string        { return i.phone }
func (i *Inquiry) Topic() string        { return i.topic }
func (i *Inquiry) Message() string      { return i.message }
func (i *Inquiry) CreatedAt() time.Time { return i.createdAt }

// Details returns a copy of the kind-specific answers.
func (i *Inquiry) Details() map[string]string { return copyDetails(i.details) }

// Detail returns a single kind-specific answer, or "" when absent.
func (i *Inquiry) Detail(key string) string { return i.details[key] }
