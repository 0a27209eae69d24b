package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"validation", NewValidationError("bad"), ErrValidation},
		{"not found", NewNotFoundError("Booking", "x"), ErrNotFound},
		{"invalid state", NewInvalidStateError("cancelled", "cancelled"), ErrInvalidState},
		{"duplicate", NewDuplicateIDError("Booking", "x"), ErrDuplicateID},
		{"conflict", NewConflictError("stale"), ErrConflict},
		{"forbidden", NewForbiddenError("no"), ErrForbidden},
		{"unauthorized", NewUnauthorizedError("expired"), ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("op: %w", tt.err)
			assert.True(t, errors.Is(wrapped, tt.kind))
		})
	}
}

func TestNewFieldsError(t *testing.T) {
	err := NewFieldsError([]string{"email", "serviceType"})
	assert.Equal(t, "missing or invalid fields: email, serviceType", err.Error())
	assert.True(t, err.HasField("serviceType"))
	assert.False(t, err.HasField("name"))

	var ve *ValidationError
	assert.True(t, errors.As(fmt.Errorf("wrap: %w", err), &ve))
	assert.Equal(t, []string{"email", "serviceType"}, ve.Fields)
}

func TestNewPaginatedResult(t *testing.T) {
	r := NewPaginatedResult[int](nil, 45, 2, 20)
	assert.Equal(t, 3, r.TotalPages)
	assert.NotNil(t, r.Items)
	assert.Equal(t, 20, Offset(2, 20))
	assert.Equal(t, 0, Offset(0, 20))
}
