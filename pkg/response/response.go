package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GoCleeny/service-booking/pkg/domain"
)

// Envelope is the JSON body shape of every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

// Meta holds pagination metadata.
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// Success writes 200 with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes 201 with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Paginated writes 200 with a page of items and its metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    items,
		Meta:    &Meta{Total: total, Page: page, Limit: limit, TotalPages: totalPages},
	})
}

// BadRequest writes 400 with a message.
func BadRequest(c *gin.Context, message string) {
	abort(c, http.StatusBadRequest, ErrorBody{Code: "bad_request", Message: message})
}

// Unauthorized writes 401.
func Unauthorized(c *gin.Context, message string) {
	abort(c, http.StatusUnauthorized, ErrorBody{Code: "unauthorized", Message: message})
}

// Forbidden writes 403.
func Forbidden(c *gin.Context, message string) {
	abort(c, http.StatusForbidden, ErrorBody{Code: "forbidden", Message: message})
}

// TooManyRequests writes 429.
func TooManyRequests(c *gin.Context, message string) {
	abort(c, http.StatusTooManyRequests, ErrorBody{Code: "rate_limited", Message: message})
}

// Error maps a domain error onto its HTTP status. Unknown errors become 500
// without leaking their message.
func Error(c *gin.Context, err error) {
	status, body := classify(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	abort(c, status, body)
}

func classify(err error) (int, ErrorBody) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, ErrorBody{
			Code:    "validation_error",
			Message: validationErr.Message,
			Fields:  validationErr.Fields,
		}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, ErrorBody{Code: "not_found", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict, ErrorBody{Code: "invalid_state", Message: err.Error()}
	case errors.Is(err, domain.ErrDuplicateID):
		return http.StatusConflict, ErrorBody{Code: "duplicate_id", Message: err.Error()}
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, ErrorBody{Code: "conflict", Message: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, ErrorBody{Code: "forbidden", Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, ErrorBody{Code: "unauthorized", Message: err.Error()}
	default:
		return http.StatusInternalServerError, ErrorBody{Code: "internal_error", Message: "internal server error"}
	}
}

func abort(c *gin.Context, status int, body ErrorBody) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Error: &body})
}
