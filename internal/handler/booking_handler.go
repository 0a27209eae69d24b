package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/GoCleeny/service-booking/internal/application"
	bookingDomain "github.com/GoCleeny/service-booking/internal/domain/booking"
	"github.com/GoCleeny/service-booking/pkg/response"
)

// BookingHandler handles public HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all public booking routes on the given router
// group. writeLimit guards every mutating route.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, writeLimit gin.HandlerFunc) {
	r.GET("/api/v1/catalog", h.Catalog)

	bookings := r.Group("/api/v1/bookings")
	{
		bookings.POST("", writeLimit, h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.PATCH("/:id", writeLimit, h.ModifyBooking)
		bookings.POST("/:id/cancel", writeLimit, h.CancelBooking)
	}
}

// CatalogDTO lists the bookable services and time slots.
type CatalogDTO struct {
	Services  []ServiceDTO `json:"services"`
	TimeSlots []string     `json:"timeSlots"`
}

// ServiceDTO is a bookable cleaning service.
type ServiceDTO struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Catalog handles GET /api/v1/catalog.
func (h *BookingHandler) Catalog(c *gin.Context) {
	var catalog CatalogDTO
	for _, st := range bookingDomain.ServiceTypes() {
		catalog.Services = append(catalog.Services, ServiceDTO{Value: string(st), Label: st.DisplayName()})
	}
	for _, slot := range bookingDomain.TimeSlots() {
		catalog.TimeSlots = append(catalog.TimeSlots, slot.String())
	}
	response.Success(c, catalog)
}

// CreateBooking handles POST /api/v1/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListBookings handles GET /api/v1/bookings?email=&status=.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	var status *bookingDomain.BookingStatus
	if raw := c.Query("status"); raw != "" {
		parsed, err := bookingDomain.ParseBookingStatus(raw)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		status = &parsed
	}

	page, limit := parsePagination(c)
	result, err := h.service.GetCustomerBookings(c.Request.Context(), c.Query("email"), status, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID, ok := parseBookingID(c)
	if !ok {
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ModifyBooking handles PATCH /api/v1/bookings/:id.
func (h *BookingHandler) ModifyBooking(c *gin.Context) {
	bookingID, ok := parseBookingID(c)
	if !ok {
		return
	}

	var req application.ModifyBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.service.ModifyBooking(c.Request.Context(), bookingID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel. The body is optional.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	bookingID, ok := parseBookingID(c)
	if !ok {
		return
	}

	var req cancelRequest
	if c.Request.Body != nil && c.Request.Body != http.NoBody {
		// an empty body is allowed and means no reason
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			response.BadRequest(c, "invalid request body")
			return
		}
	}

	result, err := h.service.CancelBooking(c.Request.Context(), bookingID, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func parseBookingID(c *gin.Context) (uuid.UUID, bool) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return uuid.Nil, false
	}
	return bookingID, true
}

func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit
}
