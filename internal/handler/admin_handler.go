package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/GoCleeny/service-booking/internal/application"
	inquiryDomain "github.com/GoCleeny/service-booking/internal/domain/inquiry"
	"github.com/GoCleeny/service-booking/pkg/auth"
	"github.com/GoCleeny/service-booking/pkg/middleware"
	"github.com/GoCleeny/service-booking/pkg/response"
)

// AdminHandler handles staff and admin HTTP requests.
type AdminHandler struct {
	bookings  *application.BookingService
	inquiries *application.InquiryService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(bookings *application.BookingService, inquiries *application.InquiryService) *AdminHandler {
	return &AdminHandler{bookings: bookings, inquiries: inquiries}
}

// RegisterRoutes registers staff and admin routes behind JWT auth.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	staffRole := middleware.RequireRole(auth.RoleStaff, auth.RoleAdmin)
	adminRole := middleware.RequireRole(auth.RoleAdmin)

	admin := r.Group("/api/v1/admin")
	admin.Use(authMW)
	{
		admin.POST("/bookings/:id/confirm", staffRole, h.ConfirmBooking)
		admin.POST("/bookings/:id/complete", staffRole, h.CompleteBooking)

		admin.GET("/bookings", adminRole, h.ListBookings)
		admin.GET("/stats/bookings", adminRole, h.BookingStats)
		admin.GET("/inquiries", adminRole, h.ListInquiries)
	}
}

// ConfirmBooking handles POST /api/v1/admin/bookings/:id/confirm.
func (h *AdminHandler) ConfirmBooking(c *gin.Context) {
	bookingID, ok := parseBookingID(c)
	if !ok {
		return
	}
	result, err := h.bookings.ConfirmBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CompleteBooking handles POST /api/v1/admin/bookings/:id/complete.
func (h *AdminHandler) CompleteBooking(c *gin.Context) {
	bookingID, ok := parseBookingID(c)
	if !ok {
		return
	}
	result, err := h.bookings.CompleteBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListBookings handles GET /api/v1/admin/bookings.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	page, limit := parsePagination(c)

	bookings, total, err := h.bookings.ListAllBookings(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, bookings, total, page, limit)
}

// BookingStats handles GET /api/v1/admin/stats/bookings.
func (h *AdminHandler) BookingStats(c *gin.Context) {
	stats, err := h.bookings.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}

// ListInquiries handles GET /api/v1/admin/inquiries?kind=.
func (h *AdminHandler) ListInquiries(c *gin.Context) {
	var kind *inquiryDomain.Kind
	if raw := c.Query("kind"); raw != "" {
		parsed, err := inquiryDomain.ParseKind(raw)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		kind = &parsed
	}

	page, limit := parsePagination(c)
	result, err := h.inquiries.ListInquiries(c.Request.Context(), kind, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}
