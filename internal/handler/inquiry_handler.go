package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/GoCleeny/service-booking/internal/application"
	"github.com/GoCleeny/service-booking/pkg/response"
)

// InquiryHandler handles the public contact, careers and franchise forms.
type InquiryHandler struct {
	service *application.InquiryService
}

// NewInquiryHandler creates a new InquiryHandler.
func NewInquiryHandler(service *application.InquiryService) *InquiryHandler {
	return &InquiryHandler{service: service}
}

// RegisterRoutes registers the public form routes. Every submission passes
// through writeLimit.
func (h *InquiryHandler) RegisterRoutes(r *gin.RouterGroup, writeLimit gin.HandlerFunc) {
	v1 := r.Group("/api/v1")
	{
		v1.POST("/contact", writeLimit, h.SubmitContact)
		v1.POST("/careers/applications", writeLimit, h.SubmitJobApplication)
		v1.POST("/franchise/inquiries", writeLimit, h.SubmitFranchiseInquiry)
	}
}

// SubmitContact handles POST /api/v1/contact.
func (h *InquiryHandler) SubmitContact(c *gin.Context) {
	var req application.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	result, err := h.service.SubmitContact(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// SubmitJobApplication handles POST /api/v1/careers/applications.
func (h *InquiryHandler) SubmitJobApplication(c *gin.Context) {
	var req application.JobApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	result, err := h.service.SubmitJobApplication(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// SubmitFranchiseInquiry handles POST /api/v1/franchise/inquiries.
func (h *InquiryHandler) SubmitFranchiseInquiry(c *gin.Context) {
	var req application.FranchiseInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	result, err := h.service.SubmitFranchiseInquiry(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
