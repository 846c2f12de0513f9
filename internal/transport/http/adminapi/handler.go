// Package adminapi provides HTTP handlers for operator-facing APIs.
// These APIs sit behind the admin listener and are not exposed to customers.
package adminapi

import (
	"github.com/labstack/echo/v4"

	"github.com/SydneyWamalwa/customer-service-ai/internal/service"
)

// Handler handles admin HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new admin API handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers admin routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Approvals
	e.GET("/v1/approvals/:approval_id", h.GetApproval)
	e.POST("/v1/approvals/:approval_id/decide", h.SubmitApprovalDecision)

	// Knowledge base
	e.POST("/v1/knowledge", h.AddKnowledge)
	e.DELETE("/v1/knowledge/:id", h.DeleteKnowledge)
}
