package adminapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/SydneyWamalwa/customer-service-ai/internal/domain"
	store "github.com/SydneyWamalwa/customer-service-ai/internal/repository"
)

// GetApproval retrieves one approval request.
// GET /v1/approvals/:approval_id
func (h *Handler) GetApproval(c echo.Context) error {
	approvalID := c.Param("approval_id")

	ctx := c.Request().Context()

	approval, err := h.service.GetApproval(ctx, approvalID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "approval not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, approval)
}

// SubmitApprovalDecision records an operator decision on a pending approval.
// POST /v1/approvals/:approval_id/decide
func (h *Handler) SubmitApprovalDecision(c echo.Context) error {
	approvalID := c.Param("approval_id")
	var req domain.ApprovalDecisionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	ctx := c.Request().Context()

	approval, err := h.service.DecideApproval(ctx, approvalID, req)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "approval not found"})
		case errors.Is(err, store.ErrAlreadyDecided):
			return c.JSON(http.StatusConflict, map[string]string{"error": "approval already decided"})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
	}

	return c.JSON(http.StatusOK, approval)
}
