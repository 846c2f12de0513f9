package adminapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/SydneyWamalwa/customer-service-ai/internal/domain"
	"github.com/SydneyWamalwa/customer-service-ai/internal/service"
)

// AddKnowledge ingests one knowledge item.
// POST /v1/knowledge
func (h *Handler) AddKnowledge(c echo.Context) error {
	var req domain.KnowledgeUpsertRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	ctx := c.Request().Context()

	id, err := h.service.AddKnowledge(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, map[string]string{"id": id})
}

// DeleteKnowledge removes one knowledge item.
// DELETE /v1/knowledge/:id
func (h *Handler) DeleteKnowledge(c echo.Context) error {
	id := c.Param("id")
	tenantID := c.QueryParam("tenant_id")

	ctx := c.Request().Context()

	if err := h.service.DeleteKnowledge(ctx, tenantID, id); err != nil {
		if errors.Is(err, service.ErrValidation) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}
