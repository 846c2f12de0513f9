package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/SydneyWamalwa/customer-service-ai/internal/domain"
	"github.com/SydneyWamalwa/customer-service-ai/internal/knowledge"
)

// AddKnowledge ingests one document into the tenant's knowledge
// namespace and returns its id.
func (s *Service) AddKnowledge(ctx context.Context, req domain.KnowledgeUpsertRequest) (string, error) {
	if req.TenantID == "" {
		return "", fmt.Errorf("%w: tenant_id is required", ErrValidation)
	}
	if strings.TrimSpace(req.Text) == "" {
		return "", fmt.Errorf("%w: text is required", ErrValidation)
	}

	metadata := map[string]string{"tenant_id": req.TenantID}
	for k, v := range req.Metadata {
		metadata[k] = v
	}
	id, err := s.retriever.Store(ctx, req.Text, metadata, knowledge.KBNamespace(req.TenantID))
	if err != nil {
		return "", fmt.Errorf("failed to store knowledge item: %w", err)
	}
	s.logger.WithField("knowledge_id", id).WithField("tenant_id", req.TenantID).Info("knowledge item added")
	return id, nil
}

// DeleteKnowledge removes a document from the tenant's knowledge
// namespace.
func (s *Service) DeleteKnowledge(ctx context.Context, tenantID, id string) error {
	if tenantID == "" {
		return fmt.Errorf("%w: tenant_id is required", ErrValidation)
	}
	if id == "" {
		return fmt.Errorf("%w: id is required", ErrValidation)
	}
	if err := s.retriever.Delete(ctx, id, knowledge.KBNamespace(tenantID)); err != nil {
		return fmt.Errorf("failed to delete knowledge item: %w", err)
	}
	return nil
}

// SessionMessages returns the retained transcript for a session, oldest
// first.
func (s *Service) SessionMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	if limit <= 0 || limit > s.config.HistoryCap {
		limit = s.config.HistoryCap
	}
	return s.sessions.History(ctx, sessionID, limit)
}
