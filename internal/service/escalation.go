package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/SydneyWamalwa/customer-service-ai/internal/domain"
	"github.com/SydneyWamalwa/customer-service-ai/internal/metrics"
	store "github.com/SydneyWamalwa/customer-service-ai/internal/repository"
	"github.com/SydneyWamalwa/customer-service-ai/policy"
)

// humanKeywords are explicit requests for a human agent.
var humanKeywords = []string{
	"speak to a human",
	"talk to a human",
	"real person",
	"human agent",
	"speak to an agent",
	"talk to someone",
	"customer representative",
}

// frustrationWords signal a conversation going badly.
var frustrationWords = []string{
	"frustrated",
	"angry",
	"ridiculous",
	"useless",
	"terrible",
	"worst",
	"fed up",
	"unacceptable",
}

// recentTurnWindow bounds how far back frustration is counted.
const recentTurnWindow = 6

// ShouldEscalate decides whether a message needs human handoff. Any one
// trigger suffices.
func (s *Service) ShouldEscalate(ctx context.Context, message string, history []domain.Message, cfg tenantRules) bool {
	lower := strings.ToLower(message)

	for _, kw := range humanKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	if len(message) > s.config.EscalationLength {
		return true
	}
	if strings.Count(message, "?") >= 3 {
		return true
	}
	if countFrustratedTurns(message, history) >= 3 {
		return true
	}
	return s.RequiresApproval(ctx, message, cfg)
}

func countFrustratedTurns(message string, history []domain.Message) int {
	recent := history
	if len(recent) > recentTurnWindow {
		recent = recent[len(recent)-recentTurnWindow:]
	}

	count := 0
	for _, msg := range recent {
		if msg.Role == domain.RoleUser && containsAny(strings.ToLower(msg.Content), frustrationWords) {
			count++
		}
	}
	if containsAny(strings.ToLower(message), frustrationWords) {
		count++
	}
	return count
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// tenantRules carries the tenant-supplied approval regex rules.
type tenantRules struct {
	ApprovalRules []string
}

// RequiresApproval evaluates the message against the approval policy:
// the platform high-risk keyword set plus the tenant's regex rules.
// Policy evaluation errors degrade to no-approval so the chat path
// never hard-fails on a bad rule.
func (s *Service) RequiresApproval(ctx context.Context, message string, rules tenantRules) bool {
	decision, err := s.policyEngine.Evaluate(ctx, policy.Input{
		Message: message,
		Rules:   rules.ApprovalRules,
	})
	if err != nil {
		s.logger.WithError(err).Warn("approval policy evaluation failed")
		return false
	}
	return decision == string(domain.PolicyDecisionRequireApproval)
}

// CreateApprovalRequest records a pending approval for an action. It is
// idempotent per session: an unresolved prior request is returned instead
// of creating a duplicate.
func (s *Service) CreateApprovalRequest(ctx context.Context, action, tenantID, userID, sessionID string) (*domain.ApprovalRequest, error) {
	existing, err := s.store.GetPendingApprovalBySession(ctx, sessionID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to check pending approvals: %w", err)
	}

	now := time.Now()
	approval := &domain.ApprovalRequest{
		ApprovalID: "ap_" + uuid.New().String()[:8],
		TenantID:   tenantID,
		SessionID:  sessionID,
		UserID:     userID,
		Action:     action,
		Status:     domain.ApprovalStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.CreateApproval(ctx, approval); err != nil {
		return nil, fmt.Errorf("failed to create approval: %w", err)
	}

	// Notification is best-effort; a failed webhook never blocks the record.
	if url := s.tenants.Get(tenantID).ApprovalWebhookURL; url != "" {
		s.notifyApproval(ctx, url, approval)
	}

	return approval, nil
}

func (s *Service) notifyApproval(ctx context.Context, url string, approval *domain.ApprovalRequest) {
	payload, err := json.Marshal(approval)
	if err != nil {
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		s.logger.WithError(err).Warn("failed to build approval notification")
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-Id", approval.TenantID)

	resp, err := s.notifyClient.Do(req)
	if err != nil {
		s.logger.WithError(err).WithField("approval_id", approval.ApprovalID).Warn("approval notification failed")
		return
	}
	resp.Body.Close()
}

// DecideApproval performs the single terminal transition on an approval.
// Unknown ids and already-decided approvals surface as validation errors.
func (s *Service) DecideApproval(ctx context.Context, approvalID string, req domain.ApprovalDecisionRequest) (*domain.ApprovalRequest, error) {
	status := domain.ApprovalStatusRejected
	if req.Approved {
		status = domain.ApprovalStatusApproved
	}

	approval, err := s.store.DecideApproval(ctx, approvalID, status, req.DecidedBy, req.Notes)
	if err != nil {
		return nil, err
	}

	metrics.ApprovalDecisions.WithLabelValues(string(status)).Inc()
	s.logger.WithFields(logrus.Fields{
		"approval_id": approvalID,
		"status":      status,
	}).Info("approval decided")
	return approval, nil
}

// GetApproval returns an approval request by id.
func (s *Service) GetApproval(ctx context.Context, approvalID string) (*domain.ApprovalRequest, error) {
	approval, err := s.store.GetApproval(ctx, approvalID)
	if err != nil {
		return nil, fmt.Errorf("failed to get approval: %w", err)
	}
	return approval, nil
}
