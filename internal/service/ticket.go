package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/SydneyWamalwa/customer-service-ai/internal/domain"
	"github.com/SydneyWamalwa/customer-service-ai/internal/knowledge"
	"github.com/SydneyWamalwa/customer-service-ai/internal/metrics"
	"github.com/SydneyWamalwa/customer-service-ai/internal/tools"
)

// categoryTools maps an analysis category onto the tool set used to
// resolve it. Unmatched categories invoke no tools.
var categoryTools = map[string][]string{
	"account":      {"account.lookup"},
	"order":        {"order.lookup"},
	"shipping":     {"order.lookup"},
	"billing":      {"subscription.status", "account.lookup"},
	"subscription": {"subscription.status"},
}

const analysisPrompt = `Analyze the following customer support request and respond with exactly these lines:
Category: <one word, e.g. account, order, billing, shipping, subscription, other>
Actions: <comma-separated suggested actions>
RequiresApproval: <yes or no>
Confidence: <0-100>

Request: %s`

// AnalyzeTicket asks the generation service for a structured analysis and
// extracts the fields with deterministic defaults. Missing or malformed
// fields fail safe toward human review.
func (s *Service) AnalyzeTicket(ctx context.Context, ticket *domain.Ticket) *domain.TicketAnalysis {
	analysis := &domain.TicketAnalysis{
		Category:         "Uncategorized",
		RequiresApproval: true,
		Confidence:       50,
	}

	reply, err := s.generate(ctx, []genMessage{
		{Role: "user", Content: fmt.Sprintf(analysisPrompt, ticket.Description)},
	}, 512)
	if err != nil {
		s.logger.WithError(err).WithField("ticket_id", ticket.TicketID).Warn("ticket analysis failed, using defaults")
		return analysis
	}

	analysis.RawText = reply
	for _, line := range strings.Split(reply, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "category":
			if value != "" {
				analysis.Category = strings.ToLower(value)
			}
		case "actions":
			for _, a := range strings.Split(value, ",") {
				if a = strings.TrimSpace(a); a != "" {
					analysis.SuggestedActions = append(analysis.SuggestedActions, a)
				}
			}
		case "requiresapproval", "requires approval":
			analysis.RequiresApproval = !strings.EqualFold(value, "no")
		case "confidence":
			if n, err := strconv.Atoi(strings.TrimSuffix(value, "%")); err == nil && n >= 0 && n <= 100 {
				analysis.Confidence = n
			}
		}
	}
	return analysis
}

// ResolveTicket executes the resolution for an analyzed ticket. When the
// analysis requires approval and none has been granted, it short-circuits
// to pending_approval without invoking any tool.
func (s *Service) ResolveTicket(ctx context.Context, ticket *domain.Ticket, analysis *domain.TicketAnalysis, approved bool) *domain.TicketResolution {
	if analysis.RequiresApproval && !approved {
		return &domain.TicketResolution{
			Status:  domain.TicketStatusPendingApproval,
			Message: "This request needs review by our team before we can act on it. We'll follow up shortly.",
			Actions: analysis.SuggestedActions,
		}
	}

	cfg := s.tenants.Get(ticket.TenantID)
	outputs := make(map[string]json.RawMessage)
	var actions []string
	for _, toolName := range categoryTools[analysis.Category] {
		if _, ok := s.tenants.Tool(ticket.TenantID, toolName); !ok {
			continue
		}
		result := s.invoker.Invoke(ctx, domain.ToolIntent{
			Name:       toolName,
			Parameters: map[string]interface{}{"customer_id": ticket.CustomerID},
		}, cfg, tools.InvokeContext{
			TenantID:  ticket.TenantID,
			UserID:    ticket.CustomerID,
			SessionID: ticket.SessionID,
		})
		if result.Failed() {
			metrics.ToolInvocations.WithLabelValues(toolName, "failed").Inc()
			outputs[toolName] = json.RawMessage(fmt.Sprintf(`{"error":%q}`, result.Err))
			continue
		}
		metrics.ToolInvocations.WithLabelValues(toolName, "succeeded").Inc()
		outputs[toolName] = result.Result
		actions = append(actions, toolName)
	}

	message := s.phraseResolution(ctx, ticket, analysis, outputs)
	resolution := &domain.TicketResolution{
		Status:      domain.TicketStatusResolved,
		Message:     message,
		Actions:     actions,
		ToolOutputs: outputs,
	}

	s.recordResolution(ctx, ticket, analysis, resolution)
	return resolution
}

func (s *Service) phraseResolution(ctx context.Context, ticket *domain.Ticket, analysis *domain.TicketAnalysis, outputs map[string]json.RawMessage) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write a short resolution message for this support request.\n")
	fmt.Fprintf(&sb, "Request: %s\n", ticket.Description)
	fmt.Fprintf(&sb, "Category: %s\n", analysis.Category)
	for name, out := range outputs {
		fmt.Fprintf(&sb, "Tool %s returned: %s\n", name, truncate(string(out), 500))
	}

	reply, err := s.generate(ctx, []genMessage{{Role: "user", Content: sb.String()}}, 512)
	if err != nil {
		s.logger.WithError(err).Warn("resolution phrasing failed, using canned message")
		return fmt.Sprintf("We've looked into your %s request and taken the steps available to us. Let us know if anything is still unresolved.", analysis.Category)
	}
	return reply
}

// recordResolution writes the full resolution into the tenant's ticket
// namespace so future similar tickets can reuse it. Best-effort.
func (s *Service) recordResolution(ctx context.Context, ticket *domain.Ticket, analysis *domain.TicketAnalysis, resolution *domain.TicketResolution) {
	_, err := s.retriever.Store(ctx, ticket.Description, map[string]string{
		"ticket_id":   ticket.TicketID,
		"customer_id": ticket.CustomerID,
		"category":    analysis.Category,
		"query":       ticket.Description,
		"resolution":  resolution.Message,
		"action":      strings.Join(resolution.Actions, ","),
	}, knowledge.TicketNamespace(ticket.TenantID))
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"ticket_id": ticket.TicketID,
			"tenant_id": ticket.TenantID,
		}).Warn("failed to record ticket resolution")
	}
}

// FindSimilarTickets returns prior resolutions ranked by similarity.
// Callers apply their own acceptance threshold.
func (s *Service) FindSimilarTickets(ctx context.Context, ticket *domain.Ticket) []domain.SimilarResolution {
	results := s.retriever.Search(ctx, ticket.Description, knowledge.TicketNamespace(ticket.TenantID), 3)

	similar := make([]domain.SimilarResolution, 0, len(results))
	for _, r := range results {
		similar = append(similar, domain.SimilarResolution{
			TicketID:   r.Metadata["ticket_id"],
			Query:      r.Metadata["query"],
			Resolution: r.Metadata["resolution"],
			Category:   r.Metadata["category"],
			Score:      r.Score,
		})
	}
	return similar
}
