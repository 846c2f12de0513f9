package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/SydneyWamalwa/customer-service-ai/internal/domain"
	"github.com/SydneyWamalwa/customer-service-ai/internal/knowledge"
	"github.com/SydneyWamalwa/customer-service-ai/internal/metrics"
	"github.com/SydneyWamalwa/customer-service-ai/internal/tenant"
	"github.com/SydneyWamalwa/customer-service-ai/internal/tools"
)

// ErrValidation marks request errors the caller should see as rejected
// input rather than a degraded reply.
var ErrValidation = errors.New("invalid request")

// ticketKeywords mark a message as ticket-shaped.
var ticketKeywords = []string{
	"issue", "bug", "error", "broken", "not working", "doesn't work",
	"problem", "refund", "complaint", "charged", "failed",
}

const apologyMessage = "I'm sorry, something went wrong on our side. Please try again in a moment."

// contextBlockLimit bounds each assembled context block.
const contextBlockLimit = 1200

// HandleChat processes one inbound customer message end to end. The chat
// path always returns a response; only validation failures surface as
// errors.
func (s *Service) HandleChat(ctx context.Context, req domain.ChatRequest) (resp *domain.ChatResponse, err error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, fmt.Errorf("%w: message is required", ErrValidation)
	}
	if req.TenantID == "" {
		return nil, fmt.Errorf("%w: tenant_id is required", ErrValidation)
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = "sess_" + uuid.New().String()[:8]
	}

	// Top boundary: the caller never sees a raw panic, only an apology.
	defer func() {
		if r := recover(); r != nil {
			s.logger.WithFields(logrus.Fields{
				"panic":      r,
				"session_id": sessionID,
			}).Error("chat turn panicked")
			resp = &domain.ChatResponse{
				Message:   apologyMessage,
				SessionID: sessionID,
				ToolsUsed: []string{},
			}
			err = nil
		}
	}()

	log := s.logger.WithFields(logrus.Fields{
		"tenant_id":  req.TenantID,
		"session_id": sessionID,
	})
	cfg := s.tenants.Get(req.TenantID)
	rules := tenantRules{ApprovalRules: cfg.ApprovalRules}

	if _, err := s.sessions.Open(ctx, sessionID, req.TenantID, req.CustomerID); err != nil {
		// Unreachable storage for the whole request: still answer.
		log.WithError(err).Error("failed to open session")
		return &domain.ChatResponse{
			Message:   apologyMessage,
			SessionID: sessionID,
			ToolsUsed: []string{},
		}, nil
	}

	history, err := s.sessions.History(ctx, sessionID, s.config.HistoryCap)
	if err != nil {
		log.WithError(err).Warn("failed to load history, proceeding with empty history")
		history = nil
	}

	requiresApproval := s.RequiresApproval(ctx, req.Message, rules)
	escalate := s.ShouldEscalate(ctx, req.Message, history, rules)
	// Approval-gated actions always take the ticket path so a pending
	// approval record exists for the operator to decide.
	ticketShaped := s.isTicketShaped(req.Message, history) || requiresApproval

	if escalate {
		s.markEscalated(ctx, sessionID, req.TenantID)
	}

	// Human handoff without a ticket to process: short, direct reply.
	if escalate && !ticketShaped {
		reply := fmt.Sprintf("I understand - let me connect you with a member of our team. %s will pass along the conversation so you won't have to repeat yourself.", cfg.AgentName)
		s.persistTurn(ctx, sessionID, req, reply, nil, nil)
		metrics.ChatTurns.WithLabelValues(req.TenantID, "escalated").Inc()
		return &domain.ChatResponse{
			Message:   reply,
			SessionID: sessionID,
			ToolsUsed: []string{},
			Escalated: true,
		}, nil
	}

	var ticketInfo *domain.TicketInfo
	var ticketBlock string
	resolvedByTicket := false
	if ticketShaped {
		ticketInfo, ticketBlock, resolvedByTicket = s.runTicketPath(ctx, req, sessionID, requiresApproval)
	}

	// FAQ-style knowledge reasoning enriches the turn whenever the ticket
	// path did not fully resolve it.
	var faqBlock string
	var kbResults []domain.SearchResult
	if !resolvedByTicket {
		start := time.Now()
		kbResults = s.retriever.Search(ctx, req.Message, knowledge.KBNamespace(req.TenantID), s.config.KnowledgeTopK)
		metrics.RetrievalDuration.Observe(time.Since(start).Seconds())
		if len(kbResults) > 0 {
			faqBlock = kbResults[0].Text
		}
	}

	var interactions []domain.Interaction
	if req.CustomerID != "" {
		interactions = s.retriever.RecallInteractions(ctx, req.CustomerID, req.Message,
			knowledge.InteractionNamespace(req.TenantID), 2)
	}

	intents := s.detector.Detect(ctx, req.Message, cfg.Tools)
	toolResults := s.invoker.InvokeAll(ctx, intents, cfg, tools.InvokeContext{
		TenantID:  req.TenantID,
		UserID:    req.CustomerID,
		SessionID: sessionID,
	})
	var toolsUsed []string
	for _, r := range toolResults {
		status := "succeeded"
		if r.Failed() {
			status = "failed"
		}
		metrics.ToolInvocations.WithLabelValues(r.Name, status).Inc()
		toolsUsed = append(toolsUsed, r.Name)
	}
	if toolsUsed == nil {
		toolsUsed = []string{}
	}

	systemContext := s.assembleContext(cfg, ticketBlock, faqBlock, interactions, kbResults, toolResults)

	reply, genErr := s.generateReply(ctx, systemContext, history, req.Message)
	if genErr != nil {
		log.WithError(genErr).Warn("generation failed, using fallback reply")
		reply = fallbackReply(fallbackInput{
			Message:    req.Message,
			Ticket:     ticketInfo,
			TicketText: ticketBlock,
			FAQText:    faqBlock,
		}, cfg)
		metrics.ChatTurns.WithLabelValues(req.TenantID, "fallback").Inc()
	} else {
		metrics.ChatTurns.WithLabelValues(req.TenantID, outcomeLabel(ticketInfo, escalate)).Inc()
	}

	s.persistTurn(ctx, sessionID, req, reply, toolsUsed, ticketInfo)

	return &domain.ChatResponse{
		Message:   reply,
		SessionID: sessionID,
		ToolsUsed: toolsUsed,
		Escalated: escalate,
		Ticket:    ticketInfo,
	}, nil
}

// isTicketShaped classifies a message as a support ticket.
func (s *Service) isTicketShaped(message string, history []domain.Message) bool {
	lower := strings.ToLower(message)
	if containsAny(lower, ticketKeywords) {
		return true
	}
	if len(message) > s.config.TicketLength {
		return true
	}

	// A recent assistant turn about a ticket keeps the thread ticket-shaped.
	recent := history
	if len(recent) > recentTurnWindow {
		recent = recent[len(recent)-recentTurnWindow:]
	}
	for _, msg := range recent {
		if msg.Role != domain.RoleAssistant {
			continue
		}
		lc := strings.ToLower(msg.Content)
		if strings.Contains(lc, "ticket") || strings.Contains(lc, "issue") {
			return true
		}
	}
	return false
}

// runTicketPath handles a ticket-shaped message: reuse a near-identical
// prior resolution, or analyze and either resolve or park it behind an
// approval request.
func (s *Service) runTicketPath(ctx context.Context, req domain.ChatRequest, sessionID string, requiresApproval bool) (*domain.TicketInfo, string, bool) {
	ticket := &domain.Ticket{
		TicketID:    "tk_" + uuid.New().String()[:8],
		TenantID:    req.TenantID,
		CustomerID:  req.CustomerID,
		SessionID:   sessionID,
		Description: req.Message,
		Priority:    domain.TicketPriorityNormal,
	}

	// Fast path: a previously recorded resolution close enough to reuse.
	for _, similar := range s.FindSimilarTickets(ctx, ticket) {
		if similar.Score > s.config.SimilarityThreshold && similar.Resolution != "" {
			info := &domain.TicketInfo{ID: ticket.TicketID, Status: domain.TicketStatusResolved}
			block := fmt.Sprintf("A matching past case was resolved as follows: %s", similar.Resolution)
			return info, block, true
		}
	}

	analysis := s.AnalyzeTicket(ctx, ticket)
	if requiresApproval {
		analysis.RequiresApproval = true
	}

	if analysis.RequiresApproval {
		approval, err := s.CreateApprovalRequest(ctx, truncate(req.Message, 200), req.TenantID, req.CustomerID, sessionID)
		if err != nil {
			s.logger.WithError(err).Error("failed to create approval request")
			return &domain.TicketInfo{ID: ticket.TicketID, Status: domain.TicketStatusFailed},
				"The request could not be queued for review.", false
		}
		resolution := s.ResolveTicket(ctx, ticket, analysis, false)
		return &domain.TicketInfo{
			ID:         ticket.TicketID,
			Status:     domain.TicketStatusPendingApproval,
			ApprovalID: approval.ApprovalID,
		}, resolution.Message, false
	}

	resolution := s.ResolveTicket(ctx, ticket, analysis, false)
	return &domain.TicketInfo{
		ID:     ticket.TicketID,
		Status: resolution.Status,
	}, resolution.Message, resolution.Status == domain.TicketStatusResolved
}

// assembleContext builds the system preamble in a fixed order: the most
// specific, highest-confidence information sits closest to the persona.
func (s *Service) assembleContext(cfg tenant.Config, ticketBlock, faqBlock string,
	interactions []domain.Interaction, kbResults []domain.SearchResult,
	toolResults []domain.ToolResult) string {

	var sb strings.Builder
	sb.WriteString(cfg.AgentPersona)
	if cfg.Branding != "" {
		sb.WriteString("\n" + cfg.Branding)
	}
	if cfg.Tone != "" {
		fmt.Fprintf(&sb, "\nTone: %s.", cfg.Tone)
	}

	if ticketBlock != "" {
		fmt.Fprintf(&sb, "\n\nTicket status:\n%s", truncate(ticketBlock, contextBlockLimit))
	}
	if faqBlock != "" {
		fmt.Fprintf(&sb, "\n\nRelevant FAQ answer:\n%s", truncate(faqBlock, contextBlockLimit))
	}
	if len(interactions) > 0 {
		sb.WriteString("\n\nPrior interactions with this customer:")
		for _, it := range interactions {
			fmt.Fprintf(&sb, "\n- Q: %s A: %s", truncate(it.Query, 200), truncate(it.Response, 200))
		}
	}
	if len(kbResults) > 0 {
		sb.WriteString("\n\nRetrieved knowledge:")
		for _, r := range kbResults {
			fmt.Fprintf(&sb, "\n- %s", truncate(r.Text, 400))
		}
	}

	var okResults []domain.ToolResult
	for _, r := range toolResults {
		if !r.Failed() {
			okResults = append(okResults, r)
		}
	}
	if len(okResults) > 0 {
		sb.WriteString("\n\nTool results:")
		for _, r := range okResults {
			fmt.Fprintf(&sb, "\n- %s: %s", r.Name, truncate(string(r.Result), 400))
		}
	}

	return sb.String()
}

// generateReply sends the assembled context plus the recent history
// window to the generation service.
func (s *Service) generateReply(ctx context.Context, systemContext string, history []domain.Message, message string) (string, error) {
	messages := []genMessage{{Role: "system", Content: systemContext}}

	window := history
	if len(window) > s.config.HistoryWindow {
		window = window[len(window)-s.config.HistoryWindow:]
	}
	for _, msg := range window {
		messages = append(messages, genMessage{Role: string(msg.Role), Content: msg.Content})
	}
	messages = append(messages, genMessage{Role: "user", Content: message})

	return s.generate(ctx, messages, 1024)
}

// persistTurn writes both turns and the interaction record. All of it is
// best-effort; the response has already been computed.
func (s *Service) persistTurn(ctx context.Context, sessionID string, req domain.ChatRequest, reply string, toolsUsed []string, ticketInfo *domain.TicketInfo) {
	if _, err := s.sessions.Append(ctx, sessionID, domain.RoleUser, req.Message, nil); err != nil {
		s.logger.WithError(err).Warn("failed to persist user turn")
	}
	var annotation []byte
	if len(toolsUsed) > 0 {
		annotation, _ = json.Marshal(toolsUsed)
	}
	if _, err := s.sessions.Append(ctx, sessionID, domain.RoleAssistant, reply, annotation); err != nil {
		s.logger.WithError(err).Warn("failed to persist assistant turn")
	}

	if req.CustomerID == "" {
		return
	}
	action := strings.Join(toolsUsed, ",")
	if ticketInfo != nil {
		action = string(ticketInfo.Status)
	}
	if _, err := s.retriever.Store(ctx, req.Message, map[string]string{
		"customer_id": req.CustomerID,
		"query":       req.Message,
		"response":    truncate(reply, 1000),
		"action":      action,
	}, knowledge.InteractionNamespace(req.TenantID)); err != nil {
		s.logger.WithError(err).Warn("failed to store interaction memory")
	}
}

func (s *Service) markEscalated(ctx context.Context, sessionID, tenantID string) {
	escalated := true
	if _, err := s.sessions.UpdateMetadata(ctx, sessionID, domain.MetadataUpdate{Escalated: &escalated}); err != nil {
		s.logger.WithError(err).Warn("failed to flag session as escalated")
	}
	metrics.Escalations.WithLabelValues(tenantID).Inc()
}

func outcomeLabel(ticketInfo *domain.TicketInfo, escalated bool) string {
	switch {
	case ticketInfo != nil && ticketInfo.Status == domain.TicketStatusPendingApproval:
		return "pending_approval"
	case ticketInfo != nil:
		return string(ticketInfo.Status)
	case escalated:
		return "escalated"
	default:
		return "plain"
	}
}
