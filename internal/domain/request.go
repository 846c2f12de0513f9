package domain

// ChatRequest is the inbound message from the external HTTP layer.
type ChatRequest struct {
	Message    string `json:"message"`
	SessionID  string `json:"session_id,omitempty"`
	CustomerID string `json:"customer_id,omitempty"`
	TenantID   string `json:"tenant_id"`
}

// ChatResponse is the structured reply returned to the caller. The chat
// path always produces a response, never a protocol-level error.
type ChatResponse struct {
	Message   string      `json:"message"`
	SessionID string      `json:"session_id"`
	ToolsUsed []string    `json:"tools_used"`
	Escalated bool        `json:"escalated,omitempty"`
	Ticket    *TicketInfo `json:"ticket,omitempty"`
}

// TicketInfo summarizes the ticket outcome of a chat turn.
type TicketInfo struct {
	ID         string       `json:"id"`
	Status     TicketStatus `json:"status"`
	ApprovalID string       `json:"approval_id,omitempty"`
}

// ApprovalDecisionRequest is a decision on a pending approval request.
type ApprovalDecisionRequest struct {
	Approved  bool   `json:"approved"`
	Notes     string `json:"notes,omitempty"`
	DecidedBy string `json:"decided_by,omitempty"`
}

// KnowledgeUpsertRequest adds an item to a tenant's knowledge base.
type KnowledgeUpsertRequest struct {
	TenantID string            `json:"tenant_id"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}
