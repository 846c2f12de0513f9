package domain

import "encoding/json"

// Ticket is a classified support issue extracted from a customer message.
// Tickets are transient per turn; only the resolution record is kept in
// long-term interaction memory.
type Ticket struct {
	TicketID    string         `json:"ticket_id"`
	TenantID    string         `json:"tenant_id"`
	CustomerID  string         `json:"customer_id,omitempty"`
	SessionID   string         `json:"session_id"`
	Description string         `json:"description"`
	Priority    TicketPriority `json:"priority"`
}

// TicketAnalysis is the structured result of analyzing a ticket.
// Every field has a deterministic default so downstream code never
// depends on the model having mentioned it.
type TicketAnalysis struct {
	Category         string   `json:"category"`
	SuggestedActions []string `json:"suggested_actions"`
	RequiresApproval bool     `json:"requires_approval"`
	Confidence       int      `json:"confidence"` // 0-100
	RawText          string   `json:"raw_text,omitempty"`
}

// TicketResolution is the outcome of resolving a ticket.
type TicketResolution struct {
	Status      TicketStatus               `json:"status"`
	Message     string                     `json:"message"`
	Actions     []string                   `json:"actions,omitempty"`
	ToolOutputs map[string]json.RawMessage `json:"tool_outputs,omitempty"`
}

// SimilarResolution is a prior resolution recalled from interaction memory.
type SimilarResolution struct {
	TicketID   string  `json:"ticket_id"`
	Query      string  `json:"query"`
	Resolution string  `json:"resolution"`
	Category   string  `json:"category"`
	Score      float64 `json:"score"`
}
