// Package domain defines the core domain models for the support engine.
package domain

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ApprovalStatus represents the status of an approval request.
type ApprovalStatus string

const (
	ApprovalStatusPending   ApprovalStatus = "pending"
	ApprovalStatusApproved  ApprovalStatus = "approved"
	ApprovalStatusRejected  ApprovalStatus = "rejected"
	ApprovalStatusEscalated ApprovalStatus = "escalated"
)

// IsTerminal reports whether the status permits no further transitions.
func (s ApprovalStatus) IsTerminal() bool {
	return s != ApprovalStatusPending
}

// TicketStatus represents the outcome state of a ticket resolution.
type TicketStatus string

const (
	TicketStatusResolved        TicketStatus = "resolved"
	TicketStatusPendingApproval TicketStatus = "pending_approval"
	TicketStatusFailed          TicketStatus = "failed"
)

// TicketPriority represents the urgency of a ticket.
type TicketPriority string

const (
	TicketPriorityNormal TicketPriority = "normal"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// ToolMode represents how a tool is executed.
type ToolMode string

const (
	// ToolModeWebhook tools are invoked with an HTTP POST to a tenant URL.
	ToolModeWebhook ToolMode = "webhook"
	// ToolModeBuiltin tools run in-process through the tool registry.
	ToolModeBuiltin ToolMode = "builtin"
)

// PolicyDecision is the outcome of evaluating a message against approval rules.
type PolicyDecision string

const (
	PolicyDecisionAllow           PolicyDecision = "allow"
	PolicyDecisionRequireApproval PolicyDecision = "require_approval"
	PolicyDecisionEscalate        PolicyDecision = "escalate"
)
