package domain

import "time"

// ApprovalRequest gates a proposed action behind human sign-off.
type ApprovalRequest struct {
	ApprovalID string         `json:"approval_id"`
	TenantID   string         `json:"tenant_id"`
	SessionID  string         `json:"session_id"`
	UserID     string         `json:"user_id,omitempty"`
	Action     string         `json:"action"`
	Status     ApprovalStatus `json:"status"`
	DecidedBy  string         `json:"decided_by,omitempty"`
	Notes      string         `json:"notes,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
