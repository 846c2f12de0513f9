package domain

import (
	"encoding/json"
	"time"
)

// Session represents one continuous conversation with a customer.
type Session struct {
	SessionID    string          `json:"session_id"`
	TenantID     string          `json:"tenant_id"`
	CustomerID   string          `json:"customer_id,omitempty"`
	Escalated    bool            `json:"escalated"`
	Tags         json.RawMessage `json:"tags,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	LastActiveAt time.Time       `json:"last_active_at"`
}

// Message represents a single turn within a session.
type Message struct {
	MessageID string          `json:"message_id"`
	SessionID string          `json:"session_id"`
	Role      Role            `json:"role"`
	Content   string          `json:"content"`
	ToolsUsed json.RawMessage `json:"tools_used,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// MetadataUpdate is a partial update applied to session metadata.
// Nil fields are left unchanged.
type MetadataUpdate struct {
	Escalated *bool           `json:"escalated,omitempty"`
	Tags      json.RawMessage `json:"tags,omitempty"`
}
