// Package store defines the persistence interface and its SQLite implementation.
package store

import (
	"context"
	"errors"

	"github.com/SydneyWamalwa/customer-service-ai/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyDecided is returned when a terminal approval is decided again.
var ErrAlreadyDecided = errors.New("approval already decided")

// Store defines the interface for data persistence.
type Store interface {
	// Session operations
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	GetOrCreateSession(ctx context.Context, sessionID, tenantID, customerID string) (*domain.Session, error)
	UpdateSessionMetadata(ctx context.Context, sessionID string, update domain.MetadataUpdate) (*domain.Session, error)

	// Message operations
	AppendMessage(ctx context.Context, message *domain.Message, historyCap int) error
	GetMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error)

	// Approval operations
	CreateApproval(ctx context.Context, approval *domain.ApprovalRequest) error
	GetApproval(ctx context.Context, approvalID string) (*domain.ApprovalRequest, error)
	GetPendingApprovalBySession(ctx context.Context, sessionID string) (*domain.ApprovalRequest, error)
	DecideApproval(ctx context.Context, approvalID string, status domain.ApprovalStatus, decidedBy, notes string) (*domain.ApprovalRequest, error)

	// Lifecycle
	Close() error
}
