// Package session provides an actor-like, per-session serialized view of
// conversation state. All mutation for one session id flows through a
// single lock so concurrent appends never interleave; different sessions
// proceed fully in parallel.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SydneyWamalwa/customer-service-ai/internal/domain"
	store "github.com/SydneyWamalwa/customer-service-ai/internal/repository"
)

// Store serializes mutations per session id over the backing repository.
type Store struct {
	backend    store.Store
	historyCap int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStore creates a session store with the given history cap.
func NewStore(backend store.Store, historyCap int) *Store {
	return &Store{
		backend:    backend,
		historyCap: historyCap,
		locks:      make(map[string]*sync.Mutex),
	}
}

// lockFor returns the mutex owning all writes for a session id.
func (s *Store) lockFor(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[sessionID] = l
	}
	return l
}

// Open returns the session for the id, creating it on first use.
func (s *Store) Open(ctx context.Context, sessionID, tenantID, customerID string) (*domain.Session, error) {
	l := s.lockFor(sessionID)
	l.Lock()
	defer l.Unlock()
	return s.backend.GetOrCreateSession(ctx, sessionID, tenantID, customerID)
}

// Append appends a message to the session log and returns its id. The
// history cap is enforced by dropping the oldest entries, never reordering.
func (s *Store) Append(ctx context.Context, sessionID string, role domain.Role, content string, toolsUsed []byte) (string, error) {
	l := s.lockFor(sessionID)
	l.Lock()
	defer l.Unlock()

	msg := &domain.Message{
		MessageID: "msg_" + uuid.New().String()[:8],
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		ToolsUsed: toolsUsed,
		CreatedAt: time.Now(),
	}
	if err := s.backend.AppendMessage(ctx, msg, s.historyCap); err != nil {
		return "", err
	}
	return msg.MessageID, nil
}

// History returns the most recent limit messages, oldest first.
func (s *Store) History(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	return s.backend.GetMessages(ctx, sessionID, limit)
}

// Metadata returns the session record.
func (s *Store) Metadata(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.backend.GetSession(ctx, sessionID)
}

// UpdateMetadata applies a partial metadata update under the session lock.
func (s *Store) UpdateMetadata(ctx context.Context, sessionID string, update domain.MetadataUpdate) (*domain.Session, error) {
	l := s.lockFor(sessionID)
	l.Lock()
	defer l.Unlock()
	return s.backend.UpdateSessionMetadata(ctx, sessionID, update)
}
