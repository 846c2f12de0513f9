package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SydneyWamalwa/customer-service-ai/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetOrCreateSession(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	created, err := s.GetOrCreateSession(ctx, "s1", "acme", "cust_1")
	require.NoError(t, err)
	assert.Equal(t, "s1", created.SessionID)
	assert.Equal(t, "acme", created.TenantID)
	assert.False(t, created.Escalated)

	// Second call returns the existing row, not a fresh one.
	again, err := s.GetOrCreateSession(ctx, "s1", "acme", "cust_1")
	require.NoError(t, err)
	assert.Equal(t, created.CreatedAt.Unix(), again.CreatedAt.Unix())
}

func TestGetSessionNotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.GetSession(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateSessionMetadata(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.GetOrCreateSession(ctx, "s1", "acme", "")
	require.NoError(t, err)

	escalated := true
	updated, err := s.UpdateSessionMetadata(ctx, "s1", domain.MetadataUpdate{Escalated: &escalated})
	require.NoError(t, err)
	assert.True(t, updated.Escalated)

	// Nil fields leave prior values intact.
	updated, err = s.UpdateSessionMetadata(ctx, "s1", domain.MetadataUpdate{Tags: []byte(`["vip"]`)})
	require.NoError(t, err)
	assert.True(t, updated.Escalated)
	assert.JSONEq(t, `["vip"]`, string(updated.Tags))
}

func TestAppendMessageEnforcesHistoryCap(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.GetOrCreateSession(ctx, "s1", "acme", "")
	require.NoError(t, err)

	const historyCap = 5
	for i := 0; i < historyCap+3; i++ {
		msg := &domain.Message{
			MessageID: fmt.Sprintf("msg_%d", i),
			SessionID: "s1",
			Role:      domain.RoleUser,
			Content:   fmt.Sprintf("message %d", i),
			CreatedAt: time.Now(),
		}
		require.NoError(t, s.AppendMessage(ctx, msg, historyCap))
	}

	msgs, err := s.GetMessages(ctx, "s1", 100)
	require.NoError(t, err)
	require.Len(t, msgs, historyCap)

	// Oldest messages were discarded, order is preserved.
	assert.Equal(t, "message 3", msgs[0].Content)
	assert.Equal(t, "message 7", msgs[len(msgs)-1].Content)
}

func TestGetMessagesReturnsMostRecentWindow(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.GetOrCreateSession(ctx, "s1", "acme", "")
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		msg := &domain.Message{
			MessageID: fmt.Sprintf("msg_%d", i),
			SessionID: "s1",
			Role:      domain.RoleAssistant,
			Content:   fmt.Sprintf("message %d", i),
			CreatedAt: time.Now(),
		}
		require.NoError(t, s.AppendMessage(ctx, msg, 100))
	}

	msgs, err := s.GetMessages(ctx, "s1", 4)
	require.NoError(t, err)
	require.Len(t, msgs, 4)
	assert.Equal(t, "message 6", msgs[0].Content)
	assert.Equal(t, "message 9", msgs[3].Content)
}

func TestDecideApprovalTransitions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.GetOrCreateSession(ctx, "s1", "acme", "cust_1")
	require.NoError(t, err)

	approval := &domain.ApprovalRequest{
		ApprovalID: "ap_1",
		TenantID:   "acme",
		SessionID:  "s1",
		UserID:     "cust_1",
		Action:     "refund order 123",
		Status:     domain.ApprovalStatusPending,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	require.NoError(t, s.CreateApproval(ctx, approval))

	decided, err := s.DecideApproval(ctx, "ap_1", domain.ApprovalStatusApproved, "agent_7", "verified")
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalStatusApproved, decided.Status)
	assert.Equal(t, "agent_7", decided.DecidedBy)
	assert.Equal(t, "verified", decided.Notes)

	// Terminal approvals cannot be decided twice.
	_, err = s.DecideApproval(ctx, "ap_1", domain.ApprovalStatusRejected, "agent_8", "")
	assert.ErrorIs(t, err, ErrAlreadyDecided)

	_, err = s.DecideApproval(ctx, "missing", domain.ApprovalStatusApproved, "agent_7", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetPendingApprovalBySession(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.GetOrCreateSession(ctx, "s1", "acme", "cust_1")
	require.NoError(t, err)

	_, err = s.GetPendingApprovalBySession(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)

	approval := &domain.ApprovalRequest{
		ApprovalID: "ap_1",
		TenantID:   "acme",
		SessionID:  "s1",
		Action:     "close account",
		Status:     domain.ApprovalStatusPending,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	require.NoError(t, s.CreateApproval(ctx, approval))

	pending, err := s.GetPendingApprovalBySession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "ap_1", pending.ApprovalID)

	// A decided approval no longer blocks the session.
	_, err = s.DecideApproval(ctx, "ap_1", domain.ApprovalStatusRejected, "agent_7", "")
	require.NoError(t, err)
	_, err = s.GetPendingApprovalBySession(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}
