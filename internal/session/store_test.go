package session

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SydneyWamalwa/customer-service-ai/internal/domain"
	store "github.com/SydneyWamalwa/customer-service-ai/internal/repository"
)

func newTestStore(t *testing.T, historyCap int) *Store {
	t.Helper()
	backend, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return NewStore(backend, historyCap)
}

func TestOpenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 100)

	first, err := s.Open(ctx, "s1", "acme", "cust_1")
	require.NoError(t, err)

	second, err := s.Open(ctx, "s1", "acme", "cust_1")
	require.NoError(t, err)
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, first.CreatedAt.Unix(), second.CreatedAt.Unix())
}

func TestAppendAssignsMessageIDs(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 100)

	_, err := s.Open(ctx, "s1", "acme", "")
	require.NoError(t, err)

	id1, err := s.Append(ctx, "s1", domain.RoleUser, "hello", nil)
	require.NoError(t, err)
	id2, err := s.Append(ctx, "s1", domain.RoleAssistant, "hi there", []byte(`["order.lookup"]`))
	require.NoError(t, err)

	assert.True(t, len(id1) > 4 && id1[:4] == "msg_")
	assert.NotEqual(t, id1, id2)

	msgs, err := s.History(ctx, "s1", 10)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.RoleUser, msgs[0].Role)
	assert.JSONEq(t, `["order.lookup"]`, string(msgs[1].ToolsUsed))
}

func TestConcurrentAppendsAllRetained(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 200)

	_, err := s.Open(ctx, "s1", "acme", "")
	require.NoError(t, err)

	const writers = 8
	const perWriter = 10
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				_, err := s.Append(ctx, "s1", domain.RoleUser, fmt.Sprintf("w%d-%d", w, i), nil)
				assert.NoError(t, err)
			}
		}(w)
	}
	wg.Wait()

	msgs, err := s.History(ctx, "s1", writers*perWriter)
	require.NoError(t, err)
	assert.Len(t, msgs, writers*perWriter)

	// Every append is a complete turn; no duplicates, no gaps.
	seen := make(map[string]bool, len(msgs))
	for _, m := range msgs {
		assert.False(t, seen[m.Content], "duplicate message %s", m.Content)
		seen[m.Content] = true
	}
}

func TestConcurrentAppendsRespectHistoryCap(t *testing.T) {
	ctx := context.Background()
	const historyCap = 25
	s := newTestStore(t, historyCap)

	_, err := s.Open(ctx, "s1", "acme", "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				_, err := s.Append(ctx, "s1", domain.RoleUser, fmt.Sprintf("w%d-%d", w, i), nil)
				assert.NoError(t, err)
			}
		}(w)
	}
	wg.Wait()

	msgs, err := s.History(ctx, "s1", 100)
	require.NoError(t, err)
	assert.Len(t, msgs, historyCap)
}

func TestUpdateMetadataEscalates(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 100)

	_, err := s.Open(ctx, "s1", "acme", "")
	require.NoError(t, err)

	escalated := true
	updated, err := s.UpdateMetadata(ctx, "s1", domain.MetadataUpdate{Escalated: &escalated})
	require.NoError(t, err)
	assert.True(t, updated.Escalated)

	got, err := s.Metadata(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, got.Escalated)
}
