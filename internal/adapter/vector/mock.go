package vector

import (
	"context"
	"strings"
	"sync"
)

// MockEmbedder returns a fixed-size vector derived from the text length.
type MockEmbedder struct {
	Err error
}

var _ Embedder = (*MockEmbedder)(nil)

// Embed returns a deterministic vector, or the scripted error.
func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return []float32{float32(len(text)), 1, 0}, nil
}

type mockEntry struct {
	id       string
	metadata map[string]string
}

// MockIndex is an in-memory Index for tests. Query returns all entries in
// a namespace (filter-matched) with scripted scores.
type MockIndex struct {
	mu      sync.Mutex
	entries map[string][]mockEntry // namespace -> entries
	Scores  map[string]float64     // id -> score, default 0.9
	Err     error
}

var _ Index = (*MockIndex)(nil)

// NewMockIndex creates an empty mock index.
func NewMockIndex() *MockIndex {
	return &MockIndex{
		entries: make(map[string][]mockEntry),
		Scores:  make(map[string]float64),
	}
}

// Query returns matching entries, newest last.
func (m *MockIndex) Query(ctx context.Context, vector []float32, namespace string, topK int, filter map[string]string) ([]Hit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	var hits []Hit
	for _, e := range m.entries[namespace] {
		if !matches(e.metadata, filter) {
			continue
		}
		score, ok := m.Scores[e.id]
		if !ok {
			score = 0.9
		}
		hits = append(hits, Hit{ID: e.id, Score: score, Metadata: e.metadata})
		if topK > 0 && len(hits) == topK {
			break
		}
	}
	return hits, nil
}

// Upsert stores an entry.
func (m *MockIndex) Upsert(ctx context.Context, id string, vector []float32, metadata map[string]string, namespace string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.entries[namespace] = append(m.entries[namespace], mockEntry{id: id, metadata: metadata})
	return nil
}

// Delete removes entries by id.
func (m *MockIndex) Delete(ctx context.Context, ids []string, namespace string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	kept := m.entries[namespace][:0]
	for _, e := range m.entries[namespace] {
		if !contains(ids, e.id) {
			kept = append(kept, e)
		}
	}
	m.entries[namespace] = kept
	return nil
}

func matches(metadata, filter map[string]string) bool {
	for k, v := range filter {
		if !strings.EqualFold(metadata[k], v) {
			return false
		}
	}
	return true
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
