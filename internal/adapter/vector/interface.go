// Package vector provides clients for the embedding service and the
// vector index. Both are opaque external services reached over HTTP.
package vector

import "context"

// Embedder converts text into an embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Hit is one ranked match from the index.
type Hit struct {
	ID       string            `json:"id"`
	Score    float64           `json:"score"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Index is the vector index write/query surface. All operations are
// scoped to a namespace (a tenant partition).
type Index interface {
	Query(ctx context.Context, vector []float32, namespace string, topK int, filter map[string]string) ([]Hit, error)
	Upsert(ctx context.Context, id string, vector []float32, metadata map[string]string, namespace string) error
	Delete(ctx context.Context, ids []string, namespace string) error
}
