// Package knowledge provides tenant-scoped retrieval over the vector index.
package knowledge

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/SydneyWamalwa/customer-service-ai/internal/adapter/vector"
	"github.com/SydneyWamalwa/customer-service-ai/internal/domain"
)

// Namespace derivation. Each tenant owns three partitions of the index.
func KBNamespace(tenantID string) string          { return tenantID + "-kb" }
func TicketNamespace(tenantID string) string      { return tenantID + "-tickets" }
func InteractionNamespace(tenantID string) string { return tenantID + "-interactions" }

// Retriever turns text into ranked passages within a tenant namespace.
// Retrieval is advisory: any embedding or index failure degrades to an
// empty result set, never a hard error on the read path.
type Retriever struct {
	embedder vector.Embedder
	index    vector.Index
	logger   *logrus.Logger
}

// NewRetriever creates a retriever over the embedding and index clients.
func NewRetriever(embedder vector.Embedder, index vector.Index, logger *logrus.Logger) *Retriever {
	return &Retriever{embedder: embedder, index: index, logger: logger}
}

// Search returns up to topK passages ranked by descending similarity.
func (r *Retriever) Search(ctx context.Context, query, namespace string, topK int) []domain.SearchResult {
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		r.logger.WithError(err).WithField("namespace", namespace).Warn("embedding failed, returning empty results")
		return nil
	}

	hits, err := r.index.Query(ctx, vec, namespace, topK, nil)
	if err != nil {
		r.logger.WithError(err).WithField("namespace", namespace).Warn("vector query failed, returning empty results")
		return nil
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, h := range hits {
		results = append(results, domain.SearchResult{
			ID:       h.ID,
			Text:     h.Metadata["text"],
			Metadata: h.Metadata,
			Score:    h.Score,
		})
	}
	return results
}

// Store writes text plus metadata into a namespace and returns the item id.
// This is the ingestion write path; failures are reported to the caller.
func (r *Retriever) Store(ctx context.Context, text string, metadata map[string]string, namespace string) (string, error) {
	vec, err := r.embedder.Embed(ctx, text)
	if err != nil {
		return "", err
	}

	id := "kb_" + uuid.New().String()[:8]
	stored := make(map[string]string, len(metadata)+1)
	for k, v := range metadata {
		stored[k] = v
	}
	stored["text"] = text

	if err := r.index.Upsert(ctx, id, vec, stored, namespace); err != nil {
		return "", err
	}
	return id, nil
}

// Delete removes an item from a namespace.
func (r *Retriever) Delete(ctx context.Context, id, namespace string) error {
	return r.index.Delete(ctx, []string{id}, namespace)
}

// RecallInteractions returns prior exchanges for one customer, ranked by
// similarity to the query. Only that customer's records are considered.
func (r *Retriever) RecallInteractions(ctx context.Context, customerID, query, namespace string, limit int) []domain.Interaction {
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		r.logger.WithError(err).WithField("customer_id", customerID).Warn("embedding failed, skipping interaction recall")
		return nil
	}

	hits, err := r.index.Query(ctx, vec, namespace, limit, map[string]string{"customer_id": customerID})
	if err != nil {
		r.logger.WithError(err).WithField("customer_id", customerID).Warn("interaction recall failed")
		return nil
	}

	interactions := make([]domain.Interaction, 0, len(hits))
	for _, h := range hits {
		interactions = append(interactions, domain.Interaction{
			CustomerID: h.Metadata["customer_id"],
			Query:      h.Metadata["query"],
			Response:   h.Metadata["response"],
			Action:     h.Metadata["action"],
			Score:      h.Score,
		})
	}
	return interactions
}
