package domain

// KnowledgeItem is free text plus metadata stored in the vector index.
type KnowledgeItem struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// SearchResult is a ranked retrieval hit.
type SearchResult struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Score    float64           `json:"score"`
}

// Interaction is a past customer exchange stored in per-customer memory.
type Interaction struct {
	CustomerID string  `json:"customer_id"`
	Query      string  `json:"query"`
	Response   string  `json:"response"`
	Action     string  `json:"action,omitempty"`
	Score      float64 `json:"score"`
}
