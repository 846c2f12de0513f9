package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// IndexClient talks to the vector index service over HTTP.
type IndexClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ Index = (*IndexClient)(nil)

// NewIndexClient creates a vector index client.
func NewIndexClient(baseURL, apiKey string, timeout time.Duration) *IndexClient {
	return &IndexClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type queryRequest struct {
	Vector    []float32         `json:"vector"`
	Namespace string            `json:"namespace"`
	TopK      int               `json:"top_k"`
	Filter    map[string]string `json:"filter,omitempty"`
}

type queryResponse struct {
	Matches []Hit `json:"matches"`
}

type upsertRequest struct {
	ID        string            `json:"id"`
	Vector    []float32         `json:"vector"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Namespace string            `json:"namespace"`
}

type deleteRequest struct {
	IDs       []string `json:"ids"`
	Namespace string   `json:"namespace"`
}

// Query returns up to topK matches ordered by descending similarity.
func (c *IndexClient) Query(ctx context.Context, vector []float32, namespace string, topK int, filter map[string]string) ([]Hit, error) {
	var resp queryResponse
	if err := c.post(ctx, "/vectors/query", queryRequest{
		Vector:    vector,
		Namespace: namespace,
		TopK:      topK,
		Filter:    filter,
	}, &resp); err != nil {
		return nil, err
	}
	return resp.Matches, nil
}

// Upsert inserts or replaces a vector in a namespace.
func (c *IndexClient) Upsert(ctx context.Context, id string, vector []float32, metadata map[string]string, namespace string) error {
	return c.post(ctx, "/vectors/upsert", upsertRequest{
		ID:        id,
		Vector:    vector,
		Metadata:  metadata,
		Namespace: namespace,
	}, nil)
}

// Delete removes vectors from a namespace.
func (c *IndexClient) Delete(ctx context.Context, ids []string, namespace string) error {
	return c.post(ctx, "/vectors/delete", deleteRequest{IDs: ids, Namespace: namespace}, nil)
}

func (c *IndexClient) post(ctx context.Context, path string, reqBody, out interface{}) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("vector index: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("vector index: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("vector index: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("vector index: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("vector index: unexpected status %d: %s", resp.StatusCode, string(body))
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("vector index: unmarshal response: %w", err)
		}
	}
	return nil
}
