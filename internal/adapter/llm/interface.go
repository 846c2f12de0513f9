// Package llm provides the client for the text-generation service.
package llm

import "context"

// GenerateOptions bounds a generation call.
type GenerateOptions struct {
	MaxTokens int
}

// Client defines the interface for the generation service. The service
// is a black box; callers must tolerate arbitrary latency and failure.
type Client interface {
	// Generate produces a completion for the ordered message list.
	Generate(ctx context.Context, messages []ChatMessage, opts GenerateOptions) (string, error)
}

// ChatMessage is one turn sent to the generation service.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
