package service

import (
	"context"
	"strings"
	"time"

	"github.com/SydneyWamalwa/customer-service-ai/internal/adapter/llm"
	"github.com/SydneyWamalwa/customer-service-ai/internal/metrics"
)

type genMessage = llm.ChatMessage

// generate calls the generation service with a bounded timeout.
func (s *Service) generate(ctx context.Context, messages []genMessage, maxTokens int) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.config.GenerationTimeout)
	defer cancel()

	start := time.Now()
	reply, err := s.llmClient.Generate(callCtx, messages, llm.GenerateOptions{MaxTokens: maxTokens})
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}
