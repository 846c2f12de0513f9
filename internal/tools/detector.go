package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/SydneyWamalwa/customer-service-ai/internal/adapter/llm"
	"github.com/SydneyWamalwa/customer-service-ai/internal/domain"
)

// Detector maps a message onto the tenant's tools. A deterministic
// keyword pass runs first; only when it finds nothing is the intent
// classifier consulted.
type Detector struct {
	llmClient llm.Client
	logger    *logrus.Logger
}

// NewDetector creates a detector using the given generation client for
// the classifier fallback.
func NewDetector(llmClient llm.Client, logger *logrus.Logger) *Detector {
	return &Detector{llmClient: llmClient, logger: logger}
}

// Detect returns the tool intents found in a message. Every failure mode
// (classifier error, unparseable output) yields an empty list.
func (d *Detector) Detect(ctx context.Context, message string, available []domain.ToolDefinition) []domain.ToolIntent {
	if len(available) == 0 {
		return nil
	}

	if intents := detectByKeyword(message, available); len(intents) > 0 {
		return intents
	}
	return d.classify(ctx, message, available)
}

func detectByKeyword(message string, available []domain.ToolDefinition) []domain.ToolIntent {
	lower := strings.ToLower(message)
	var intents []domain.ToolIntent
	for _, tool := range available {
		for _, kw := range tool.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				intents = append(intents, domain.ToolIntent{Name: tool.Name})
				break
			}
		}
	}
	return intents
}

type intentEnvelope struct {
	Tools []domain.ToolIntent `json:"tools"`
}

func (d *Detector) classify(ctx context.Context, message string, available []domain.ToolDefinition) []domain.ToolIntent {
	var names []string
	for _, t := range available {
		desc := t.Name
		if t.Description != "" {
			desc += ": " + t.Description
		}
		names = append(names, desc)
	}

	prompt := fmt.Sprintf(
		`Given the customer message below, decide which of these tools apply:
%s

Respond with JSON only, in the shape {"tools": [{"name": "...", "parameters": {}}]}.
Use an empty list when no tool applies.

Message: %s`,
		strings.Join(names, "\n"), message)

	reply, err := d.llmClient.Generate(ctx, []llm.ChatMessage{
		{Role: "user", Content: prompt},
	}, llm.GenerateOptions{MaxTokens: 256})
	if err != nil {
		d.logger.WithError(err).Warn("intent classification failed, no tools detected")
		return nil
	}

	var env intentEnvelope
	if err := json.Unmarshal([]byte(extractJSON(reply)), &env); err != nil {
		d.logger.WithField("reply", reply).Warn("unparseable intent classification, no tools detected")
		return nil
	}

	// Drop tools the tenant does not actually expose.
	known := make(map[string]bool, len(available))
	for _, t := range available {
		known[t.Name] = true
	}
	var intents []domain.ToolIntent
	for _, intent := range env.Tools {
		if known[intent.Name] {
			intents = append(intents, intent)
		}
	}
	return intents
}

// extractJSON pulls the outermost JSON object out of a model reply that
// may be wrapped in prose or code fences.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return s
	}
	return s[start : end+1]
}
