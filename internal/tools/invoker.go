package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SydneyWamalwa/customer-service-ai/internal/domain"
	"github.com/SydneyWamalwa/customer-service-ai/internal/tenant"
)

// InvokeContext identifies the request on whose behalf tools run.
type InvokeContext struct {
	TenantID  string
	UserID    string
	SessionID string
}

// Invoker executes detected tool intents. Each invocation is isolated: a
// failing tool yields an error result for that tool only.
type Invoker struct {
	registry   *Registry
	httpClient *http.Client
	timeout    time.Duration
	logger     *logrus.Logger
}

// NewInvoker creates an invoker with a bounded per-call timeout.
func NewInvoker(registry *Registry, timeout time.Duration, logger *logrus.Logger) *Invoker {
	return &Invoker{
		registry: registry,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
		logger:  logger,
	}
}

// InvokeAll runs every intent against the tenant's tools and aggregates
// the results. Sibling invocations are unaffected by individual failures.
func (inv *Invoker) InvokeAll(ctx context.Context, intents []domain.ToolIntent, cfg tenant.Config, ic InvokeContext) []domain.ToolResult {
	results := make([]domain.ToolResult, 0, len(intents))
	for _, intent := range intents {
		results = append(results, inv.Invoke(ctx, intent, cfg, ic))
	}
	return results
}

// Invoke executes one tool intent, dispatching on the tool's mode.
func (inv *Invoker) Invoke(ctx context.Context, intent domain.ToolIntent, cfg tenant.Config, ic InvokeContext) domain.ToolResult {
	var def *domain.ToolDefinition
	for i := range cfg.Tools {
		if cfg.Tools[i].Name == intent.Name {
			def = &cfg.Tools[i]
			break
		}
	}
	if def == nil {
		return domain.ToolResult{Name: intent.Name, Err: "tool not configured for tenant"}
	}

	callCtx, cancel := context.WithTimeout(ctx, inv.timeout)
	defer cancel()

	var result json.RawMessage
	var err error
	switch def.Mode {
	case domain.ToolModeBuiltin:
		result, err = inv.registry.Execute(callCtx, def.Handler, intent.Parameters, cfg)
	case domain.ToolModeWebhook:
		result, err = inv.invokeWebhook(callCtx, *def, intent.Parameters, ic)
	default:
		err = fmt.Errorf("unsupported tool mode %q", def.Mode)
	}
	if err != nil {
		inv.logger.WithError(err).WithFields(logrus.Fields{
			"tool":      intent.Name,
			"tenant_id": ic.TenantID,
		}).Warn("tool invocation failed")
		return domain.ToolResult{Name: intent.Name, Err: err.Error()}
	}
	return domain.ToolResult{Name: intent.Name, Result: result}
}

type webhookBody struct {
	Tool      string                 `json:"tool"`
	Params    map[string]interface{} `json:"params"`
	UserID    string                 `json:"userId"`
	SessionID string                 `json:"sessionId"`
}

func (inv *Invoker) invokeWebhook(ctx context.Context, def domain.ToolDefinition, params map[string]interface{}, ic InvokeContext) (json.RawMessage, error) {
	payload, err := json.Marshal(webhookBody{
		Tool:      def.Name,
		Params:    params,
		UserID:    ic.UserID,
		SessionID: ic.SessionID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal webhook body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, def.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-Id", ic.TenantID)
	req.Header.Set("X-User-Id", ic.UserID)
	if def.Token != "" {
		req.Header.Set("Authorization", "Bearer "+def.Token)
	}

	resp, err := inv.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read webhook response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("webhook returned malformed JSON")
	}
	return json.RawMessage(body), nil
}
