// Package tools provides tool detection and invocation for tenant tools.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/SydneyWamalwa/customer-service-ai/internal/tenant"
)

// HandlerFunc defines an in-process tool handler.
type HandlerFunc func(ctx context.Context, params map[string]interface{}, cfg tenant.Config) (json.RawMessage, error)

// Registry stores builtin tool handlers keyed by handler id. The registry
// is built at startup; tenant configuration references handlers by id
// rather than attaching callables at runtime.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
}

// DefaultRegistry is the shared registry used by the engine.
var DefaultRegistry = NewRegistry()

// NewRegistry creates an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]HandlerFunc),
	}
}

// Register adds a new handler for a handler id.
func (r *Registry) Register(handlerID string, h HandlerFunc) error {
	if handlerID == "" {
		return fmt.Errorf("handler id is required")
	}
	if h == nil {
		return fmt.Errorf("handler is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[handlerID]; exists {
		return fmt.Errorf("handler already registered for %s", handlerID)
	}
	r.handlers[handlerID] = h
	return nil
}

// Execute runs the handler for the handler id.
func (r *Registry) Execute(ctx context.Context, handlerID string, params map[string]interface{}, cfg tenant.Config) (json.RawMessage, error) {
	if handlerID == "" {
		return nil, fmt.Errorf("handler id is required")
	}
	r.mu.RLock()
	h := r.handlers[handlerID]
	r.mu.RUnlock()
	if h == nil {
		return nil, fmt.Errorf("no handler registered for %s", handlerID)
	}
	return h(ctx, params, cfg)
}

// Register adds a handler to the default registry.
func Register(handlerID string, h HandlerFunc) error {
	return DefaultRegistry.Register(handlerID, h)
}

// MustRegister adds a handler to the default registry or panics.
func MustRegister(handlerID string, h HandlerFunc) {
	if err := Register(handlerID, h); err != nil {
		panic(err)
	}
}
