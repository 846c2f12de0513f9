package domain

import "encoding/json"

// ToolDefinition describes a capability a tenant exposes to the engine.
// Definitions are owned by tenant configuration and read-only for the
// duration of a request.
type ToolDefinition struct {
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description,omitempty" yaml:"description"`
	Mode        ToolMode        `json:"mode" yaml:"mode"`
	Parameters  json.RawMessage `json:"parameters,omitempty" yaml:"-"`
	URL         string          `json:"url,omitempty" yaml:"url"`     // webhook tools
	Token       string          `json:"token,omitempty" yaml:"token"` // webhook bearer credential reference
	Handler     string          `json:"handler,omitempty" yaml:"handler"`   // builtin tools: registry key
	Keywords    []string        `json:"keywords,omitempty" yaml:"keywords"` // fast-path detection triggers
}

// ToolIntent is a detected intent to invoke a tool with parameters.
type ToolIntent struct {
	Name       string                 `json:"name"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

// ToolResult is the outcome of a single tool invocation. A failing tool
// carries Err and does not affect sibling invocations.
type ToolResult struct {
	Name   string          `json:"name"`
	Result json.RawMessage `json:"result,omitempty"`
	Err    string          `json:"error,omitempty"`
}

// Failed reports whether the invocation produced an error.
func (r ToolResult) Failed() bool {
	return r.Err != ""
}
