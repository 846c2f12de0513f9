// Package tenant loads read-only per-tenant configuration.
package tenant

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/SydneyWamalwa/customer-service-ai/internal/domain"
)

// Config is the configuration for one tenant. It is immutable for the
// lifetime of a request.
type Config struct {
	TenantID           string                  `yaml:"tenant_id"`
	AgentName          string                  `yaml:"agent_name"`
	AgentPersona       string                  `yaml:"agent_persona"`
	Branding           string                  `yaml:"branding"`
	Tone               string                  `yaml:"tone"`
	Greeting           string                  `yaml:"greeting"`
	ApprovalWebhookURL string                  `yaml:"approval_webhook_url"`
	Tools              []domain.ToolDefinition `yaml:"tools"`
	ApprovalRules      []string                `yaml:"approval_rules"` // regex, evaluated in order
}

// DefaultConfig is returned for tenants without a configuration file.
var DefaultConfig = Config{
	AgentName:    "Support Assistant",
	AgentPersona: "You are a helpful customer support assistant.",
	Tone:         "friendly and professional",
	Greeting:     "Hello! How can I help you today?",
}

// Source is a read-only lookup of tenant configuration by tenant id.
type Source struct {
	mu      sync.RWMutex
	configs map[string]Config
}

// LoadDir reads every *.yaml file in dir into a Source. A missing
// directory yields an empty source, not an error.
func LoadDir(dir string) (*Source, error) {
	src := &Source{configs: make(map[string]Config)}

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return src, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read tenant config dir: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || (!strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml")) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read tenant config %s: %w", name, err)
		}
		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse tenant config %s: %w", name, err)
		}
		if cfg.TenantID == "" {
			cfg.TenantID = strings.TrimSuffix(strings.TrimSuffix(name, ".yaml"), ".yml")
		}
		src.configs[cfg.TenantID] = withDefaults(cfg)
	}
	return src, nil
}

// NewSource builds a source from explicit configs (used in tests).
func NewSource(configs ...Config) *Source {
	src := &Source{configs: make(map[string]Config, len(configs))}
	for _, cfg := range configs {
		src.configs[cfg.TenantID] = withDefaults(cfg)
	}
	return src
}

// Get returns the configuration for a tenant, or the default config.
func (s *Source) Get(tenantID string) Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if cfg, ok := s.configs[tenantID]; ok {
		return cfg
	}
	cfg := DefaultConfig
	cfg.TenantID = tenantID
	return cfg
}

// Tool returns the named tool definition for a tenant, if configured.
func (s *Source) Tool(tenantID, name string) (domain.ToolDefinition, bool) {
	for _, t := range s.Get(tenantID).Tools {
		if t.Name == name {
			return t, true
		}
	}
	return domain.ToolDefinition{}, false
}

func withDefaults(cfg Config) Config {
	if cfg.AgentName == "" {
		cfg.AgentName = DefaultConfig.AgentName
	}
	if cfg.AgentPersona == "" {
		cfg.AgentPersona = DefaultConfig.AgentPersona
	}
	if cfg.Tone == "" {
		cfg.Tone = DefaultConfig.Tone
	}
	if cfg.Greeting == "" {
		cfg.Greeting = DefaultConfig.Greeting
	}
	return cfg
}
