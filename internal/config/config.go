// Package config provides configuration for the support engine.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the engine configuration.
type Config struct {
	// Server settings
	HTTPPort  int
	AdminPort int

	// Database
	DatabaseURL string

	// Tenant configuration directory (YAML files, one per tenant)
	TenantConfigDir string

	// Generation service (OpenAI-compatible)
	GenerationURL    string
	GenerationAPIKey string
	GenerationModel  string

	// Embedding / vector index service
	EmbeddingURL   string
	EmbeddingModel string
	VectorIndexURL string
	VectorAPIKey   string

	// Timeouts
	GenerationTimeout time.Duration
	RetrievalTimeout  time.Duration
	ToolTimeout       time.Duration

	// Conversation policy defaults. The thresholds are a default
	// policy, not a contract; operators tune them per deployment.
	HistoryCap          int
	HistoryWindow       int     // most-recent turns sent to generation
	KnowledgeTopK       int
	EscalationLength    int     // message length that triggers escalation
	TicketLength        int     // message length that marks a ticket
	SimilarityThreshold float64 // reuse a prior resolution above this score

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:            getEnvInt("HTTP_PORT", 8080),
		AdminPort:           getEnvInt("ADMIN_PORT", 8081),
		DatabaseURL:         getEnv("DATABASE_URL", "file:support.db?cache=shared&mode=rwc"),
		TenantConfigDir:     getEnv("TENANT_CONFIG_DIR", "tenants"),
		GenerationURL:       getEnv("GENERATION_URL", "http://localhost:4000"),
		GenerationAPIKey:    getEnv("GENERATION_API_KEY", ""),
		GenerationModel:     getEnv("GENERATION_MODEL", "gpt-4o-mini"),
		EmbeddingURL:        getEnv("EMBEDDING_URL", "http://localhost:4000"),
		EmbeddingModel:      getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		VectorIndexURL:      getEnv("VECTOR_INDEX_URL", "http://localhost:6333"),
		VectorAPIKey:        getEnv("VECTOR_API_KEY", ""),
		GenerationTimeout:   time.Duration(getEnvInt("GENERATION_TIMEOUT_MS", 30000)) * time.Millisecond,
		RetrievalTimeout:    time.Duration(getEnvInt("RETRIEVAL_TIMEOUT_MS", 10000)) * time.Millisecond,
		ToolTimeout:         time.Duration(getEnvInt("TOOL_TIMEOUT_MS", 15000)) * time.Millisecond,
		HistoryCap:          getEnvInt("HISTORY_CAP", 100),
		HistoryWindow:       getEnvInt("HISTORY_WINDOW", 10),
		KnowledgeTopK:       getEnvInt("KNOWLEDGE_TOP_K", 3),
		EscalationLength:    getEnvInt("ESCALATION_LENGTH", 200),
		TicketLength:        getEnvInt("TICKET_LENGTH", 100),
		SimilarityThreshold: getEnvFloat("SIMILARITY_THRESHOLD", 0.85),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
