// Package service implements the conversational-support engine.
package service

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/SydneyWamalwa/customer-service-ai/internal/adapter/llm"
	"github.com/SydneyWamalwa/customer-service-ai/internal/config"
	"github.com/SydneyWamalwa/customer-service-ai/internal/knowledge"
	store "github.com/SydneyWamalwa/customer-service-ai/internal/repository"
	"github.com/SydneyWamalwa/customer-service-ai/internal/session"
	"github.com/SydneyWamalwa/customer-service-ai/internal/tenant"
	"github.com/SydneyWamalwa/customer-service-ai/internal/tools"
	"github.com/SydneyWamalwa/customer-service-ai/policy"
)

// Service coordinates sessions, escalation, tickets, retrieval, tools
// and generation for each inbound message.
type Service struct {
	store        store.Store
	sessions     *session.Store
	retriever    *knowledge.Retriever
	llmClient    llm.Client
	detector     *tools.Detector
	invoker      *tools.Invoker
	tenants      *tenant.Source
	policyEngine *policy.Engine
	config       *config.Config
	logger       *logrus.Logger
	notifyClient *http.Client
}

// New creates the service.
func New(st store.Store, sessions *session.Store, retriever *knowledge.Retriever,
	llmClient llm.Client, detector *tools.Detector, invoker *tools.Invoker,
	tenants *tenant.Source, policyEngine *policy.Engine, cfg *config.Config,
	logger *logrus.Logger) *Service {
	return &Service{
		store:        st,
		sessions:     sessions,
		retriever:    retriever,
		llmClient:    llmClient,
		detector:     detector,
		invoker:      invoker,
		tenants:      tenants,
		policyEngine: policyEngine,
		config:       cfg,
		logger:       logger,
		notifyClient: &http.Client{Timeout: cfg.ToolTimeout},
	}
}

// truncate shortens a string for context blocks and logs.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
