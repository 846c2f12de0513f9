package service

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/SydneyWamalwa/customer-service-ai/internal/adapter/llm"
	"github.com/SydneyWamalwa/customer-service-ai/internal/adapter/vector"
	"github.com/SydneyWamalwa/customer-service-ai/internal/config"
	"github.com/SydneyWamalwa/customer-service-ai/internal/domain"
	"github.com/SydneyWamalwa/customer-service-ai/internal/knowledge"
	store "github.com/SydneyWamalwa/customer-service-ai/internal/repository"
	"github.com/SydneyWamalwa/customer-service-ai/internal/session"
	"github.com/SydneyWamalwa/customer-service-ai/internal/tenant"
	"github.com/SydneyWamalwa/customer-service-ai/internal/tools"
	"github.com/SydneyWamalwa/customer-service-ai/policy"
)

// testDeps exposes the fakes behind a test service.
type testDeps struct {
	store     *store.SQLiteStore
	llmClient *llm.MockClient
	index     *vector.MockIndex
	tenants   *tenant.Source
	config    *config.Config
}

func testConfig() *config.Config {
	return &config.Config{
		GenerationTimeout:   5 * time.Second,
		RetrievalTimeout:    5 * time.Second,
		ToolTimeout:         5 * time.Second,
		HistoryCap:          100,
		HistoryWindow:       10,
		KnowledgeTopK:       3,
		EscalationLength:    200,
		TicketLength:        100,
		SimilarityThreshold: 0.85,
	}
}

func acmeTenant() tenant.Config {
	return tenant.Config{
		TenantID:  "acme",
		AgentName: "Acme Helper",
		Greeting:  "Welcome to Acme!",
		Tools: []domain.ToolDefinition{
			{
				Name:     "order.lookup",
				Mode:     domain.ToolModeBuiltin,
				Handler:  "order.lookup",
				Keywords: []string{"track my order", "where is my package"},
			},
			{
				Name:    "account.lookup",
				Mode:    domain.ToolModeBuiltin,
				Handler: "account.lookup",
			},
		},
	}
}

func newTestService(t *testing.T, tenantCfgs ...tenant.Config) (*Service, *testDeps) {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	db, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := testConfig()
	sessions := session.NewStore(db, cfg.HistoryCap)

	index := vector.NewMockIndex()
	retriever := knowledge.NewRetriever(&vector.MockEmbedder{}, index, logger)

	llmClient := llm.NewMockClient()
	detector := tools.NewDetector(llmClient, logger)
	invoker := tools.NewInvoker(tools.DefaultRegistry, cfg.ToolTimeout, logger)

	policyEngine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	require.NoError(t, err)

	if len(tenantCfgs) == 0 {
		tenantCfgs = []tenant.Config{acmeTenant()}
	}
	tenants := tenant.NewSource(tenantCfgs...)

	svc := New(db, sessions, retriever, llmClient, detector, invoker,
		tenants, policyEngine, cfg, logger)

	return svc, &testDeps{
		store:     db,
		llmClient: llmClient,
		index:     index,
		tenants:   tenants,
		config:    cfg,
	}
}
