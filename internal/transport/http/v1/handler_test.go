package v1

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/SydneyWamalwa/customer-service-ai/internal/adapter/llm"
	"github.com/SydneyWamalwa/customer-service-ai/internal/adapter/vector"
	"github.com/SydneyWamalwa/customer-service-ai/internal/config"
	"github.com/SydneyWamalwa/customer-service-ai/internal/knowledge"
	store "github.com/SydneyWamalwa/customer-service-ai/internal/repository"
	"github.com/SydneyWamalwa/customer-service-ai/internal/service"
	"github.com/SydneyWamalwa/customer-service-ai/internal/session"
	"github.com/SydneyWamalwa/customer-service-ai/internal/tenant"
	"github.com/SydneyWamalwa/customer-service-ai/internal/tools"
	"github.com/SydneyWamalwa/customer-service-ai/policy"
)

func newTestHandler(t *testing.T) (*Handler, *store.SQLiteStore, *llm.MockClient) {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	db, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		GenerationTimeout:   time.Second,
		RetrievalTimeout:    time.Second,
		ToolTimeout:         time.Second,
		HistoryCap:          100,
		HistoryWindow:       10,
		KnowledgeTopK:       3,
		EscalationLength:    200,
		TicketLength:        100,
		SimilarityThreshold: 0.85,
	}

	llmClient := llm.NewMockClient()
	retriever := knowledge.NewRetriever(&vector.MockEmbedder{}, vector.NewMockIndex(), logger)
	policyEngine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	require.NoError(t, err)

	svc := service.New(db, session.NewStore(db, cfg.HistoryCap), retriever, llmClient,
		tools.NewDetector(llmClient, logger),
		tools.NewInvoker(tools.DefaultRegistry, cfg.ToolTimeout, logger),
		tenant.NewSource(tenant.Config{TenantID: "acme", AgentName: "Acme Helper"}),
		policyEngine, cfg, logger)

	return NewHandler(svc), db, llmClient
}
