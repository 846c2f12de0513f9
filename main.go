package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SydneyWamalwa/customer-service-ai/internal/adapter/llm"
	"github.com/SydneyWamalwa/customer-service-ai/internal/adapter/vector"
	"github.com/SydneyWamalwa/customer-service-ai/internal/config"
	"github.com/SydneyWamalwa/customer-service-ai/internal/knowledge"
	store "github.com/SydneyWamalwa/customer-service-ai/internal/repository"
	"github.com/SydneyWamalwa/customer-service-ai/internal/service"
	"github.com/SydneyWamalwa/customer-service-ai/internal/session"
	"github.com/SydneyWamalwa/customer-service-ai/internal/tenant"
	"github.com/SydneyWamalwa/customer-service-ai/internal/tools"
	transport "github.com/SydneyWamalwa/customer-service-ai/internal/transport/http"
	"github.com/SydneyWamalwa/customer-service-ai/policy"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	logger.WithFields(logrus.Fields{
		"http_port":  cfg.HTTPPort,
		"admin_port": cfg.AdminPort,
		"database":   cfg.DatabaseURL,
	}).Info("starting support engine")

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize store")
	}
	defer db.Close()

	sessions := session.NewStore(db, cfg.HistoryCap)

	// Initialize generation and retrieval adapters
	llmClient := llm.NewHTTPClient(cfg.GenerationURL, cfg.GenerationAPIKey, cfg.GenerationModel, cfg.GenerationTimeout)
	embedder := vector.NewEmbeddingClient(cfg.EmbeddingURL, cfg.GenerationAPIKey, cfg.EmbeddingModel, cfg.RetrievalTimeout)
	index := vector.NewIndexClient(cfg.VectorIndexURL, cfg.VectorAPIKey, cfg.RetrievalTimeout)
	retriever := knowledge.NewRetriever(embedder, index, logger)

	// Initialize policy engine
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize policy engine")
	}

	// Load tenant configuration
	tenants, err := tenant.LoadDir(cfg.TenantConfigDir)
	if err != nil {
		logger.WithError(err).Fatal("failed to load tenant configuration")
	}

	// Initialize tool pipeline
	detector := tools.NewDetector(llmClient, logger)
	invoker := tools.NewInvoker(tools.DefaultRegistry, cfg.ToolTimeout, logger)

	// Initialize service
	svc := service.New(db, sessions, retriever, llmClient, detector, invoker,
		tenants, policyEngine, cfg, logger)

	publicServer := transport.NewPublicServer(svc)
	adminServer := transport.NewAdminServer(svc)

	// Start public server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := publicServer.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("failed to start public server")
		}
	}()

	// Start admin server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.AdminPort)
		if err := adminServer.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("failed to start admin server")
		}
	}()

	logger.WithField("port", cfg.HTTPPort).Info("public API started")
	logger.WithField("port", cfg.AdminPort).Info("admin API started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down support engine")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := publicServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("failed to shutdown public server gracefully")
	}
	if err := adminServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("failed to shutdown admin server gracefully")
	}

	logger.Info("support engine stopped")
}
