// Package http provides the HTTP server implementation for the support engine.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SydneyWamalwa/customer-service-ai/internal/service"
	"github.com/SydneyWamalwa/customer-service-ai/internal/transport/http/adminapi"
	v1 "github.com/SydneyWamalwa/customer-service-ai/internal/transport/http/v1"
)

// NewPublicServer creates and configures the customer-facing HTTP server.
// This server handles chat turns and transcript reads.
func NewPublicServer(svc *service.Service) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Handlers
	v1Handler := v1.NewHandler(svc)
	v1Handler.RegisterRoutes(e)

	return e
}

// NewAdminServer creates and configures the operator-facing HTTP server.
// This server handles approval decisions, knowledge ingestion, and metrics.
func NewAdminServer(svc *service.Service) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Handlers
	adminHandler := adminapi.NewHandler(svc)
	adminHandler.RegisterRoutes(e)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
