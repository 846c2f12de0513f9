// Package metrics registers the engine's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ChatTurns counts processed chat turns by outcome
	// (resolved, pending_approval, escalated, fallback, plain).
	ChatTurns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "support_engine_chat_turns_total",
			Help: "Total number of processed chat turns",
		},
		[]string{"tenant", "outcome"},
	)

	// ToolInvocations counts tool invocations by tool and status.
	ToolInvocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "support_engine_tool_invocations_total",
			Help: "Total number of tool invocations",
		},
		[]string{"tool", "status"},
	)

	// Escalations counts conversations routed to a human.
	Escalations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "support_engine_escalations_total",
			Help: "Total number of escalated conversations",
		},
		[]string{"tenant"},
	)

	// ApprovalDecisions counts approval decisions by outcome.
	ApprovalDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "support_engine_approval_decisions_total",
			Help: "Total number of approval decisions",
		},
		[]string{"decision"},
	)

	// GenerationDuration observes generation service latency.
	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "support_engine_generation_duration_seconds",
			Help:    "Generation service call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// RetrievalDuration observes knowledge retrieval latency.
	RetrievalDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "support_engine_retrieval_duration_seconds",
			Help:    "Knowledge retrieval duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
