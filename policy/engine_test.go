package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(context.Background(), DefaultPolicy)
	require.NoError(t, err)
	return engine
}

func TestEvaluateAllowsBenignMessage(t *testing.T) {
	engine := newTestEngine(t)

	decision, err := engine.Evaluate(context.Background(), Input{
		Message: "What are your opening hours?",
	})
	require.NoError(t, err)
	assert.Equal(t, "allow", decision)
}

func TestEvaluateFlagsHighRiskActions(t *testing.T) {
	engine := newTestEngine(t)

	for _, msg := range []string{
		"Please delete my account immediately",
		"I want a REFUND for my last order",
		"I'm filing a chargeback with my bank",
		"Remove my data under GDPR",
	} {
		decision, err := engine.Evaluate(context.Background(), Input{Message: msg})
		require.NoError(t, err)
		assert.Equal(t, "require_approval", decision, "message: %s", msg)
	}
}

func TestEvaluateAppliesTenantRules(t *testing.T) {
	engine := newTestEngine(t)

	rules := []string{`(?i)transfer .* ownership`, `discount code`}

	decision, err := engine.Evaluate(context.Background(), Input{
		Message: "Can you transfer the account ownership to my colleague?",
		Rules:   rules,
	})
	require.NoError(t, err)
	assert.Equal(t, "require_approval", decision)

	decision, err = engine.Evaluate(context.Background(), Input{
		Message: "Where is my package?",
		Rules:   rules,
	})
	require.NoError(t, err)
	assert.Equal(t, "allow", decision)
}

func TestEvaluateNilRules(t *testing.T) {
	engine := newTestEngine(t)

	decision, err := engine.Evaluate(context.Background(), Input{Message: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "allow", decision)
}
