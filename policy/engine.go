// Package policy evaluates messages against approval rules with OPA.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Input is the document evaluated against the policy.
type Input struct {
	Message string   `json:"message"`
	Rules   []string `json:"rules"` // tenant-supplied regex rules
}

// Engine is the OPA policy engine, prepared once at startup.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.support_policy.decision"),
		rego.Module("support_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate checks a message against the approval policy.
// Returns "allow" or "require_approval".
func (e *Engine) Evaluate(ctx context.Context, input Input) (string, error) {
	if input.Rules == nil {
		input.Rules = []string{}
	}
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return "allow", nil
	}

	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}
	return "allow", nil
}

// DefaultPolicy encodes the platform high-risk actions that always need
// sign-off, plus evaluation of tenant regex rules passed in the input.
const DefaultPolicy = `
package support_policy

import rego.v1

default decision := "allow"

high_risk := {
	"delete my account",
	"close my account",
	"refund",
	"money back",
	"chargeback",
	"cancel my subscription and refund",
	"change my billing",
	"update my payment",
	"remove my data",
	"delete my data",
	"gdpr",
	"right to be forgotten",
}

decision := "require_approval" if {
	some kw in high_risk
	contains(lower(input.message), kw)
}

decision := "require_approval" if {
	some rule in input.rules
	regex.match(rule, input.message)
}
`
