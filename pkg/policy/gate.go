package policy

import (
	"context"
	"fmt"
	"time"

	"github.com/open-policy-agent/opa/rego"
	"github.com/open-policy-agent/opa/storage/inmem"
	"github.com/rs/zerolog"

	"github.com/satellite-sync/satellite/pkg/engine"
)

// Gate evaluates the built-in environment policy. It implements
// engine.Gate and fails closed: any evaluation problem denies the run.
type Gate struct {
	policy     Policy
	allowQuery rego.PreparedEvalQuery
	denyQuery  rego.PreparedEvalQuery
	logger     zerolog.Logger
}

// NewGate compiles the environment gate policy.
func NewGate(logger zerolog.Logger) (*Gate, error) {
	g := &Gate{
		policy: EnvironmentGatePolicy(),
		logger: logger.With().Str("component", "environment-gate").Logger(),
	}

	store := inmem.New()
	ctx := context.Background()

	allowQuery, err := rego.New(
		rego.Module(g.policy.Name, g.policy.Rego),
		rego.Store(store),
		rego.Query(fmt.Sprintf("data.%s.allow", g.policy.Package)),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare policy %s: %w", g.policy.Name, err)
	}

	denyQuery, err := rego.New(
		rego.Module(g.policy.Name, g.policy.Rego),
		rego.Store(store),
		rego.Query(fmt.Sprintf("data.%s.deny", g.policy.Package)),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare policy %s: %w", g.policy.Name, err)
	}

	g.allowQuery = allowQuery
	g.denyQuery = denyQuery
	return g, nil
}

// IsSafe reports whether the named environment is permitted to receive a
// sync. The comparison inside the policy is exact and case-sensitive.
func (g *Gate) IsSafe(ctx context.Context, environment string) (bool, error) {
	input := map[string]interface{}{"environment": environment}

	results, err := g.allowQuery.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return false, engine.NewInternalError("environment policy evaluation failed", err)
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return false, nil
	}

	allowed, ok := results[0].Expressions[0].Value.(bool)
	if !ok {
		return false, nil
	}

	g.logger.Debug().
		Str("environment", environment).
		Bool("allowed", allowed).
		Msg("environment gate evaluated")

	return allowed, nil
}

// Explain returns the policy violations for a denied environment, for
// diagnostic output. An allowed environment yields an empty decision.
func (g *Gate) Explain(ctx context.Context, environment string) (*Decision, error) {
	allowed, err := g.IsSafe(ctx, environment)
	if err != nil {
		return nil, err
	}

	decision := &Decision{
		Allowed:     allowed,
		EvaluatedAt: time.Now(),
	}
	if allowed {
		return decision, nil
	}

	results, err := g.denyQuery.Eval(ctx, rego.EvalInput(map[string]interface{}{"environment": environment}))
	if err != nil {
		return nil, engine.NewInternalError("environment policy evaluation failed", err)
	}

	for _, result := range results {
		for _, expr := range result.Expressions {
			denySet, ok := expr.Value.([]interface{})
			if !ok {
				continue
			}
			for _, d := range denySet {
				decision.Violations = append(decision.Violations, g.violation(d))
			}
		}
	}

	return decision, nil
}

// violation converts a raw deny result into a Violation.
func (g *Gate) violation(result interface{}) Violation {
	v := Violation{
		Policy:     g.policy.Name,
		Severity:   g.policy.Severity,
		DetectedAt: time.Now(),
	}

	switch t := result.(type) {
	case string:
		v.Message = t
	case map[string]interface{}:
		if msg, ok := t["message"].(string); ok {
			v.Message = msg
		}
		if sev, ok := t["severity"].(string); ok {
			v.Severity = Severity(sev)
		}
	default:
		v.Message = fmt.Sprintf("%v", result)
	}

	return v
}
