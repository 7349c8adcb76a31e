// Package policy evaluates the content policy for generated hashtags.
package policy

import (
	"context"
	"fmt"
	"log"

	"github.com/open-policy-agent/opa/rego"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given rego policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.hashtag_policy.decision"),
		rego.Module("hashtag_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate returns the policy decision ("allow" or "block") for a single
// cleaned hashtag.
func (e *Engine) Evaluate(ctx context.Context, tag string) (string, error) {
	input := map[string]interface{}{"tag": tag}
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		// The policy defines a default, so an empty result means the
		// module is misconfigured; treat as allow.
		return "allow", nil
	}

	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}
	return "allow", nil
}

// Allow implements curate.TagPolicy. Evaluation errors fail open: a policy
// engine problem must not empty the hashtag list.
func (e *Engine) Allow(ctx context.Context, tag string) bool {
	decision, err := e.Evaluate(ctx, tag)
	if err != nil {
		log.Printf("WARN: hashtag policy evaluation failed for %q: %v", tag, err)
		return true
	}
	return decision != "block"
}

// DefaultPolicy blocks the fixed banned-term set. Operators can supply an
// alternate module at startup.
const DefaultPolicy = `
package hashtag_policy

import rego.v1

default decision := "allow"

banned := {
	"followforfollow",
	"follow4follow",
	"likeforlike",
	"like4like",
	"nsfw",
	"onlyfans",
	"spam",
}

decision := "block" if input.tag in banned
`
