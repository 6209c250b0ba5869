package grading

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sqlgram/sqlgram/internal/engine"
)

// Runner executes SQL and returns its rows. *engine.Engine satisfies it.
type Runner interface {
	Execute(ctx context.Context, query string) (engine.QueryResult, error)
}

// Validator grades learner queries against exercise configs.
type Validator struct {
	runner Runner
}

// NewValidator returns a Validator executing queries through runner.
func NewValidator(runner Runner) *Validator {
	return &Validator{runner: runner}
}

// Validate runs query and grades it with exactly one strategy: result-set
// comparison when the config carries a validation query, text checks
// otherwise.
func (v *Validator) Validate(ctx context.Context, query string, cfg *Compiled) Verdict {
	results, err := v.runner.Execute(ctx, query)
	if err != nil {
		if errors.Is(err, engine.ErrUnavailable) {
			return Verdict{Kind: EngineUnavailable, Message: MsgEngineUnavailable}
		}
		return Verdict{Kind: ExecutionError, Message: engine.ErrorMessage(err)}
	}

	if cfg.UsesResultComparison() {
		expected, err := v.runner.Execute(ctx, cfg.ValidationQuery)
		if err != nil {
			return Verdict{Kind: ConfigurationError, Message: MsgInternalError, Results: results}
		}
		if CompareResults(results, expected, cfg.ExerciseConfig) {
			return Verdict{Valid: true, Kind: Passed, Message: MsgResultsMatch, Results: results}
		}
		return Verdict{Kind: Failed, Message: MsgResultsMismatch, Results: results}
	}

	if msg, ok := cfg.MatchPatterns(query); !ok {
		return Verdict{Kind: Failed, Message: msg, Results: results}
	}
	return Verdict{Valid: true, Kind: Passed, Message: MsgPatternMatch, Results: results}
}

// MatchPatterns checks the query text: required keywords, then required
// patterns, then forbidden keywords. The first failure's message is returned.
func (c *Compiled) MatchPatterns(query string) (string, bool) {
	q := strings.ToLower(query)

	for _, kw := range c.RequiredKeywords {
		if !strings.Contains(q, strings.ToLower(kw)) {
			return fmt.Sprintf("Your query should include the '%s' keyword.", kw), false
		}
	}
	for _, re := range c.patterns {
		if !re.MatchString(q) {
			return MsgPatternMismatch, false
		}
	}
	for _, kw := range c.ForbiddenKeywords {
		if strings.Contains(q, strings.ToLower(kw)) {
			return fmt.Sprintf("Your query should not include the '%s' keyword.", kw), false
		}
	}
	return "", true
}
