package grading

import "github.com/sqlgram/sqlgram/internal/engine"

// Kind tags the outcome of a validation.
type Kind string

const (
	Passed             Kind = "passed"
	Failed             Kind = "failed"
	ExecutionError     Kind = "execution_error"
	ConfigurationError Kind = "configuration_error"
	EngineUnavailable  Kind = "engine_unavailable"
)

// Learner-facing messages.
const (
	MsgResultsMatch      = "Correct! Your query produces the expected results."
	MsgResultsMismatch   = "Your query doesn't match the expected output."
	MsgPatternMatch      = "Correct! Your query matches the expected pattern."
	MsgPatternMismatch   = "Your query doesn't match the expected pattern."
	MsgInternalError     = "Internal validation error"
	MsgEngineUnavailable = "Failed to initialize SQL database. Please restart sqlgram and try again."
)

// Verdict is the result of grading one query.
type Verdict struct {
	Valid   bool               `json:"valid"`
	Kind    Kind               `json:"kind"`
	Message string             `json:"message"`
	Results engine.QueryResult `json:"results"`
}

// CountsAsAttempt reports whether the verdict reflects the learner's work.
// Broken exercises and an unavailable engine are not the learner's attempts.
func (v Verdict) CountsAsAttempt() bool {
	return v.Kind != ConfigurationError && v.Kind != EngineUnavailable
}
