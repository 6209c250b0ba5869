package engine

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Execution is the playground view of one run.
type Execution struct {
	Success bool          `json:"success"`
	Result  QueryResult   `json:"result"`
	Message string        `json:"message"`
	Elapsed time.Duration `json:"elapsed"`
}

// ElapsedMillis formats the elapsed time with two decimals.
func (x Execution) ElapsedMillis() string {
	return fmt.Sprintf("%.2f", float64(x.Elapsed)/float64(time.Millisecond))
}

// Run executes query and converts the outcome into an Execution. Engine
// unavailability is returned as an error; SQL failures are not.
func (e *Engine) Run(ctx context.Context, query string) (Execution, error) {
	start := time.Now()
	result, err := e.Execute(ctx, query)
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return Execution{}, err
		}
		return Execution{
			Success: false,
			Message: ErrorMessage(err),
		}, nil
	}

	msg := "Query executed successfully. No results returned."
	if n := result.Len(); n > 0 {
		msg = fmt.Sprintf("Query executed successfully. Returned %d row(s).", n)
	}
	return Execution{
		Success: true,
		Result:  result,
		Message: msg,
		Elapsed: elapsed,
	}, nil
}

// ErrorMessage renders an execution failure for the learner.
func ErrorMessage(err error) string {
	var qe *QueryError
	if errors.As(err, &qe) {
		return "Error: " + qe.Message
	}
	return "Error: " + err.Error()
}
