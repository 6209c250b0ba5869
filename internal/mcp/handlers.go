package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sqlgram/sqlgram/internal/engine"
	"github.com/sqlgram/sqlgram/internal/grading"
	"github.com/sqlgram/sqlgram/internal/history"
	"github.com/sqlgram/sqlgram/internal/session"
	"github.com/sqlgram/sqlgram/internal/tutorial"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = history.MaxEntries
)

// parseLimit extracts and validates a limit parameter from MCP tool arguments.
// Returns defaultVal if not present, caps at maxVal if exceeded.
func parseLimit(arguments map[string]interface{}, defaultVal, maxVal int) int {
	if l, ok := arguments["limit"].(float64); ok && l > 0 {
		limit := int(l)
		if limit > maxVal {
			return maxVal
		}
		return limit
	}
	return defaultVal
}

// trackToolCall is a helper to track MCP tool invocations.
func (s *Server) trackToolCall(toolName string, start time.Time, success bool) {
	if s.telemetry != nil {
		durationMs := time.Since(start).Milliseconds()
		s.telemetry.TrackMCPToolCalled(toolName, durationMs, success)
	}
}

// wait blocks until the limiter admits another SQL execution.
func (s *Server) wait(ctx context.Context) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}

// textResult marshals v into a text tool result.
func textResult(v any) (*mcp.CallToolResult, bool) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), false
	}
	return mcp.NewToolResultText(string(data)), true
}

// TutorialResponse represents a tutorial in MCP tool responses.
type TutorialResponse struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	Order           int      `json:"order"`
	Exercises       []string `json:"exercises"`
	Started         bool     `json:"started"`
	Completed       bool     `json:"completed"`
	PercentComplete int      `json:"percent_complete"`
}

// TutorialListResponse is returned by sqlgram_list_tutorials.
type TutorialListResponse struct {
	Tutorials         []TutorialResponse `json:"tutorials"`
	OverallPercentage int                `json:"overall_percentage"`
}

// ExerciseResponse represents an exercise in MCP tool responses.
type ExerciseResponse struct {
	ID         string `json:"id"`
	TutorialID string `json:"tutorial_id"`
	Prompt     string `json:"prompt"`
	Grading    string `json:"grading"`
	Attempts   int    `json:"attempts"`
	Completed  bool   `json:"completed"`
	Solution   string `json:"solution,omitempty"`
}

// CheckResponse is returned by sqlgram_check_exercise.
type CheckResponse struct {
	ExerciseID        string             `json:"exercise_id"`
	TutorialID        string             `json:"tutorial_id"`
	Valid             bool               `json:"valid"`
	Kind              grading.Kind       `json:"kind"`
	Message           string             `json:"message"`
	Results           engine.QueryResult `json:"results"`
	Recorded          bool               `json:"recorded"`
	Attempts          int                `json:"attempts"`
	TutorialPercent   int                `json:"tutorial_percent"`
	TutorialCompleted bool               `json:"tutorial_completed"`
}

// QueryResponse is returned by sqlgram_run_query.
type QueryResponse struct {
	Success   bool               `json:"success"`
	Message   string             `json:"message"`
	Result    engine.QueryResult `json:"result"`
	RowCount  int                `json:"row_count"`
	ElapsedMs string             `json:"elapsed_ms"`
	Info      engine.QueryInfo   `json:"info"`
}

func gradingMode(ex *tutorial.Exercise) string {
	if ex.Config.UsesResultComparison() {
		return "result_comparison"
	}
	return "pattern"
}

// toolError maps a session error to the message shown to the client.
func toolError(err error) string {
	switch {
	case errors.Is(err, session.ErrEmptyQuery):
		return session.MsgEmptyQuery
	case errors.Is(err, engine.ErrUnavailable):
		return grading.MsgEngineUnavailable
	default:
		return err.Error()
	}
}

// handleListTutorials handles the sqlgram_list_tutorials tool.
func (s *Server) handleListTutorials(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()

	summaries, overall := s.sess.Overview()
	resp := TutorialListResponse{
		Tutorials:         make([]TutorialResponse, 0, len(summaries)),
		OverallPercentage: overall,
	}
	for _, sum := range summaries {
		t := sum.Tutorial
		ids := make([]string, 0, len(t.Exercises))
		for _, ex := range t.Exercises {
			ids = append(ids, ex.ID)
		}
		resp.Tutorials = append(resp.Tutorials, TutorialResponse{
			ID:              t.ID,
			Title:           t.Title,
			Description:     t.Description,
			Order:           t.Order,
			Exercises:       ids,
			Started:         sum.Progress.Started,
			Completed:       sum.Progress.Completed,
			PercentComplete: sum.Progress.PercentComplete,
		})
	}

	result, ok := textResult(resp)
	s.trackToolCall("sqlgram_list_tutorials", start, ok)
	return result, nil
}

// handleGetExercise handles the sqlgram_get_exercise tool.
func (s *Server) handleGetExercise(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()

	id, ok := req.Params.Arguments["exercise_id"].(string)
	if !ok || id == "" {
		s.trackToolCall("sqlgram_get_exercise", start, false)
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}

	ex, err := s.sess.Catalog().FindExercise(id)
	if err != nil {
		s.trackToolCall("sqlgram_get_exercise", start, false)
		return mcp.NewToolResultError(fmt.Sprintf("exercise not found: %s", id)), nil
	}

	resp := ExerciseResponse{
		ID:         ex.ID,
		TutorialID: ex.TutorialID,
		Prompt:     ex.Prompt,
		Grading:    gradingMode(ex),
	}
	if p, ok := s.sess.Ledger().Tutorial(ex.TutorialID).Exercises[ex.ID]; ok {
		resp.Attempts = p.Attempts
		resp.Completed = p.Completed
	}
	if include, _ := req.Params.Arguments["include_solution"].(bool); include {
		resp.Solution = ex.Config.Solution
		s.telemetry.TrackSolutionRevealed(ex.ID)
	}

	result, ok := textResult(resp)
	s.trackToolCall("sqlgram_get_exercise", start, ok)
	return result, nil
}

// handleCheckExercise handles the sqlgram_check_exercise tool.
func (s *Server) handleCheckExercise(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()

	id, ok := req.Params.Arguments["exercise_id"].(string)
	if !ok || id == "" {
		s.trackToolCall("sqlgram_check_exercise", start, false)
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}
	query, _ := req.Params.Arguments["query"].(string)

	ex, err := s.sess.Catalog().FindExercise(id)
	if err != nil {
		s.trackToolCall("sqlgram_check_exercise", start, false)
		return mcp.NewToolResultError(fmt.Sprintf("exercise not found: %s", id)), nil
	}

	if err := s.wait(ctx); err != nil {
		s.trackToolCall("sqlgram_check_exercise", start, false)
		return mcp.NewToolResultError(err.Error()), nil
	}

	sub, err := s.sess.SubmitExercise(ctx, ex.TutorialID, ex.ID, query)
	if err != nil {
		s.trackToolCall("sqlgram_check_exercise", start, false)
		return mcp.NewToolResultError(toolError(err)), nil
	}

	resp := CheckResponse{
		ExerciseID:        ex.ID,
		TutorialID:        ex.TutorialID,
		Valid:             sub.Verdict.Valid,
		Kind:              sub.Verdict.Kind,
		Message:           sub.Verdict.Message,
		Results:           sub.Verdict.Results,
		Recorded:          sub.Recorded,
		TutorialPercent:   sub.Progress.PercentComplete,
		TutorialCompleted: sub.Progress.Completed,
	}
	if p, ok := sub.Progress.Exercises[ex.ID]; ok {
		resp.Attempts = p.Attempts
	}

	result, ok := textResult(resp)
	s.trackToolCall("sqlgram_check_exercise", start, ok)
	return result, nil
}

// handleGetProgress handles the sqlgram_get_progress tool.
func (s *Server) handleGetProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()

	state := s.sess.Ledger().State()
	s.telemetry.TrackProgressViewed(state.OverallPercentage)

	result, ok := textResult(state)
	s.trackToolCall("sqlgram_get_progress", start, ok)
	return result, nil
}

// handleResetProgress handles the sqlgram_reset_progress tool.
func (s *Server) handleResetProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()

	s.sess.ResetProgress()

	result, ok := textResult(map[string]any{
		"success": true,
		"message": "Progress reset.",
	})
	s.trackToolCall("sqlgram_reset_progress", start, ok)
	return result, nil
}

// handleRunQuery handles the sqlgram_run_query tool.
func (s *Server) handleRunQuery(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()

	query, _ := req.Params.Arguments["query"].(string)

	if err := s.wait(ctx); err != nil {
		s.trackToolCall("sqlgram_run_query", start, false)
		return mcp.NewToolResultError(err.Error()), nil
	}

	run, err := s.sess.RunQuery(ctx, query)
	if err != nil {
		s.trackToolCall("sqlgram_run_query", start, false)
		return mcp.NewToolResultError(toolError(err)), nil
	}

	resp := QueryResponse{
		Success:   run.Success,
		Message:   run.Message,
		Result:    run.Result,
		RowCount:  run.Result.Len(),
		ElapsedMs: run.ElapsedMillis(),
		Info:      run.Info,
	}

	// A failing statement is a normal answer here; the client sees the
	// cleaned SQL error in the message.
	result, ok := textResult(resp)
	s.trackToolCall("sqlgram_run_query", start, ok && run.Success)
	return result, nil
}

// handleResetDatabase handles the sqlgram_reset_database tool.
func (s *Server) handleResetDatabase(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()

	if err := s.wait(ctx); err != nil {
		s.trackToolCall("sqlgram_reset_database", start, false)
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.sess.ResetDatabase(ctx, "mcp"); err != nil {
		s.trackToolCall("sqlgram_reset_database", start, false)
		return mcp.NewToolResultError(toolError(err)), nil
	}

	result, ok := textResult(map[string]any{
		"success": true,
		"message": "Database reset to its original state.",
	})
	s.trackToolCall("sqlgram_reset_database", start, ok)
	return result, nil
}

// handleGetHistory handles the sqlgram_get_history tool.
func (s *Server) handleGetHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()

	limit := parseLimit(req.Params.Arguments, defaultHistoryLimit, maxHistoryLimit)
	entries := s.sess.History().List()
	s.telemetry.TrackHistoryViewed(len(entries))
	if entries == nil {
		entries = []history.Entry{}
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}

	result, ok := textResult(entries)
	s.trackToolCall("sqlgram_get_history", start, ok)
	return result, nil
}
