package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlgram/sqlgram/internal/config"
	"github.com/sqlgram/sqlgram/internal/grading"
	"github.com/sqlgram/sqlgram/internal/history"
	"github.com/sqlgram/sqlgram/internal/progress"
	"github.com/sqlgram/sqlgram/internal/telemetry"
	"github.com/sqlgram/sqlgram/internal/testutil"
)

func setupTestServer(t *testing.T) (*Server, *testutil.Fixture) {
	t.Helper()
	f := testutil.NewSession(t)
	s := NewServer(f.Session, config.MCPConfig{}, f.Telemetry)
	return s, f
}

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func decode[T any](t *testing.T, result *mcp.CallToolResult) T {
	t.Helper()
	require.False(t, result.IsError, resultText(t, result))
	var v T
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &v))
	return v
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		name string
		args map[string]interface{}
		want int
	}{
		{"missing", map[string]interface{}{}, 10},
		{"within range", map[string]interface{}{"limit": float64(5)}, 5},
		{"capped", map[string]interface{}{"limit": float64(500)}, 20},
		{"zero uses default", map[string]interface{}{"limit": float64(0)}, 10},
		{"wrong type", map[string]interface{}{"limit": "7"}, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLimit(tt.args, defaultHistoryLimit, maxHistoryLimit))
		})
	}
}

func TestHandleListTutorials(t *testing.T) {
	s, _ := setupTestServer(t)

	resp := decode[TutorialListResponse](t, callTool(t, s.handleListTutorials, nil))
	require.Len(t, resp.Tutorials, 8)
	assert.Equal(t, "select", resp.Tutorials[0].ID)
	assert.Equal(t, "SELECT Basics", resp.Tutorials[0].Title)
	assert.Len(t, resp.Tutorials[0].Exercises, 5)
	assert.Equal(t, 0, resp.OverallPercentage)
}

func TestHandleGetExercise(t *testing.T) {
	s, f := setupTestServer(t)

	t.Run("without solution", func(t *testing.T) {
		resp := decode[ExerciseResponse](t, callTool(t, s.handleGetExercise, map[string]any{
			"exercise_id": "select-1",
		}))
		assert.Equal(t, "select-1", resp.ID)
		assert.Equal(t, "select", resp.TutorialID)
		assert.Equal(t, "pattern", resp.Grading)
		assert.Empty(t, resp.Solution)
		assert.Empty(t, f.Telemetry.Named(telemetry.EventSolutionRevealed))
	})

	t.Run("with solution", func(t *testing.T) {
		resp := decode[ExerciseResponse](t, callTool(t, s.handleGetExercise, map[string]any{
			"exercise_id":      "select-1",
			"include_solution": true,
		}))
		assert.Equal(t, "SELECT product_name, price FROM products;", resp.Solution)
		assert.Len(t, f.Telemetry.Named(telemetry.EventSolutionRevealed), 1)
	})

	t.Run("result comparison exercise", func(t *testing.T) {
		resp := decode[ExerciseResponse](t, callTool(t, s.handleGetExercise, map[string]any{
			"exercise_id": "where-3",
		}))
		assert.Equal(t, "result_comparison", resp.Grading)
	})

	t.Run("missing id", func(t *testing.T) {
		result := callTool(t, s.handleGetExercise, map[string]any{})
		assert.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "exercise_id parameter is required")
	})

	t.Run("unknown id", func(t *testing.T) {
		result := callTool(t, s.handleGetExercise, map[string]any{"exercise_id": "nope-9"})
		assert.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "exercise not found")
	})
}

func TestHandleCheckExercise(t *testing.T) {
	s, f := setupTestServer(t)

	t.Run("correct answer is recorded", func(t *testing.T) {
		resp := decode[CheckResponse](t, callTool(t, s.handleCheckExercise, map[string]any{
			"exercise_id": "select-1",
			"query":       "SELECT product_name, price FROM products",
		}))
		assert.True(t, resp.Valid)
		assert.Equal(t, grading.Passed, resp.Kind)
		assert.Equal(t, grading.MsgPatternMatch, resp.Message)
		assert.True(t, resp.Recorded)
		assert.Equal(t, 1, resp.Attempts)
		assert.Equal(t, 100, resp.TutorialPercent)
		assert.False(t, resp.TutorialCompleted)
		assert.Equal(t, 5, resp.Results.Len())
	})

	t.Run("wrong answer counts as an attempt", func(t *testing.T) {
		resp := decode[CheckResponse](t, callTool(t, s.handleCheckExercise, map[string]any{
			"exercise_id": "select-2",
			"query":       "SELECT id FROM users",
		}))
		assert.False(t, resp.Valid)
		assert.Equal(t, grading.Failed, resp.Kind)
		assert.True(t, resp.Recorded)
		assert.Equal(t, 1, resp.Attempts)
		assert.Equal(t, 55, resp.TutorialPercent)
	})

	t.Run("empty query", func(t *testing.T) {
		result := callTool(t, s.handleCheckExercise, map[string]any{
			"exercise_id": "select-1",
			"query":       "   ",
		})
		assert.True(t, result.IsError)
		assert.Equal(t, "Please enter an SQL query.", resultText(t, result))
	})

	t.Run("unknown exercise", func(t *testing.T) {
		result := callTool(t, s.handleCheckExercise, map[string]any{
			"exercise_id": "select-99",
			"query":       "SELECT 1",
		})
		assert.True(t, result.IsError)
	})

	calls := f.Telemetry.Named(telemetry.EventMCPToolCalled)
	require.NotEmpty(t, calls)
	assert.Equal(t, "sqlgram_check_exercise", calls[0].Properties["tool_name"])
	assert.Equal(t, true, calls[0].Properties["success"])
}

func TestHandleRunQuery(t *testing.T) {
	s, f := setupTestServer(t)

	t.Run("select returns rows", func(t *testing.T) {
		resp := decode[QueryResponse](t, callTool(t, s.handleRunQuery, map[string]any{
			"query": "SELECT id, username FROM users ORDER BY id",
		}))
		assert.True(t, resp.Success)
		assert.Equal(t, 5, resp.RowCount)
		assert.Equal(t, []string{"id", "username"}, resp.Result.Columns)
		assert.Equal(t, "select", resp.Info.Kind)
		assert.Equal(t, []string{"users"}, resp.Info.Tables)
	})

	t.Run("sql error is reported, not raised", func(t *testing.T) {
		result := callTool(t, s.handleRunQuery, map[string]any{"query": "SELECT * FROM missing"})
		assert.False(t, result.IsError)
		var resp QueryResponse
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, "Error: no such table: missing", resp.Message)
	})

	t.Run("empty query", func(t *testing.T) {
		result := callTool(t, s.handleRunQuery, map[string]any{})
		assert.True(t, result.IsError)
	})

	assert.Equal(t, 2, f.Session.History().Len())
}

func TestHandleRunQuery_InfiniteFloat(t *testing.T) {
	s, _ := setupTestServer(t)

	result := callTool(t, s.handleRunQuery, map[string]any{"query": "SELECT 1e999 AS big"})
	require.False(t, result.IsError, resultText(t, result))

	var resp struct {
		Success bool `json:"success"`
		Result  struct {
			Rows []map[string]any `json:"rows"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Result.Rows, 1)
	assert.Contains(t, resp.Result.Rows[0], "big")
	assert.Nil(t, resp.Result.Rows[0]["big"])
}

func TestHandleResetDatabase(t *testing.T) {
	s, f := setupTestServer(t)

	callTool(t, s.handleRunQuery, map[string]any{"query": "DELETE FROM products"})
	result := callTool(t, s.handleResetDatabase, nil)
	assert.False(t, result.IsError)

	var resp struct {
		Result struct {
			Rows []map[string]any `json:"rows"`
		} `json:"result"`
	}
	result = callTool(t, s.handleRunQuery, map[string]any{"query": "SELECT COUNT(*) AS n FROM products"})
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &resp))
	require.Len(t, resp.Result.Rows, 1)
	assert.Equal(t, float64(5), resp.Result.Rows[0]["n"])

	resets := f.Telemetry.Named(telemetry.EventDatabaseReset)
	require.Len(t, resets, 1)
	assert.Equal(t, "mcp", resets[0].Properties["source"])
}

func TestHandleGetProgressAndReset(t *testing.T) {
	s, _ := setupTestServer(t)

	callTool(t, s.handleCheckExercise, map[string]any{
		"exercise_id": "select-2",
		"query":       "SELECT * FROM users",
	})

	state := decode[progress.State](t, callTool(t, s.handleGetProgress, nil))
	require.Contains(t, state.Tutorials, "select")
	assert.True(t, state.Tutorials["select"].Started)
	assert.Equal(t, 100, state.Tutorials["select"].PercentComplete)
	assert.True(t, state.Tutorials["select"].Exercises["select-2"].Completed)

	result := callTool(t, s.handleResetProgress, nil)
	assert.False(t, result.IsError)

	state = decode[progress.State](t, callTool(t, s.handleGetProgress, nil))
	assert.Equal(t, 0, state.OverallPercentage)
	assert.Equal(t, 0, state.Tutorials["select"].PercentComplete)
}

func TestHandleGetHistory(t *testing.T) {
	s, _ := setupTestServer(t)

	empty := decode[[]history.Entry](t, callTool(t, s.handleGetHistory, nil))
	assert.Empty(t, empty)
	assert.Equal(t, "[]", resultText(t, callTool(t, s.handleGetHistory, nil)))

	for _, q := range []string{"SELECT 1", "SELECT 2", "SELECT * FROM nowhere"} {
		callTool(t, s.handleRunQuery, map[string]any{"query": q})
	}

	entries := decode[[]history.Entry](t, callTool(t, s.handleGetHistory, map[string]any{"limit": float64(2)}))
	require.Len(t, entries, 2)
	assert.Equal(t, "SELECT * FROM nowhere", entries[0].Query)
	assert.False(t, entries[0].Success)
	assert.Equal(t, "SELECT 2", entries[1].Query)
	assert.True(t, entries[1].Success)
}
