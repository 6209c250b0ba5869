package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlgram/sqlgram/internal/engine"
	"github.com/sqlgram/sqlgram/internal/session"
	"github.com/sqlgram/sqlgram/internal/telemetry"
	"github.com/sqlgram/sqlgram/internal/testutil"
	"github.com/sqlgram/sqlgram/internal/tutorial"
)

// runCLI executes the root command against the fixture's session.
func runCLI(t *testing.T, f *testutil.Fixture, stdin io.Reader, args ...string) (string, error) {
	t.Helper()

	origOpen, origTC := openSession, telemetryClient
	openSession = func() (*session.Session, func(), error) {
		return f.Session, func() {}, nil
	}
	telemetryClient = f.Telemetry
	t.Cleanup(func() {
		openSession, telemetryClient = origOpen, origTC
	})

	checkSolution, showRaw, resetProgress, resetHistory, playgroundExercise = false, false, false, false, ""

	var buf bytes.Buffer
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestRootCmd_Structure(t *testing.T) {
	assert.Equal(t, "sqlgram", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	var names []string
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"tutorials", "show", "check", "run", "progress", "complete", "reset", "history", "schema", "playground"} {
		assert.Contains(t, names, want)
	}
}

func TestTutorials(t *testing.T) {
	f := testutil.NewSession(t)
	out, err := runCLI(t, f, nil, "tutorials")
	require.NoError(t, err)

	assert.Contains(t, out, "TUTORIALS (8)")
	for _, id := range f.Session.Catalog().IDs() {
		assert.Contains(t, out, id)
	}

	executed := f.Telemetry.Named(telemetry.EventCLICommandExecuted)
	require.Len(t, executed, 1)
	assert.Equal(t, "tutorials", executed[0].Properties["command_name"])
}

func TestShow_MarksStarted(t *testing.T) {
	f := testutil.NewSession(t)
	out, err := runCLI(t, f, nil, "show", "select", "--raw")
	require.NoError(t, err)

	assert.Contains(t, out, "# SELECT Basics")
	assert.Contains(t, out, "EXERCISES (5)")
	assert.Contains(t, out, "select-1")
	assert.True(t, f.Session.Ledger().Tutorial("select").Started)
	assert.Len(t, f.Telemetry.Named(telemetry.EventTutorialViewed), 1)
}

func TestShow_Unknown(t *testing.T) {
	f := testutil.NewSession(t)
	_, err := runCLI(t, f, nil, "show", "nope")
	assert.True(t, errors.Is(err, tutorial.ErrNotFound))

	errs := f.Telemetry.Named(telemetry.EventCLIErrorOccurred)
	require.Len(t, errs, 1)
	assert.Equal(t, "not_found_error", errs[0].Properties["error_type"])
}

func TestCheck_Pass(t *testing.T) {
	f := testutil.NewSession(t)
	out, err := runCLI(t, f, nil, "check", "select-1", "SELECT product_name, price FROM products")
	require.NoError(t, err)

	assert.Contains(t, out, "Correct! Your query matches the expected pattern.")
	assert.Contains(t, out, "Laptop")
	assert.True(t, f.Session.Ledger().Tutorial("select").Exercises["select-1"].Completed)
}

func TestCheck_Fail(t *testing.T) {
	f := testutil.NewSession(t)
	out, err := runCLI(t, f, nil, "check", "where-3", "SELECT * FROM products")
	require.NoError(t, err)

	assert.Contains(t, out, "Your query doesn't match the expected output.")
	ex := f.Session.Ledger().Tutorial("where").Exercises["where-3"]
	require.NotNil(t, ex)
	assert.False(t, ex.Completed)
	assert.Equal(t, 1, ex.Attempts)
}

func TestCheck_Stdin(t *testing.T) {
	f := testutil.NewSession(t)
	out, err := runCLI(t, f, strings.NewReader("SELECT * FROM users;\n"), "check", "select-2", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Correct!")
}

func TestCheck_Solution(t *testing.T) {
	f := testutil.NewSession(t)
	out, err := runCLI(t, f, nil, "check", "select-1", "--solution")
	require.NoError(t, err)

	assert.Equal(t, "SELECT product_name, price FROM products;\n", out)
	assert.Len(t, f.Telemetry.Named(telemetry.EventSolutionRevealed), 1)
	assert.Empty(t, f.Session.Ledger().Tutorial("select").Exercises)
}

func TestCheck_EmptyQuery(t *testing.T) {
	f := testutil.NewSession(t)
	_, err := runCLI(t, f, nil, "check", "select-1")
	assert.True(t, errors.Is(err, session.ErrEmptyQuery))
}

func TestRun_PrintsTable(t *testing.T) {
	f := testutil.NewSession(t)
	out, err := runCLI(t, f, nil, "run", "SELECT product_name, price FROM products WHERE id = 1")
	require.NoError(t, err)

	assert.Contains(t, out, "product_name")
	assert.Contains(t, out, "Laptop")
	assert.Contains(t, out, "999.99")
	assert.Contains(t, out, "Returned 1 row(s).")
	assert.Equal(t, 1, f.Session.History().Len())
}

func TestRun_SQLError(t *testing.T) {
	f := testutil.NewSession(t)
	out, err := runCLI(t, f, nil, "run", "SELECT * FROM nope")
	require.NoError(t, err)
	assert.Contains(t, out, "Error: no such table: nope")
}

func TestProgress(t *testing.T) {
	f := testutil.NewSession(t)
	_, err := f.Session.CompleteTutorial("select")
	require.NoError(t, err)

	out, err := runCLI(t, f, nil, "progress")
	require.NoError(t, err)
	assert.Contains(t, out, "overall")
	assert.Contains(t, out, "13%")
	assert.Contains(t, out, "SELECT Basics")
	assert.Contains(t, out, "completed")

	viewed := f.Telemetry.Named(telemetry.EventProgressViewed)
	require.Len(t, viewed, 1)
	assert.Equal(t, 13, viewed[0].Properties["overall_percentage"])
}

func TestComplete(t *testing.T) {
	f := testutil.NewSession(t)
	out, err := runCLI(t, f, nil, "complete", "join")
	require.NoError(t, err)
	assert.Contains(t, out, `"join" completed`)
	assert.True(t, f.Session.Ledger().Tutorial("join").Completed)

	_, err = runCLI(t, f, nil, "complete", "nope")
	assert.True(t, errors.Is(err, tutorial.ErrNotFound))
}

func TestReset(t *testing.T) {
	f := testutil.NewSession(t)
	_, err := runCLI(t, f, nil, "reset")
	assert.Error(t, err)

	_, err = f.Session.CompleteTutorial("select")
	require.NoError(t, err)
	_, err = f.Session.RunQuery(context.Background(), "SELECT 1")
	require.NoError(t, err)

	out, err := runCLI(t, f, nil, "reset", "--progress", "--history")
	require.NoError(t, err)
	assert.Contains(t, out, "Progress reset.")
	assert.Contains(t, out, "Cleared 1 history entries.")
	assert.Equal(t, 0, f.Session.Ledger().OverallPercentage())
	assert.Equal(t, 0, f.Session.History().Len())
}

func TestHistory(t *testing.T) {
	f := testutil.NewSession(t)
	out, err := runCLI(t, f, nil, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No queries yet.")

	_, err = f.Session.RunQuery(context.Background(), "SELECT *\nFROM users")
	require.NoError(t, err)
	out, err = runCLI(t, f, nil, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "SELECT * FROM users")
}

func TestSchema(t *testing.T) {
	f := testutil.NewSession(t)
	out, err := runCLI(t, f, nil, "schema")
	require.NoError(t, err)
	assert.Contains(t, out, "CREATE TABLE users")
	assert.Contains(t, out, "CREATE TABLE order_items")
}

func TestQueryArg(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("SELECT 1;"))

	q, err := queryArg(cmd, []string{"-"})
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1;", q)

	q, err = queryArg(cmd, []string{"SELECT", "*", "FROM", "users"})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM users", q)
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"empty query", fmt.Errorf("check select-1: %w", session.ErrEmptyQuery), "empty_query"},
		{"unknown tutorial", fmt.Errorf("tutorial %q: %w", "x", tutorial.ErrNotFound), "not_found_error"},
		{"engine unavailable", fmt.Errorf("run query: %w", engine.ErrUnavailable), "engine_error"},
		{"config", errors.New("load config: bad yaml"), "config_error"},
		{"database", errors.New("initialize database: locked"), "database_error"},
		{"timeout", errors.New("query interrupted: deadline"), "timeout_error"},
		{"permission", errors.New("permission denied"), "permission_error"},
		{"missing file", errors.New("file does not exist"), "not_found_error"},
		{"invalid", errors.New("invalid pattern"), "validation_error"},
		{"other", errors.New("boom"), "unknown_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifyError(tt.err))
		})
	}
}

func TestTrackCLIError_Nil(t *testing.T) {
	assert.NoError(t, trackCLIError("run", nil))
}

func TestContainsAny(t *testing.T) {
	assert.True(t, containsAny("Database LOCKED", "locked"))
	assert.False(t, containsAny("fine", "locked", "denied"))
	assert.False(t, containsAny("anything"))
}
