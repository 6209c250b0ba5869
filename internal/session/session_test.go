package session_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlgram/sqlgram/internal/engine"
	"github.com/sqlgram/sqlgram/internal/grading"
	"github.com/sqlgram/sqlgram/internal/history"
	"github.com/sqlgram/sqlgram/internal/kv"
	"github.com/sqlgram/sqlgram/internal/progress"
	"github.com/sqlgram/sqlgram/internal/session"
	"github.com/sqlgram/sqlgram/internal/telemetry"
	"github.com/sqlgram/sqlgram/internal/testutil"
	"github.com/sqlgram/sqlgram/internal/tutorial"
)

func TestSubmitExercise_RecordsAttempt(t *testing.T) {
	f := testutil.NewSession(t)
	ctx := context.Background()

	sub, err := f.Session.SubmitExercise(ctx, "select", "1", "SELECT price FROM products")
	require.NoError(t, err)
	assert.False(t, sub.Verdict.Valid)
	assert.True(t, sub.Recorded)

	sub, err = f.Session.SubmitExercise(ctx, "select", "select-1", "SELECT product_name, price FROM products")
	require.NoError(t, err)
	assert.True(t, sub.Verdict.Valid)
	assert.Equal(t, grading.MsgPatternMatch, sub.Verdict.Message)

	ex := sub.Progress.Exercises["select-1"]
	require.NotNil(t, ex)
	assert.Equal(t, 2, ex.Attempts)
	assert.True(t, ex.Completed)

	attempts := f.Telemetry.Named(telemetry.EventExerciseAttempted)
	require.Len(t, attempts, 2)
	assert.Equal(t, "passed", attempts[1].Properties["verdict"])
	assert.Equal(t, session.Stats{ExercisesAttempted: 2, ExercisesPassed: 1}, f.Session.Stats())
}

func TestSubmitExercise_ExecutionErrorCountsAsAttempt(t *testing.T) {
	f := testutil.NewSession(t)

	sub, err := f.Session.SubmitExercise(context.Background(), "where", "3", "SELECT * FROM nowhere")
	require.NoError(t, err)
	assert.Equal(t, grading.ExecutionError, sub.Verdict.Kind)
	assert.True(t, sub.Recorded)
	assert.Equal(t, 1, f.Session.Ledger().Tutorial("where").Exercises["where-3"].Attempts)
}

func TestSubmitExercise_EmptyQuery(t *testing.T) {
	f := testutil.NewSession(t)

	_, err := f.Session.SubmitExercise(context.Background(), "select", "1", "   \n")
	assert.True(t, errors.Is(err, session.ErrEmptyQuery))
	assert.Empty(t, f.Session.Ledger().Tutorial("select").Exercises)
}

func TestSubmitExercise_UnknownExercise(t *testing.T) {
	f := testutil.NewSession(t)

	_, err := f.Session.SubmitExercise(context.Background(), "select", "42", "SELECT 1")
	assert.True(t, errors.Is(err, tutorial.ErrNotFound))
}

func TestSubmitExercise_ConfigurationErrorNotRecorded(t *testing.T) {
	f := testutil.NewSession(t)
	ctx := context.Background()

	// Dropping the table the reference query reads breaks the exercise.
	_, err := f.Session.RunQuery(ctx, "DROP TABLE products")
	require.NoError(t, err)

	sub, err := f.Session.SubmitExercise(ctx, "where", "3", "SELECT 1")
	require.NoError(t, err)
	assert.Equal(t, grading.ConfigurationError, sub.Verdict.Kind)
	assert.False(t, sub.Recorded)
	assert.Empty(t, f.Session.Ledger().Tutorial("where").Exercises)
}

func TestSubmitExercise_EngineUnavailableNotRecorded(t *testing.T) {
	catalog, err := tutorial.Load()
	require.NoError(t, err)
	store := kv.NewMemory()
	broken := engine.New(engine.Config{DSN: filepath.Join(t.TempDir(), "missing", "x.db")})
	s := session.New(session.Deps{
		Database: broken,
		Catalog:  catalog,
		Ledger:   progress.New(store, catalog.IDs()),
		History:  history.New(store),
	})

	sub, err := s.SubmitExercise(context.Background(), "select", "1", "SELECT product_name, price FROM products")
	require.NoError(t, err)
	assert.Equal(t, grading.EngineUnavailable, sub.Verdict.Kind)
	assert.False(t, sub.Recorded)

	_, err = s.RunQuery(context.Background(), "SELECT 1")
	assert.True(t, errors.Is(err, engine.ErrUnavailable))
	assert.Equal(t, 0, s.History().Len())
}

func TestSubmitExercise_DerivedCompletion(t *testing.T) {
	f := testutil.NewSession(t)
	ctx := context.Background()
	f.Session.StartTutorial("select")

	for i, ex := range mustTutorial(t, f, "select").Exercises {
		sub, err := f.Session.SubmitExercise(ctx, "select", ex.ID, ex.Config.Solution)
		require.NoError(t, err)
		require.True(t, sub.Verdict.Valid, ex.ID)
		if i < 4 {
			assert.False(t, sub.Progress.Completed)
		}
	}

	tp := f.Session.Ledger().Tutorial("select")
	assert.True(t, tp.Completed)
	assert.Equal(t, 100, tp.PercentComplete)

	completed := f.Telemetry.Named(telemetry.EventTutorialCompleted)
	require.Len(t, completed, 1)
	assert.Equal(t, false, completed[0].Properties["explicit"])
}

func TestSubmitExercise_FirstAttemptStartsTutorial(t *testing.T) {
	f := testutil.NewSession(t)
	ctx := context.Background()
	require.False(t, f.Session.Ledger().Tutorial("where").Started)

	where := mustTutorial(t, f, "where")
	sub, err := f.Session.SubmitExercise(ctx, "where", where.Exercises[0].ID, where.Exercises[0].Config.Solution)
	require.NoError(t, err)
	require.True(t, sub.Verdict.Valid)
	assert.True(t, sub.Progress.Started)

	sub, err = f.Session.SubmitExercise(ctx, "where", "3", "SELECT * FROM products")
	require.NoError(t, err)
	require.True(t, sub.Recorded)
	assert.False(t, sub.Verdict.Valid)

	tp := f.Session.Ledger().Tutorial("where")
	assert.True(t, tp.Started)
	assert.Equal(t, 55, tp.PercentComplete)
	assert.Len(t, f.Telemetry.Named(telemetry.EventTutorialStarted), 1)
}

func TestRunQuery(t *testing.T) {
	f := testutil.NewSession(t)
	ctx := context.Background()

	res, err := f.Session.RunQuery(ctx, "  SELECT * FROM users  ")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Query executed successfully. Returned 5 row(s).", res.Message)
	assert.Equal(t, engine.KindSelect, res.Info.Kind)

	res, err = f.Session.RunQuery(ctx, "SELECT * FROM nope")
	require.NoError(t, err)
	assert.False(t, res.Success)

	entries := f.Session.History().List()
	require.Len(t, entries, 2)
	assert.Equal(t, "SELECT * FROM nope", entries[0].Query)
	assert.False(t, entries[0].Success)
	assert.Equal(t, "SELECT * FROM users", entries[1].Query)

	_, err = f.Session.RunQuery(ctx, "")
	assert.True(t, errors.Is(err, session.ErrEmptyQuery))
	assert.Equal(t, 2, f.Session.Stats().QueriesRun)
}

func TestResetDatabase(t *testing.T) {
	f := testutil.NewSession(t)
	ctx := context.Background()

	_, err := f.Session.RunQuery(ctx, "DELETE FROM users")
	require.NoError(t, err)
	require.NoError(t, f.Session.ResetDatabase(ctx, "test"))

	res, err := f.Session.RunQuery(ctx, "SELECT * FROM users")
	require.NoError(t, err)
	assert.Equal(t, 5, res.Result.Len())
	assert.Len(t, f.Telemetry.Named(telemetry.EventDatabaseReset), 1)
}

func TestStartAndCompleteTutorial(t *testing.T) {
	f := testutil.NewSession(t)

	tp, err := f.Session.StartTutorial("join")
	require.NoError(t, err)
	assert.True(t, tp.Started)

	tp, err = f.Session.CompleteTutorial("join")
	require.NoError(t, err)
	assert.True(t, tp.Completed)
	assert.Equal(t, 100, tp.PercentComplete)

	_, err = f.Session.StartTutorial("nope")
	assert.True(t, errors.Is(err, tutorial.ErrNotFound))
	_, err = f.Session.CompleteTutorial("nope")
	assert.True(t, errors.Is(err, tutorial.ErrNotFound))
}

func TestResetProgress(t *testing.T) {
	f := testutil.NewSession(t)
	f.Session.CompleteTutorial("select")
	f.Session.CompleteTutorial("where")

	f.Session.ResetProgress()

	summaries, overall := f.Session.Overview()
	assert.Equal(t, 0, overall)
	for _, s := range summaries {
		assert.False(t, s.Progress.Started, s.Tutorial.ID)
		assert.Equal(t, 0, s.Progress.PercentComplete, s.Tutorial.ID)
	}
	resets := f.Telemetry.Named(telemetry.EventProgressReset)
	require.Len(t, resets, 1)
	assert.Equal(t, 25, resets[0].Properties["overall_percentage"])
}

func TestClearHistory(t *testing.T) {
	f := testutil.NewSession(t)
	for i := 0; i < 3; i++ {
		_, err := f.Session.RunQuery(context.Background(), fmt.Sprintf("SELECT %d", i))
		require.NoError(t, err)
	}

	assert.Equal(t, 3, f.Session.ClearHistory())
	assert.Equal(t, 0, f.Session.History().Len())
}

func TestOverview_CatalogOrder(t *testing.T) {
	f := testutil.NewSession(t)
	summaries, _ := f.Session.Overview()

	ids := make([]string, len(summaries))
	for i, s := range summaries {
		ids[i] = s.Tutorial.ID
	}
	assert.Equal(t, f.Session.Catalog().IDs(), ids)
}

func TestSessionsAreIsolated(t *testing.T) {
	a := testutil.NewSession(t)
	b := testutil.NewSession(t)

	a.Session.CompleteTutorial("select")
	_, overall := b.Session.Overview()
	assert.Equal(t, 0, overall)
}

func mustTutorial(t *testing.T, f *testutil.Fixture, id string) *tutorial.Tutorial {
	t.Helper()
	tut, err := f.Session.Catalog().Get(id)
	require.NoError(t, err)
	return tut
}

func TestOpen(t *testing.T) {
	s, err := session.Open(session.Options{})
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	assert.Len(t, s.Catalog().List(), 8)
	res, err := s.RunQuery(context.Background(), "SELECT COUNT(*) AS n FROM orders")
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.Result.Rows[0].Values[0])
}
