// Package session wires the engine, grader, progress ledger and history into
// one application context. Each front end (CLI, TUI, MCP server) builds its
// own Session; nothing is global.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sqlgram/sqlgram/internal/engine"
	"github.com/sqlgram/sqlgram/internal/grading"
	"github.com/sqlgram/sqlgram/internal/history"
	"github.com/sqlgram/sqlgram/internal/progress"
	"github.com/sqlgram/sqlgram/internal/telemetry"
	"github.com/sqlgram/sqlgram/internal/tutorial"
)

// ErrEmptyQuery rejects blank input before it reaches the engine.
var ErrEmptyQuery = errors.New("empty query")

// MsgEmptyQuery is what the learner sees for ErrEmptyQuery.
const MsgEmptyQuery = "Please enter an SQL query."

// Database is the SQL engine as the session uses it.
type Database interface {
	grading.Runner
	Run(ctx context.Context, query string) (engine.Execution, error)
	Reset(ctx context.Context) error
	Schema() string
}

// Deps are the collaborators of a Session.
type Deps struct {
	Database  Database
	Catalog   *tutorial.Catalog
	Ledger    *progress.Ledger
	History   *history.Store
	Telemetry telemetry.Client
}

// Session is one learner's application context.
type Session struct {
	db        Database
	catalog   *tutorial.Catalog
	ledger    *progress.Ledger
	history   *history.Store
	telemetry telemetry.Client
	validator *grading.Validator
	started   time.Time

	mu    sync.Mutex
	stats Stats
}

// Stats counts what happened during the session.
type Stats struct {
	QueriesRun         int
	ExercisesAttempted int
	ExercisesPassed    int
}

// New builds a session. Telemetry defaults to a no-op client.
func New(deps Deps) *Session {
	tc := deps.Telemetry
	if tc == nil {
		tc = telemetry.NewNoop()
	}
	return &Session{
		db:        deps.Database,
		catalog:   deps.Catalog,
		ledger:    deps.Ledger,
		history:   deps.History,
		telemetry: tc,
		validator: grading.NewValidator(deps.Database),
		started:   time.Now(),
	}
}

// Catalog returns the tutorial catalog.
func (s *Session) Catalog() *tutorial.Catalog { return s.catalog }

// Ledger returns the progress ledger.
func (s *Session) Ledger() *progress.Ledger { return s.ledger }

// History returns the query history.
func (s *Session) History() *history.Store { return s.history }

// Telemetry returns the telemetry client.
func (s *Session) Telemetry() telemetry.Client { return s.telemetry }

// Schema returns the sample database schema.
func (s *Session) Schema() string { return s.db.Schema() }

// Stats returns a snapshot of the session counters.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Duration is the time since the session was created.
func (s *Session) Duration() time.Duration { return time.Since(s.started) }

// Submission is the outcome of grading one exercise attempt.
type Submission struct {
	Exercise *tutorial.Exercise
	Verdict  grading.Verdict
	// Recorded is false when the verdict was not counted as an attempt.
	Recorded bool
	Progress progress.TutorialProgress
}

// SubmitExercise grades query against an exercise and, once the verdict is
// known, records the attempt. The first recorded attempt starts the tutorial.
// Configuration errors and an unavailable engine are not recorded.
func (s *Session) SubmitExercise(ctx context.Context, tutorialID, exerciseID, query string) (Submission, error) {
	ex, err := s.catalog.Exercise(tutorialID, exerciseID)
	if err != nil {
		return Submission{}, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return Submission{}, ErrEmptyQuery
	}

	before := s.ledger.Tutorial(ex.TutorialID)
	verdict := s.validator.Validate(ctx, query, ex.Config)
	sub := Submission{Exercise: ex, Verdict: verdict, Progress: before}

	if verdict.CountsAsAttempt() {
		if !before.Started {
			s.ledger.StartTutorial(ex.TutorialID)
			s.telemetry.TrackTutorialStarted(ex.TutorialID)
		}
		sub.Progress = s.ledger.RecordExerciseAttempt(ex.TutorialID, ex.ID, verdict.Valid)
		sub.Recorded = true

		s.mu.Lock()
		s.stats.ExercisesAttempted++
		if verdict.Valid {
			s.stats.ExercisesPassed++
		}
		s.mu.Unlock()

		attempts := 0
		if p, ok := sub.Progress.Exercises[ex.ID]; ok {
			attempts = p.Attempts
		}
		s.telemetry.TrackExerciseAttempted(ex.TutorialID, ex.ID, string(verdict.Kind), attempts)
		if sub.Progress.Completed && !before.Completed {
			s.telemetry.TrackTutorialCompleted(ex.TutorialID, false)
		}
	}
	return sub, nil
}

// RunResult is a playground execution with its analysis.
type RunResult struct {
	engine.Execution
	Info engine.QueryInfo
}

// RunQuery executes query in the playground and appends it to the history.
func (s *Session) RunQuery(ctx context.Context, query string) (RunResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return RunResult{}, ErrEmptyQuery
	}

	exec, err := s.db.Run(ctx, query)
	if err != nil {
		return RunResult{}, fmt.Errorf("run query: %w", err)
	}
	s.history.Add(query, exec.Success)

	s.mu.Lock()
	s.stats.QueriesRun++
	s.mu.Unlock()

	info := engine.Analyze(query)
	s.telemetry.TrackQueryExecuted(info.Kind, exec.Success, exec.Result.Len(), exec.Elapsed.Milliseconds(), info.Mutating)
	return RunResult{Execution: exec, Info: info}, nil
}

// ResetDatabase restores the sample database. source names the front end
// that asked for it.
func (s *Session) ResetDatabase(ctx context.Context, source string) error {
	if err := s.db.Reset(ctx); err != nil {
		return fmt.Errorf("reset database: %w", err)
	}
	s.telemetry.TrackDatabaseReset(source)
	return nil
}

// StartTutorial marks a catalog tutorial as started.
func (s *Session) StartTutorial(id string) (progress.TutorialProgress, error) {
	if _, err := s.catalog.Get(id); err != nil {
		return progress.TutorialProgress{}, err
	}
	tp := s.ledger.StartTutorial(id)
	s.telemetry.TrackTutorialStarted(id)
	return tp, nil
}

// CompleteTutorial marks a catalog tutorial as completed.
func (s *Session) CompleteTutorial(id string) (progress.TutorialProgress, error) {
	if _, err := s.catalog.Get(id); err != nil {
		return progress.TutorialProgress{}, err
	}
	tp := s.ledger.CompleteTutorial(id)
	s.telemetry.TrackTutorialCompleted(id, true)
	return tp, nil
}

// ResetProgress discards all learner progress.
func (s *Session) ResetProgress() {
	before := s.ledger.OverallPercentage()
	s.ledger.ResetAll()
	s.telemetry.TrackProgressReset(before)
}

// ClearHistory empties the query history and returns how many entries were
// dropped.
func (s *Session) ClearHistory() int {
	n := s.history.Len()
	s.history.Clear()
	s.telemetry.TrackHistoryCleared(n)
	return n
}

// TutorialSummary pairs a tutorial with the learner's progress in it.
type TutorialSummary struct {
	Tutorial *tutorial.Tutorial
	Progress progress.TutorialProgress
}

// Overview returns every catalog tutorial with its progress, in lesson order,
// and the overall percentage.
func (s *Session) Overview() ([]TutorialSummary, int) {
	all := s.ledger.Tutorials()
	out := make([]TutorialSummary, 0, len(all))
	for _, t := range s.catalog.List() {
		tp, ok := all[t.ID]
		if !ok {
			tp = s.ledger.Tutorial(t.ID)
		}
		out = append(out, TutorialSummary{Tutorial: t, Progress: tp})
	}
	return out, s.ledger.OverallPercentage()
}
