package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlgram/sqlgram/internal/session"
	"github.com/sqlgram/sqlgram/internal/telemetry"
	"github.com/sqlgram/sqlgram/internal/testutil"
)

func newTestModel(t *testing.T, opts Options) (*Model, *testutil.Fixture) {
	t.Helper()
	f := testutil.NewSession(t)
	m := NewModel(f.Session, opts)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, f
}

func press(m *Model, k tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: k})
	return cmd
}

func typeRune(m *Model, r rune) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	return cmd
}

// drain runs cmd and feeds its message back into the model.
func drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	m.Update(cmd())
}

func TestView_LoadingBeforeSize(t *testing.T) {
	f := testutil.NewSession(t)
	m := NewModel(f.Session, Options{})
	assert.Equal(t, "Loading...", m.View())
}

func TestRun_ExecutesQuery(t *testing.T) {
	m, f := newTestModel(t, Options{})
	m.editor.SetValue("SELECT * FROM users")

	cmd := press(m, tea.KeyCtrlR)
	assert.True(t, m.running)
	assert.Equal(t, "Executing query...", m.status)

	drain(t, m, cmd)
	assert.False(t, m.running)
	assert.True(t, m.hasResults)
	assert.Equal(t, statusOK, m.statusKind)
	assert.Equal(t, "Query executed successfully. Returned 5 row(s).", m.status)
	assert.Len(t, m.results.Rows(), 5)
	assert.Equal(t, 1, f.Session.History().Len())
	assert.Contains(t, m.View(), "john")
}

func TestRun_IgnoredWhileRunning(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m.editor.SetValue("SELECT 1")

	first := press(m, tea.KeyCtrlR)
	require.NotNil(t, first)
	assert.Nil(t, press(m, tea.KeyCtrlR))

	drain(t, m, first)
	assert.False(t, m.running)
}

func TestRun_EmptyQuery(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	cmd := press(m, tea.KeyCtrlR)
	assert.Nil(t, cmd)
	assert.False(t, m.running)
	assert.Equal(t, session.MsgEmptyQuery, m.status)
	assert.Equal(t, statusError, m.statusKind)
}

func TestRun_SQLError(t *testing.T) {
	m, f := newTestModel(t, Options{})
	m.editor.SetValue("SELECT * FROM missing")

	drain(t, m, press(m, tea.KeyCtrlR))
	assert.Equal(t, statusError, m.statusKind)
	assert.Contains(t, m.status, "Error: no such table: missing")

	entries := f.Session.History().List()
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Success)
}

func TestClear(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m.editor.SetValue("SELECT 1")
	press(m, tea.KeyCtrlL)
	assert.Empty(t, m.editor.Value())
}

func TestHistoryPanel_LoadsQuery(t *testing.T) {
	m, f := newTestModel(t, Options{})
	for _, q := range []string{"SELECT 1", "SELECT 2"} {
		m.editor.SetValue(q)
		drain(t, m, press(m, tea.KeyCtrlR))
	}
	m.editor.Reset()

	press(m, tea.KeyCtrlH)
	assert.Equal(t, PanelHistory, m.panel)
	assert.Len(t, m.history.Items, 2)
	assert.Len(t, f.Telemetry.Named(telemetry.EventHistoryViewed), 1)

	press(m, tea.KeyDown)
	press(m, tea.KeyEnter)
	assert.Equal(t, "SELECT 1", m.editor.Value())
	assert.Equal(t, PanelResults, m.panel)
}

func TestSchemaPanel_Toggles(t *testing.T) {
	m, f := newTestModel(t, Options{})

	press(m, tea.KeyCtrlS)
	assert.Equal(t, PanelSchema, m.panel)
	assert.Contains(t, m.View(), "order_items")

	press(m, tea.KeyCtrlS)
	assert.Equal(t, PanelResults, m.panel)
	assert.Len(t, f.Telemetry.Named(telemetry.EventSchemaViewed), 1)
}

func TestResetDatabase_Confirmed(t *testing.T) {
	m, f := newTestModel(t, Options{})
	m.editor.SetValue("DELETE FROM users")
	drain(t, m, press(m, tea.KeyCtrlR))

	press(m, tea.KeyCtrlT)
	assert.True(t, m.showingConfirm)
	assert.Contains(t, m.View(), "Reset database?")

	cmd := typeRune(m, 'y')
	assert.False(t, m.showingConfirm)
	drain(t, m, cmd)
	assert.Equal(t, "Database has been reset to its initial state.", m.status)
	assert.Len(t, f.Telemetry.Named(telemetry.EventDatabaseReset), 1)

	m.editor.SetValue("SELECT * FROM users")
	drain(t, m, press(m, tea.KeyCtrlR))
	assert.Len(t, m.results.Rows(), 5)
}

func TestResetDatabase_Cancelled(t *testing.T) {
	m, f := newTestModel(t, Options{})

	press(m, tea.KeyCtrlT)
	cmd := press(m, tea.KeyEsc)
	assert.Nil(t, cmd)
	assert.False(t, m.showingConfirm)
	assert.False(t, m.quitting)
	assert.Empty(t, f.Telemetry.Named(telemetry.EventDatabaseReset))
}

func TestCopy(t *testing.T) {
	var copied string
	orig := writeClipboard
	writeClipboard = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { writeClipboard = orig })

	m, f := newTestModel(t, Options{})
	m.editor.SetValue("SELECT 42")
	drain(t, m, press(m, tea.KeyCtrlY))

	assert.Equal(t, "SELECT 42", copied)
	assert.Equal(t, "Query copied to clipboard.", m.status)
	assert.Len(t, f.Telemetry.Named(telemetry.EventQueryCopied), 1)
}

func TestCopy_Error(t *testing.T) {
	orig := writeClipboard
	writeClipboard = func(string) error { return errors.New("no clipboard") }
	t.Cleanup(func() { writeClipboard = orig })

	m, _ := newTestModel(t, Options{})
	drain(t, m, press(m, tea.KeyCtrlY))
	assert.Equal(t, statusError, m.statusKind)
}

func TestSampleQueries_Cycle(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	press(m, tea.KeyCtrlN)
	assert.Equal(t, sampleQueries[0], m.editor.Value())
	press(m, tea.KeyCtrlN)
	assert.Equal(t, sampleQueries[1], m.editor.Value())
}

func TestSampleQueries_AllRun(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	for _, q := range sampleQueries {
		m.editor.SetValue(q)
		drain(t, m, press(m, tea.KeyCtrlR))
		assert.Equal(t, statusOK, m.statusKind, q)
	}
}

func TestExerciseMode_Grades(t *testing.T) {
	f := testutil.NewSession(t)
	ex, err := f.Session.Catalog().FindExercise("select-2")
	require.NoError(t, err)

	m := NewModel(f.Session, Options{Exercise: ex})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Contains(t, m.View(), ex.Prompt)

	m.editor.SetValue("SELECT * FROM products")
	drain(t, m, press(m, tea.KeyCtrlR))
	assert.Equal(t, statusError, m.statusKind)

	press(m, tea.KeyCtrlO)
	assert.Equal(t, ex.Config.Solution, m.editor.Value())
	drain(t, m, press(m, tea.KeyCtrlR))
	assert.Equal(t, statusOK, m.statusKind)
	assert.Contains(t, m.status, "Correct!")

	assert.Equal(t, 2, f.Session.Ledger().Tutorial("select").Exercises["select-2"].Attempts)
	assert.Len(t, f.Telemetry.Named(telemetry.EventSolutionRevealed), 1)
}

func TestSolutionKey_DisabledOutsideExercise(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m.editor.SetValue("SELECT 1")
	press(m, tea.KeyCtrlO)
	assert.NotEqual(t, "", m.editor.Value())
}

func TestQuit_TracksSession(t *testing.T) {
	m, f := newTestModel(t, Options{})
	m.editor.SetValue("SELECT 1")
	drain(t, m, press(m, tea.KeyCtrlR))

	cmd := press(m, tea.KeyCtrlC)
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Equal(t, "", m.View())

	summaries := f.Telemetry.Named(telemetry.EventSessionSummary)
	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].Properties["queries_run"])
	assert.Len(t, f.Telemetry.Named(telemetry.EventAppExited), 1)
}

func TestKeyboardShortcutsTracked(t *testing.T) {
	m, f := newTestModel(t, Options{})
	press(m, tea.KeyCtrlL)
	press(m, tea.KeyCtrlS)

	events := f.Telemetry.Named(telemetry.EventKeyboardShortcut)
	require.Len(t, events, 2)
	assert.Equal(t, "ctrl+l", events[0].Properties["key"])
}
