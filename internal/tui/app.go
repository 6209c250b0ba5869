package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sqlgram/sqlgram/internal/engine"
	"github.com/sqlgram/sqlgram/internal/grading"
	"github.com/sqlgram/sqlgram/internal/session"
	"github.com/sqlgram/sqlgram/internal/tui/components"
	"github.com/sqlgram/sqlgram/internal/tutorial"
	"github.com/sqlgram/sqlgram/pkg/version"
)

// PanelType identifies what is shown below the editor.
type PanelType int

const (
	PanelResults PanelType = iota
	PanelHistory
	PanelSchema
)

func (p PanelType) String() string {
	switch p {
	case PanelHistory:
		return "history"
	case PanelSchema:
		return "schema"
	default:
		return "results"
	}
}

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusError
	statusRunning
)

// maxColumnWidth caps a result column so wide text cannot push the table off
// screen.
const maxColumnWidth = 30

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

var sampleQueries = []string{
	"SELECT * FROM users;",
	"SELECT product_name, price FROM products\nWHERE price > 100\nORDER BY price DESC;",
	"SELECT u.username, o.total_amount, o.order_date\nFROM orders o\nJOIN users u ON u.id = o.user_id;",
	"SELECT category, COUNT(*) AS products, AVG(price) AS avg_price\nFROM products\nGROUP BY category;",
	"SELECT p.product_name, SUM(oi.quantity) AS sold\nFROM order_items oi\nJOIN products p ON p.id = oi.product_id\nGROUP BY p.product_name\nORDER BY sold DESC;",
}

// Options configure the playground.
type Options struct {
	// Exercise, when set, grades each run against that exercise.
	Exercise *tutorial.Exercise
}

// Model is the Bubble Tea model of the playground.
type Model struct {
	sess     *session.Session
	keymap   Keymap
	styles   Styles
	exercise *tutorial.Exercise

	editor  textarea.Model
	results table.Model
	help    help.Model
	history *components.HistoryList
	confirm *components.ConfirmDialog

	panel          PanelType
	hasResults     bool
	showingConfirm bool
	running        bool
	status         string
	statusKind     statusKind
	sampleIndex    int

	width    int
	height   int
	ready    bool
	quitting bool

	sessionStart time.Time
}

// Message types for Bubble Tea
type (
	queryDoneMsg struct {
		result session.RunResult
		err    error
	}
	gradeDoneMsg struct {
		sub session.Submission
		err error
	}
	resetDoneMsg struct {
		err error
	}
	copiedMsg struct {
		err error
	}
)

// NewModel creates the playground model.
func NewModel(sess *session.Session, opts Options) *Model {
	ta := textarea.New()
	ta.Placeholder = "Write SQL here, then press ctrl+r to run it..."
	ta.CharLimit = 0
	ta.ShowLineNumbers = true
	ta.SetWidth(80)
	ta.SetHeight(8)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.Focus()

	results := table.New(
		table.WithHeight(8),
		table.WithFocused(false),
	)

	keymap := DefaultKeymap()
	if opts.Exercise != nil {
		keymap.Run.SetHelp("ctrl+r", "check")
		keymap.Solution.SetEnabled(opts.Exercise.Config.Solution != "")
	}

	return &Model{
		sess:         sess,
		keymap:       keymap,
		styles:       DefaultStyles(),
		exercise:     opts.Exercise,
		editor:       ta,
		results:      results,
		help:         help.New(),
		history:      components.NewHistoryList(),
		confirm:      components.NewConfirmDialog("Reset database?", "Every table is restored to the sample data."),
		sessionStart: time.Now(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case queryDoneMsg:
		m.running = false
		if msg.err != nil {
			m.setStatus(errorText(msg.err), statusError)
			return m, nil
		}
		kind := statusOK
		if !msg.result.Success {
			kind = statusError
		}
		m.setResults(msg.result.Result)
		m.setStatus(msg.result.Message, kind)
		if msg.result.Success && msg.result.Info.Warning != "" {
			m.status += "  " + m.styles.Muted.Render(msg.result.Info.Warning)
		}
		m.refreshHistory()
		return m, nil

	case gradeDoneMsg:
		m.running = false
		if msg.err != nil {
			m.setStatus(errorText(msg.err), statusError)
			return m, nil
		}
		v := msg.sub.Verdict
		m.setResults(v.Results)
		switch v.Kind {
		case grading.Passed:
			m.setStatus("✓ "+v.Message, statusOK)
		default:
			m.setStatus("✗ "+v.Message, statusError)
		}
		return m, nil

	case resetDoneMsg:
		m.running = false
		if msg.err != nil {
			m.setStatus(errorText(msg.err), statusError)
			return m, nil
		}
		m.setResults(engine.QueryResult{})
		m.setStatus("Database has been reset to its initial state.", statusOK)
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.setStatus("Could not copy to clipboard: "+msg.err.Error(), statusError)
			return m, nil
		}
		m.sess.Telemetry().TrackQueryCopied()
		m.setStatus("Query copied to clipboard.", statusInfo)
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showingConfirm {
		done, confirmed := m.confirm.Update(msg.String())
		if !done {
			return m, nil
		}
		m.showingConfirm = false
		m.confirm.Reset()
		if confirmed && !m.running {
			m.running = true
			m.setStatus("Resetting database...", statusRunning)
			return m, m.resetCmd()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		m.trackSessionExit()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Run):
		m.trackShortcut(msg)
		// The run key is disabled while a query is in flight.
		if m.running {
			return m, nil
		}
		query := strings.TrimSpace(m.editor.Value())
		if query == "" {
			m.setStatus(session.MsgEmptyQuery, statusError)
			return m, nil
		}
		m.running = true
		m.panel = PanelResults
		if m.exercise != nil {
			m.setStatus("Checking...", statusRunning)
			return m, m.gradeCmd(query)
		}
		m.setStatus("Executing query...", statusRunning)
		return m, m.runCmd(query)

	case key.Matches(msg, m.keymap.Clear):
		m.trackShortcut(msg)
		m.editor.Reset()
		m.setStatus("", statusInfo)
		return m, nil

	case key.Matches(msg, m.keymap.ResetDB):
		m.trackShortcut(msg)
		m.showingConfirm = true
		return m, nil

	case key.Matches(msg, m.keymap.History):
		m.trackShortcut(msg)
		m.togglePanel(PanelHistory)
		if m.panel == PanelHistory {
			m.refreshHistory()
			m.sess.Telemetry().TrackHistoryViewed(len(m.history.Items))
		}
		return m, nil

	case key.Matches(msg, m.keymap.Schema):
		m.trackShortcut(msg)
		m.togglePanel(PanelSchema)
		if m.panel == PanelSchema {
			m.sess.Telemetry().TrackSchemaViewed("tui")
		}
		return m, nil

	case key.Matches(msg, m.keymap.Copy):
		m.trackShortcut(msg)
		return m, copyCmd(m.editor.Value())

	case key.Matches(msg, m.keymap.Sample):
		m.trackShortcut(msg)
		m.editor.SetValue(sampleQueries[m.sampleIndex%len(sampleQueries)])
		m.sampleIndex++
		return m, nil

	case key.Matches(msg, m.keymap.Solution):
		m.trackShortcut(msg)
		m.editor.SetValue(m.exercise.Config.Solution)
		m.sess.Telemetry().TrackSolutionRevealed(m.exercise.ID)
		return m, nil
	}

	if m.panel == PanelHistory {
		switch {
		case key.Matches(msg, m.keymap.Up):
			m.history.MoveUp()
			return m, nil
		case key.Matches(msg, m.keymap.Down):
			m.history.MoveDown()
			return m, nil
		case key.Matches(msg, m.keymap.Select):
			if e, ok := m.history.SelectedEntry(); ok {
				m.editor.SetValue(e.Query)
				m.panel = PanelResults
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m *Model) runCmd(query string) tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		res, err := sess.RunQuery(context.Background(), query)
		return queryDoneMsg{result: res, err: err}
	}
}

func (m *Model) gradeCmd(query string) tea.Cmd {
	sess, ex := m.sess, m.exercise
	return func() tea.Msg {
		sub, err := sess.SubmitExercise(context.Background(), ex.TutorialID, ex.ID, query)
		return gradeDoneMsg{sub: sub, err: err}
	}
}

func (m *Model) resetCmd() tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		return resetDoneMsg{err: sess.ResetDatabase(context.Background(), "tui")}
	}
}

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: writeClipboard(text)}
	}
}

func (m *Model) trackShortcut(msg tea.KeyMsg) {
	m.sess.Telemetry().TrackKeyboardShortcut(msg.String(), "playground")
}

func (m *Model) togglePanel(p PanelType) {
	if m.panel == p {
		m.panel = PanelResults
		return
	}
	m.panel = p
}

func (m *Model) refreshHistory() {
	m.history.SetItems(m.sess.History().List())
}

func (m *Model) setStatus(text string, kind statusKind) {
	m.status = text
	m.statusKind = kind
}

// setResults replaces the results table. Rows are cleared before the columns
// change so no row is ever wider than the column set.
func (m *Model) setResults(r engine.QueryResult) {
	cells := r.Strings()

	cols := make([]table.Column, len(r.Columns))
	for i, c := range r.Columns {
		w := lipgloss.Width(c)
		for _, row := range cells {
			w = max(w, lipgloss.Width(row[i]))
		}
		cols[i] = table.Column{Title: c, Width: min(w, maxColumnWidth)}
	}

	rows := make([]table.Row, len(cells))
	for i, row := range cells {
		rows[i] = table.Row(row)
	}

	m.results.SetRows(nil)
	m.results.SetColumns(cols)
	m.results.SetRows(rows)
	m.hasResults = len(cols) > 0
}

func (m *Model) layout() {
	width := max(20, m.width-4)
	m.editor.SetWidth(width)
	m.help.Width = m.width

	// header 2, editor border 2, status 1, panel borders 2, help 1
	available := max(6, m.height-8)
	editorHeight := max(3, available/3)
	m.editor.SetHeight(editorHeight)

	panelHeight := max(3, available-editorHeight)
	m.results.SetWidth(width)
	m.results.SetHeight(panelHeight)
	m.history.SetSize(width, panelHeight)
}

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.quitting {
		return ""
	}
	if m.showingConfirm {
		return m.confirm.CenteredView(m.width, m.height)
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("SQLGram Playground"))
	b.WriteString(" ")
	b.WriteString(m.styles.Version.Render(version.Short()))
	b.WriteString("\n")
	if m.exercise != nil {
		b.WriteString(m.styles.Exercise.Render(fmt.Sprintf("%s: %s", m.exercise.ID, m.exercise.Prompt)))
	}
	b.WriteString("\n")

	editorStyle := m.styles.EditorFocused
	if m.running {
		editorStyle = m.styles.Editor
	}
	b.WriteString(editorStyle.Render(m.editor.View()))
	b.WriteString("\n")
	b.WriteString(m.statusView())
	b.WriteString("\n")
	b.WriteString(m.panelView())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keymap))
	return b.String()
}

func (m *Model) statusView() string {
	switch m.statusKind {
	case statusOK:
		return m.styles.StatusOK.Render(m.status)
	case statusError:
		return m.styles.StatusError.Render(m.status)
	case statusRunning:
		return m.styles.StatusRunning.Render(m.status)
	default:
		return m.styles.StatusInfo.Render(m.status)
	}
}

func (m *Model) panelView() string {
	var content string
	switch m.panel {
	case PanelHistory:
		content = m.styles.PanelTitle.Render("Query history") + "\n" + m.history.View()
	case PanelSchema:
		content = RenderMarkdown(schemaMarkdown(m.sess.Schema()), max(40, m.width-8))
	default:
		if !m.hasResults {
			content = m.styles.Muted.Render("Results appear here.")
		} else {
			content = m.results.View()
		}
	}
	return m.styles.Panel.Width(max(20, m.width-2)).Render(content)
}

// trackSessionExit tracks session summary and app exit.
func (m *Model) trackSessionExit() {
	durationMs := time.Since(m.sessionStart).Milliseconds()
	stats := m.sess.Stats()
	tc := m.sess.Telemetry()
	tc.TrackSessionSummary(durationMs, stats.QueriesRun, stats.ExercisesAttempted, stats.ExercisesPassed)
	tc.TrackAppExited("tui", durationMs, stats.QueriesRun)
}

func errorText(err error) string {
	switch {
	case errors.Is(err, session.ErrEmptyQuery):
		return session.MsgEmptyQuery
	case errors.Is(err, engine.ErrUnavailable):
		return grading.MsgEngineUnavailable
	}
	return engine.ErrorMessage(err)
}

// Run executes the playground program.
func Run(sess *session.Session, opts Options) error {
	p := tea.NewProgram(NewModel(sess, opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
