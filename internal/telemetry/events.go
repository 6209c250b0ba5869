package telemetry

import (
	"runtime"
	"strings"

	"github.com/sqlgram/sqlgram/pkg/version"
)

// Event names - CLI
const (
	EventAppStarted         = "app_started"
	EventAppExited          = "app_exited"
	EventCLICommandExecuted = "cli_command_executed"
	EventCLIErrorOccurred   = "cli_error_occurred"
	EventCLIHelpViewed      = "cli_help_viewed"
)

// Event names - Learning
const (
	EventTutorialViewed    = "tutorial_viewed"
	EventTutorialStarted   = "tutorial_started"
	EventTutorialCompleted = "tutorial_completed"
	EventExerciseAttempted = "exercise_attempted"
	EventSolutionRevealed  = "solution_revealed"
	EventProgressViewed    = "progress_viewed"
	EventProgressReset     = "progress_reset"
)

// Event names - Playground
const (
	EventQueryExecuted    = "query_executed"
	EventDatabaseReset    = "database_reset"
	EventHistoryViewed    = "history_viewed"
	EventHistoryCleared   = "history_cleared"
	EventSchemaViewed     = "schema_viewed"
	EventQueryCopied      = "query_copied"
	EventKeyboardShortcut = "keyboard_shortcut_used"
	EventMCPToolCalled    = "mcp_tool_called"
	EventSessionSummary   = "session_summary"
)

// baseProperties returns common properties for all events.
func baseProperties() map[string]interface{} {
	return map[string]interface{}{
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"version":    version.Version,
		"prerelease": version.IsPrerelease(),
		"dev_build":  version.IsDevBuild(),
	}
}

// --- CLI Tracking Methods ---

// TrackAppStarted tracks application startup.
func (c *posthogClient) TrackAppStarted(mode string, tutorialsStarted int) {
	props := baseProperties()
	props["mode"] = mode
	props["tutorials_started"] = tutorialsStarted
	c.Track(EventAppStarted, props)
}

// TrackAppExited tracks application exit.
func (c *posthogClient) TrackAppExited(mode string, sessionDurationMs int64, queriesRun int) {
	props := baseProperties()
	props["mode"] = mode
	props["session_duration_ms"] = sessionDurationMs
	props["queries_run"] = queriesRun
	c.Track(EventAppExited, props)
}

// TrackCLICommandExecuted tracks CLI command execution.
func (c *posthogClient) TrackCLICommandExecuted(commandName string, hasFlags bool, durationMs int64) {
	props := baseProperties()
	props["command_name"] = commandName
	props["has_flags"] = hasFlags
	props["execution_duration_ms"] = durationMs
	c.Track(EventCLICommandExecuted, props)
}

// TrackCLIError tracks CLI errors.
func (c *posthogClient) TrackCLIError(commandName, errorType string) {
	props := baseProperties()
	props["command_name"] = commandName
	props["error_type"] = errorType
	c.Track(EventCLIErrorOccurred, props)
}

// TrackCLIHelpViewed tracks help command usage.
func (c *posthogClient) TrackCLIHelpViewed(commandName string, cliArgs []string) {
	props := baseProperties()
	props["command_name"] = commandName
	props["cli_args"] = strings.Join(cliArgs, " ")
	c.Track(EventCLIHelpViewed, props)
}

// --- Learning Tracking Methods ---

// TrackTutorialViewed tracks a lesson being rendered.
func (c *posthogClient) TrackTutorialViewed(tutorialID string) {
	props := baseProperties()
	props["tutorial_id"] = tutorialID
	c.Track(EventTutorialViewed, props)
}

// TrackTutorialStarted tracks a tutorial being marked started.
func (c *posthogClient) TrackTutorialStarted(tutorialID string) {
	props := baseProperties()
	props["tutorial_id"] = tutorialID
	c.Track(EventTutorialStarted, props)
}

// TrackTutorialCompleted tracks tutorial completion, explicit or derived.
func (c *posthogClient) TrackTutorialCompleted(tutorialID string, explicit bool) {
	props := baseProperties()
	props["tutorial_id"] = tutorialID
	props["explicit"] = explicit
	c.Track(EventTutorialCompleted, props)
}

// TrackExerciseAttempted tracks a graded submission. The query text is
// never sent.
func (c *posthogClient) TrackExerciseAttempted(tutorialID, exerciseID, verdictKind string, attempts int) {
	props := baseProperties()
	props["tutorial_id"] = tutorialID
	props["exercise_id"] = exerciseID
	props["verdict"] = verdictKind
	props["attempts"] = attempts
	c.Track(EventExerciseAttempted, props)
}

// TrackSolutionRevealed tracks a learner asking for a solution.
func (c *posthogClient) TrackSolutionRevealed(exerciseID string) {
	props := baseProperties()
	props["exercise_id"] = exerciseID
	c.Track(EventSolutionRevealed, props)
}

// TrackProgressViewed tracks the progress dashboard.
func (c *posthogClient) TrackProgressViewed(overallPercentage int) {
	props := baseProperties()
	props["overall_percentage"] = overallPercentage
	c.Track(EventProgressViewed, props)
}

// TrackProgressReset tracks a progress reset and what was discarded.
func (c *posthogClient) TrackProgressReset(overallPercentage int) {
	props := baseProperties()
	props["overall_percentage"] = overallPercentage
	c.Track(EventProgressReset, props)
}

// --- Playground Tracking Methods ---

// TrackQueryExecuted tracks a playground query. Only its shape is sent.
func (c *posthogClient) TrackQueryExecuted(statementKind string, success bool, rowCount int, durationMs int64, mutating bool) {
	props := baseProperties()
	props["statement_kind"] = statementKind
	props["success"] = success
	props["row_count"] = rowCount
	props["duration_ms"] = durationMs
	props["mutating"] = mutating
	c.Track(EventQueryExecuted, props)
}

// TrackDatabaseReset tracks the sample database being reset.
func (c *posthogClient) TrackDatabaseReset(source string) {
	props := baseProperties()
	props["source"] = source
	c.Track(EventDatabaseReset, props)
}

// TrackHistoryViewed tracks the query history being shown.
func (c *posthogClient) TrackHistoryViewed(entryCount int) {
	props := baseProperties()
	props["entry_count"] = entryCount
	c.Track(EventHistoryViewed, props)
}

// TrackHistoryCleared tracks the query history being cleared.
func (c *posthogClient) TrackHistoryCleared(entryCount int) {
	props := baseProperties()
	props["entry_count"] = entryCount
	c.Track(EventHistoryCleared, props)
}

// TrackSchemaViewed tracks the schema being shown.
func (c *posthogClient) TrackSchemaViewed(source string) {
	props := baseProperties()
	props["source"] = source
	c.Track(EventSchemaViewed, props)
}

// TrackQueryCopied tracks a query copied to the clipboard.
func (c *posthogClient) TrackQueryCopied() {
	c.Track(EventQueryCopied, baseProperties())
}

// TrackKeyboardShortcut tracks keyboard shortcut usage.
func (c *posthogClient) TrackKeyboardShortcut(shortcutKey, contextView string) {
	props := baseProperties()
	props["shortcut_key"] = shortcutKey
	props["context_view"] = contextView
	c.Track(EventKeyboardShortcut, props)
}

// --- MCP Tracking Methods ---

// TrackMCPToolCalled tracks MCP tool invocations.
func (c *posthogClient) TrackMCPToolCalled(toolName string, durationMs int64, success bool) {
	props := baseProperties()
	props["tool_name"] = toolName
	props["duration_ms"] = durationMs
	props["success"] = success
	c.Track(EventMCPToolCalled, props)
}

// --- Session Tracking Methods ---

// TrackSessionSummary tracks session summary on exit.
func (c *posthogClient) TrackSessionSummary(durationMs int64, queriesRun, exercisesAttempted, exercisesPassed int) {
	props := baseProperties()
	props["duration_ms"] = durationMs
	props["queries_run"] = queriesRun
	props["exercises_attempted"] = exercisesAttempted
	props["exercises_passed"] = exercisesPassed
	c.Track(EventSessionSummary, props)
}

// --- noopClient implementations (no-ops) ---

func (c *noopClient) TrackAppStarted(mode string, tutorialsStarted int)                       {}
func (c *noopClient) TrackAppExited(mode string, sessionDurationMs int64, queriesRun int)     {}
func (c *noopClient) TrackCLICommandExecuted(commandName string, hasFlags bool, d int64)      {}
func (c *noopClient) TrackCLIError(commandName, errorType string)                             {}
func (c *noopClient) TrackCLIHelpViewed(commandName string, cliArgs []string)                 {}
func (c *noopClient) TrackTutorialViewed(tutorialID string)                                   {}
func (c *noopClient) TrackTutorialStarted(tutorialID string)                                  {}
func (c *noopClient) TrackTutorialCompleted(tutorialID string, explicit bool)                 {}
func (c *noopClient) TrackExerciseAttempted(tutorialID, exerciseID, kind string, n int)       {}
func (c *noopClient) TrackSolutionRevealed(exerciseID string)                                 {}
func (c *noopClient) TrackProgressViewed(overallPercentage int)                               {}
func (c *noopClient) TrackProgressReset(overallPercentage int)                                {}
func (c *noopClient) TrackQueryExecuted(kind string, success bool, rows int, d int64, m bool) {}
func (c *noopClient) TrackDatabaseReset(source string)                                        {}
func (c *noopClient) TrackHistoryViewed(entryCount int)                                       {}
func (c *noopClient) TrackHistoryCleared(entryCount int)                                      {}
func (c *noopClient) TrackSchemaViewed(source string)                                         {}
func (c *noopClient) TrackQueryCopied()                                                       {}
func (c *noopClient) TrackKeyboardShortcut(shortcutKey, contextView string)                   {}
func (c *noopClient) TrackMCPToolCalled(toolName string, durationMs int64, success bool)      {}
func (c *noopClient) TrackSessionSummary(d int64, queriesRun, attempted, passed int)          {}
