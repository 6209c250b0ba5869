package testutil

import (
	"sync"

	"github.com/sqlgram/sqlgram/internal/telemetry"
)

// MockTelemetry records every event it is asked to send.
type MockTelemetry struct {
	mu     sync.Mutex
	events []Event
}

// Event is one recorded telemetry event.
type Event struct {
	Name       string
	Properties map[string]interface{}
}

var _ telemetry.Client = (*MockTelemetry)(nil)

func (m *MockTelemetry) Track(event string, properties map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, Event{Name: event, Properties: properties})
}

func (m *MockTelemetry) Close()                {}
func (m *MockTelemetry) GetTrackingID() string { return "test-tracking-id" }

func (m *MockTelemetry) TrackCLICommandExecuted(commandName string, hasFlags bool, durationMs int64) {
	m.Track(telemetry.EventCLICommandExecuted, map[string]interface{}{"command_name": commandName})
}
func (m *MockTelemetry) TrackCLIError(commandName, errorType string) {
	m.Track(telemetry.EventCLIErrorOccurred, map[string]interface{}{"command_name": commandName, "error_type": errorType})
}
func (m *MockTelemetry) TrackCLIHelpViewed(commandName string, cliArgs []string) {
	m.Track(telemetry.EventCLIHelpViewed, map[string]interface{}{"command_name": commandName})
}
func (m *MockTelemetry) TrackTutorialViewed(tutorialID string) {
	m.Track(telemetry.EventTutorialViewed, map[string]interface{}{"tutorial_id": tutorialID})
}
func (m *MockTelemetry) TrackTutorialStarted(tutorialID string) {
	m.Track(telemetry.EventTutorialStarted, map[string]interface{}{"tutorial_id": tutorialID})
}
func (m *MockTelemetry) TrackTutorialCompleted(tutorialID string, explicit bool) {
	m.Track(telemetry.EventTutorialCompleted, map[string]interface{}{"tutorial_id": tutorialID, "explicit": explicit})
}
func (m *MockTelemetry) TrackExerciseAttempted(tutorialID, exerciseID, verdictKind string, attempts int) {
	m.Track(telemetry.EventExerciseAttempted, map[string]interface{}{"exercise_id": exerciseID, "verdict": verdictKind, "attempts": attempts})
}
func (m *MockTelemetry) TrackSolutionRevealed(exerciseID string) {
	m.Track(telemetry.EventSolutionRevealed, map[string]interface{}{"exercise_id": exerciseID})
}
func (m *MockTelemetry) TrackProgressViewed(overallPercentage int) {
	m.Track(telemetry.EventProgressViewed, map[string]interface{}{"overall_percentage": overallPercentage})
}
func (m *MockTelemetry) TrackProgressReset(overallPercentage int) {
	m.Track(telemetry.EventProgressReset, map[string]interface{}{"overall_percentage": overallPercentage})
}
func (m *MockTelemetry) TrackQueryExecuted(statementKind string, success bool, rowCount int, durationMs int64, mutating bool) {
	m.Track(telemetry.EventQueryExecuted, map[string]interface{}{"statement_kind": statementKind, "success": success, "row_count": rowCount, "mutating": mutating})
}
func (m *MockTelemetry) TrackDatabaseReset(source string) {
	m.Track(telemetry.EventDatabaseReset, map[string]interface{}{"source": source})
}
func (m *MockTelemetry) TrackHistoryViewed(entryCount int) {
	m.Track(telemetry.EventHistoryViewed, map[string]interface{}{"entry_count": entryCount})
}
func (m *MockTelemetry) TrackHistoryCleared(entryCount int) {
	m.Track(telemetry.EventHistoryCleared, map[string]interface{}{"entry_count": entryCount})
}
func (m *MockTelemetry) TrackSchemaViewed(source string) {
	m.Track(telemetry.EventSchemaViewed, map[string]interface{}{"source": source})
}
func (m *MockTelemetry) TrackQueryCopied() {
	m.Track(telemetry.EventQueryCopied, map[string]interface{}{})
}
func (m *MockTelemetry) TrackKeyboardShortcut(shortcutKey, contextView string) {
	m.Track(telemetry.EventKeyboardShortcut, map[string]interface{}{"key": shortcutKey, "context": contextView})
}
func (m *MockTelemetry) TrackMCPToolCalled(toolName string, durationMs int64, success bool) {
	m.Track(telemetry.EventMCPToolCalled, map[string]interface{}{"tool_name": toolName, "success": success})
}
func (m *MockTelemetry) TrackAppStarted(mode string, tutorialsStarted int) {
	m.Track(telemetry.EventAppStarted, map[string]interface{}{"mode": mode, "tutorials_started": tutorialsStarted})
}
func (m *MockTelemetry) TrackAppExited(mode string, sessionDurationMs int64, queriesRun int) {
	m.Track(telemetry.EventAppExited, map[string]interface{}{"mode": mode, "queries_run": queriesRun})
}
func (m *MockTelemetry) TrackSessionSummary(d int64, queriesRun, attempted, passed int) {
	m.Track(telemetry.EventSessionSummary, map[string]interface{}{"queries_run": queriesRun, "exercises_attempted": attempted, "exercises_passed": passed})
}

// Events returns a copy of the recorded events.
func (m *MockTelemetry) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}

// Named returns the recorded events with the given name.
func (m *MockTelemetry) Named(name string) []Event {
	var out []Event
	for _, e := range m.Events() {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}
