package testutil

import (
	"testing"

	"github.com/sqlgram/sqlgram/internal/engine"
	"github.com/sqlgram/sqlgram/internal/history"
	"github.com/sqlgram/sqlgram/internal/kv"
	"github.com/sqlgram/sqlgram/internal/progress"
	"github.com/sqlgram/sqlgram/internal/session"
	"github.com/sqlgram/sqlgram/internal/tutorial"
)

// Fixture is a fully wired in-memory session.
type Fixture struct {
	Session   *session.Session
	Engine    *engine.Engine
	Store     *kv.Memory
	Telemetry *MockTelemetry
}

// NewSession builds a session over a fresh engine and an in-memory store.
func NewSession(t *testing.T) *Fixture {
	t.Helper()

	catalog, err := tutorial.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	eng := engine.New(engine.Config{})
	t.Cleanup(func() { _ = eng.Close() })

	store := kv.NewMemory()
	tc := &MockTelemetry{}
	sess := session.New(session.Deps{
		Database:  eng,
		Catalog:   catalog,
		Ledger:    progress.New(store, catalog.IDs()),
		History:   history.New(store),
		Telemetry: tc,
	})
	return &Fixture{Session: sess, Engine: eng, Store: store, Telemetry: tc}
}
