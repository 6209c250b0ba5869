package session

import (
	"fmt"
	"io"

	"github.com/sqlgram/sqlgram/internal/engine"
	"github.com/sqlgram/sqlgram/internal/history"
	"github.com/sqlgram/sqlgram/internal/kv"
	"github.com/sqlgram/sqlgram/internal/progress"
	"github.com/sqlgram/sqlgram/internal/telemetry"
	"github.com/sqlgram/sqlgram/internal/tutorial"
)

// Options configure Open.
type Options struct {
	Store     kv.Store
	Engine    engine.Config
	Telemetry telemetry.Client
}

// Open loads the embedded catalog and wires a session over a fresh engine and
// the given store.
func Open(opts Options) (*Session, error) {
	catalog, err := tutorial.Load()
	if err != nil {
		return nil, fmt.Errorf("load tutorials: %w", err)
	}
	store := opts.Store
	if store == nil {
		store = kv.NewMemory()
	}
	return New(Deps{
		Database:  engine.New(opts.Engine),
		Catalog:   catalog,
		Ledger:    progress.New(store, catalog.IDs()),
		History:   history.New(store),
		Telemetry: opts.Telemetry,
	}), nil
}

// Close releases the session's database.
func (s *Session) Close() error {
	if c, ok := s.db.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
