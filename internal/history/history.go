// Package history keeps the most recent playground queries.
package history

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/sqlgram/sqlgram/internal/kv"
	"github.com/sqlgram/sqlgram/internal/log"
)

// MaxEntries bounds the history; older entries are evicted.
const MaxEntries = 20

// Entry is one executed query.
type Entry struct {
	Query     string `json:"query"`
	Success   bool   `json:"success"`
	Timestamp string `json:"timestamp"`
}

// Store is the newest-first query history persisted under kv.HistoryKey.
type Store struct {
	mu      sync.Mutex
	store   kv.Store
	now     func() time.Time
	entries []Entry
}

// New loads the history from store. Unreadable data yields an empty history.
func New(store kv.Store) *Store {
	s := &Store{store: store, now: time.Now}
	s.entries = s.load()
	return s
}

func (s *Store) load() []Entry {
	data, ok, err := s.store.Get(kv.HistoryKey)
	if err != nil {
		log.Errorf("load history: %v", err)
		return nil
	}
	if !ok {
		return nil
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Errorf("parse history: %v", err)
		return nil
	}
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	return entries
}

// Add records a query at the front of the history.
func (s *Store) Add(query string, success bool) Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := Entry{
		Query:     query,
		Success:   success,
		Timestamp: s.now().UTC().Format("2006-01-02T15:04:05.000Z"),
	}
	s.entries = append([]Entry{e}, s.entries...)
	if len(s.entries) > MaxEntries {
		s.entries = s.entries[:MaxEntries]
	}
	s.persistLocked()
	return e
}

// List returns a copy of the history, newest first.
func (s *Store) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.entries...)
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Clear empties the history.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	if err := s.store.Delete(kv.HistoryKey); err != nil {
		log.Errorf("clear history: %v", err)
	}
}

func (s *Store) persistLocked() {
	data, err := json.Marshal(s.entries)
	if err != nil {
		log.Errorf("encode history: %v", err)
		return
	}
	if err := s.store.Set(kv.HistoryKey, data); err != nil {
		log.Errorf("save history: %v", err)
	}
}
