package progress

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/sqlgram/sqlgram/internal/kv"
	"github.com/sqlgram/sqlgram/internal/log"
)

// Listener is told about every tutorial whose progress changed.
type Listener func(tutorialID string, t TutorialProgress)

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// Ledger owns the progress state and writes it through to a kv.Store after
// every mutation. A failed write is logged and the in-memory state stays
// authoritative.
type Ledger struct {
	mu        sync.Mutex
	store     kv.Store
	known     []string
	now       func() time.Time
	state     *State
	listeners []Listener
}

// New loads the ledger from store. Missing or unreadable state yields the
// default state; a state lacking some known tutorials is repaired.
func New(store kv.Store, known []string, opts ...Option) *Ledger {
	l := &Ledger{
		store: store,
		known: append([]string(nil), known...),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.state = l.load()
	return l
}

func (l *Ledger) load() *State {
	data, ok, err := l.store.Get(kv.ProgressKey)
	if err != nil {
		log.Errorf("load progress: %v", err)
		return defaultState(l.known, l.now())
	}
	if !ok {
		return defaultState(l.known, l.now())
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		log.Errorf("parse progress: %v", err)
		return defaultState(l.known, l.now())
	}
	l.repair(&s)
	return &s
}

// repair fills in whatever a decoded document left nil.
func (l *Ledger) repair(s *State) {
	if s.Tutorials == nil {
		s.Tutorials = make(map[string]*TutorialProgress)
	}
	for id, t := range s.Tutorials {
		if t == nil {
			s.Tutorials[id] = newTutorialProgress()
			continue
		}
		if t.Exercises == nil {
			t.Exercises = make(map[string]*ExerciseProgress)
		}
		for exID, ex := range t.Exercises {
			if ex == nil {
				delete(t.Exercises, exID)
			}
		}
	}
	for _, id := range l.known {
		if _, ok := s.Tutorials[id]; !ok {
			s.Tutorials[id] = newTutorialProgress()
		}
	}
	if s.LastActive == "" {
		s.LastActive = stamp(l.now())
	}
}

func (l *Ledger) persistLocked() {
	data, err := json.Marshal(l.state)
	if err != nil {
		log.Errorf("encode progress: %v", err)
		return
	}
	if err := l.store.Set(kv.ProgressKey, data); err != nil {
		log.Errorf("save progress: %v", err)
	}
}

// tutorialLocked returns the entry for id, creating and persisting a default
// one on first sight.
func (l *Ledger) tutorialLocked(id string) *TutorialProgress {
	t, ok := l.state.Tutorials[id]
	if !ok {
		t = newTutorialProgress()
		l.state.Tutorials[id] = t
		l.persistLocked()
	}
	return t
}

// OnChange registers a listener. Listeners run after the state is persisted,
// outside the ledger's lock.
func (l *Ledger) OnChange(fn Listener) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, fn)
}

func (l *Ledger) notify(id string, t TutorialProgress) {
	l.mu.Lock()
	listeners := append([]Listener(nil), l.listeners...)
	l.mu.Unlock()

	for _, fn := range listeners {
		fn(id, t)
	}
}

// StartTutorial marks a tutorial started.
func (l *Ledger) StartTutorial(id string) TutorialProgress {
	l.mu.Lock()
	t := l.tutorialLocked(id)
	now := stamp(l.now())
	t.Started = true
	t.LastVisited = &now
	l.state.LastActive = now
	l.state.recomputeOverall()
	l.persistLocked()
	out := t.Clone()
	l.mu.Unlock()

	l.notify(id, out)
	return out
}

// RecordExerciseAttempt counts one attempt at an exercise. completed is the
// verdict of this attempt and replaces any earlier one.
func (l *Ledger) RecordExerciseAttempt(tutorialID, exerciseID string, completed bool) TutorialProgress {
	l.mu.Lock()
	t := l.tutorialLocked(tutorialID)
	ex, ok := t.Exercises[exerciseID]
	if !ok {
		ex = &ExerciseProgress{}
		t.Exercises[exerciseID] = ex
	}
	now := stamp(l.now())
	ex.Attempts++
	ex.Completed = completed
	ex.LastAttempt = &now
	l.state.LastActive = now

	t.recomputePercent()
	l.state.recomputeOverall()
	l.persistLocked()
	out := t.Clone()
	l.mu.Unlock()

	l.notify(tutorialID, out)
	return out
}

// CompleteTutorial marks a tutorial completed at 100% regardless of its
// exercises.
func (l *Ledger) CompleteTutorial(id string) TutorialProgress {
	l.mu.Lock()
	t := l.tutorialLocked(id)
	now := stamp(l.now())
	t.Completed = true
	t.PercentComplete = 100
	t.LastVisited = &now
	l.state.LastActive = now
	l.state.recomputeOverall()
	l.persistLocked()
	out := t.Clone()
	l.mu.Unlock()

	l.notify(id, out)
	return out
}

// ResetAll replaces the state with defaults for every known tutorial.
func (l *Ledger) ResetAll() {
	l.mu.Lock()
	l.state = defaultState(l.known, l.now())
	l.persistLocked()
	snapshot := l.state.Clone()
	l.mu.Unlock()

	for _, id := range l.known {
		l.notify(id, *snapshot.Tutorials[id])
	}
}

// Tutorial returns a copy of one tutorial's progress. An unknown id gets a
// default entry, which is persisted.
func (l *Ledger) Tutorial(id string) TutorialProgress {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tutorialLocked(id).Clone()
}

// Tutorials returns a copy of every tutorial's progress.
func (l *Ledger) Tutorials() map[string]TutorialProgress {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[string]TutorialProgress, len(l.state.Tutorials))
	for id, t := range l.state.Tutorials {
		out[id] = t.Clone()
	}
	return out
}

// OverallPercentage returns the rounded mean completion.
func (l *Ledger) OverallPercentage() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.OverallPercentage
}

// State returns a deep copy of the whole document.
func (l *Ledger) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Clone()
}

// Known returns the tutorial ids the ledger was created with, in order.
func (l *Ledger) Known() []string {
	return append([]string(nil), l.known...)
}
