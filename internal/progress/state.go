// Package progress keeps the learner's per-tutorial progress.
package progress

import (
	"math"
	"time"
)

// TimeLayout is the ISO-8601 form used for every stored timestamp.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// CompletionThreshold is the number of recorded exercises a tutorial needs
// before finishing them all marks the tutorial completed.
const CompletionThreshold = 5

// ExerciseProgress tracks attempts at one exercise.
type ExerciseProgress struct {
	Attempts    int     `json:"attempts"`
	Completed   bool    `json:"completed"`
	LastAttempt *string `json:"lastAttempt"`
}

// TutorialProgress tracks one tutorial.
type TutorialProgress struct {
	Started         bool                         `json:"started"`
	Completed       bool                         `json:"completed"`
	Exercises       map[string]*ExerciseProgress `json:"exercises"`
	PercentComplete int                          `json:"percentComplete"`
	LastVisited     *string                      `json:"lastVisited"`
}

// State is the persisted document.
type State struct {
	Tutorials         map[string]*TutorialProgress `json:"tutorials"`
	OverallPercentage int                          `json:"overallPercentage"`
	LastActive        string                       `json:"lastActive"`
}

func newTutorialProgress() *TutorialProgress {
	return &TutorialProgress{Exercises: make(map[string]*ExerciseProgress)}
}

func defaultState(known []string, now time.Time) *State {
	s := &State{
		Tutorials:  make(map[string]*TutorialProgress, len(known)),
		LastActive: stamp(now),
	}
	for _, id := range known {
		s.Tutorials[id] = newTutorialProgress()
	}
	return s
}

func stamp(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// round rounds half away from zero for the non-negative values used here.
func round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// recomputePercent applies the derivation rule to t.
func (t *TutorialProgress) recomputePercent() {
	total := len(t.Exercises)
	if total == 0 {
		if t.Started {
			t.PercentComplete = 10
		} else {
			t.PercentComplete = 0
		}
		return
	}

	completed := t.CompletedExercises()
	base := 0.0
	if t.Started {
		base = 10
	}
	t.PercentComplete = round(base + float64(completed)/float64(total)*90)

	if completed == total && total >= CompletionThreshold {
		t.Completed = true
		t.PercentComplete = 100
	}
}

// recomputeOverall sets the overall percentage from every tutorial in s.
func (s *State) recomputeOverall() {
	if len(s.Tutorials) == 0 {
		s.OverallPercentage = 0
		return
	}
	sum := 0
	for _, t := range s.Tutorials {
		sum += t.PercentComplete
	}
	s.OverallPercentage = round(float64(sum) / float64(len(s.Tutorials)))
}

// Clone returns a deep copy of t.
func (t *TutorialProgress) Clone() TutorialProgress {
	out := *t
	out.Exercises = make(map[string]*ExerciseProgress, len(t.Exercises))
	for id, ex := range t.Exercises {
		cp := *ex
		out.Exercises[id] = &cp
	}
	return out
}

// CompletedExercises counts the exercises whose latest attempt passed.
func (t *TutorialProgress) CompletedExercises() int {
	n := 0
	for _, ex := range t.Exercises {
		if ex.Completed {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of s.
func (s *State) Clone() State {
	out := State{
		Tutorials:         make(map[string]*TutorialProgress, len(s.Tutorials)),
		OverallPercentage: s.OverallPercentage,
		LastActive:        s.LastActive,
	}
	for id, t := range s.Tutorials {
		cp := t.Clone()
		out.Tutorials[id] = &cp
	}
	return out
}
