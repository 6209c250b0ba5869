// Package grading decides whether a learner's query solves an exercise.
package grading

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidPattern is returned by Compile for a malformed required pattern.
var ErrInvalidPattern = errors.New("invalid exercise pattern")

// ExerciseConfig describes how one exercise is graded. When ValidationQuery
// is set the learner's rows are compared with the reference rows; otherwise
// the query text is checked against keywords and patterns.
type ExerciseConfig struct {
	RequiredKeywords   []string `json:"requiredKeywords,omitempty"`
	RequiredPatterns   []string `json:"requiredPatterns,omitempty"`
	ForbiddenKeywords  []string `json:"forbiddenKeywords,omitempty"`
	ValidationQuery    string   `json:"validationQuery,omitempty"`
	CheckRowCount      bool     `json:"checkRowCount,omitempty"`
	CheckStructureOnly bool     `json:"checkStructureOnly,omitempty"`
	CheckColumns       []string `json:"checkColumns,omitempty"`
	Solution           string   `json:"solution,omitempty"`
}

// UsesResultComparison reports whether the exercise is graded by comparing
// result sets.
func (c ExerciseConfig) UsesResultComparison() bool {
	return c.ValidationQuery != ""
}

// Compiled is an ExerciseConfig with its patterns compiled.
type Compiled struct {
	ExerciseConfig
	patterns []*regexp.Regexp
}

// Compile validates the config and compiles its patterns case-insensitively.
func (c ExerciseConfig) Compile() (*Compiled, error) {
	compiled := &Compiled{ExerciseConfig: c}
	for _, p := range c.RequiredPatterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidPattern, p, err)
		}
		compiled.patterns = append(compiled.patterns, re)
	}
	return compiled, nil
}
