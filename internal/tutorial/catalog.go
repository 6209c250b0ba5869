// Package tutorial loads the embedded SQL lessons and their exercises.
//
// Each lesson is a markdown file under content/ whose YAML frontmatter names
// the tutorial and lists its exercises together with their grading rules.
package tutorial

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/sqlgram/sqlgram/internal/grading"
)

//go:embed content/*.md
var content embed.FS

// ErrNotFound is returned for unknown tutorial or exercise ids.
var ErrNotFound = errors.New("not found")

// Exercise is one graded task of a tutorial.
type Exercise struct {
	ID         string
	TutorialID string
	Prompt     string
	Config     *grading.Compiled
}

// Tutorial is a lesson with its exercises.
type Tutorial struct {
	ID          string
	Title       string
	Description string
	Order       int
	Body        string
	Exercises   []*Exercise
}

// Catalog is the ordered set of tutorials.
type Catalog struct {
	tutorials []*Tutorial
	byID      map[string]*Tutorial
	exercises map[string]*Exercise
}

// Load parses the embedded lessons.
func Load() (*Catalog, error) {
	sub, err := fs.Sub(content, "content")
	if err != nil {
		return nil, err
	}
	return LoadFS(sub)
}

// LoadFS parses every *.md file at the root of fsys. Exercise patterns are
// compiled here, so a malformed pattern fails the whole load.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	names, err := fs.Glob(fsys, "*.md")
	if err != nil {
		return nil, err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.GFM, meta.Meta))
	c := &Catalog{
		byID:      make(map[string]*Tutorial),
		exercises: make(map[string]*Exercise),
	}
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		t, err := parseTutorial(md, data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path.Base(name), err)
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("parse %s: duplicate tutorial id %q", name, t.ID)
		}
		for _, ex := range t.Exercises {
			if _, dup := c.exercises[ex.ID]; dup {
				return nil, fmt.Errorf("parse %s: duplicate exercise id %q", name, ex.ID)
			}
			c.exercises[ex.ID] = ex
		}
		c.byID[t.ID] = t
		c.tutorials = append(c.tutorials, t)
	}

	sort.SliceStable(c.tutorials, func(i, j int) bool {
		return c.tutorials[i].Order < c.tutorials[j].Order
	})
	return c, nil
}

// List returns the tutorials in lesson order.
func (c *Catalog) List() []*Tutorial {
	return append([]*Tutorial(nil), c.tutorials...)
}

// IDs returns the tutorial ids in lesson order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.tutorials))
	for i, t := range c.tutorials {
		ids[i] = t.ID
	}
	return ids
}

// Get returns the tutorial with the given id.
func (c *Catalog) Get(id string) (*Tutorial, error) {
	t, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("tutorial %q: %w", id, ErrNotFound)
	}
	return t, nil
}

// Exercise returns an exercise of a tutorial. exerciseID may be the full id
// ("select-2") or the number within the tutorial ("2").
func (c *Catalog) Exercise(tutorialID, exerciseID string) (*Exercise, error) {
	if _, err := c.Get(tutorialID); err != nil {
		return nil, err
	}
	full := exerciseID
	if !strings.HasPrefix(exerciseID, tutorialID+"-") {
		full = tutorialID + "-" + exerciseID
	}
	ex, ok := c.exercises[full]
	if !ok || ex.TutorialID != tutorialID {
		return nil, fmt.Errorf("exercise %q: %w", full, ErrNotFound)
	}
	return ex, nil
}

// FindExercise looks an exercise up by its full id.
func (c *Catalog) FindExercise(id string) (*Exercise, error) {
	ex, ok := c.exercises[id]
	if !ok {
		return nil, fmt.Errorf("exercise %q: %w", id, ErrNotFound)
	}
	return ex, nil
}

func parseTutorial(md goldmark.Markdown, data []byte) (*Tutorial, error) {
	var buf bytes.Buffer
	ctx := parser.NewContext()
	if err := md.Convert(data, &buf, parser.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("parse markdown: %w", err)
	}
	frontmatter := meta.Get(ctx)

	t := &Tutorial{
		ID:          stringField(frontmatter, "id"),
		Title:       stringField(frontmatter, "title"),
		Description: stringField(frontmatter, "description"),
		Order:       intField(frontmatter, "order"),
		Body:        stripFrontmatter(string(data)),
	}
	if t.ID == "" {
		return nil, errors.New("missing id")
	}
	if t.Title == "" {
		t.Title = t.ID
	}

	raw, _ := frontmatter["exercises"].([]interface{})
	for i, item := range raw {
		fields := toStringMap(item)
		if fields == nil {
			return nil, fmt.Errorf("exercise %d: not a mapping", i+1)
		}
		ex, err := parseExercise(t.ID, fields)
		if err != nil {
			return nil, err
		}
		t.Exercises = append(t.Exercises, ex)
	}
	return t, nil
}

func parseExercise(tutorialID string, fields map[string]interface{}) (*Exercise, error) {
	id := stringField(fields, "id")
	if id == "" {
		return nil, errors.New("exercise without id")
	}
	cfg := grading.ExerciseConfig{
		RequiredKeywords:   stringsField(fields, "requiredKeywords"),
		RequiredPatterns:   stringsField(fields, "requiredPatterns"),
		ForbiddenKeywords:  stringsField(fields, "forbiddenKeywords"),
		ValidationQuery:    stringField(fields, "validationQuery"),
		CheckRowCount:      boolField(fields, "checkRowCount"),
		CheckStructureOnly: boolField(fields, "checkStructureOnly"),
		CheckColumns:       stringsField(fields, "checkColumns"),
		Solution:           stringField(fields, "solution"),
	}
	compiled, err := cfg.Compile()
	if err != nil {
		return nil, fmt.Errorf("exercise %s: %w", id, err)
	}
	return &Exercise{
		ID:         id,
		TutorialID: tutorialID,
		Prompt:     stringField(fields, "prompt"),
		Config:     compiled,
	}, nil
}

// stripFrontmatter returns the markdown after the closing "---" line.
func stripFrontmatter(doc string) string {
	if !strings.HasPrefix(doc, "---") {
		return doc
	}
	rest := doc[3:]
	idx := strings.Index(rest, "\n---")
	if idx < 0 {
		return doc
	}
	body := rest[idx+4:]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	}
	return strings.TrimLeft(body, "\n")
}
