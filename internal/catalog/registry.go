// Package catalog holds the program registry: the built-in requirement tables
// and programs imported from university catalog pages.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/degree-tracker/internal/parsing"
	"github.com/jonathan/degree-tracker/internal/types"
)

//go:embed programs.yaml
var builtinPrograms []byte

type programFile struct {
	Programs []programEntry `yaml:"programs"`
}

type programEntry struct {
	ID           string          `yaml:"id"`
	Name         string          `yaml:"name"`
	University   string          `yaml:"university"`
	Type         string          `yaml:"type"`
	TotalCredits float64         `yaml:"total_credits"`
	SourceURL    string          `yaml:"source_url"`
	Categories   []categoryEntry `yaml:"categories"`
}

type categoryEntry struct {
	Name         string             `yaml:"name"`
	Requirements []requirementEntry `yaml:"requirements"`
}

type requirementEntry struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Credits     float64  `yaml:"credits"`
	Courses     []string `yaml:"courses"`
}

// LoadPrograms decodes a YAML program table. Unknown keys are rejected.
func LoadPrograms(data []byte) ([]types.Program, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file programFile
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode program table: %w", err)
	}

	programs := make([]types.Program, 0, len(file.Programs))
	seen := make(map[string]bool, len(file.Programs))
	for _, entry := range file.Programs {
		p, err := entry.program()
		if err != nil {
			return nil, err
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate program id %q", p.ID)
		}
		seen[p.ID] = true
		programs = append(programs, p)
	}
	return programs, nil
}

// BuiltinPrograms returns the embedded program tables.
func BuiltinPrograms() ([]types.Program, error) {
	return LoadPrograms(builtinPrograms)
}

func (e programEntry) program() (types.Program, error) {
	if strings.TrimSpace(e.Name) == "" {
		return types.Program{}, fmt.Errorf("program %q has no name", e.ID)
	}
	programType, err := types.ParseProgramType(e.Type)
	if err != nil {
		return types.Program{}, fmt.Errorf("program %q: %w", e.Name, err)
	}

	p := types.Program{
		ID:           e.ID,
		Name:         e.Name,
		University:   e.University,
		Type:         programType,
		TotalCredits: e.TotalCredits,
		SourceURL:    e.SourceURL,
		Requirements: make(map[string][]types.Requirement, len(e.Categories)),
	}
	if p.ID == "" {
		p.ID = ProgramID(p.Name, p.University, p.Type)
	}

	for _, c := range e.Categories {
		if _, dup := p.Requirements[c.Name]; dup {
			return types.Program{}, fmt.Errorf("program %q: duplicate category %q", p.ID, c.Name)
		}
		reqs := make([]types.Requirement, 0, len(c.Requirements))
		for _, r := range c.Requirements {
			courses := make([]string, 0, len(r.Courses))
			for _, code := range r.Courses {
				courses = append(courses, parsing.CanonicalCode(code))
			}
			reqs = append(reqs, types.Requirement{
				Name:            r.Name,
				Description:     r.Description,
				Category:        c.Name,
				Credits:         r.Credits,
				MatchingCourses: courses,
				Source:          p.SourceURL,
			})
		}
		p.Requirements[c.Name] = reqs
		p.CategoryOrder = append(p.CategoryOrder, c.Name)
	}
	return p, nil
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonSlug       = regexp.MustCompile(`[^a-z0-9-]`)
)

// ProgramID derives a registry ID such as
// "northeastern-university-computer-science-bs-major".
func ProgramID(name, university string, programType types.ProgramType) string {
	return slug(university) + "-" + slug(name) + "-" + string(programType)
}

func slug(s string) string {
	s = whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
	return nonSlug.ReplaceAllString(s, "")
}

// Registry is a concurrency-safe set of programs in insertion order.
type Registry struct {
	mu       sync.RWMutex
	programs map[string]types.Program
	order    []string
}

// NewRegistry creates a registry holding programs.
func NewRegistry(programs ...types.Program) *Registry {
	r := &Registry{programs: make(map[string]types.Program)}
	for _, p := range programs {
		r.Add(p)
	}
	return r
}

// DefaultRegistry creates a registry preloaded with the built-in programs.
func DefaultRegistry() (*Registry, error) {
	programs, err := BuiltinPrograms()
	if err != nil {
		return nil, err
	}
	return NewRegistry(programs...), nil
}

// Add stores a copy of p, replacing any program with the same ID, and returns
// the ID. Programs without an ID get one from ProgramID.
func (r *Registry) Add(p types.Program) string {
	if p.ID == "" {
		p.ID = ProgramID(p.Name, p.University, p.Type)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.programs[p.ID]; !ok {
		r.order = append(r.order, p.ID)
	}
	r.programs[p.ID] = p.Clone()
	return p.ID
}

// Get returns a copy of the program with the given ID.
func (r *Registry) Get(id string) (types.Program, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.programs[id]
	if !ok {
		return types.Program{}, &NotFoundError{ID: id}
	}
	return p.Clone(), nil
}

// List returns copies of the registered programs in insertion order. An empty
// programType lists every program.
func (r *Registry) List(programType types.ProgramType) []types.Program {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.Program, 0, len(r.order))
	for _, id := range r.order {
		p := r.programs[id]
		if programType != "" && p.Type != programType {
			continue
		}
		out = append(out, p.Clone())
	}
	return out
}

// Remove deletes a program and reports whether it was present.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.programs[id]; !ok {
		return false
	}
	delete(r.programs, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}
