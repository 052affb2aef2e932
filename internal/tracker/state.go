// Package tracker holds a student's course record and active programs as an
// explicit state value. Every operation takes a State and returns a new one,
// with all active programs re-evaluated against the updated course list.
package tracker

import (
	"github.com/google/uuid"

	"github.com/jonathan/degree-tracker/internal/matching"
	"github.com/jonathan/degree-tracker/internal/parsing"
	"github.com/jonathan/degree-tracker/internal/progress"
	"github.com/jonathan/degree-tracker/internal/types"
)

// State is a student's course list and the programs being tracked against it.
type State struct {
	Courses  []types.Course  `json:"courses"`
	Programs []types.Program `json:"programs"`
}

// Tracker applies state transitions with one matcher.
type Tracker struct {
	matcher *matching.Matcher
}

// New creates a Tracker. A nil matcher uses the fuzzy strategy.
func New(m *matching.Matcher) *Tracker {
	if m == nil {
		m = matching.New(nil)
	}
	return &Tracker{matcher: m}
}

// ActivatePrograms adds programs to the state, replacing any with the same ID,
// and evaluates them against the current courses.
func (t *Tracker) ActivatePrograms(s State, programs ...types.Program) State {
	out := s.clone()
	for _, p := range programs {
		replaced := false
		for i := range out.Programs {
			if out.Programs[i].ID == p.ID {
				out.Programs[i] = p.Clone()
				replaced = true
				break
			}
		}
		if !replaced {
			out.Programs = append(out.Programs, p.Clone())
		}
	}
	return t.Reevaluate(out)
}

// AddCourse validates in and appends the resulting course. Invalid input
// returns a *ValidationError and s unchanged.
func (t *Tracker) AddCourse(s State, in types.CourseInput) (State, types.Course, error) {
	course, err := courseFromInput(in)
	if err != nil {
		return s, types.Course{}, err
	}
	course.ID = uuid.New()

	out := s.clone()
	out.Courses = append(out.Courses, course)
	return t.Reevaluate(out), course, nil
}

// EditCourse replaces the course with the given ID, keeping its ID.
func (t *Tracker) EditCourse(s State, id uuid.UUID, in types.CourseInput) (State, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return s, &NotFoundError{ID: id}
	}
	course, err := courseFromInput(in)
	if err != nil {
		return s, err
	}
	course.ID = id

	out := s.clone()
	out.Courses[idx] = course
	return t.Reevaluate(out), nil
}

// DeleteCourse removes the course with the given ID.
func (t *Tracker) DeleteCourse(s State, id uuid.UUID) (State, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return s, &NotFoundError{ID: id}
	}

	out := s.clone()
	out.Courses = append(out.Courses[:idx], out.Courses[idx+1:]...)
	return t.Reevaluate(out), nil
}

// ImportCourses appends parsed courses whose code is not already on the
// record. It returns the new state and the number of courses added.
func (t *Tracker) ImportCourses(s State, courses []types.Course) (State, int) {
	out := s.clone()
	seen := make(map[string]bool, len(out.Courses))
	for _, c := range out.Courses {
		seen[parsing.CanonicalCode(c.Code)] = true
	}

	added := 0
	for _, c := range courses {
		code := parsing.CanonicalCode(c.Code)
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		c.Code = code
		out.Courses = append(out.Courses, c)
		added++
	}
	if added == 0 {
		return s, 0
	}
	return t.Reevaluate(out), added
}

// Reevaluate runs a full matching pass over every active program.
func (t *Tracker) Reevaluate(s State) State {
	out := s.clone()
	for i, p := range out.Programs {
		out.Programs[i] = t.matcher.Evaluate(p, out.Courses)
	}
	return out
}

// Missing returns the requirements of active programs that no course
// satisfies, planned ones included only when includePlanned is set.
func (t *Tracker) Missing(s State, includePlanned bool) []types.Requirement {
	var missing []types.Requirement
	for _, p := range s.Programs {
		for _, r := range p.AllRequirements() {
			switch r.Status() {
			case types.StatusMissing:
				missing = append(missing, r)
			case types.StatusPlanned:
				if includePlanned {
					missing = append(missing, r)
				}
			}
		}
	}
	return missing
}

// Progress reports per-program progress in activation order.
func (t *Tracker) Progress(s State) []progress.ProgramProgress {
	out := make([]progress.ProgramProgress, 0, len(s.Programs))
	for _, p := range s.Programs {
		out = append(out, progress.ForProgram(p))
	}
	return out
}

// CompletedCredits sums the credits of completed courses.
func (s State) CompletedCredits() float64 {
	total := 0.0
	for _, c := range s.Courses {
		if c.IsCompleted() {
			total += c.Credits
		}
	}
	return total
}

// CoursesByStatus returns the courses with the given status, in record order.
func (s State) CoursesByStatus(status types.CourseStatus) []types.Course {
	var out []types.Course
	for _, c := range s.Courses {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out
}

func (s State) indexOf(id uuid.UUID) int {
	for i, c := range s.Courses {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s State) clone() State {
	out := State{
		Courses:  append([]types.Course{}, s.Courses...),
		Programs: make([]types.Program, len(s.Programs)),
	}
	for i, p := range s.Programs {
		out.Programs[i] = p.Clone()
	}
	return out
}

// courseFromInput validates the form and builds a course without an ID.
func courseFromInput(in types.CourseInput) (types.Course, error) {
	if err := in.Validate(); err != nil {
		return types.Course{}, newValidationError(err)
	}

	status, err := types.ParseCourseStatus(in.Status)
	if err != nil {
		return types.Course{}, newValidationError(err)
	}
	code := parsing.CanonicalCode(in.Code)
	return types.Course{
		Code:     code,
		Title:    in.Title,
		Credits:  in.Credits,
		Status:   status,
		Semester: in.Semester,
		Grade:    in.Grade,
		Category: parsing.CourseCategory(code),
	}, nil
}
