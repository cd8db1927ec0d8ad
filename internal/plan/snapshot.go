package plan

import (
	"sort"

	"github.com/rcliao/semplan/internal/model"
)

// Semester is a read-only view of one real semester.
type Semester struct {
	ID           ContainerID    `json:"id"`
	Ordinal      int            `json:"ordinal"`
	Name         string         `json:"name"`
	Courses      []model.Course `json:"courses"`
	TotalCredits int            `json:"total_credits"`
}

// Plan is a snapshot of the study plan. Mutating it does not affect the
// engine.
type Plan struct {
	Semesters         map[ContainerID]Semester `json:"semesters"`
	Unassigned        []model.Course           `json:"unassigned"`
	OverloadThreshold int                      `json:"overload_threshold"`
}

// Ordered returns the real semesters sorted by ordinal.
func (p Plan) Ordered() []Semester {
	out := make([]Semester, 0, len(p.Semesters))
	for _, s := range p.Semesters {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ordinal < out[j].Ordinal })
	return out
}

// Overloaded reports whether the semester carries more credits than the
// plan's overload threshold. The pool is never overloaded.
func (p Plan) Overloaded(id ContainerID) bool {
	s, ok := p.Semesters[id]
	return ok && s.TotalCredits > p.OverloadThreshold
}

// Plan returns a deep copy of the current plan.
func (e *Engine) Plan() Plan {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := Plan{
		Semesters:         make(map[ContainerID]Semester, e.semesterCount),
		Unassigned:        cloneCourses(e.containers[Unassigned].courses),
		OverloadThreshold: e.threshold,
	}
	for n := 1; n <= e.semesterCount; n++ {
		id := SemesterID(n)
		c := e.containers[id]
		p.Semesters[id] = Semester{
			ID:           id,
			Ordinal:      n,
			Name:         SemesterName(id),
			Courses:      cloneCourses(c.courses),
			TotalCredits: c.credits,
		}
	}
	return p
}

func cloneCourses(cs []model.Course) []model.Course {
	out := make([]model.Course, len(cs))
	for i, c := range cs {
		out[i] = c.Clone()
	}
	return out
}

// Credits returns the running credit total of a semester; 0 for the pool.
func (e *Engine) Credits(id ContainerID) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.containers[id]
	if !ok {
		return 0, ErrUnknownContainer
	}
	if !id.IsSemester() {
		return 0, nil
	}
	return c.credits, nil
}

// Overloaded reports whether a real semester is above the overload threshold.
func (e *Engine) Overloaded(id ContainerID) bool {
	credits, err := e.Credits(id)
	return err == nil && credits > e.threshold
}
