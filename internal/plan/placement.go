package plan

import (
	"fmt"
	"sort"
)

// Placement records that a course sits at a position inside a semester.
type Placement struct {
	Code     string      `json:"code"`
	Semester ContainerID `json:"semester"`
	Position int         `json:"position"`
}

// Placements lists every course assigned to a real semester, in semester
// then display order.
func (e *Engine) Placements() []Placement {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []Placement
	for n := 1; n <= e.semesterCount; n++ {
		id := SemesterID(n)
		for i, c := range e.containers[id].courses {
			out = append(out, Placement{Code: c.Code, Semester: id, Position: i})
		}
	}
	return out
}

// Restore replays saved placements through AddCourseToSemester, earliest
// semester first, so the usual validation applies. Placements that no
// longer fit (unknown code, unknown semester, rejected move) are skipped and
// reported; the rest are applied.
func (e *Engine) Restore(placements []Placement) (int, []error) {
	ps := append([]Placement(nil), placements...)
	sort.SliceStable(ps, func(i, j int) bool {
		oi, oj := ps[i].Semester.Ordinal(), ps[j].Semester.Ordinal()
		if oi != oj {
			return oi < oj
		}
		return ps[i].Position < ps[j].Position
	})

	var (
		restored int
		errs     []error
	)
	for _, p := range ps {
		if !p.Semester.IsSemester() {
			continue
		}
		course, ok := e.Course(p.Code)
		if !ok {
			errs = append(errs, fmt.Errorf("restore %s: course not in catalog", p.Code))
			continue
		}
		res, err := e.AddCourseToSemester(course, p.Semester)
		if err != nil {
			errs = append(errs, fmt.Errorf("restore %s: %w", p.Code, err))
			continue
		}
		if !res.Moved {
			errs = append(errs, fmt.Errorf("restore %s: course already placed", p.Code))
			continue
		}
		restored++
	}
	return restored, errs
}
