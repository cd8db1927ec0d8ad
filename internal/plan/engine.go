// Package plan places catalog courses into semesters and enforces
// prerequisite ordering between them.
//
// An Engine owns one study plan: a fixed set of numbered semesters plus an
// unassigned pool. Every course lives in exactly one of those containers and
// moves between them only through MoveCourse, which validates the move
// against the prerequisite relation before committing it.
package plan

import (
	"fmt"
	"sync"

	"github.com/rcliao/semplan/internal/model"
)

const (
	// DefaultSemesters is the number of real semesters in a new plan.
	DefaultSemesters = 8

	// DefaultOverloadThreshold is the credit total above which a semester
	// is considered overloaded.
	DefaultOverloadThreshold = 24
)

// Option configures an Engine.
type Option func(*Engine)

// WithSemesters sets the number of real semesters. Values below 1 are ignored.
func WithSemesters(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.semesterCount = n
		}
	}
}

// WithOverloadThreshold sets the credit load above which a semester is
// reported as overloaded. Negative values are ignored.
func WithOverloadThreshold(credits int) Option {
	return func(e *Engine) {
		if credits >= 0 {
			e.threshold = credits
		}
	}
}

type container struct {
	courses []model.Course
	credits int
}

func (c *container) indexOf(code string) int {
	for i := range c.courses {
		if c.courses[i].Code == code {
			return i
		}
	}
	return -1
}

// Result reports what MoveCourse did. Moved is false for no-ops.
type Result struct {
	Moved  bool          `json:"moved"`
	Code   string        `json:"code"`
	From   ContainerID   `json:"from"`
	To     ContainerID   `json:"to"`
	Course *model.Course `json:"course,omitempty"`
}

// Engine holds a study plan and validates every move made on it.
type Engine struct {
	mu            sync.Mutex
	semesterCount int
	threshold     int
	containers    map[ContainerID]*container
	index         map[string]ContainerID
	courses       map[string]model.Course
	dropped       []string

	listeners  map[int]func(Event)
	nextListen int
}

// New builds an engine with every course in the unassigned pool, in catalog
// order. Later duplicates of a course code are dropped; see Dropped. The
// engine keeps its own copies of the records.
func New(courses []model.Course, opts ...Option) *Engine {
	e := &Engine{
		semesterCount: DefaultSemesters,
		threshold:     DefaultOverloadThreshold,
		containers:    make(map[ContainerID]*container),
		index:         make(map[string]ContainerID, len(courses)),
		courses:       make(map[string]model.Course, len(courses)),
		listeners:     make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(e)
	}

	pool := &container{courses: make([]model.Course, 0, len(courses))}
	e.containers[Unassigned] = pool
	for i := 1; i <= e.semesterCount; i++ {
		e.containers[SemesterID(i)] = &container{}
	}

	for _, c := range courses {
		c = c.Clone()
		if _, dup := e.courses[c.Code]; dup {
			e.dropped = append(e.dropped, c.Code)
			continue
		}
		e.courses[c.Code] = c
		e.index[c.Code] = Unassigned
		pool.courses = append(pool.courses, c)
	}
	return e
}

// Semesters returns the number of real semesters.
func (e *Engine) Semesters() int {
	return e.semesterCount
}

// Dropped lists course codes that appeared more than once in the catalog.
func (e *Engine) Dropped() []string {
	return append([]string(nil), e.dropped...)
}

// Course looks up a catalog course by code.
func (e *Engine) Course(code string) (model.Course, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.courses[code]
	return c.Clone(), ok
}

// Locate returns the container currently holding code.
func (e *Engine) Locate(code string) (ContainerID, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id, ok := e.index[code]
	return id, ok
}

// MoveCourse moves the course with the given code from one container to
// another.
//
// Moving to the same container, or naming a source that does not hold the
// course, is a no-op with a nil error. Moves into a real semester must keep
// every assigned prerequisite strictly earlier and every assigned dependent
// strictly later; otherwise a *RejectionError is returned and the plan is
// left as it was. Moves into the unassigned pool are never rejected.
func (e *Engine) MoveCourse(code string, from, to ContainerID) (Result, error) {
	e.mu.Lock()
	res, ev, err := e.move(code, from, to)
	listeners := e.listenersLocked(ev)
	e.mu.Unlock()

	for _, fn := range listeners {
		fn(*ev)
	}
	return res, err
}

// AddCourseToSemester moves course from the unassigned pool into semesterID.
func (e *Engine) AddCourseToSemester(course model.Course, semesterID ContainerID) (Result, error) {
	return e.MoveCourse(course.Code, Unassigned, semesterID)
}

// RemoveCourseFromSemester moves course from semesterID back to the pool.
func (e *Engine) RemoveCourseFromSemester(course model.Course, semesterID ContainerID) (Result, error) {
	return e.MoveCourse(course.Code, semesterID, Unassigned)
}

func (e *Engine) move(code string, from, to ContainerID) (Result, *Event, error) {
	res := Result{Code: code, From: from, To: to}
	if from == to {
		return res, nil, nil
	}

	src, ok := e.containers[from]
	if !ok {
		return res, nil, fmt.Errorf("%w: %s", ErrUnknownContainer, from)
	}
	dst, ok := e.containers[to]
	if !ok {
		return res, nil, fmt.Errorf("%w: %s", ErrUnknownContainer, to)
	}

	i := src.indexOf(code)
	if i < 0 {
		return res, nil, nil
	}
	course := src.courses[i]

	if to.IsSemester() {
		if rej := e.validate(course, to); rej != nil {
			return res, &Event{Kind: EventRejected, Code: code, From: from, To: to, Rejection: rej}, rej
		}
	}

	src.courses = append(src.courses[:i:i], src.courses[i+1:]...)
	if from.IsSemester() {
		src.credits -= course.TotalCredits
	}
	dst.courses = append(dst.courses, course)
	if to.IsSemester() {
		dst.credits += course.TotalCredits
	}
	e.index[code] = to

	res.Moved = true
	out := course.Clone()
	res.Course = &out
	return res, &Event{Kind: EventCommitted, Code: code, From: from, To: to}, nil
}

// validate runs the prerequisite-before and dependent-after checks for
// placing course into the real semester to.
func (e *Engine) validate(course model.Course, to ContainerID) *RejectionError {
	target := to.Ordinal()

	for _, code := range course.Prerequisites {
		where, ok := e.index[code]
		if !ok || !where.IsSemester() {
			continue
		}
		if where.Ordinal() >= target {
			return &RejectionError{
				Course:          course.Clone(),
				Related:         e.courses[code].Clone(),
				RelatedSemester: where,
				Target:          to,
				Rule:            RulePrerequisiteBefore,
			}
		}
	}

	for n := 1; n <= e.semesterCount; n++ {
		id := SemesterID(n)
		for _, c := range e.containers[id].courses {
			if c.Code == course.Code || !c.HasPrerequisite(course.Code) {
				continue
			}
			if target >= n {
				return &RejectionError{
					Course:          course.Clone(),
					Related:         c.Clone(),
					RelatedSemester: id,
					Target:          to,
					Rule:            RuleDependentAfter,
				}
			}
		}
	}
	return nil
}
