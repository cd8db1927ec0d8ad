package plan

import (
	"errors"
	"math/rand"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/semplan/internal/model"
)

func course(code string, theory, practice int, prereqs ...string) model.Course {
	return model.NewCourse(model.Course{
		Code:            code,
		Name:            "Course " + code,
		TheoryCredits:   theory,
		PracticeCredits: practice,
		Prerequisites:   prereqs,
	})
}

func testCatalog() []model.Course {
	return []model.Course{
		course("IT001", 3, 1),
		course("IT002", 3, 1, "IT001"),
		course("IT003", 3, 1, "IT002", "XX999"),
		course("MA001", 4, 0),
		course("MA002", 4, 0, "MA001", "IT001"),
		course("PE001", 0, 2),
	}
}

func mustMove(t *testing.T, e *Engine, code string, from, to ContainerID) {
	t.Helper()
	res, err := e.MoveCourse(code, from, to)
	require.NoError(t, err)
	require.True(t, res.Moved, "expected %s to move %s -> %s", code, from, to)
}

func codes(cs []model.Course) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Code)
	}
	return out
}

// checkInvariants asserts conservation and credit additivity on a snapshot.
func checkInvariants(t *testing.T, e *Engine, catalog []string) {
	t.Helper()
	p := e.Plan()

	var all []string
	all = append(all, codes(p.Unassigned)...)
	for id, s := range p.Semesters {
		sum := 0
		for _, c := range s.Courses {
			sum += c.TotalCredits
		}
		require.Equal(t, sum, s.TotalCredits, "credit total of %s", id)
		all = append(all, codes(s.Courses)...)
	}

	want := append([]string(nil), catalog...)
	sort.Strings(all)
	sort.Strings(want)
	require.Equal(t, want, all, "every course in exactly one container")
}

// violations lists "course<-prerequisite" pairs that are out of order.
func violations(e *Engine) []string {
	var out []string
	for _, s := range e.Plan().Ordered() {
		for _, c := range s.Courses {
			for _, pre := range c.Prerequisites {
				where, ok := e.Locate(pre)
				if ok && where.IsSemester() && where.Ordinal() >= s.Ordinal {
					out = append(out, c.Code+"<-"+pre)
				}
			}
		}
	}
	return out
}

func TestNewPutsEverythingInPool(t *testing.T) {
	e := New(testCatalog())
	p := e.Plan()

	assert.Len(t, p.Semesters, DefaultSemesters)
	assert.Equal(t, []string{"IT001", "IT002", "IT003", "MA001", "MA002", "PE001"}, codes(p.Unassigned))
	for _, s := range p.Semesters {
		assert.Empty(t, s.Courses)
		assert.Zero(t, s.TotalCredits)
	}
	assert.Equal(t, DefaultOverloadThreshold, p.OverloadThreshold)
}

func TestEmptyCatalog(t *testing.T) {
	e := New(nil, WithSemesters(4))
	p := e.Plan()
	assert.Len(t, p.Semesters, 4)
	assert.Empty(t, p.Unassigned)

	res, err := e.MoveCourse("IT001", Unassigned, SemesterID(1))
	require.NoError(t, err)
	assert.False(t, res.Moved)
}

func TestDuplicateCodesDropped(t *testing.T) {
	cat := append(testCatalog(), course("IT001", 9, 9))
	e := New(cat)

	assert.Equal(t, []string{"IT001"}, e.Dropped())
	c, ok := e.Course("IT001")
	require.True(t, ok)
	assert.Equal(t, 4, c.TotalCredits, "first occurrence wins")
	checkInvariants(t, e, codes(testCatalog()))
}

func TestPrerequisiteSameSemesterRejected(t *testing.T) {
	e := New(testCatalog())
	mustMove(t, e, "IT001", Unassigned, SemesterID(1))

	_, err := e.MoveCourse("IT002", Unassigned, SemesterID(1))
	require.Error(t, err)

	var rej *RejectionError
	require.ErrorAs(t, err, &rej)
	assert.True(t, errors.Is(err, ErrRejected))
	assert.Equal(t, RulePrerequisiteBefore, rej.Rule)
	assert.Equal(t, "IT002", rej.Course.Code)
	assert.Equal(t, "IT001", rej.Related.Code)
	assert.Equal(t, SemesterID(1), rej.RelatedSemester)
	assert.Equal(t, SemesterID(1), rej.Target)

	where, _ := e.Locate("IT002")
	assert.Equal(t, Unassigned, where)
}

func TestPrerequisiteEarlierSemesterAccepted(t *testing.T) {
	e := New(testCatalog())
	mustMove(t, e, "IT001", Unassigned, SemesterID(1))
	mustMove(t, e, "IT002", Unassigned, SemesterID(2))

	p := e.Plan()
	assert.Equal(t, []string{"IT002"}, codes(p.Semesters[SemesterID(2)].Courses))
	assert.Equal(t, []string{"IT001"}, codes(p.Semesters[SemesterID(1)].Courses))
	assert.Equal(t, 4, p.Semesters[SemesterID(2)].TotalCredits)
}

func TestDependentAfterRejected(t *testing.T) {
	e := New(testCatalog())
	mustMove(t, e, "IT001", Unassigned, SemesterID(2))
	mustMove(t, e, "IT002", Unassigned, SemesterID(3))

	_, err := e.MoveCourse("IT001", SemesterID(2), SemesterID(3))
	var rej *RejectionError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, RuleDependentAfter, rej.Rule)
	assert.Equal(t, "IT002", rej.Related.Code)
	assert.Equal(t, SemesterID(3), rej.RelatedSemester)

	_, err = e.MoveCourse("IT001", SemesterID(2), SemesterID(5))
	require.ErrorAs(t, err, &rej)

	mustMove(t, e, "IT001", SemesterID(2), SemesterID(1))
}

func TestMoveToPoolAlwaysAccepted(t *testing.T) {
	e := New(testCatalog())
	mustMove(t, e, "IT001", Unassigned, SemesterID(1))
	mustMove(t, e, "IT002", Unassigned, SemesterID(3))
	mustMove(t, e, "MA001", Unassigned, SemesterID(3))

	before, _ := e.Credits(SemesterID(3))
	mustMove(t, e, "IT002", SemesterID(3), Unassigned)
	after, _ := e.Credits(SemesterID(3))
	assert.Equal(t, before-4, after)

	// A prerequisite may leave for the pool even while its dependent stays.
	mustMove(t, e, "IT001", SemesterID(1), Unassigned)
	mustMove(t, e, "IT002", Unassigned, SemesterID(2))
	mustMove(t, e, "IT002", SemesterID(2), Unassigned)
}

func TestUnassignedCoursesImposeNoConstraint(t *testing.T) {
	e := New(testCatalog())
	// IT001 is still in the pool, and XX999 is not in the catalog at all.
	mustMove(t, e, "IT002", Unassigned, SemesterID(1))
	mustMove(t, e, "IT003", Unassigned, SemesterID(2))

	// IT002 depends on nothing placed; IT001 can only go before it now.
	_, err := e.MoveCourse("IT001", Unassigned, SemesterID(1))
	require.ErrorIs(t, err, ErrRejected)
}

func TestNoOpSameContainer(t *testing.T) {
	e := New(testCatalog())
	mustMove(t, e, "IT001", Unassigned, SemesterID(1))

	var events int
	e.Subscribe(func(Event) { events++ })

	ids := []ContainerID{Unassigned}
	for n := 1; n <= e.Semesters(); n++ {
		ids = append(ids, SemesterID(n))
	}
	for _, id := range ids {
		before := e.Plan()
		for _, code := range []string{"IT001", "IT002", "nope"} {
			res, err := e.MoveCourse(code, id, id)
			require.NoError(t, err)
			assert.False(t, res.Moved)
		}
		if diff := cmp.Diff(before, e.Plan()); diff != "" {
			t.Errorf("no-op on %s changed plan (-before +after):\n%s", id, diff)
		}
	}
	assert.Zero(t, events)
}

func TestStaleSourceIsNoOp(t *testing.T) {
	e := New(testCatalog())
	before := e.Plan()

	res, err := e.MoveCourse("IT001", SemesterID(4), SemesterID(5))
	require.NoError(t, err)
	assert.False(t, res.Moved)

	res, err = e.MoveCourse("NOPE", Unassigned, SemesterID(1))
	require.NoError(t, err)
	assert.False(t, res.Moved)

	assert.Empty(t, cmp.Diff(before, e.Plan()))
}

func TestUnknownContainer(t *testing.T) {
	e := New(testCatalog(), WithSemesters(4))

	_, err := e.MoveCourse("IT001", Unassigned, SemesterID(5))
	require.ErrorIs(t, err, ErrUnknownContainer)
	_, err = e.MoveCourse("IT001", "elsewhere", Unassigned)
	require.ErrorIs(t, err, ErrUnknownContainer)
}

func TestRejectionLeavesPlanUntouched(t *testing.T) {
	e := New(testCatalog())
	mustMove(t, e, "IT001", Unassigned, SemesterID(2))
	mustMove(t, e, "MA001", Unassigned, SemesterID(2))
	mustMove(t, e, "MA002", Unassigned, SemesterID(4))

	before := e.Plan()
	_, err := e.MoveCourse("MA001", SemesterID(2), SemesterID(4))
	require.ErrorIs(t, err, ErrRejected)
	_, err = e.MoveCourse("MA002", SemesterID(4), SemesterID(2))
	require.ErrorIs(t, err, ErrRejected)

	if diff := cmp.Diff(before, e.Plan()); diff != "" {
		t.Errorf("rejected move changed plan (-before +after):\n%s", diff)
	}
}

func TestAddAndRemoveWrappers(t *testing.T) {
	e := New(testCatalog())
	c, _ := e.Course("MA001")

	res, err := e.AddCourseToSemester(c, SemesterID(1))
	require.NoError(t, err)
	require.True(t, res.Moved)
	assert.Equal(t, "MA001", res.Course.Code)

	res, err = e.RemoveCourseFromSemester(c, SemesterID(1))
	require.NoError(t, err)
	require.True(t, res.Moved)

	p := e.Plan()
	assert.Zero(t, p.Semesters[SemesterID(1)].TotalCredits)
	assert.Equal(t, "MA001", p.Unassigned[len(p.Unassigned)-1].Code, "returned courses append to the pool")
}

func TestSnapshotIsolation(t *testing.T) {
	e := New(testCatalog())
	mustMove(t, e, "IT001", Unassigned, SemesterID(1))

	p := e.Plan()
	p.Unassigned[0].Code = "HACKED"
	s := p.Semesters[SemesterID(1)]
	s.Courses[0].Code = "HACKED"

	again := e.Plan()
	assert.Equal(t, "IT001", again.Semesters[SemesterID(1)].Courses[0].Code)
	assert.NotEqual(t, "HACKED", again.Unassigned[0].Code)
}

func TestPrerequisiteListsAreNotShared(t *testing.T) {
	cat := testCatalog()
	e := New(cat)
	mustMove(t, e, "IT001", Unassigned, SemesterID(1))

	cat[1].Prerequisites[0] = "CALLER"
	p := e.Plan()
	require.Equal(t, "IT002", p.Unassigned[0].Code)
	p.Unassigned[0].Prerequisites[0] = "SNAPSHOT"
	c, _ := e.Course("IT002")
	c.Prerequisites[0] = "LOOKUP"

	c, ok := e.Course("IT002")
	require.True(t, ok)
	assert.Equal(t, []string{"IT001"}, c.Prerequisites)

	_, err := e.MoveCourse("IT002", Unassigned, SemesterID(1))
	assert.ErrorIs(t, err, ErrRejected, "validation must still see IT001 as a prerequisite")
}

func TestSubscribe(t *testing.T) {
	e := New(testCatalog())

	var got []Event
	unsubscribe := e.Subscribe(func(ev Event) {
		// Listeners run outside the lock and may read the plan.
		_ = e.Plan()
		got = append(got, ev)
	})

	mustMove(t, e, "IT001", Unassigned, SemesterID(1))
	_, _ = e.MoveCourse("IT002", Unassigned, SemesterID(1))
	_, _ = e.MoveCourse("IT002", Unassigned, Unassigned)
	_, _ = e.MoveCourse("IT002", SemesterID(3), SemesterID(2))

	require.Len(t, got, 2)
	assert.Equal(t, EventCommitted, got[0].Kind)
	assert.Nil(t, got[0].Rejection)
	assert.Equal(t, EventRejected, got[1].Kind)
	require.NotNil(t, got[1].Rejection)
	assert.Equal(t, RulePrerequisiteBefore, got[1].Rejection.Rule)

	unsubscribe()
	mustMove(t, e, "IT002", Unassigned, SemesterID(2))
	assert.Len(t, got, 2)
}

func TestOverloaded(t *testing.T) {
	cat := []model.Course{
		course("A", 10, 0),
		course("B", 10, 0),
		course("C", 4, 0),
		course("D", 1, 0),
	}
	e := New(cat)
	for _, code := range []string{"A", "B", "C"} {
		mustMove(t, e, code, Unassigned, SemesterID(1))
	}
	assert.False(t, e.Overloaded(SemesterID(1)), "24 credits is not over 24")
	mustMove(t, e, "D", Unassigned, SemesterID(1))
	assert.True(t, e.Overloaded(SemesterID(1)))
	assert.True(t, e.Plan().Overloaded(SemesterID(1)))
	assert.False(t, e.Overloaded(Unassigned))

	low := New(cat, WithOverloadThreshold(4))
	mustMove(t, low, "C", Unassigned, SemesterID(2))
	assert.False(t, low.Overloaded(SemesterID(2)))
	mustMove(t, low, "D", Unassigned, SemesterID(2))
	assert.True(t, low.Overloaded(SemesterID(2)))
}

func TestRandomMovesKeepInvariants(t *testing.T) {
	cat := testCatalog()
	all := codes(cat)
	e := New(cat, WithSemesters(5))
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 2000; i++ {
		code := all[rng.Intn(len(all))]
		from, _ := e.Locate(code)
		if rng.Intn(10) == 0 {
			from = SemesterID(rng.Intn(5) + 1)
		}
		to := Unassigned
		if n := rng.Intn(6); n > 0 {
			to = SemesterID(n)
		}

		before := e.Plan()
		res, err := e.MoveCourse(code, from, to)
		if err != nil {
			require.ErrorIs(t, err, ErrRejected)
			require.Empty(t, cmp.Diff(before, e.Plan()), "rejected move %s %s->%s mutated plan", code, from, to)
			continue
		}

		checkInvariants(t, e, all)
		if res.Moved && to.IsSemester() {
			for _, pre := range res.Course.Prerequisites {
				if where, ok := e.Locate(pre); ok && where.IsSemester() {
					require.Less(t, where.Ordinal(), to.Ordinal(), "%s placed in %s with prerequisite %s in %s", code, to, pre, where)
				}
			}
		}
		require.Empty(t, violations(e))
	}
}

func TestRestore(t *testing.T) {
	e := New(testCatalog())
	mustMove(t, e, "IT001", Unassigned, SemesterID(1))
	mustMove(t, e, "MA001", Unassigned, SemesterID(1))
	mustMove(t, e, "IT002", Unassigned, SemesterID(2))
	mustMove(t, e, "MA002", Unassigned, SemesterID(3))
	saved := e.Placements()

	restored := New(testCatalog())
	n, errs := restored.Restore(append(saved, Placement{Code: "GONE", Semester: SemesterID(2)}))
	assert.Equal(t, 4, n)
	require.Len(t, errs, 1)
	assert.Empty(t, cmp.Diff(e.Plan(), restored.Plan()))

	// The catalog changed: MA001 now needs IT002, which sits after it.
	changed := testCatalog()
	changed[3].Prerequisites = []string{"IT002"}
	again := New(changed)
	n, errs = again.Restore(saved)
	assert.Equal(t, 3, n)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrRejected)
	assert.Empty(t, violations(again))
}
