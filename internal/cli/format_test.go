package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/rcliao/semplan/internal/model"
	"github.com/rcliao/semplan/internal/plan"
)

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "IT001", normalizeCode("  it001 "))
}

func TestRenderPlan(t *testing.T) {
	color.NoColor = true

	e := plan.New([]model.Course{
		model.NewCourse(model.Course{Code: "IT001", Name: "Intro", TheoryCredits: 3, PracticeCredits: 1}),
		model.NewCourse(model.Course{Code: "IT002", Name: "Next", TheoryCredits: 3, Prerequisites: []string{"IT001"}}),
	}, plan.WithSemesters(2), plan.WithOverloadThreshold(3))
	if _, err := e.MoveCourse("IT001", plan.Unassigned, plan.SemesterID(1)); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	renderPlan(&buf, e.Plan(), true)
	out := buf.String()

	assert.Contains(t, out, "Semester 1  4 TC (overloaded)")
	assert.Contains(t, out, "Semester 2  0 TC")
	assert.Contains(t, out, "(empty)")
	assert.Contains(t, out, "Unassigned  1 courses")
	assert.True(t, strings.Index(out, "Semester 1") < strings.Index(out, "Semester 2"))
	assert.Contains(t, out, "after: IT001")
}

func TestRenderRejection(t *testing.T) {
	color.NoColor = true

	e := plan.New([]model.Course{
		model.NewCourse(model.Course{Code: "A", Name: "A"}),
		model.NewCourse(model.Course{Code: "B", Name: "B", Prerequisites: []string{"A"}}),
	})
	e.MoveCourse("A", plan.Unassigned, plan.SemesterID(2))
	_, err := e.MoveCourse("B", plan.Unassigned, plan.SemesterID(2))

	rej, ok := err.(*plan.RejectionError)
	if !ok {
		t.Fatalf("expected *RejectionError, got %v", err)
	}
	var buf bytes.Buffer
	renderRejection(&buf, rej)
	assert.Contains(t, buf.String(), "prerequisite A is in Semester 2")
}
