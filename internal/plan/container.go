package plan

import (
	"fmt"
	"strconv"
	"strings"
)

// ContainerID names a place a course can sit: a real semester ("semester-3")
// or the unassigned pool.
type ContainerID string

// Unassigned is the pool holding courses not yet placed in any semester.
const Unassigned ContainerID = "unassigned"

const semesterPrefix = "semester-"

// SemesterID returns the container ID of the semester with the given ordinal.
func SemesterID(ordinal int) ContainerID {
	return ContainerID(semesterPrefix + strconv.Itoa(ordinal))
}

// Ordinal returns the 1-based position of a real semester, or 0 for the
// unassigned pool and anything that is not a semester ID.
func (id ContainerID) Ordinal() int {
	s, ok := strings.CutPrefix(string(id), semesterPrefix)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0
	}
	return n
}

// IsSemester reports whether id names a real semester.
func (id ContainerID) IsSemester() bool {
	return id.Ordinal() > 0
}

func (id ContainerID) String() string {
	return string(id)
}

// ParseContainerID accepts "unassigned", "semester-<n>" or a bare ordinal "<n>".
func ParseContainerID(s string) (ContainerID, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == string(Unassigned) || s == "pool" {
		return Unassigned, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 {
			return "", fmt.Errorf("semester ordinal must be >= 1, got %d", n)
		}
		return SemesterID(n), nil
	}
	id := ContainerID(s)
	if !id.IsSemester() {
		return "", fmt.Errorf("invalid container %q (use unassigned, semester-<n> or <n>)", s)
	}
	return SemesterID(id.Ordinal()), nil
}

// SemesterName is the display label of a container.
func SemesterName(id ContainerID) string {
	if n := id.Ordinal(); n > 0 {
		return "Semester " + strconv.Itoa(n)
	}
	return "Unassigned"
}
