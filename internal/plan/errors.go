package plan

import (
	"errors"
	"fmt"

	"github.com/rcliao/semplan/internal/model"
)

var (
	// ErrRejected is wrapped by every RejectionError.
	ErrRejected = errors.New("move rejected")

	// ErrUnknownContainer is returned for a container ID the plan does not have.
	ErrUnknownContainer = errors.New("unknown container")
)

// Rule identifies which ordering check refused a move.
type Rule string

const (
	// RulePrerequisiteBefore: a prerequisite of the moving course sits in the
	// target semester or later.
	RulePrerequisiteBefore Rule = "prerequisite-before"

	// RuleDependentAfter: a course that depends on the moving course sits in
	// the target semester or earlier.
	RuleDependentAfter Rule = "dependent-after"
)

// RejectionError describes a move that would break prerequisite ordering.
// The plan is unchanged when one is returned.
type RejectionError struct {
	Course          model.Course `json:"course"`
	Related         model.Course `json:"related"`
	RelatedSemester ContainerID  `json:"related_semester"`
	Target          ContainerID  `json:"target"`
	Rule            Rule         `json:"rule"`
}

func (e *RejectionError) Error() string {
	switch e.Rule {
	case RulePrerequisiteBefore:
		return fmt.Sprintf("cannot place %q (%s) in %s: prerequisite %s is in %s and must be taken earlier",
			e.Course.Name, e.Course.Code, SemesterName(e.Target), e.Related.Code, SemesterName(e.RelatedSemester))
	case RuleDependentAfter:
		return fmt.Sprintf("cannot place %q (%s) in %s: dependent course %q (%s) is in %s and must be taken later",
			e.Course.Name, e.Course.Code, SemesterName(e.Target), e.Related.Name, e.Related.Code, SemesterName(e.RelatedSemester))
	}
	return fmt.Sprintf("cannot place %s in %s: %s", e.Course.Code, SemesterName(e.Target), e.Rule)
}

func (e *RejectionError) Unwrap() error {
	return ErrRejected
}
