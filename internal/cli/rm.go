package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/semplan/internal/plan"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm <code>",
		Short: "Take a course out of its semester",
		Long:  "Move a course from its semester back to the unassigned pool. This is never rejected.",
		Args:  cobra.ExactArgs(1),
		Run:   runRm,
	}

	RootCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	code := normalizeCode(args[0])

	sess, err := openSession(cmd.Context())
	if err != nil {
		exitErr("open session", err)
	}
	defer sess.Close()

	view, err := sess.course(code)
	if err != nil {
		exitErr("rm", err)
	}
	if view.Semester == plan.Unassigned {
		exitErr("rm", fmt.Errorf("%s is not placed in any semester", code))
	}

	res, err := sess.engine.RemoveCourseFromSemester(view.Course, view.Semester)
	reportMove(cmd, res, err)
}
