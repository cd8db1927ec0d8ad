package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/semplan/internal/plan"
)

func init() {
	cmd := &cobra.Command{
		Use:   "add <code> <semester>",
		Short: "Place an unassigned course into a semester",
		Args:  cobra.ExactArgs(2),
		Run:   runAdd,
	}

	RootCmd.AddCommand(cmd)
}

func runAdd(cmd *cobra.Command, args []string) {
	code := normalizeCode(args[0])
	to, err := plan.ParseContainerID(args[1])
	if err != nil {
		exitErr("add", err)
	}
	if !to.IsSemester() {
		exitErr("add", fmt.Errorf("target must be a semester; use rm to unassign"))
	}

	sess, err := openSession(cmd.Context())
	if err != nil {
		exitErr("open session", err)
	}
	defer sess.Close()

	view, err := sess.course(code)
	if err != nil {
		exitErr("add", err)
	}
	if view.Semester != plan.Unassigned {
		exitErr("add", fmt.Errorf("%s is already in %s; use move", code, view.Semester))
	}

	res, err := sess.engine.AddCourseToSemester(view.Course, to)
	reportMove(cmd, res, err)
}
