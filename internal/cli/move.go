package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/semplan/internal/plan"
)

func init() {
	cmd := &cobra.Command{
		Use:   "move <code> <semester>",
		Short: "Move a course to a semester or back to the pool",
		Long: "Move a course to another semester (1..N, semester-<n>) or to \"unassigned\". " +
			"The source defaults to wherever the course currently sits.",
		Args: cobra.ExactArgs(2),
		Run:  runMove,
	}

	cmd.Flags().String("from", "", "Source container (default: current location)")

	RootCmd.AddCommand(cmd)
}

func runMove(cmd *cobra.Command, args []string) {
	fromStr, _ := cmd.Flags().GetString("from")
	code := normalizeCode(args[0])

	to, err := plan.ParseContainerID(args[1])
	if err != nil {
		exitErr("move", err)
	}

	sess, err := openSession(cmd.Context())
	if err != nil {
		exitErr("open session", err)
	}
	defer sess.Close()

	view, err := sess.course(code)
	if err != nil {
		exitErr("move", err)
	}
	from := view.Semester
	if fromStr != "" {
		if from, err = plan.ParseContainerID(fromStr); err != nil {
			exitErr("move", err)
		}
	}

	res, err := sess.engine.MoveCourse(code, from, to)
	reportMove(cmd, res, err)
}

// reportMove prints a move outcome. Rejections are printed as structured
// output before exiting non-zero.
func reportMove(cmd *cobra.Command, res plan.Result, err error) {
	out := cmd.OutOrStdout()
	var rej *plan.RejectionError
	if errors.As(err, &rej) {
		if textOutput() {
			renderRejection(out, rej)
		} else {
			printJSON(out, map[string]interface{}{"ok": false, "rejection": rej, "message": rej.Error()})
		}
		logger.Sync()
		os.Exit(2)
	}
	if err != nil {
		exitErr("move", err)
	}

	if textOutput() {
		renderResult(out, res)
		return
	}
	printJSON(out, map[string]interface{}{"ok": true, "result": res})
}
