package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/semplan/internal/plan"
)

func init() {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the study plan",
		Run:   runPlan,
	}

	cmd.Flags().StringP("semester", "s", "", "Only show one semester")
	cmd.Flags().Bool("pool", false, "Include the unassigned pool")

	RootCmd.AddCommand(cmd)
}

type semesterView struct {
	plan.Semester
	Overloaded bool `json:"overloaded"`
}

func runPlan(cmd *cobra.Command, args []string) {
	only, _ := cmd.Flags().GetString("semester")
	withPool, _ := cmd.Flags().GetBool("pool")

	sess, err := openSession(cmd.Context())
	if err != nil {
		exitErr("open session", err)
	}
	defer sess.Close()

	p := sess.engine.Plan()
	if only != "" {
		id, err := plan.ParseContainerID(only)
		if err != nil {
			exitErr("plan", err)
		}
		s, ok := p.Semesters[id]
		if !ok {
			exitErr("plan", plan.ErrUnknownContainer)
		}
		p.Semesters = map[plan.ContainerID]plan.Semester{id: s}
	}

	if textOutput() {
		renderPlan(cmd.OutOrStdout(), p, withPool)
		return
	}

	out := struct {
		Semesters         []semesterView `json:"semesters"`
		Unassigned        int            `json:"unassigned_count"`
		Pool              []string       `json:"unassigned,omitempty"`
		OverloadThreshold int            `json:"overload_threshold"`
	}{
		Unassigned:        len(p.Unassigned),
		OverloadThreshold: p.OverloadThreshold,
	}
	for _, s := range p.Ordered() {
		out.Semesters = append(out.Semesters, semesterView{Semester: s, Overloaded: p.Overloaded(s.ID)})
	}
	if withPool {
		for _, c := range p.Unassigned {
			out.Pool = append(out.Pool, c.Code)
		}
	}
	printJSON(cmd.OutOrStdout(), out)
}
