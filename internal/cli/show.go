package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/semplan/internal/plan"
)

func init() {
	cmd := &cobra.Command{
		Use:   "show <code>",
		Short: "Show a course, where it sits, and its prerequisite neighbours",
		Args:  cobra.ExactArgs(1),
		Run:   runShow,
	}

	RootCmd.AddCommand(cmd)
}

type relatedView struct {
	Code      string           `json:"code"`
	Name      string           `json:"name,omitempty"`
	Semester  plan.ContainerID `json:"semester,omitempty"`
	InCatalog bool             `json:"in_catalog"`
}

func runShow(cmd *cobra.Command, args []string) {
	code := normalizeCode(args[0])

	sess, err := openSession(cmd.Context())
	if err != nil {
		exitErr("open session", err)
	}
	defer sess.Close()

	view, err := sess.course(code)
	if err != nil {
		exitErr("show", err)
	}

	related := func(code string) relatedView {
		r := relatedView{Code: code}
		if c, ok := sess.engine.Course(code); ok {
			r.Name = c.Name
			r.InCatalog = true
			r.Semester, _ = sess.engine.Locate(code)
		}
		return r
	}

	prereqs := []relatedView{}
	for _, p := range view.Prerequisites {
		prereqs = append(prereqs, related(p))
	}
	dependents := []relatedView{}
	p := sess.engine.Plan()
	all := append([]courseView{}, poolViews(p)...)
	for _, s := range p.Ordered() {
		for _, c := range s.Courses {
			all = append(all, courseView{Course: c, Semester: s.ID})
		}
	}
	for _, c := range all {
		if c.Code != code && c.HasPrerequisite(code) {
			dependents = append(dependents, relatedView{Code: c.Code, Name: c.Name, Semester: c.Semester, InCatalog: true})
		}
	}

	if !textOutput() {
		printJSON(cmd.OutOrStdout(), map[string]interface{}{
			"course":        view,
			"prerequisites": prereqs,
			"dependents":    dependents,
		})
		return
	}

	w := cmd.OutOrStdout()
	headerColor.Fprintf(w, "%s  %s\n", view.Code, view.Name)
	if view.NameEN != "" {
		dimColor.Fprintf(w, "    %s\n", view.NameEN)
	}
	fmt.Fprintf(w, "    credits: %d (theory %d, practice %d)\n", view.TotalCredits, view.TheoryCredits, view.PracticeCredits)
	fmt.Fprintf(w, "    placed:  %s\n", plan.SemesterName(view.Semester))
	if view.Department != "" || view.Category != "" {
		fmt.Fprintf(w, "    dept:    %s  %s\n", view.Department, view.Category)
	}
	if !view.Offered {
		warningColor.Fprintln(w, "    not currently offered")
	}
	if len(view.Equivalents) > 0 {
		fmt.Fprintf(w, "    equivalent: %s\n", strings.Join(view.Equivalents, ", "))
	}
	if len(view.Corequisites) > 0 {
		fmt.Fprintf(w, "    corequisite: %s\n", strings.Join(view.Corequisites, ", "))
	}
	for _, r := range prereqs {
		where := "not in catalog"
		if r.InCatalog {
			where = plan.SemesterName(r.Semester)
		}
		fmt.Fprintf(w, "    after  %-10s %s\n", r.Code, where)
	}
	for _, r := range dependents {
		fmt.Fprintf(w, "    before %-10s %s\n", r.Code, plan.SemesterName(r.Semester))
	}
}

func poolViews(p plan.Plan) []courseView {
	out := make([]courseView, 0, len(p.Unassigned))
	for _, c := range p.Unassigned {
		out = append(out, courseView{Course: c, Semester: plan.Unassigned})
	}
	return out
}
