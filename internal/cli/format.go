package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/rcliao/semplan/internal/model"
	"github.com/rcliao/semplan/internal/plan"
)

var (
	headerColor  = color.New(color.FgBlue, color.Bold)
	okColor      = color.New(color.FgGreen)
	overColor    = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	dimColor     = color.New(color.FgHiBlack)
)

// courseView is a course together with the container that holds it.
type courseView struct {
	model.Course
	Semester plan.ContainerID `json:"semester"`
}

func textOutput() bool {
	return formatFlag == "text"
}

func printJSON(w io.Writer, v interface{}) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(b))
}

func normalizeCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func creditBadge(credits int, over bool) string {
	label := fmt.Sprintf("%d TC", credits)
	if over {
		return overColor.Sprint(label + " (overloaded)")
	}
	return okColor.Sprint(label)
}

func renderCourseLine(w io.Writer, c model.Course) {
	fmt.Fprintf(w, "    %-10s %-45s %2d TC", c.Code, c.Name, c.TotalCredits)
	if len(c.Prerequisites) > 0 {
		dimColor.Fprintf(w, "  after: %s", strings.Join(c.Prerequisites, ", "))
	}
	fmt.Fprintln(w)
}

func renderPlan(w io.Writer, p plan.Plan, withPool bool) {
	for _, s := range p.Ordered() {
		headerColor.Fprintf(w, "▸ %s", s.Name)
		fmt.Fprintf(w, "  %s\n", creditBadge(s.TotalCredits, p.Overloaded(s.ID)))
		if len(s.Courses) == 0 {
			dimColor.Fprintln(w, "    (empty)")
		}
		for _, c := range s.Courses {
			renderCourseLine(w, c)
		}
	}
	if withPool {
		headerColor.Fprintf(w, "▸ %s", plan.SemesterName(plan.Unassigned))
		fmt.Fprintf(w, "  %d courses\n", len(p.Unassigned))
		for _, c := range p.Unassigned {
			renderCourseLine(w, c)
		}
	}
}

func renderResult(w io.Writer, res plan.Result) {
	if !res.Moved {
		warningColor.Fprintf(w, "⚠ %s is not in %s; nothing moved\n", res.Code, plan.SemesterName(res.From))
		return
	}
	okColor.Fprintf(w, "✓ %s moved from %s to %s\n", res.Code, plan.SemesterName(res.From), plan.SemesterName(res.To))
}

func renderRejection(w io.Writer, rej *plan.RejectionError) {
	overColor.Fprintf(w, "✗ %s\n", rej.Error())
}
