package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/semplan/internal/plan"
)

func init() {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent moves, including rejected ones",
		Run:   runHistory,
	}

	cmd.Flags().IntP("limit", "l", 20, "Max entries")

	RootCmd.AddCommand(cmd)
}

func runHistory(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	moves, err := s.History(cmd.Context(), limit)
	if err != nil {
		exitErr("history", err)
	}

	if !textOutput() {
		printJSON(cmd.OutOrStdout(), moves)
		return
	}

	w := cmd.OutOrStdout()
	for _, m := range moves {
		dimColor.Fprintf(w, "%s  ", m.CreatedAt.Local().Format("2006-01-02 15:04"))
		line := fmt.Sprintf("%-9s %-10s %s -> %s", m.Outcome, m.Code, m.From, m.To)
		if m.Outcome == string(plan.EventRejected) {
			overColor.Fprintln(w, line)
			dimColor.Fprintf(w, "    %s\n", m.Message)
			continue
		}
		fmt.Fprintln(w, line)
	}
}
