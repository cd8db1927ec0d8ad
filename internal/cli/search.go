package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/semplan/internal/model"
	"github.com/rcliao/semplan/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the catalog by code or name",
		Run:   runSearch,
	}

	cmd.Flags().Bool("unplaced", false, "Only courses not yet placed in a semester")
	cmd.Flags().Bool("offered", false, "Only courses currently offered")
	cmd.Flags().IntP("limit", "l", 20, "Max results")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	unplaced, _ := cmd.Flags().GetBool("unplaced")
	offered, _ := cmd.Flags().GetBool("offered")
	limit, _ := cmd.Flags().GetInt("limit")
	query := strings.Join(args, " ")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	results, err := s.Search(cmd.Context(), store.SearchParams{
		Query:       query,
		Unplaced:    unplaced,
		OfferedOnly: offered,
		Limit:       limit,
	})
	if err != nil {
		exitErr("search", err)
	}

	if textOutput() {
		for _, c := range results {
			renderCourseLine(cmd.OutOrStdout(), c)
		}
		return
	}

	if len(results) == 0 {
		results = []model.Course{}
	}
	printJSON(cmd.OutOrStdout(), results)
}
