package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Return every course to the unassigned pool",
		Run:   runReset,
	}

	RootCmd.AddCommand(cmd)
}

func runReset(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.SavePlacements(cmd.Context(), nil); err != nil {
		exitErr("reset", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), `{"ok":true}`)
}
