package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/semplan/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import a plan from JSON",
		Long: "Import a plan (stdin or file) in the format produced by export. The saved plan " +
			"is replaced; placements that break prerequisite ordering are skipped.",
		Args: cobra.MaximumNArgs(1),
		Run:  runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	var (
		data []byte
		err  error
	)
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		exitErr("read plan", err)
	}

	var doc store.PlanDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		exitErr("parse json", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	imported, skipped, err := s.ImportPlan(cmd.Context(), &doc, engineOptions()...)
	if err != nil {
		exitErr("import", err)
	}
	for _, err := range skipped {
		logger.Warn("placement skipped", zap.Error(err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"imported":%d,"skipped":%d}`+"\n", imported, len(skipped))
}
