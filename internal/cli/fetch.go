package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/semplan/internal/catalog"
	"github.com/rcliao/semplan/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Load the course catalog into the store",
		Long: "Download and parse the published catalog page (or read a saved HTML page or JSON " +
			"dump) and replace the stored catalog. The saved plan is kept; placements whose " +
			"courses vanished or now break prerequisite ordering are dropped on next use.",
		Run: runFetch,
	}

	cmd.Flags().String("url", "", "Catalog page URL (overrides config)")
	cmd.Flags().String("proxy", "", "Proxy prefix; the page URL is appended query-escaped")
	cmd.Flags().String("html", "", "Parse a saved catalog HTML page instead of fetching")
	cmd.Flags().String("json", "", "Read a JSON catalog dump instead of fetching")
	cmd.Flags().String("save-json", "", "Also write the parsed catalog to this JSON file")
	cmd.Flags().Duration("timeout", 2*time.Minute, "Overall fetch timeout")
	cmd.Flags().Bool("allow-empty", false, "Store the catalog even when no courses were parsed")

	RootCmd.AddCommand(cmd)
}

func runFetch(cmd *cobra.Command, args []string) {
	pageURL, _ := cmd.Flags().GetString("url")
	proxy, _ := cmd.Flags().GetString("proxy")
	htmlPath, _ := cmd.Flags().GetString("html")
	jsonPath, _ := cmd.Flags().GetString("json")
	savePath, _ := cmd.Flags().GetString("save-json")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	allowEmpty, _ := cmd.Flags().GetBool("allow-empty")

	if htmlPath != "" && jsonPath != "" {
		exitErr("fetch", fmt.Errorf("--html and --json are mutually exclusive"))
	}
	if pageURL == "" {
		pageURL = cfg.Catalog.URL
	}
	if proxy == "" {
		proxy = cfg.Catalog.Proxy
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	var (
		courses []model.Course
		source  string
		err     error
	)
	switch {
	case jsonPath != "":
		source = jsonPath
		courses, err = catalog.FileSource{Path: jsonPath}.Courses(ctx)
	case htmlPath != "":
		source = htmlPath
		courses, err = parseHTMLFile(htmlPath)
	default:
		f := catalog.NewFetcher(pageURL, proxy, logger)
		source = f.Target()
		courses, err = f.Courses(ctx)
	}
	if err != nil {
		exitErr("load catalog", err)
	}
	logger.Info("catalog loaded", zap.String("source", source), zap.Int("courses", len(courses)))
	if err := checkCatalog(courses, allowEmpty); err != nil {
		exitErr("load catalog", err)
	}

	if savePath != "" {
		if err := catalog.WriteJSON(savePath, courses); err != nil {
			exitErr("save json", err)
		}
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	stored, err := s.ReplaceCatalog(ctx, source, courses)
	if err != nil {
		exitErr("store catalog", err)
	}

	out := map[string]interface{}{
		"ok":         true,
		"source":     source,
		"parsed":     len(courses),
		"stored":     stored,
		"duplicates": len(courses) - stored,
	}
	if savePath != "" {
		out["saved"] = savePath
	}
	if textOutput() {
		okColor.Fprintf(cmd.OutOrStdout(), "Stored %d courses", stored)
		fmt.Fprintf(cmd.OutOrStdout(), " from %s\n", source)
		return
	}
	printJSON(cmd.OutOrStdout(), out)
}

// checkCatalog refuses an empty catalog, which would drop every saved
// placement on the next run, unless allowEmpty is set.
func checkCatalog(courses []model.Course, allowEmpty bool) error {
	if len(courses) == 0 && !allowEmpty {
		return fmt.Errorf("no courses parsed; the page layout may have changed (use --allow-empty to store anyway)")
	}
	return nil
}

func parseHTMLFile(path string) ([]model.Course, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return catalog.ParseHTML(f)
}
