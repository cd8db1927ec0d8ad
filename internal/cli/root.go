// Package cli implements the semplan CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rcliao/semplan/internal/config"
)

var (
	dbPath       string
	configPath   string
	formatFlag   string
	verbose      bool
	semesterFlag int
	overloadFlag int

	cfg    *config.Config
	logger = zap.NewNop()
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "semplan",
	Short: "Plan university courses into semesters",
	Long: "Arrange catalog courses into semesters. Every move is checked against " +
		"prerequisite ordering: a prerequisite must sit in a strictly earlier semester.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $SEMPLAN_DB or ~/.semplan/plan.db)")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $SEMPLAN_CONFIG or ~/.semplan/config.yaml)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging to stderr")
	RootCmd.PersistentFlags().IntVar(&semesterFlag, "semesters", 0, "Number of semesters in the plan (overrides config)")
	RootCmd.PersistentFlags().IntVar(&overloadFlag, "overload", -1, "Credit load above which a semester is overloaded (overrides config)")
}

func setup(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	if dbPath != "" {
		c.DB = dbPath
	}
	if semesterFlag > 0 {
		c.Plan.Semesters = semesterFlag
	}
	if overloadFlag >= 0 {
		c.Plan.OverloadThreshold = overloadFlag
	}
	if formatFlag != "json" && formatFlag != "text" {
		return fmt.Errorf("unknown format %q (use json or text)", formatFlag)
	}
	cfg = c

	level := c.Logging.Level
	if verbose {
		level = "debug"
	}
	l, err := newLogger(level)
	if err != nil {
		return err
	}
	logger = l
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}

func getDBPath() string {
	return cfg.DB
}

func exitErr(msg string, err error) {
	logger.Sync()
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
