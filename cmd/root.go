// Package cmd implements the jsonperf CLI command tree.
// This file defines the root command and registers all global persistent flags.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/derickschaefer/jsonperf/internal/app"
	"github.com/derickschaefer/jsonperf/internal/config"
)

// globalFlags holds the parsed values of all persistent (global) flags.
// Commands read from this struct via the deps they receive.
var globalFlags struct {
	Format   string
	Out      string
	InputDir string
	DBPath   string
	Quiet    bool
	Verbose  bool
	Debug    bool
}

// rootCmd is the base command. Running `jsonperf` with no subcommand
// prints help.
var rootCmd = &cobra.Command{
	Use:   "jsonperf",
	Short: "jsonperf — JSON encode/decode timing harness",
	Long: `jsonperf measures how long JSON libraries take to serialize and parse a
corpus of documents.

Every *.json file in the input directory is parsed and normalized once into a
generic tree. Each selected codec then encodes and decodes every document
repeatedly; per-trial timings are summarized per document and compared across
codecs.

Quick start:
  jsonperf config init                 # create a config.json with defaults
  jsonperf run --input ./samples       # time every codec over ./samples
  jsonperf run --codec std,sonic -n 200 --store
  jsonperf runs list                   # stored runs`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// buildDeps resolves config and constructs the dependency container.
// Called at the start of each command's RunE. Logs go to the command's
// error stream.
func buildDeps(cmd *cobra.Command) (*app.Deps, error) {
	cfg, err := config.Load(config.Overrides{
		InputDir: globalFlags.InputDir,
		DBPath:   globalFlags.DBPath,
	})
	if err != nil {
		return nil, err
	}

	// Apply CLI flag overrides
	cfg.Quiet = globalFlags.Quiet
	cfg.Verbose = globalFlags.Verbose
	cfg.Debug = globalFlags.Debug

	if globalFlags.Format != "" {
		cfg.Format = globalFlags.Format
	}

	return app.New(cfg, cmd.ErrOrStderr()), nil
}

func init() {
	pf := rootCmd.PersistentFlags()

	pf.StringVar(&globalFlags.Format, "format", "",
		"output format: table|json|jsonl|csv|tsv|md (default: table)")
	pf.StringVar(&globalFlags.Out, "out", "",
		"write output to file instead of stdout")
	pf.StringVar(&globalFlags.InputDir, "input", "",
		"directory of *.json documents (overrides env JSONPERF_INPUT_DIR and config.json)")
	pf.StringVar(&globalFlags.DBPath, "db", "",
		"path of the local run database (overrides env JSONPERF_DB_PATH and config.json)")
	pf.BoolVar(&globalFlags.Quiet, "quiet", false,
		"suppress all non-error output")
	pf.BoolVar(&globalFlags.Verbose, "verbose", false,
		"show timing stats after output")
	pf.BoolVar(&globalFlags.Debug, "debug", false,
		"log every trial")
}
