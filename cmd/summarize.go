package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/derickschaefer/jsonperf/internal/pipeline"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize a JSONL stream of raw trials read from stdin",
	Long: `Read trial rows as written by 'run --raw' or 'runs export' and print the same
per-document summary and codec ranking that 'run' prints.

Rows are grouped by run_id and codec. Blank lines and // comments are ignored.`,
	Example: `  jsonperf summarize < trials.jsonl
  jsonperf runs export 019a0c3e-... 019a0c41-... | jsonperf summarize --format md`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		started := time.Now()
		streams, err := pipeline.ReadMeasurements(cmd.InOrStdin())
		if err != nil {
			return err
		}
		return emit(cmd, deps, buildBenchmarkResult("summarize", streamReports(streams), started))
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
}
