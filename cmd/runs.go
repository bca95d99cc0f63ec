package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/derickschaefer/jsonperf/internal/analyze"
	"github.com/derickschaefer/jsonperf/internal/model"
	"github.com/derickschaefer/jsonperf/internal/pipeline"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect runs saved with 'run --store'",
	Long: `Stored runs keep every trial's timings, so they can be summarized again,
compared with later runs, or exported as JSONL.

  jsonperf run --store
  jsonperf runs list
  jsonperf runs show <ID>
  jsonperf runs compare <ID> <ID>`,
}

// ─── runs list ────────────────────────────────────────────────────────────────

var runsListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List all stored runs",
	Example: `  jsonperf runs list
  jsonperf runs list --format csv`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		if err := deps.RequireStore(); err != nil {
			return err
		}
		defer deps.Close()

		runs, err := deps.Store.ListRuns()
		if err != nil {
			return fmt.Errorf("listing runs: %w", err)
		}
		if len(runs) == 0 && resolveFormat(deps.Config.Format) == "table" {
			fmt.Fprintln(cmd.OutOrStdout(), "No runs stored.")
			fmt.Fprintln(cmd.OutOrStdout(), "  Use: jsonperf run --store")
			return nil
		}
		return emit(cmd, deps, &model.Result{
			Kind:        model.KindRuns,
			GeneratedAt: time.Now(),
			Command:     "runs list",
			Data:        runs,
			Stats:       model.ResultStats{Items: len(runs)},
		})
	},
}

// ─── runs show ────────────────────────────────────────────────────────────────

var runsShowCmd = &cobra.Command{
	Use:     "show <ID>",
	Short:   "Summarize a stored run",
	Example: `  jsonperf runs show 019a0c3e-...`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return showRuns(cmd, "runs show", args)
	},
}

// ─── runs compare ─────────────────────────────────────────────────────────────

var runsCompareCmd = &cobra.Command{
	Use:   "compare <ID> <ID>...",
	Short: "Rank stored runs against each other per document",
	Long: `Summarize several stored runs together and rank them per document by mean
encode+decode time. Runs of the same codec are labelled with the tail of
their ID.`,
	Example: `  jsonperf runs compare 019a0c3e-... 019a0c41-...`,
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return showRuns(cmd, "runs compare", args)
	},
}

func showRuns(cmd *cobra.Command, command string, ids []string) error {
	deps, err := buildDeps(cmd)
	if err != nil {
		return err
	}
	if err := deps.RequireStore(); err != nil {
		return err
	}
	defer deps.Close()

	started := time.Now()
	recs := make([]model.RunRecord, 0, len(ids))
	for _, id := range ids {
		rec, err := deps.Store.GetRun(id)
		if err != nil {
			return err
		}
		recs = append(recs, rec)
	}

	labels := runLabels(recs)
	reports := make([]model.Report, len(recs))
	for i, rec := range recs {
		reports[i] = analyze.Report(labels[i], rec.ResultSet())
	}
	return emit(cmd, deps, buildBenchmarkResult(command, reports, started))
}

// runLabels names each run by codec, adding the ID tail where two runs share
// a codec.
func runLabels(recs []model.RunRecord) []string {
	count := make(map[string]int)
	for _, r := range recs {
		count[r.Codec]++
	}
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Codec
		if count[r.Codec] > 1 {
			out[i] = r.Codec + "@" + shortID(r.ID)
		}
	}
	return out
}

// ─── runs export ──────────────────────────────────────────────────────────────

var runsExportCmd = &cobra.Command{
	Use:   "export <ID>...",
	Short: "Write the raw trials of stored runs as JSONL",
	Example: `  jsonperf runs export 019a0c3e-... > trials.jsonl
  jsonperf runs export 019a0c3e-... | jsonperf summarize`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		if err := deps.RequireStore(); err != nil {
			return err
		}
		defer deps.Close()

		w, closeFn, err := outputWriter(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer closeFn()

		for _, id := range args {
			rec, err := deps.Store.GetRun(id)
			if err != nil {
				return err
			}
			if err := pipeline.WriteJSONL(w, rec.ID, rec.Codec, rec.ResultSet()); err != nil {
				return err
			}
		}
		if globalFlags.Out == "" && !deps.Config.Quiet && pipeline.IsTTY() {
			fmt.Fprintln(cmd.ErrOrStderr(), "Tip: pipe this into 'jsonperf summarize' or 'jsonperf chart bar'.")
		}
		return nil
	},
}

// ─── runs delete ──────────────────────────────────────────────────────────────

var runsDeleteCmd = &cobra.Command{
	Use:     "delete <ID>",
	Short:   "Delete a stored run",
	Example: `  jsonperf runs delete 019a0c3e-...`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		if err := deps.RequireStore(); err != nil {
			return err
		}
		defer deps.Close()

		rec, err := deps.Store.GetRun(args[0])
		if err != nil {
			return err
		}
		if err := deps.Store.DeleteRun(args[0]); err != nil {
			return fmt.Errorf("deleting run: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted run %s  (%s, %d trials)\n", rec.ID, rec.Codec, rec.Trials())
		return nil
	},
}

// ─── Registration ─────────────────────────────────────────────────────────────

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsCompareCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsDeleteCmd)
}
