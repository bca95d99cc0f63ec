package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/derickschaefer/jsonperf/internal/analyze"
	"github.com/derickschaefer/jsonperf/internal/app"
	"github.com/derickschaefer/jsonperf/internal/codec"
	"github.com/derickschaefer/jsonperf/internal/corpus"
	"github.com/derickschaefer/jsonperf/internal/harness"
	"github.com/derickschaefer/jsonperf/internal/model"
	"github.com/derickschaefer/jsonperf/internal/pipeline"
)

var runFlags struct {
	Codecs     string
	Iterations int
	Warmup     int
	Pace       float64
	Timeout    string
	Store      bool
	Raw        string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Time encode/decode of every document with each codec",
	Long: `Load every *.json document from the input directory, normalize it once, and
time repeated encode/decode trials with each selected codec.

Codecs run one after another; only one run is active at a time. Press Ctrl-C
to stop: the trial in progress finishes, the rest are skipped, and the partial
results are reported and marked incomplete.

With --store each codec's run is saved to the local database; with --raw every
trial is written as JSONL for later use with 'jsonperf summarize'.`,
	Example: `  jsonperf run --input ./samples
  jsonperf run --codec std,goccy,sonic --iterations 200 --warmup 10
  jsonperf run --store --format json
  jsonperf run --raw trials.jsonl && jsonperf summarize < trials.jsonl`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		defer deps.Close()
		if err := applyRunFlags(cmd, deps); err != nil {
			return err
		}
		if err := deps.Config.Validate(); err != nil {
			return err
		}
		if err := validateFormat(resolveFormat(deps.Config.Format)); err != nil {
			return err
		}

		codecs, err := codec.Resolve(deps.Config.Codecs)
		if err != nil {
			return err
		}
		docs, err := corpus.Load(deps.Config.InputDir)
		if err != nil {
			return err
		}
		if runFlags.Store {
			if err := deps.RequireStore(); err != nil {
				return err
			}
		}

		var raw io.Writer
		if runFlags.Raw != "" {
			f, err := os.Create(runFlags.Raw)
			if err != nil {
				return fmt.Errorf("creating raw output: %w", err)
			}
			defer f.Close()
			raw = f
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		if deps.Config.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, deps.Config.Timeout)
			defer cancel()
		}

		started := time.Now()
		reports, err := runCodecs(ctx, deps, docs, codecs, raw)
		if err != nil {
			return err
		}
		return emit(cmd, deps, buildBenchmarkResult("run", reports, started))
	},
}

// applyRunFlags layers the run-specific flags over the resolved config.
// Only flags the user actually set take effect.
func applyRunFlags(cmd *cobra.Command, deps *app.Deps) error {
	f := cmd.Flags()
	cfg := deps.Config
	if f.Changed("codec") {
		cfg.Codecs = splitList(runFlags.Codecs)
	}
	if f.Changed("iterations") {
		cfg.Iterations = runFlags.Iterations
	}
	if f.Changed("warmup") {
		cfg.Warmup = runFlags.Warmup
	}
	if f.Changed("pace") {
		cfg.Pace = runFlags.Pace
	}
	if f.Changed("timeout") {
		d, err := time.ParseDuration(runFlags.Timeout)
		if err != nil {
			return fmt.Errorf("invalid --timeout %q: %w", runFlags.Timeout, err)
		}
		cfg.Timeout = d
	}
	return nil
}

// runCodecs times each codec in turn on one harness. A canceled run stops
// the sequence; its partial report is kept and later codecs are skipped.
func runCodecs(ctx context.Context, deps *app.Deps, docs []harness.Document, codecs []codec.Codec, raw io.Writer) ([]model.Report, error) {
	h := deps.NewHarness()
	cfg := deps.Config
	var reports []model.Report

	for i, c := range codecs {
		deps.Logger.Info("running codec",
			slog.String("codec", c.Name()),
			slog.Int("documents", len(docs)),
			slog.Int("iterations", cfg.Iterations),
		)
		startedAt := time.Now().UTC()
		hd, err := h.Start(ctx, docs, cfg.Iterations, c.Encode, c.Decode)
		if err != nil {
			return nil, err
		}
		rs, err := hd.Wait()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Name(), err)
		}
		finishedAt := time.Now().UTC()

		rep := analyze.Report(c.Name(), rs)
		runID := newRunID()
		if deps.Store != nil {
			rec := model.NewRunRecord(runID, c.Name(), cfg.InputDir, cfg.Warmup, startedAt, finishedAt, rs)
			if err := deps.Store.PutRun(rec); err != nil {
				return nil, fmt.Errorf("storing run: %w", err)
			}
			deps.Logger.Info("stored run", slog.String("id", runID), slog.String("codec", c.Name()))
		}
		if raw != nil {
			if err := pipeline.WriteJSONL(raw, runID, c.Name(), rs); err != nil {
				return nil, fmt.Errorf("writing raw trials: %w", err)
			}
		}

		if !rs.Complete() {
			if rest := len(codecs) - i - 1; rest > 0 {
				rep.Warnings = append(rep.Warnings, fmt.Sprintf("run stopped: %d codec(s) skipped", rest))
			}
			reports = append(reports, rep)
			break
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	f := runCmd.Flags()
	f.StringVarP(&runFlags.Codecs, "codec", "c", "", "comma-separated codecs to time (default: all; see 'jsonperf codecs')")
	f.IntVarP(&runFlags.Iterations, "iterations", "n", 0, "timed passes over the corpus (default 50)")
	f.IntVar(&runFlags.Warmup, "warmup", 0, "untimed passes before measuring")
	f.Float64Var(&runFlags.Pace, "pace", 0, "max trials per second (0 = unlimited)")
	f.StringVar(&runFlags.Timeout, "timeout", "", "stop the run after this long (e.g. 30s, 5m)")
	f.BoolVar(&runFlags.Store, "store", false, "save each codec's run to the local database")
	f.StringVar(&runFlags.Raw, "raw", "", "write every trial as JSONL to this file")
}
