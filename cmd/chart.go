package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/derickschaefer/jsonperf/internal/analyze"
	"github.com/derickschaefer/jsonperf/internal/chart"
	"github.com/derickschaefer/jsonperf/internal/model"
	"github.com/derickschaefer/jsonperf/internal/pipeline"
	"github.com/derickschaefer/jsonperf/internal/transform"
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render trial timings as an ASCII chart (reads JSONL from stdin)",
	Long: `Chart commands read trial rows (as written by 'run --raw' or 'runs export')
from stdin and render to the terminal.

Pipeline examples:
  jsonperf runs export <ID> <ID> | jsonperf chart bar
  jsonperf run --codec sonic --raw trials.jsonl && jsonperf chart plot --document small.json < trials.jsonl`,
}

// ─── chart bar ───────────────────────────────────────────────────────────────

var (
	chartBarWidth   int
	chartBarMaxBars int
)

var chartBarCmd = &cobra.Command{
	Use:   "bar",
	Short: "Horizontal bar chart of mean encode+decode time per codec",
	Long: `Renders one chart per document with one bar per codec (or per run, when
several runs share a codec). Bar length is the mean encode+decode time in µs,
fastest first.`,
	Example: `  jsonperf runs export 019a0c3e-... 019a0c41-... | jsonperf chart bar
  jsonperf chart bar --width 100 < trials.jsonl`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		streams, err := pipeline.ReadMeasurements(cmd.InOrStdin())
		if err != nil {
			return err
		}
		bench := analyze.Benchmark(streamReports(streams))

		var docs []string
		byDoc := make(map[string][]chart.Bar)
		for _, c := range bench.Comparisons {
			if _, ok := byDoc[c.Document]; !ok {
				docs = append(docs, c.Document)
			}
			byDoc[c.Document] = append(byDoc[c.Document], chart.Bar{Label: c.Codec, Value: c.TotalMicros})
		}
		if len(docs) == 0 {
			return fmt.Errorf("no completed trials to chart")
		}

		out := cmd.OutOrStdout()
		for i, doc := range docs {
			if i > 0 {
				fmt.Fprintln(out)
			}
			err := chart.RenderBars(out, doc+"  (µs, encode+decode mean)", byDoc[doc], chart.BarOptions{
				Width:   chartBarWidth,
				MaxBars: chartBarMaxBars,
			})
			if err != nil {
				return err
			}
		}
		return nil
	},
}

// ─── chart plot ──────────────────────────────────────────────────────────────

var (
	chartPlotWidth    int
	chartPlotHeight   int
	chartPlotDocument string
	chartPlotCodec    string
	chartPlotPhase    string
	chartPlotRoll     int
	chartPlotStat     string
	chartPlotClip     float64
)

var chartPlotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Per-iteration timings of one document as a line chart",
	Long: `Renders one document's timings across the iterations of a run, which shows
warm-up effects and outliers that averages hide.

--document may be omitted when the input holds a single document, and
--codec when it holds a single run. --phase is encode, decode or total.

--clip drops points above the given quantile before plotting, and --roll
smooths the series with a trailing window statistic.`,
	Example: `  jsonperf chart plot --document small.json < trials.jsonl
  jsonperf chart plot --clip 0.99 --roll 10 --stat median < trials.jsonl
  jsonperf runs export 019a0c3e-... | jsonperf chart plot --phase decode --height 8`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		streams, err := pipeline.ReadMeasurements(cmd.InOrStdin())
		if err != nil {
			return err
		}
		labels := streamLabels(streams)

		idx := -1
		switch {
		case chartPlotCodec != "":
			for i, l := range labels {
				if l == chartPlotCodec {
					idx = i
				}
			}
			if idx < 0 {
				return fmt.Errorf("no run labeled %q in input (have: %s)", chartPlotCodec, strings.Join(labels, ", "))
			}
		case len(streams) == 1:
			idx = 0
		default:
			return fmt.Errorf("input holds %d runs; pick one with --codec (have: %s)", len(streams), strings.Join(labels, ", "))
		}
		rs := streams[idx].Results

		doc := chartPlotDocument
		if doc == "" {
			docs := rs.Documents()
			if len(docs) != 1 {
				return fmt.Errorf("input holds %d documents; pick one with --document (have: %s)", len(docs), strings.Join(docs, ", "))
			}
			doc = docs[0]
		}
		ms := rs.Measurements(doc)
		if len(ms) == 0 {
			return fmt.Errorf("no trials for document %q in input", doc)
		}

		values := make([]float64, len(ms))
		for i, m := range ms {
			switch chartPlotPhase {
			case "encode":
				values[i] = float64(m.EncodeMicros)
			case "decode":
				values[i] = float64(m.DecodeMicros)
			case "total":
				values[i] = float64(m.EncodeMicros + m.DecodeMicros)
			default:
				return fmt.Errorf("unknown phase %q (valid: encode, decode, total)", chartPlotPhase)
			}
		}

		title := fmt.Sprintf("%s %s %s µs", labels[idx], doc, chartPlotPhase)
		if chartPlotClip > 0 {
			if values, err = transform.Clip(values, chartPlotClip); err != nil {
				return err
			}
			title += fmt.Sprintf(", clipped at p%g", chartPlotClip*100)
		}
		if chartPlotRoll > 1 {
			if values, err = transform.Roll(values, chartPlotRoll, 1, transform.RollStat(chartPlotStat)); err != nil {
				return err
			}
			title += fmt.Sprintf(", rolling %s of %d", chartPlotStat, chartPlotRoll)
		}
		return chart.Plot(cmd.OutOrStdout(), title, values, chart.PlotOptions{
			Width:  chartPlotWidth,
			Height: chartPlotHeight,
		})
	},
}

// streamLabels names each input stream the way 'runs compare' names runs.
func streamLabels(streams []pipeline.Stream) []string {
	recs := make([]model.RunRecord, len(streams))
	for i, s := range streams {
		recs[i] = model.RunRecord{ID: s.RunID, Codec: s.Codec}
	}
	return runLabels(recs)
}

// streamReports summarizes each input stream under its label.
func streamReports(streams []pipeline.Stream) []model.Report {
	labels := streamLabels(streams)
	reports := make([]model.Report, len(streams))
	for i, s := range streams {
		reports[i] = analyze.Report(labels[i], s.Results)
	}
	return reports
}

// ─── Registration ─────────────────────────────────────────────────────────────

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.AddCommand(chartBarCmd)
	chartCmd.AddCommand(chartPlotCmd)

	// bar flags
	chartBarCmd.Flags().IntVar(&chartBarWidth, "width", 0,
		"total chart width in characters (default: auto-detect from $COLUMNS, fallback 80)")
	chartBarCmd.Flags().IntVar(&chartBarMaxBars, "max-bars", 0,
		"maximum bars per document, fastest first (0 = no limit)")

	// plot flags
	chartPlotCmd.Flags().IntVar(&chartPlotWidth, "width", 0,
		"chart width in characters (default: auto-detect from $COLUMNS, fallback 80)")
	chartPlotCmd.Flags().IntVar(&chartPlotHeight, "height", 12,
		"chart height in rows")
	chartPlotCmd.Flags().StringVar(&chartPlotDocument, "document", "",
		"document to plot (default: the only document in the input)")
	chartPlotCmd.Flags().StringVar(&chartPlotCodec, "codec", "",
		"run label to plot when the input holds several runs")
	chartPlotCmd.Flags().StringVarP(&chartPlotPhase, "phase", "p", "total",
		"timing to plot: encode, decode or total")
	chartPlotCmd.Flags().IntVar(&chartPlotRoll, "roll", 0,
		"smooth over a trailing window of N iterations (0 = off)")
	chartPlotCmd.Flags().StringVar(&chartPlotStat, "stat", "mean",
		"rolling statistic: mean, median, std, min, max")
	chartPlotCmd.Flags().Float64Var(&chartPlotClip, "clip", 0,
		"drop points above this quantile, e.g. 0.99 (0 = off)")

	chartCmd.SilenceUsage = true
	chartBarCmd.SilenceUsage = true
	chartPlotCmd.SilenceUsage = true
}
