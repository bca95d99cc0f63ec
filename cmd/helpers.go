package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/derickschaefer/jsonperf/internal/analyze"
	"github.com/derickschaefer/jsonperf/internal/app"
	"github.com/derickschaefer/jsonperf/internal/model"
	"github.com/derickschaefer/jsonperf/internal/render"
)

// resolveFormat returns the effective format string, falling back to "table".
func resolveFormat(cfgFormat string) string {
	if globalFlags.Format != "" {
		return globalFlags.Format
	}
	if cfgFormat != "" {
		return cfgFormat
	}
	return render.FormatTable
}

// validateFormat rejects --format values no renderer understands.
func validateFormat(format string) error {
	for _, f := range render.Formats {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("unknown format %q (valid: %s)", format, strings.Join(render.Formats, ", "))
}

// outputWriter returns def, or a file when --out is set. The returned close
// function must always be called.
func outputWriter(def io.Writer) (io.Writer, func() error, error) {
	if globalFlags.Out == "" {
		return def, func() error { return nil }, nil
	}
	f, err := os.Create(globalFlags.Out)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, f.Close, nil
}

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// newRunID generates a time-sortable run ID (UUIDv7).
func newRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// shortID trims a run ID for use in labels.
func shortID(id string) string {
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}

// printSimpleTable renders a simple table with headers using tablewriter.
// The add callback is called with row values as variadic strings.
func printSimpleTable(w io.Writer, headers []string, fill func(add func(...string))) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(headers)
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAutoWrapText(false)

	fill(func(cols ...string) {
		tw.Append(cols)
	})
	tw.Render()
}

// printKVTable renders a two-column key/value listing using aligned columns.
func printKVTable(w io.Writer, rows [][]string) {
	maxKey := 0
	for _, r := range rows {
		if len(r[0]) > maxKey {
			maxKey = len(r[0])
		}
	}
	for _, r := range rows {
		padding := strings.Repeat(" ", maxKey-len(r[0]))
		fmt.Fprintf(w, "  %s%s  %s\n", r[0], padding, r[1])
	}
}

func humanBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// buildBenchmarkResult wraps reports in a Result envelope, lifting report
// warnings to the envelope.
func buildBenchmarkResult(command string, reports []model.Report, started time.Time) *model.Result {
	b := analyze.Benchmark(reports)
	res := &model.Result{
		Kind:        model.KindBenchmark,
		GeneratedAt: time.Now(),
		Command:     command,
		Data:        &b,
		Stats:       model.ResultStats{DurationMs: time.Since(started).Milliseconds()},
	}
	for _, rep := range reports {
		res.Stats.Items += len(rep.Documents)
		res.Warnings = append(res.Warnings, rep.Warnings...)
	}
	return res
}

// emit renders result to --out or the command's stdout. Warnings and the
// verbose footer go to stderr so machine-readable output stays clean.
func emit(cmd *cobra.Command, deps *app.Deps, result *model.Result) error {
	format := resolveFormat(deps.Config.Format)
	if err := validateFormat(format); err != nil {
		return err
	}
	out, closeFn, err := outputWriter(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeFn()

	if err := render.Render(out, result, format); err != nil {
		return err
	}
	if !deps.Config.Quiet {
		render.PrintFooter(cmd.ErrOrStderr(), result, deps.Config.Verbose)
	}
	return nil
}
