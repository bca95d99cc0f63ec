// Package render converts Result values into human-readable or machine-parseable
// output. Each format is a separate function; the top-level Render dispatcher
// selects based on the format string.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/derickschaefer/jsonperf/internal/model"
	"github.com/derickschaefer/jsonperf/internal/util"
)

// Format constants matching --format flag values.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatCSV   = "csv"
	FormatTSV   = "tsv"
	FormatMD    = "md"
)

// Formats lists every accepted --format value.
var Formats = []string{FormatTable, FormatJSON, FormatJSONL, FormatCSV, FormatTSV, FormatMD}

// Render writes result to w in the specified format.
func Render(w io.Writer, result *model.Result, format string) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, result)
	case FormatJSONL:
		return renderJSONL(w, result)
	case FormatCSV:
		return renderDelimited(w, result, ',')
	case FormatTSV:
		return renderDelimited(w, result, '\t')
	case FormatMD:
		return renderMarkdown(w, result)
	default:
		return renderTable(w, result)
	}
}

// RenderTo writes to stdout by default; if path is non-empty, writes to file.
func RenderTo(path string, result *model.Result, format string) error {
	if path == "" {
		return Render(os.Stdout, result, format)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()
	return Render(f, result, format)
}

// ─── JSON ─────────────────────────────────────────────────────────────────────

func renderJSON(w io.Writer, result *model.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// ─── JSONL ────────────────────────────────────────────────────────────────────

// jsonlRow is one document summary flattened for line-oriented consumers.
type jsonlRow struct {
	Codec      string  `json:"codec"`
	Document   string  `json:"document"`
	Count      int     `json:"count"`
	EncodeMean float64 `json:"encode_mean_us"`
	EncodeMed  float64 `json:"encode_median_us"`
	DecodeMean float64 `json:"decode_mean_us"`
	DecodeMed  float64 `json:"decode_median_us"`
	Complete   bool    `json:"complete"`
}

func renderJSONL(w io.Writer, result *model.Result) error {
	enc := json.NewEncoder(w)
	switch result.Kind {
	case model.KindBenchmark:
		b, ok := result.Data.(*model.Benchmark)
		if !ok {
			return renderJSON(w, result)
		}
		for _, rep := range b.Reports {
			for _, d := range rep.Documents {
				row := jsonlRow{
					Codec:      rep.Codec,
					Document:   d.Document,
					Count:      d.Count,
					EncodeMean: d.Encode.Mean,
					EncodeMed:  d.Encode.Median,
					DecodeMean: d.Decode.Mean,
					DecodeMed:  d.Decode.Median,
					Complete:   rep.Complete,
				}
				if err := enc.Encode(row); err != nil {
					return err
				}
			}
		}
		return nil
	case model.KindRuns:
		runs, ok := result.Data.([]model.RunRecord)
		if !ok {
			return enc.Encode(result.Data)
		}
		for _, r := range runs {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	default:
		return enc.Encode(result.Data)
	}
}

// ─── Table ────────────────────────────────────────────────────────────────────

func renderTable(w io.Writer, result *model.Result) error {
	switch result.Kind {
	case model.KindBenchmark:
		b, ok := result.Data.(*model.Benchmark)
		if !ok {
			return fmt.Errorf("unexpected data type for benchmark")
		}
		return renderBenchmarkTable(w, b)
	case model.KindRuns:
		runs, ok := result.Data.([]model.RunRecord)
		if !ok {
			return fmt.Errorf("unexpected data type for runs")
		}
		return renderRunsTable(w, runs)
	case model.KindCodecs:
		names, ok := result.Data.([]string)
		if !ok {
			return fmt.Errorf("unexpected data type for codecs")
		}
		return renderCodecsTable(w, names)
	default:
		// Fallback: JSON
		return renderJSON(w, result)
	}
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(header)
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAutoWrapText(false)
	return tw
}

var reportHeader = []string{"CODEC", "DOCUMENT", "N", "ENCODE MEAN", "ENCODE MEDIAN", "ENCODE CI", "DECODE MEAN", "DECODE MEDIAN", "DECODE CI"}

func renderBenchmarkTable(w io.Writer, b *model.Benchmark) error {
	tw := newTable(w, reportHeader)
	tw.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	})
	for _, rep := range b.Reports {
		for _, row := range reportRows(rep) {
			tw.Append(row)
		}
	}
	tw.Render()

	for _, rep := range b.Reports {
		if !rep.Complete {
			fmt.Fprintf(w, "%s: canceled after %d iteration(s)\n", rep.Codec, rep.Iterations)
		}
	}

	if len(b.Comparisons) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	ct := newTable(w, []string{"DOCUMENT", "RANK", "CODEC", "TOTAL", "RELATIVE"})
	ct.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	})
	for _, c := range b.Comparisons {
		ct.Append(comparisonRow(c))
	}
	ct.Render()
	return nil
}

func reportRows(rep model.Report) [][]string {
	rows := make([][]string, 0, len(rep.Documents))
	for _, d := range rep.Documents {
		rows = append(rows, []string{
			rep.Codec,
			d.Document,
			strconv.Itoa(d.Count),
			util.FormatMicros(d.Encode.Mean),
			util.FormatMicros(d.Encode.Median),
			formatCI(d.Encode),
			util.FormatMicros(d.Decode.Mean),
			util.FormatMicros(d.Decode.Median),
			formatCI(d.Decode),
		})
	}
	return rows
}

func comparisonRow(c model.Comparison) []string {
	return []string{
		c.Document,
		strconv.Itoa(c.Rank),
		c.Codec,
		util.FormatMicros(c.TotalMicros),
		util.FormatRatio(c.Relative),
	}
}

func renderRunsTable(w io.Writer, runs []model.RunRecord) error {
	tw := newTable(w, []string{"ID", "CODEC", "STARTED", "ITER", "DOCS", "TRIALS", "STATUS"})
	for _, r := range runs {
		tw.Append(runRow(r))
	}
	tw.Render()
	return nil
}

func runRow(r model.RunRecord) []string {
	return []string{
		r.ID,
		r.Codec,
		r.StartedAt.Local().Format("2006-01-02 15:04:05"),
		strconv.Itoa(r.Iterations),
		strconv.Itoa(len(r.Documents)),
		strconv.Itoa(r.Trials()),
		runStatus(r),
	}
}

func runStatus(r model.RunRecord) string {
	if r.Complete {
		return "complete"
	}
	return "canceled"
}

func renderCodecsTable(w io.Writer, names []string) error {
	tw := newTable(w, []string{"CODEC"})
	for _, n := range names {
		tw.Append([]string{n})
	}
	tw.Render()
	return nil
}

// ─── CSV / TSV ────────────────────────────────────────────────────────────────

func renderDelimited(w io.Writer, result *model.Result, sep rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = sep

	switch result.Kind {
	case model.KindBenchmark:
		b, ok := result.Data.(*model.Benchmark)
		if !ok {
			return fmt.Errorf("unexpected data type for benchmark")
		}
		_ = cw.Write([]string{
			"codec", "document", "count",
			"encode_mean_us", "encode_median_us", "encode_min_us", "encode_max_us", "encode_ci_lo_us", "encode_ci_hi_us",
			"decode_mean_us", "decode_median_us", "decode_min_us", "decode_max_us", "decode_ci_lo_us", "decode_ci_hi_us",
		})
		for _, rep := range b.Reports {
			for _, d := range rep.Documents {
				row := []string{rep.Codec, d.Document, strconv.Itoa(d.Count)}
				row = append(row, statsFields(d.Encode)...)
				row = append(row, statsFields(d.Decode)...)
				_ = cw.Write(row)
			}
		}
	case model.KindRuns:
		runs, ok := result.Data.([]model.RunRecord)
		if !ok {
			return fmt.Errorf("unexpected data type for runs")
		}
		_ = cw.Write([]string{"id", "codec", "started_at", "finished_at", "iterations", "warmup", "documents", "trials", "complete"})
		for _, r := range runs {
			_ = cw.Write([]string{
				r.ID, r.Codec,
				r.StartedAt.Format(time.RFC3339), r.FinishedAt.Format(time.RFC3339),
				strconv.Itoa(r.Iterations), strconv.Itoa(r.Warmup),
				strconv.Itoa(len(r.Documents)), strconv.Itoa(r.Trials()),
				strconv.FormatBool(r.Complete),
			})
		}
	case model.KindCodecs:
		names, _ := result.Data.([]string)
		_ = cw.Write([]string{"codec"})
		for _, n := range names {
			_ = cw.Write([]string{n})
		}
	default:
		// Fallback: serialize as JSON on a single line
		b, _ := json.Marshal(result.Data)
		_ = cw.Write([]string{string(b)})
	}

	cw.Flush()
	return cw.Error()
}

func statsFields(p model.PhaseStats) []string {
	return []string{
		formatFloat(p.Mean), formatFloat(p.Median),
		formatFloat(p.Min), formatFloat(p.Max),
		formatFloat(p.Lo), formatFloat(p.Hi),
	}
}

// ─── Markdown ─────────────────────────────────────────────────────────────────

func renderMarkdown(w io.Writer, result *model.Result) error {
	switch result.Kind {
	case model.KindBenchmark:
		b, ok := result.Data.(*model.Benchmark)
		if !ok {
			return renderJSON(w, result)
		}
		writeMDTable(w, reportHeader, nil)
		for _, rep := range b.Reports {
			for _, row := range reportRows(rep) {
				writeMDRow(w, row)
			}
		}
		if len(b.Comparisons) > 0 {
			fmt.Fprintln(w)
			writeMDTable(w, []string{"DOCUMENT", "RANK", "CODEC", "TOTAL", "RELATIVE"}, nil)
			for _, c := range b.Comparisons {
				writeMDRow(w, comparisonRow(c))
			}
		}
		return nil
	case model.KindRuns:
		runs, ok := result.Data.([]model.RunRecord)
		if !ok {
			return renderJSON(w, result)
		}
		writeMDTable(w, []string{"ID", "CODEC", "STARTED", "ITER", "DOCS", "TRIALS", "STATUS"}, nil)
		for _, r := range runs {
			writeMDRow(w, runRow(r))
		}
		return nil
	default:
		return renderJSON(w, result)
	}
}

func writeMDTable(w io.Writer, header []string, rows [][]string) {
	writeMDRow(w, header)
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	writeMDRow(w, sep)
	for _, r := range rows {
		writeMDRow(w, r)
	}
}

func writeMDRow(w io.Writer, cells []string) {
	esc := make([]string, len(cells))
	for i, c := range cells {
		esc[i] = mdEscape(c)
	}
	fmt.Fprintf(w, "| %s |\n", strings.Join(esc, " | "))
}

// ─── Warnings / Stats Footer ─────────────────────────────────────────────────

// PrintFooter writes warnings and stats to w when verbose mode is on.
func PrintFooter(w io.Writer, result *model.Result, verbose bool) {
	for _, warn := range result.Warnings {
		fmt.Fprintf(w, "⚠  %s\n", warn)
	}
	if verbose {
		fmt.Fprintf(w, "\n[%s • %d items • %dms]\n",
			result.GeneratedAt.Format(time.RFC3339),
			result.Stats.Items,
			result.Stats.DurationMs,
		)
	}
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func formatCI(p model.PhaseStats) string {
	return util.FormatMicros(p.Lo) + " – " + util.FormatMicros(p.Hi)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
