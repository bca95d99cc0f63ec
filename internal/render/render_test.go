package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/derickschaefer/jsonperf/internal/harness"
	"github.com/derickschaefer/jsonperf/internal/model"
)

func benchmarkResult() *model.Result {
	stats := func(mean float64) model.PhaseStats {
		return model.PhaseStats{Mean: mean, Median: mean, Min: mean - 1, Max: mean + 1, Lo: mean - 1, Hi: mean + 1}
	}
	b := &model.Benchmark{
		Reports: []model.Report{
			{Codec: "std", Iterations: 3, Complete: true, Documents: []model.DocSummary{
				{Document: "a.json", Count: 3, Encode: stats(10), Decode: stats(20)},
			}},
			{Codec: "sonic", Iterations: 1, Complete: false, Documents: []model.DocSummary{
				{Document: "a.json", Count: 1, Encode: stats(5), Decode: stats(5)},
			}},
		},
		Comparisons: []model.Comparison{
			{Document: "a.json", Codec: "sonic", Rank: 1, TotalMicros: 10, Relative: 1},
			{Document: "a.json", Codec: "std", Rank: 2, TotalMicros: 30, Relative: 3},
		},
	}
	return &model.Result{
		Kind:        model.KindBenchmark,
		GeneratedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Command:     "run",
		Data:        b,
		Warnings:    []string{"sonic: run incomplete after 1 iteration(s)"},
		Stats:       model.ResultStats{DurationMs: 12, Items: 2},
	}
}

func runsResult() *model.Result {
	rs := harness.NewResultSet("a.json")
	rs.Add("a.json", harness.Measurement{EncodeMicros: 1, DecodeMicros: 2})
	rs.SetProgress(1, true)
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return &model.Result{
		Kind: model.KindRuns,
		Data: []model.RunRecord{model.NewRunRecord("20260101-000000-std", "std", "in", 0, at, at, rs)},
	}
}

func TestRenderBenchmarkTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, benchmarkResult(), FormatTable))
	out := buf.String()
	require.Contains(t, out, "ENCODE MEAN")
	require.Contains(t, out, "10.0µs")
	require.Contains(t, out, "3.00x")
	require.Contains(t, out, "sonic: canceled after 1 iteration(s)")
}

func TestRenderBenchmarkJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, benchmarkResult(), FormatJSON))

	var got struct {
		Kind string `json:"kind"`
		Data struct {
			Reports []struct {
				Codec string `json:"codec"`
			} `json:"reports"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, model.KindBenchmark, got.Kind)
	require.Len(t, got.Data.Reports, 2)
}

func TestRenderBenchmarkJSONL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, benchmarkResult(), FormatJSONL))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	var row jsonlRow
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &row))
	require.Equal(t, "sonic", row.Codec)
	require.False(t, row.Complete)
}

func TestRenderBenchmarkCSVAndTSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, benchmarkResult(), FormatCSV))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[0], "codec,document,count,"))
	require.True(t, strings.HasPrefix(lines[1], "std,a.json,3,10.000,"))

	buf.Reset()
	require.NoError(t, Render(&buf, benchmarkResult(), FormatTSV))
	require.Contains(t, buf.String(), "std\ta.json\t3\t")
}

func TestRenderBenchmarkMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, benchmarkResult(), FormatMD))
	out := buf.String()
	require.Contains(t, out, "| CODEC | DOCUMENT |")
	require.Contains(t, out, "| --- |")
	require.Contains(t, out, "| a.json | 1 | sonic |")
}

func TestRenderRuns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, runsResult(), FormatTable))
	require.Contains(t, buf.String(), "20260101-000000-std")
	require.Contains(t, buf.String(), "complete")

	buf.Reset()
	require.NoError(t, Render(&buf, runsResult(), FormatCSV))
	require.Contains(t, buf.String(), "20260101-000000-std,std,")
}

func TestRenderCodecs(t *testing.T) {
	var buf bytes.Buffer
	res := &model.Result{Kind: model.KindCodecs, Data: []string{"goccy", "std"}}
	require.NoError(t, Render(&buf, res, FormatTable))
	require.Contains(t, buf.String(), "goccy")
}

func TestRenderTableRejectsWrongPayload(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, &model.Result{Kind: model.KindBenchmark, Data: "nope"}, FormatTable)
	require.Error(t, err)
}

func TestPrintFooter(t *testing.T) {
	var buf bytes.Buffer
	PrintFooter(&buf, benchmarkResult(), false)
	require.Contains(t, buf.String(), "run incomplete")
	require.NotContains(t, buf.String(), "items")

	buf.Reset()
	PrintFooter(&buf, benchmarkResult(), true)
	require.Contains(t, buf.String(), "2 items")
	require.Contains(t, buf.String(), "12ms")
}

func TestMDEscape(t *testing.T) {
	require.Equal(t, `a\|b c`, mdEscape("a|b\nc"))
}
