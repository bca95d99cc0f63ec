// Package model defines the canonical data types shared by analysis,
// rendering and storage, and the result envelope every command returns.
package model

import (
	"time"

	"github.com/derickschaefer/jsonperf/internal/harness"
)

// ─── Summaries ────────────────────────────────────────────────────────────────

// PhaseStats describes the distribution of one phase (encode or decode)
// for one document. All values are microseconds.
type PhaseStats struct {
	Mean   float64 `json:"mean_us"`
	Median float64 `json:"median_us"`
	Min    float64 `json:"min_us"`
	Max    float64 `json:"max_us"`
	Lo     float64 `json:"ci_lo_us"` // lower bound of the confidence interval around Median
	Hi     float64 `json:"ci_hi_us"`
}

// DocSummary holds the statistics for one document under one codec.
type DocSummary struct {
	Document string     `json:"document"`
	Count    int        `json:"count"`
	Encode   PhaseStats `json:"encode"`
	Decode   PhaseStats `json:"decode"`
}

// Total returns the mean time of a full encode+decode trial.
func (d DocSummary) Total() float64 {
	return d.Encode.Mean + d.Decode.Mean
}

// Report summarizes one codec's run.
type Report struct {
	Codec      string       `json:"codec"`
	Iterations int          `json:"iterations"`
	Complete   bool         `json:"complete"`
	Documents  []DocSummary `json:"documents"`
	Warnings   []string     `json:"warnings,omitempty"`
}

// Comparison ranks one codec against the others on one document.
type Comparison struct {
	Document    string  `json:"document"`
	Codec       string  `json:"codec"`
	Rank        int     `json:"rank"`
	TotalMicros float64 `json:"total_us"`
	Relative    float64 `json:"relative"` // TotalMicros / fastest TotalMicros
}

// Benchmark is the payload of a `run` or `summarize` command.
type Benchmark struct {
	Reports     []Report     `json:"reports"`
	Comparisons []Comparison `json:"comparisons,omitempty"`
}

// ─── Persisted Runs ───────────────────────────────────────────────────────────

// DocMeasurements is the raw data of one document within a stored run.
type DocMeasurements struct {
	Document     string                `json:"document"`
	Measurements []harness.Measurement `json:"measurements"`
}

// RunRecord is a completed (or canceled) run as kept in the local store.
type RunRecord struct {
	ID         string            `json:"id"`
	Codec      string            `json:"codec"`
	InputDir   string            `json:"input_dir"`
	Iterations int               `json:"iterations"`
	Warmup     int               `json:"warmup"`
	Complete   bool              `json:"complete"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Documents  []DocMeasurements `json:"documents"`
}

// NewRunRecord captures rs under the given identity.
func NewRunRecord(id, codec, inputDir string, warmup int, startedAt, finishedAt time.Time, rs *harness.ResultSet) RunRecord {
	rec := RunRecord{
		ID:         id,
		Codec:      codec,
		InputDir:   inputDir,
		Iterations: rs.Iterations(),
		Warmup:     warmup,
		Complete:   rs.Complete(),
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
	}
	for _, name := range rs.Documents() {
		rec.Documents = append(rec.Documents, DocMeasurements{
			Document:     name,
			Measurements: rs.Measurements(name),
		})
	}
	return rec
}

// ResultSet rebuilds the harness view of a stored run.
func (r RunRecord) ResultSet() *harness.ResultSet {
	names := make([]string, len(r.Documents))
	for i, d := range r.Documents {
		names[i] = d.Document
	}
	rs := harness.NewResultSet(names...)
	for _, d := range r.Documents {
		for _, m := range d.Measurements {
			rs.Add(d.Document, m)
		}
	}
	rs.SetProgress(r.Iterations, r.Complete)
	return rs
}

// Trials returns the total number of recorded measurements.
func (r RunRecord) Trials() int {
	n := 0
	for _, d := range r.Documents {
		n += len(d.Measurements)
	}
	return n
}

// ─── Result Envelope ─────────────────────────────────────────────────────────

// ResultStats carries timing metadata for a command result.
type ResultStats struct {
	DurationMs int64 `json:"duration_ms"`
	Items      int   `json:"items"`
}

// Result is the uniform envelope returned by every command.
// The Data field holds the typed payload; Kind identifies what is in it.
// Renderers switch on Kind to format output appropriately.
type Result struct {
	Kind        string      `json:"kind"`
	GeneratedAt time.Time   `json:"generated_at"`
	Command     string      `json:"command"`
	Data        interface{} `json:"data"`
	Warnings    []string    `json:"warnings,omitempty"`
	Stats       ResultStats `json:"stats"`
}

// Kind constants for Result.Kind.
const (
	KindBenchmark = "benchmark"
	KindRuns      = "runs"
	KindCodecs    = "codecs"
)
