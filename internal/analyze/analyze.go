// Package analyze computes statistical summaries over harness result sets
// and ranks codecs against each other. All functions are pure; no I/O.
package analyze

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/perf/benchmath"

	"github.com/derickschaefer/jsonperf/internal/harness"
	"github.com/derickschaefer/jsonperf/internal/model"
)

// Confidence is the confidence level of the interval reported around each
// median.
const Confidence = 0.95

// ─── Summary ──────────────────────────────────────────────────────────────────

// Summarize computes per-phase statistics for one document.
// It fails with harness.ErrEmptyResultSet if name has no measurements.
func Summarize(rs *harness.ResultSet, name string) (model.DocSummary, error) {
	encMean, decMean, err := rs.Average(name)
	if err != nil {
		return model.DocSummary{}, err
	}

	ms := rs.Measurements(name)
	enc := make([]float64, len(ms))
	dec := make([]float64, len(ms))
	for i, m := range ms {
		enc[i] = float64(m.EncodeMicros)
		dec[i] = float64(m.DecodeMicros)
	}

	return model.DocSummary{
		Document: name,
		Count:    len(ms),
		Encode:   phaseStats(enc, encMean),
		Decode:   phaseStats(dec, decMean),
	}, nil
}

// phaseStats fills in the order statistics. benchmath makes no normality
// assumption, which suits skewed latency samples.
func phaseStats(vals []float64, mean float64) model.PhaseStats {
	sample := benchmath.NewSample(vals, &benchmath.DefaultThresholds)
	sum := benchmath.AssumeNothing.Summary(sample, Confidence)

	sorted := sample.Values
	ps := model.PhaseStats{
		Mean:   mean,
		Median: sum.Center,
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Lo:     sum.Lo,
		Hi:     sum.Hi,
	}
	// Samples too small for the requested confidence get unbounded limits;
	// clamp them to the observed range so the result stays encodable.
	if !finite(ps.Lo) || ps.Lo < ps.Min {
		ps.Lo = ps.Min
	}
	if !finite(ps.Hi) || ps.Hi > ps.Max {
		ps.Hi = ps.Max
	}
	return ps
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Report summarizes every document of rs. Documents without measurements
// (possible in a canceled run) are listed as warnings instead of being given
// a made-up average.
func Report(codec string, rs *harness.ResultSet) model.Report {
	rep := model.Report{
		Codec:      codec,
		Iterations: rs.Iterations(),
		Complete:   rs.Complete(),
	}
	for _, name := range rs.Documents() {
		s, err := Summarize(rs, name)
		if err != nil {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		rep.Documents = append(rep.Documents, s)
	}
	if !rs.Complete() {
		rep.Warnings = append(rep.Warnings,
			fmt.Sprintf("%s: run incomplete after %d iteration(s)", codec, rs.Iterations()))
	}
	return rep
}

// ─── Comparison ───────────────────────────────────────────────────────────────

// Compare ranks codecs per document by mean encode+decode time.
// Rank 1 is the fastest; Relative is each codec's time divided by the
// fastest one's. Output is ordered by document (first-seen order) then rank.
func Compare(reports []model.Report) []model.Comparison {
	var docs []string
	byDoc := make(map[string][]model.Comparison)
	for _, rep := range reports {
		for _, s := range rep.Documents {
			if _, ok := byDoc[s.Document]; !ok {
				docs = append(docs, s.Document)
			}
			byDoc[s.Document] = append(byDoc[s.Document], model.Comparison{
				Document:    s.Document,
				Codec:       rep.Codec,
				TotalMicros: s.Total(),
			})
		}
	}

	var out []model.Comparison
	for _, doc := range docs {
		cs := byDoc[doc]
		sort.SliceStable(cs, func(i, j int) bool { return cs[i].TotalMicros < cs[j].TotalMicros })
		fastest := cs[0].TotalMicros
		for i := range cs {
			cs[i].Rank = i + 1
			switch {
			case fastest > 0:
				cs[i].Relative = cs[i].TotalMicros / fastest
			case cs[i].TotalMicros == 0:
				cs[i].Relative = 1
			default:
				// Fastest codec rounded down to 0µs; any ratio is meaningless.
				cs[i].Relative = 0
			}
		}
		out = append(out, cs...)
	}
	return out
}

// Benchmark bundles reports with their cross-codec comparison.
func Benchmark(reports []model.Report) model.Benchmark {
	b := model.Benchmark{Reports: reports}
	if len(reports) > 1 {
		b.Comparisons = Compare(reports)
	}
	return b
}
