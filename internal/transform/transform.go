// Package transform implements stateless operators over per-iteration timing
// series. Each operator is a pure function that returns a new slice of the
// same length; NaN marks a missing point.
package transform

import (
	"fmt"
	"math"
	"sort"
)

// ─── Rolling Window ───────────────────────────────────────────────────────────

// RollStat selects the statistic for rolling window computation.
type RollStat string

const (
	RollMean   RollStat = "mean"
	RollMedian RollStat = "median"
	RollStd    RollStat = "std"
	RollMin    RollStat = "min"
	RollMax    RollStat = "max"
)

// Roll computes a rolling window statistic. A window holds the current point
// and the (window-1) preceding points. NaN values are skipped.
// If fewer than minPeriods non-NaN values exist in a window, the output is NaN.
func Roll(values []float64, window int, minPeriods int, stat RollStat) ([]float64, error) {
	if window < 1 {
		return nil, fmt.Errorf("roll: window must be >= 1, got %d", window)
	}
	if minPeriods < 1 {
		minPeriods = 1
	}
	if minPeriods > window {
		return nil, fmt.Errorf("roll: min-periods (%d) cannot exceed window (%d)", minPeriods, window)
	}
	switch stat {
	case RollMean, RollMedian, RollStd, RollMin, RollMax:
	default:
		return nil, fmt.Errorf("roll: unknown stat %q (use mean, median, std, min, max)", stat)
	}

	out := make([]float64, len(values))
	for i := range values {
		start := max(0, i-window+1)

		var vals []float64
		for _, v := range values[start : i+1] {
			if !math.IsNaN(v) {
				vals = append(vals, v)
			}
		}
		if len(vals) < minPeriods {
			out[i] = math.NaN()
			continue
		}

		switch stat {
		case RollMean:
			out[i] = mean(vals)
		case RollMedian:
			out[i] = quantile(vals, 0.5)
		case RollStd:
			out[i] = stddev(vals, mean(vals))
		case RollMin:
			out[i], _ = minmax(vals)
		case RollMax:
			_, out[i] = minmax(vals)
		}
	}
	return out, nil
}

// ─── Clip ─────────────────────────────────────────────────────────────────────

// Clip replaces values above the q-quantile of the series with NaN, so a
// handful of scheduler or GC pauses do not flatten the rest of a chart.
// q must be in (0, 1]; q == 1 keeps every value.
func Clip(values []float64, q float64) ([]float64, error) {
	if q <= 0 || q > 1 || math.IsNaN(q) {
		return nil, fmt.Errorf("clip: quantile must be in (0, 1], got %g", q)
	}
	var valid []float64
	for _, v := range values {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	out := make([]float64, len(values))
	copy(out, values)
	if len(valid) == 0 {
		return out, nil
	}

	limit := quantile(valid, q)
	for i, v := range out {
		if v > limit {
			out[i] = math.NaN()
		}
	}
	return out, nil
}

// ─── Math helpers ─────────────────────────────────────────────────────────────

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	var s float64
	for _, v := range vals {
		s += v
	}
	return s / float64(len(vals))
}

func stddev(vals []float64, m float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	var sq float64
	for _, v := range vals {
		d := v - m
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(vals)-1))
}

func minmax(vals []float64) (float64, float64) {
	mn, mx := vals[0], vals[0]
	for _, v := range vals[1:] {
		mn = math.Min(mn, v)
		mx = math.Max(mx, v)
	}
	return mn, mx
}

// quantile returns the linearly interpolated q-quantile of vals.
// vals must be non-empty; it is not modified.
func quantile(vals []float64, q float64) float64 {
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}
