package transform_test

import (
	"math"
	"testing"

	"github.com/derickschaefer/jsonperf/internal/transform"
)

// ─── Helpers ──────────────────────────────────────────────────────────────────

// isNaN is a test helper that returns true if v is NaN.
func isNaN(v float64) bool { return math.IsNaN(v) }

// approxEqual returns true if a and b are within tolerance.
func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// ─── Roll ─────────────────────────────────────────────────────────────────────

func TestRollMean(t *testing.T) {
	in := []float64{1, 2, 3, 4, 5}
	out, err := transform.Roll(in, 3, 1, transform.RollMean)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("Roll should preserve length: expected %d, got %d", len(in), len(out))
	}
	// out[2] = mean(1,2,3) = 2
	if !approxEqual(out[2], 2.0, 1e-9) {
		t.Errorf("out[2]: expected 2.0, got %g", out[2])
	}
	// out[4] = mean(3,4,5) = 4
	if !approxEqual(out[4], 4.0, 1e-9) {
		t.Errorf("out[4]: expected 4.0, got %g", out[4])
	}
}

func TestRollMeanPartialWindow(t *testing.T) {
	// With minPeriods=1, early points use whatever they have
	out, err := transform.Roll([]float64{2, 4, 6}, 3, 1, transform.RollMean)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approxEqual(out[0], 2.0, 1e-9) {
		t.Errorf("out[0]: expected 2.0, got %g", out[0])
	}
	if !approxEqual(out[1], 3.0, 1e-9) {
		t.Errorf("out[1]: expected 3.0, got %g", out[1])
	}
}

func TestRollMinPeriods(t *testing.T) {
	out, err := transform.Roll([]float64{1, 2, 3, 4}, 3, 3, transform.RollMean)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !isNaN(out[0]) || !isNaN(out[1]) {
		t.Errorf("first two outputs should be NaN, got %g %g", out[0], out[1])
	}
	if isNaN(out[2]) {
		t.Error("out[2]: expected a value once the window is full")
	}
}

func TestRollMedian(t *testing.T) {
	// A single spike does not move a rolling median.
	out, err := transform.Roll([]float64{10, 11, 500, 12, 10}, 3, 3, transform.RollMedian)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approxEqual(out[2], 11, 1e-9) {
		t.Errorf("out[2]: expected 11, got %g", out[2])
	}
	if !approxEqual(out[4], 12, 1e-9) {
		t.Errorf("out[4]: expected 12, got %g", out[4])
	}
}

func TestRollStd(t *testing.T) {
	// std of [1,2,3] with ddof=1 = 1.0
	out, err := transform.Roll([]float64{1, 2, 3, 4, 5}, 3, 3, transform.RollStd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approxEqual(out[2], 1.0, 1e-9) {
		t.Errorf("out[2]: expected std=1.0, got %g", out[2])
	}
}

func TestRollMinMax(t *testing.T) {
	in := []float64{5, 3, 8, 1, 4}
	lo, err := transform.Roll(in, 3, 1, transform.RollMin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hi, err := transform.Roll(in, 3, 1, transform.RollMax)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lo[3] != 1 || hi[2] != 8 {
		t.Errorf("min[3]=%g max[2]=%g, want 1 and 8", lo[3], hi[2])
	}
}

func TestRollNaNSkippedInWindow(t *testing.T) {
	out, err := transform.Roll([]float64{1, math.NaN(), 3, 4}, 3, 2, transform.RollMean)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// window=[1, NaN, 3] → mean(1,3)
	if !approxEqual(out[2], 2.0, 1e-9) {
		t.Errorf("out[2]: expected 2.0 (NaN skipped), got %g", out[2])
	}
}

func TestRollInvalidArgs(t *testing.T) {
	in := []float64{1, 2, 3}
	if _, err := transform.Roll(in, 0, 1, transform.RollMean); err == nil {
		t.Error("expected error for window=0")
	}
	if _, err := transform.Roll(in, 2, 3, transform.RollMean); err == nil {
		t.Error("expected error when min-periods exceeds window")
	}
	if _, err := transform.Roll(in, 2, 1, transform.RollStat("sum")); err == nil {
		t.Error("expected error for unknown stat")
	}
}

func TestRollEmpty(t *testing.T) {
	out, err := transform.Roll(nil, 3, 1, transform.RollMean)
	if err != nil || len(out) != 0 {
		t.Errorf("Roll(nil) = %v, %v; want empty, nil", out, err)
	}
}

// ─── Clip ─────────────────────────────────────────────────────────────────────

func TestClipDropsOutliers(t *testing.T) {
	in := []float64{10, 11, 12, 10, 11, 900}
	out, err := transform.Clip(in, 0.8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !isNaN(out[5]) {
		t.Errorf("outlier should be clipped, got %g", out[5])
	}
	for i := 0; i < 5; i++ {
		if isNaN(out[i]) {
			t.Errorf("out[%d] should be kept", i)
		}
	}
	if in[5] != 900 {
		t.Error("Clip must not modify its input")
	}
}

func TestClipFullQuantileKeepsAll(t *testing.T) {
	in := []float64{1, 2, 3, 1000}
	out, err := transform.Clip(in, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range out {
		if v != in[i] {
			t.Errorf("out[%d] = %g, want %g", i, v, in[i])
		}
	}
}

func TestClipAllNaN(t *testing.T) {
	out, err := transform.Clip([]float64{math.NaN(), math.NaN()}, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 || !isNaN(out[0]) {
		t.Errorf("all-NaN input should pass through, got %v", out)
	}
}

func TestClipInvalidQuantile(t *testing.T) {
	for _, q := range []float64{0, -0.5, 1.5, math.NaN()} {
		if _, err := transform.Clip([]float64{1, 2}, q); err == nil {
			t.Errorf("expected error for q=%g", q)
		}
	}
}
