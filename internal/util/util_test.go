package util_test

import (
	"errors"
	"math"
	"testing"

	"github.com/derickschaefer/jsonperf/internal/util"
)

func TestFormatMicros(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.0µs"},
		{15, "15.0µs"},
		{999.94, "999.9µs"},
		{1500, "1.50ms"},
		{2_500_000, "2.50s"},
		{math.NaN(), "."},
	}
	for _, c := range cases {
		if got := util.FormatMicros(c.in); got != c.want {
			t.Errorf("FormatMicros(%v): expected %q, got %q", c.in, c.want, got)
		}
	}
}

func TestFormatRatio(t *testing.T) {
	if got := util.FormatRatio(1); got != "1.00x" {
		t.Errorf("expected 1.00x, got %q", got)
	}
	if got := util.FormatRatio(math.Inf(1)); got != "." {
		t.Errorf("expected '.', got %q", got)
	}
}

func TestMultiError(t *testing.T) {
	var m util.MultiError
	if m.Err() != nil {
		t.Fatal("empty MultiError should yield nil")
	}
	sentinel := errors.New("second")
	m.Add(errors.New("first"))
	m.Add(nil)
	m.Add(sentinel)

	err := m.Err()
	if err == nil {
		t.Fatal("expected an error")
	}
	if err.Error() != "first; second" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, sentinel) {
		t.Error("errors.Is should find a collected error")
	}
}
