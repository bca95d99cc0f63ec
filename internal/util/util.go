// Package util provides shared helpers: duration formatting and error
// aggregation.
package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ─── Formatting ───────────────────────────────────────────────────────────────

// FormatMicros formats a microsecond quantity for display.
// Values under a millisecond show as µs with one decimal place, larger
// values switch to ms or s. NaN renders as ".".
func FormatMicros(us float64) string {
	switch {
	case math.IsNaN(us):
		return "."
	case us < 1000:
		return strconv.FormatFloat(us, 'f', 1, 64) + "µs"
	case us < 1_000_000:
		return strconv.FormatFloat(us/1000, 'f', 2, 64) + "ms"
	default:
		return strconv.FormatFloat(us/1_000_000, 'f', 2, 64) + "s"
	}
}

// FormatRatio formats a relative speed such as 1.00x or 3.42x.
func FormatRatio(r float64) string {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return "."
	}
	return fmt.Sprintf("%.2fx", r)
}

// ─── Error Helpers ────────────────────────────────────────────────────────────

// MultiError collects multiple errors and presents them as one.
type MultiError struct {
	Errors []error
}

func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

func (m *MultiError) Err() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}

func (m *MultiError) Error() string {
	msgs := make([]string, len(m.Errors))
	for i, e := range m.Errors {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (m *MultiError) Unwrap() []error {
	return m.Errors
}
