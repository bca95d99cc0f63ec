// Package harness runs repeated encode/decode trials over a set of named
// documents and accumulates per-trial timings.
package harness

import "fmt"

// Measurement is the timing of one trial: one encode followed by one decode
// of one document.
type Measurement struct {
	EncodeMicros uint64 `json:"encode_us"`
	DecodeMicros uint64 `json:"decode_us"`
}

// ResultSet holds the measurements of a run keyed by document name.
// Document order is the order in which the run saw the documents.
type ResultSet struct {
	names      []string
	byName     map[string][]Measurement
	iterations int
	complete   bool
}

// NewResultSet returns an empty ResultSet for the given documents.
func NewResultSet(names ...string) *ResultSet {
	rs := &ResultSet{byName: make(map[string][]Measurement, len(names))}
	for _, n := range names {
		rs.ensure(n)
	}
	return rs
}

func (rs *ResultSet) ensure(name string) {
	if _, ok := rs.byName[name]; !ok {
		rs.names = append(rs.names, name)
		rs.byName[name] = nil
	}
}

// Add appends m to the measurements of name.
func (rs *ResultSet) Add(name string, m Measurement) {
	rs.ensure(name)
	rs.byName[name] = append(rs.byName[name], m)
}

// Documents returns the document names in run order.
func (rs *ResultSet) Documents() []string {
	out := make([]string, len(rs.names))
	copy(out, rs.names)
	return out
}

// Measurements returns a copy of the measurements recorded for name.
func (rs *ResultSet) Measurements(name string) []Measurement {
	ms := rs.byName[name]
	out := make([]Measurement, len(ms))
	copy(out, ms)
	return out
}

// Count returns the number of measurements recorded for name.
func (rs *ResultSet) Count(name string) int {
	return len(rs.byName[name])
}

// Iterations returns how many full passes over the documents finished.
func (rs *ResultSet) Iterations() int { return rs.iterations }

// Complete reports whether every planned iteration ran. Canceled runs
// return a partial, incomplete ResultSet.
func (rs *ResultSet) Complete() bool { return rs.complete }

// SetProgress records how far the run behind rs got. Used when a set is
// rebuilt from storage or a measurement stream.
func (rs *ResultSet) SetProgress(iterations int, complete bool) {
	rs.iterations = iterations
	rs.complete = complete
}

// Average returns the arithmetic mean encode and decode time, in
// microseconds, over all measurements for name.
func (rs *ResultSet) Average(name string) (encode, decode float64, err error) {
	ms := rs.byName[name]
	if len(ms) == 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrEmptyResultSet, name)
	}
	var encSum, decSum float64
	for _, m := range ms {
		encSum += float64(m.EncodeMicros)
		decSum += float64(m.DecodeMicros)
	}
	n := float64(len(ms))
	return encSum / n, decSum / n, nil
}

// Snapshot returns a deep copy that shares nothing with rs.
func (rs *ResultSet) Snapshot() *ResultSet {
	cp := &ResultSet{
		names:      rs.Documents(),
		byName:     make(map[string][]Measurement, len(rs.byName)),
		iterations: rs.iterations,
		complete:   rs.complete,
	}
	for name := range rs.byName {
		cp.byName[name] = rs.Measurements(name)
	}
	return cp
}
