// Package pipeline provides helpers for reading and writing raw measurement
// streams via stdin/stdout in JSONL format, the canonical pipe format
// between `run --raw` and `summarize`.
package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"

	"github.com/derickschaefer/jsonperf/internal/harness"
)

// Row is one trial as it appears on the wire.
type Row struct {
	RunID        string `json:"run_id,omitempty"`
	Codec        string `json:"codec"`
	Document     string `json:"document"`
	Iteration    int    `json:"iteration"`
	EncodeMicros uint64 `json:"encode_us"`
	DecodeMicros uint64 `json:"decode_us"`
	Complete     bool   `json:"complete"`
}

// Stream is the measurements of one codec reassembled from rows.
type Stream struct {
	RunID   string
	Codec   string
	Results *harness.ResultSet
}

// WriteJSONL writes every measurement of rs as one row, iteration-major in
// the order the harness produced them.
func WriteJSONL(w io.Writer, runID, codec string, rs *harness.ResultSet) error {
	enc := json.NewEncoder(w)
	docs := rs.Documents()
	byDoc := make([][]harness.Measurement, len(docs))
	longest := 0
	for i, d := range docs {
		byDoc[i] = rs.Measurements(d)
		if len(byDoc[i]) > longest {
			longest = len(byDoc[i])
		}
	}
	for it := 0; it < longest; it++ {
		for i, d := range docs {
			if it >= len(byDoc[i]) {
				continue
			}
			m := byDoc[i][it]
			row := Row{
				RunID:        runID,
				Codec:        codec,
				Document:     d,
				Iteration:    it,
				EncodeMicros: m.EncodeMicros,
				DecodeMicros: m.DecodeMicros,
				Complete:     rs.Complete(),
			}
			if err := enc.Encode(row); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadMeasurements reads JSONL rows from r and groups them per codec, in
// first-seen order. Blank lines and // comments are skipped.
//
// Iterations is the smallest per-document count; a stream is complete only
// if every row says so.
func ReadMeasurements(r io.Reader) ([]Stream, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	var streams []Stream
	index := make(map[string]int)
	complete := make(map[string]bool)

	lineNum := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		lineNum++
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		var row Row
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			return nil, fmt.Errorf("line %d: invalid JSON: %w", lineNum, err)
		}
		if row.Codec == "" {
			return nil, fmt.Errorf("line %d: missing codec", lineNum)
		}
		if row.Document == "" {
			return nil, fmt.Errorf("line %d: missing document", lineNum)
		}

		key := row.RunID + "\x00" + row.Codec
		i, ok := index[key]
		if !ok {
			i = len(streams)
			index[key] = i
			complete[key] = true
			streams = append(streams, Stream{RunID: row.RunID, Codec: row.Codec, Results: harness.NewResultSet()})
		}
		complete[key] = complete[key] && row.Complete
		streams[i].Results.Add(row.Document, harness.Measurement{
			EncodeMicros: row.EncodeMicros,
			DecodeMicros: row.DecodeMicros,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	if len(streams) == 0 {
		return nil, fmt.Errorf("no measurements read from input (is stdin empty?)")
	}

	for key, i := range index {
		rs := streams[i].Results
		iterations := -1
		for _, d := range rs.Documents() {
			if n := rs.Count(d); iterations < 0 || n < iterations {
				iterations = n
			}
		}
		rs.SetProgress(iterations, complete[key])
	}
	return streams, nil
}

// IsTTY returns true if stdout is a terminal (not a pipe).
func IsTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
