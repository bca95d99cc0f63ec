package pipeline_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/derickschaefer/jsonperf/internal/harness"
	"github.com/derickschaefer/jsonperf/internal/pipeline"
)

// ─── Helpers ──────────────────────────────────────────────────────────────────

// jsonl joins lines with newlines and appends a trailing newline.
func jsonl(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

// mkset builds a ResultSet with n iterations over docs; encode time is the
// iteration number, decode time twice that.
func mkset(n int, complete bool, docs ...string) *harness.ResultSet {
	rs := harness.NewResultSet(docs...)
	for i := 0; i < n; i++ {
		for _, d := range docs {
			rs.Add(d, harness.Measurement{EncodeMicros: uint64(i), DecodeMicros: uint64(2 * i)})
		}
	}
	rs.SetProgress(n, complete)
	return rs
}

// ─── ReadMeasurements ─────────────────────────────────────────────────────────

func TestReadBasic(t *testing.T) {
	input := jsonl(
		`{"codec":"std","document":"a.json","iteration":0,"encode_us":10,"decode_us":20,"complete":true}`,
		`{"codec":"std","document":"a.json","iteration":1,"encode_us":30,"decode_us":40,"complete":true}`,
	)
	streams, err := pipeline.ReadMeasurements(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(streams) != 1 {
		t.Fatalf("expected 1 stream, got %d", len(streams))
	}
	rs := streams[0].Results
	if streams[0].Codec != "std" {
		t.Errorf("codec: expected std, got %q", streams[0].Codec)
	}
	if rs.Count("a.json") != 2 {
		t.Errorf("count: expected 2, got %d", rs.Count("a.json"))
	}
	enc, dec, _ := rs.Average("a.json")
	if enc != 20 || dec != 30 {
		t.Errorf("average: expected 20/30, got %v/%v", enc, dec)
	}
	if !rs.Complete() || rs.Iterations() != 2 {
		t.Errorf("progress: complete=%v iterations=%d", rs.Complete(), rs.Iterations())
	}
}

func TestReadGroupsByCodecInFirstSeenOrder(t *testing.T) {
	input := jsonl(
		`{"codec":"sonic","document":"a","encode_us":1,"decode_us":1,"complete":true}`,
		`{"codec":"std","document":"a","encode_us":2,"decode_us":2,"complete":true}`,
		`{"codec":"sonic","document":"a","encode_us":3,"decode_us":3,"complete":true}`,
	)
	streams, err := pipeline.ReadMeasurements(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(streams) != 2 {
		t.Fatalf("expected 2 streams, got %d", len(streams))
	}
	if streams[0].Codec != "sonic" || streams[1].Codec != "std" {
		t.Errorf("order: got %s, %s", streams[0].Codec, streams[1].Codec)
	}
	if streams[0].Results.Count("a") != 2 {
		t.Errorf("sonic count: expected 2, got %d", streams[0].Results.Count("a"))
	}
}

func TestReadSeparatesRunsOfSameCodec(t *testing.T) {
	input := jsonl(
		`{"run_id":"r1","codec":"std","document":"a","encode_us":1,"decode_us":1}`,
		`{"run_id":"r2","codec":"std","document":"a","encode_us":1,"decode_us":1}`,
	)
	streams, err := pipeline.ReadMeasurements(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(streams) != 2 {
		t.Fatalf("expected 2 streams, got %d", len(streams))
	}
	if streams[1].RunID != "r2" {
		t.Errorf("run id: expected r2, got %q", streams[1].RunID)
	}
}

func TestReadIncompleteWhenAnyRowIncomplete(t *testing.T) {
	input := jsonl(
		`{"codec":"std","document":"a","encode_us":1,"decode_us":1,"complete":true}`,
		`{"codec":"std","document":"b","encode_us":1,"decode_us":1,"complete":false}`,
		`{"codec":"std","document":"a","encode_us":1,"decode_us":1,"complete":true}`,
	)
	streams, err := pipeline.ReadMeasurements(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rs := streams[0].Results
	if rs.Complete() {
		t.Error("expected incomplete stream")
	}
	if rs.Iterations() != 1 {
		t.Errorf("iterations: expected min count 1, got %d", rs.Iterations())
	}
}

func TestReadSkipsBlankAndCommentLines(t *testing.T) {
	input := jsonl(
		``,
		`// header`,
		`{"codec":"std","document":"a","encode_us":1,"decode_us":1}`,
		`   `,
	)
	streams, err := pipeline.ReadMeasurements(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if streams[0].Results.Count("a") != 1 {
		t.Errorf("expected 1 measurement, got %d", streams[0].Results.Count("a"))
	}
}

func TestReadEmptyInputError(t *testing.T) {
	_, err := pipeline.ReadMeasurements(strings.NewReader(""))
	if err == nil {
		t.Error("expected error for empty input")
	}
}

func TestReadInvalidJSONError(t *testing.T) {
	input := jsonl(
		`{"codec":"std","document":"a","encode_us":1,"decode_us":1}`,
		`{not json}`,
	)
	_, err := pipeline.ReadMeasurements(strings.NewReader(input))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected line 2 error, got %v", err)
	}
}

func TestReadMissingFieldsError(t *testing.T) {
	for _, line := range []string{
		`{"document":"a","encode_us":1,"decode_us":1}`,
		`{"codec":"std","encode_us":1,"decode_us":1}`,
	} {
		if _, err := pipeline.ReadMeasurements(strings.NewReader(jsonl(line))); err == nil {
			t.Errorf("expected error for %s", line)
		}
	}
}

func TestReadNegativeTimingRejected(t *testing.T) {
	input := jsonl(`{"codec":"std","document":"a","encode_us":-1,"decode_us":1}`)
	if _, err := pipeline.ReadMeasurements(strings.NewReader(input)); err == nil {
		t.Error("expected error for negative encode_us")
	}
}

// ─── WriteJSONL ───────────────────────────────────────────────────────────────

func TestWriteOneLinePerMeasurement(t *testing.T) {
	var buf bytes.Buffer
	if err := pipeline.WriteJSONL(&buf, "r1", "std", mkset(3, true, "a", "b")); err != nil {
		t.Fatalf("WriteJSONL: %v", err)
	}
	lines := nonEmptyLines(buf.String())
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d", len(lines))
	}
	var row pipeline.Row
	if err := json.Unmarshal([]byte(lines[3]), &row); err != nil {
		t.Fatalf("line 3: %v", err)
	}
	want := pipeline.Row{RunID: "r1", Codec: "std", Document: "b", Iteration: 1, EncodeMicros: 1, DecodeMicros: 2, Complete: true}
	if row != want {
		t.Errorf("line 3: expected %+v, got %+v", want, row)
	}
}

func TestWriteOmitsEmptyRunID(t *testing.T) {
	var buf bytes.Buffer
	_ = pipeline.WriteJSONL(&buf, "", "std", mkset(1, true, "a"))
	if strings.Contains(buf.String(), "run_id") {
		t.Errorf("run_id should be omitted: %s", buf.String())
	}
}

func TestWriteEmptySet(t *testing.T) {
	var buf bytes.Buffer
	if err := pipeline.WriteJSONL(&buf, "", "std", harness.NewResultSet("a")); err != nil {
		t.Fatalf("WriteJSONL: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

// ─── Round Trip ───────────────────────────────────────────────────────────────

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	orig := mkset(4, false, "x.json", "y.json")
	if err := pipeline.WriteJSONL(&buf, "r", "goccy", orig); err != nil {
		t.Fatalf("WriteJSONL: %v", err)
	}
	streams, err := pipeline.ReadMeasurements(&buf)
	if err != nil {
		t.Fatalf("ReadMeasurements: %v", err)
	}
	got := streams[0].Results
	if got.Complete() {
		t.Error("complete flag not preserved")
	}
	if got.Iterations() != 4 {
		t.Errorf("iterations: expected 4, got %d", got.Iterations())
	}
	for _, d := range orig.Documents() {
		a, b := orig.Measurements(d), got.Measurements(d)
		if len(a) != len(b) {
			t.Fatalf("%s: length %d vs %d", d, len(a), len(b))
		}
		for i := range a {
			if a[i] != b[i] {
				t.Errorf("%s[%d]: %+v vs %+v", d, i, a[i], b[i])
			}
		}
	}
}
