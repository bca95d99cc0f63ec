package corpus_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/derickschaefer/jsonperf/internal/corpus"
	"github.com/derickschaefer/jsonperf/internal/jsonvalue"
	"github.com/derickschaefer/jsonperf/internal/normalize"
)

// ─── Helpers ──────────────────────────────────────────────────────────────────

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

// ─── Load ─────────────────────────────────────────────────────────────────────

func TestLoadSortsByName(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"small.json":  `{"a":1}`,
		"large.json":  `{"items":[1,2,3]}`,
		"medium.JSON": `{"b":"c"}`,
		"notes.txt":   `not a document`,
	})
	if err := os.Mkdir(filepath.Join(dir, "sub.json"), 0700); err != nil {
		t.Fatal(err)
	}

	docs, err := corpus.Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"large.json", "medium.JSON", "small.json"}
	if len(docs) != len(want) {
		t.Fatalf("expected %d docs, got %d", len(want), len(docs))
	}
	for i, d := range docs {
		if d.Name != want[i] {
			t.Errorf("docs[%d]: expected %q, got %q", i, want[i], d.Name)
		}
	}
	if docs[2].Tree["a"] != int64(1) {
		t.Errorf("small.json: expected a=1, got %#v", docs[2].Tree["a"])
	}
}

func TestLoadCollectsAllErrors(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"ok.json":     `{"a":1}`,
		"broken.json": `{"a":`,
		"array.json":  `[1,2]`,
	})
	_, err := corpus.Load(dir)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, jsonvalue.ErrInvalidJSON) {
		t.Errorf("expected ErrInvalidJSON in %v", err)
	}
	if !errors.Is(err, normalize.ErrNotObject) {
		t.Errorf("expected ErrNotObject in %v", err)
	}
}

func TestLoadEmptyDir(t *testing.T) {
	_, err := corpus.Load(t.TempDir())
	if !errors.Is(err, corpus.ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestLoadMissingDir(t *testing.T) {
	_, err := corpus.Load(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestParseFileKeepsOrder(t *testing.T) {
	dir := writeFiles(t, map[string]string{"doc.json": `{"z":1,"a":2}`})
	v, err := corpus.ParseFile(filepath.Join(dir, "doc.json"))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if v.Members[0].Key != "z" || v.Members[1].Key != "a" {
		t.Errorf("member order not preserved: %+v", v.Members)
	}
}
