// Package corpus loads the sample documents a run is measured against.
// A corpus is a directory of *.json files, each holding one JSON object.
// Files are taken in name order so that every run sees the same sequence.
package corpus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/derickschaefer/jsonperf/internal/harness"
	"github.com/derickschaefer/jsonperf/internal/jsonvalue"
	"github.com/derickschaefer/jsonperf/internal/normalize"
	"github.com/derickschaefer/jsonperf/internal/util"
)

// ErrEmpty is returned when a directory contains no *.json files.
var ErrEmpty = errors.New("no .json documents found")

// Load reads, parses and normalizes every *.json file in dir.
// Errors for individual files are collected so that one bad sample does not
// hide the others.
func Load(dir string) ([]harness.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading corpus %s: %w", dir, err)
	}

	var (
		docs []harness.Document
		errs util.MultiError
	)
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		tree, err := LoadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			errs.Add(err)
			continue
		}
		docs = append(docs, harness.Document{Name: e.Name(), Tree: tree})
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrEmpty, dir)
	}
	return docs, nil
}

// LoadFile parses and normalizes a single document.
func LoadFile(path string) (normalize.Tree, error) {
	v, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	tree, err := normalize.Document(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return tree, nil
}

// ParseFile reads path and parses it without normalizing.
func ParseFile(path string) (jsonvalue.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("reading %s: %w", path, err)
	}
	v, err := jsonvalue.Parse(data)
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return v, nil
}
