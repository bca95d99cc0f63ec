// Package store provides a thin bbolt wrapper for jsonperf's local run history.
//
// Runs are written explicitly with `run --store` and read back by the `runs`
// and `summarize` commands. Nothing expires; you own your data.
//
// Buckets:
//
//	runs   finished or canceled runs keyed by run:<ID>
//	_meta  internal: schema version, created_at
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	bolt "go.etcd.io/bbolt"

	"github.com/derickschaefer/jsonperf/internal/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Current schema version. Bump when bucket layout or key format changes.
const schemaVersion = 1

// Bucket name constants.
var (
	bucketRuns     = []byte("runs")
	bucketInternal = []byte("_meta")
)

// AllBuckets lists every user-facing bucket for stats and clear operations.
var AllBuckets = []string{"runs"}

// ErrNotFound is returned when a run ID has no entry.
var ErrNotFound = errors.New("run not found")

const runPrefix = "run:"

// Store wraps a bbolt database.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the bbolt database at path.
// Parent directories are created automatically.
// Runs schema migrations on every open.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening db %s: %w", path, err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the filesystem path of the open database.
func (s *Store) Path() string {
	return s.db.Path()
}

// ─── Migrations ───────────────────────────────────────────────────────────────

func (s *Store) migrate() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketRuns, bucketInternal} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("creating bucket %s: %w", name, err)
			}
		}

		meta := tx.Bucket(bucketInternal)
		if meta.Get([]byte("schema_version")) == nil {
			if err := meta.Put([]byte("schema_version"), []byte(fmt.Sprintf("%d", schemaVersion))); err != nil {
				return err
			}
			if err := meta.Put([]byte("created_at"), []byte(time.Now().UTC().Format(time.RFC3339))); err != nil {
				return err
			}
		}
		return nil
	})
}

// SchemaVersion returns the schema version recorded in _meta.
func (s *Store) SchemaVersion() (string, error) {
	var v string
	err := s.db.View(func(tx *bolt.Tx) error {
		v = string(tx.Bucket(bucketInternal).Get([]byte("schema_version")))
		return nil
	})
	return v, err
}

// ─── Runs ─────────────────────────────────────────────────────────────────────

// PutRun stores rec under run:<ID>, replacing any earlier entry.
func (s *Store) PutRun(rec model.RunRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("run record has no ID")
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding run: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRuns).Put([]byte(runPrefix+rec.ID), b)
	})
}

// GetRun retrieves a run by ID. A missing run yields ErrNotFound.
func (s *Store) GetRun(id string) (model.RunRecord, error) {
	var rec model.RunRecord
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketRuns).Get([]byte(runPrefix + id))
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &rec)
	})
	if err != nil {
		return rec, fmt.Errorf("decoding run %s: %w", id, err)
	}
	if !found {
		return rec, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, nil
}

// ListRuns returns all stored runs ordered by ID. IDs are time-prefixed, so
// this is also chronological order.
func (s *Store) ListRuns() ([]model.RunRecord, error) {
	var runs []model.RunRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketRuns).Cursor()
		prefix := []byte(runPrefix)
		for k, v := c.Seek(prefix); k != nil && strings.HasPrefix(string(k), runPrefix); k, v = c.Next() {
			var rec model.RunRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("decoding %s: %w", k, err)
			}
			runs = append(runs, rec)
		}
		return nil
	})
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].ID < runs[j].ID })
	return runs, err
}

// DeleteRun removes a run by ID. A missing run yields ErrNotFound.
func (s *Store) DeleteRun(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRuns)
		key := []byte(runPrefix + id)
		if b.Get(key) == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return b.Delete(key)
	})
}

// ─── Stats & Maintenance ──────────────────────────────────────────────────────

// BucketStats holds row count and byte size for a single bucket.
type BucketStats struct {
	Name  string
	Count int
	Bytes int64
}

// Stats returns row counts and approximate sizes for all user-facing buckets.
func (s *Store) Stats() ([]BucketStats, error) {
	var stats []BucketStats
	err := s.db.View(func(tx *bolt.Tx) error {
		for _, name := range AllBuckets {
			b := tx.Bucket([]byte(name))
			if b == nil {
				continue
			}
			var count int
			var bytes int64
			_ = b.ForEach(func(k, v []byte) error {
				count++
				bytes += int64(len(k) + len(v))
				return nil
			})
			stats = append(stats, BucketStats{Name: name, Count: count, Bytes: bytes})
		}
		return nil
	})
	return stats, err
}

// ClearBucket deletes all entries in the named bucket.
func (s *Store) ClearBucket(name string) error {
	bname := []byte(name)
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bname); err != nil {
			return fmt.Errorf("clearing bucket %s: %w", name, err)
		}
		_, err := tx.CreateBucket(bname)
		return err
	})
}

// Compact rewrites the database into a fresh file and swaps it in place,
// returning the file size before and after. bbolt never shrinks its file on
// delete, so this is the only way to reclaim space after ClearAll.
func (s *Store) Compact() (before, after int64, err error) {
	path := s.db.Path()
	fi, err := os.Stat(path)
	if err != nil {
		return 0, 0, err
	}
	before = fi.Size()

	tmp := path + ".compact"
	_ = os.Remove(tmp)
	dst, err := bolt.Open(tmp, 0600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return before, 0, fmt.Errorf("opening compaction target: %w", err)
	}
	if err := bolt.Compact(dst, s.db, 0); err != nil {
		dst.Close()
		os.Remove(tmp)
		return before, 0, fmt.Errorf("compacting: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(tmp)
		return before, 0, err
	}
	if err := s.db.Close(); err != nil {
		os.Remove(tmp)
		return before, 0, err
	}
	if err := os.Rename(tmp, path); err != nil {
		return before, 0, fmt.Errorf("replacing database: %w", err)
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return before, 0, fmt.Errorf("reopening db %s: %w", path, err)
	}
	s.db = db

	fi, err = os.Stat(path)
	if err != nil {
		return before, 0, err
	}
	return before, fi.Size(), nil
}

// ClearAll deletes all entries from every user-facing bucket.
func (s *Store) ClearAll() error {
	for _, name := range AllBuckets {
		if err := s.ClearBucket(name); err != nil {
			return err
		}
	}
	return nil
}
