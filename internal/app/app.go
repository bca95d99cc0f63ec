// Package app wires together configuration, the local store, the logger and
// the timing harness into a single Deps struct that commands receive at
// runtime.
package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/derickschaefer/jsonperf/internal/config"
	"github.com/derickschaefer/jsonperf/internal/harness"
	"github.com/derickschaefer/jsonperf/internal/store"
)

// Deps holds all runtime dependencies injected into command Run functions.
// Store is nil until RequireStore is called; commands that never touch the
// database never open it.
type Deps struct {
	Config *config.Config
	Store  *store.Store
	Logger *slog.Logger
}

// New builds a Deps from resolved config. Log output goes to logw at a
// level derived from the quiet/debug flags.
func New(cfg *config.Config, logw io.Writer) *Deps {
	return &Deps{
		Config: cfg,
		Logger: NewLogger(logw, cfg),
	}
}

// NewLogger returns a text logger on w. Debug wins over Quiet.
func NewLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case cfg.Debug:
		level = slog.LevelDebug
	case cfg.Quiet:
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// RequireStore opens the bbolt database at Config.DBPath if it is not
// already open.
func (d *Deps) RequireStore() error {
	if d.Store != nil {
		return nil
	}
	if d.Config.DBPath == "" {
		return fmt.Errorf("no database path configured (set db_path in config.json or %s)", config.EnvDBPath)
	}
	s, err := store.Open(d.Config.DBPath)
	if err != nil {
		return err
	}
	d.Store = s
	return nil
}

// Close releases the store if it was opened.
func (d *Deps) Close() error {
	if d.Store == nil {
		return nil
	}
	err := d.Store.Close()
	d.Store = nil
	return err
}

// NewHarness builds a harness from the run settings in Config.
func (d *Deps) NewHarness(opts ...harness.Option) *harness.Harness {
	base := []harness.Option{
		harness.WithLogger(d.Logger),
		harness.WithWarmup(d.Config.Warmup),
		harness.WithPace(d.Config.Pace),
	}
	return harness.New(append(base, opts...)...)
}
