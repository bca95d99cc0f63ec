// Package config handles loading and resolving jsonperf configuration.
// Resolution order (later layers win):
//  1. built-in defaults
//  2. config.json in the current working directory
//  3. environment variables JSONPERF_INPUT_DIR and JSONPERF_DB_PATH
//  4. CLI flags
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	DefaultConfigFile = "config.json"
	DefaultFormat     = "table"
	DefaultInputDir   = "input"
	DefaultIterations = 50
	EnvInputDir       = "JSONPERF_INPUT_DIR"
	EnvDBPath         = "JSONPERF_DB_PATH"
)

// File is the on-disk representation of config.json.
type File struct {
	InputDir      string   `json:"input_dir"`
	Iterations    int      `json:"iterations"`
	Warmup        int      `json:"warmup"`
	Codecs        []string `json:"codecs"`
	DefaultFormat string   `json:"default_format"`
	Timeout       string   `json:"timeout"`
	Pace          float64  `json:"pace"`
	DBPath        string   `json:"db_path"`
}

// Config is the fully-resolved runtime configuration.
// All callers use this struct; the File is only read during loading.
type Config struct {
	InputDir   string
	Iterations int
	Warmup     int
	Codecs     []string // empty means every registered codec
	Format     string
	Timeout    time.Duration // zero means no limit
	Pace       float64       // trials per second; zero means unlimited
	DBPath     string
	ConfigPath string // path of the config.json that was loaded (empty if none found)

	// Runtime overrides set from CLI flags after Load()
	Quiet   bool
	Verbose bool
	Debug   bool
}

// Overrides carries the flag values that take part in layered resolution.
// Empty fields leave the lower layers in place.
type Overrides struct {
	InputDir string
	DBPath   string
}

// Load resolves configuration from all sources. A missing config.json is
// not an error; an unreadable or malformed one is.
func Load(o Overrides) (*Config, error) {
	cfg := &Config{
		InputDir:   DefaultInputDir,
		Iterations: DefaultIterations,
		Format:     DefaultFormat,
	}

	// Layer 1: config.json (lowest priority)
	f, path, err := loadFile()
	switch {
	case err == nil:
		if err := applyFile(cfg, f, path); err != nil {
			return nil, err
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, err
	}

	// Layer 2: environment variables
	if v := os.Getenv(EnvInputDir); v != "" {
		cfg.InputDir = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.DBPath = v
	}

	// Layer 3: CLI flags (highest priority)
	if o.InputDir != "" {
		cfg.InputDir = o.InputDir
	}
	if o.DBPath != "" {
		cfg.DBPath = o.DBPath
	}

	// Set default DB path if still unset
	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			cfg.DBPath = filepath.Join(home, ".jsonperf", "jsonperf.db")
		}
	}

	return cfg, nil
}

// Validate returns an error if any run parameter is out of range.
func (c *Config) Validate() error {
	var problems []string
	if c.Iterations < 1 {
		problems = append(problems, fmt.Sprintf("iterations must be at least 1 (got %d)", c.Iterations))
	}
	if c.Warmup < 0 {
		problems = append(problems, fmt.Sprintf("warmup must not be negative (got %d)", c.Warmup))
	}
	if c.Pace < 0 {
		problems = append(problems, fmt.Sprintf("pace must not be negative (got %g)", c.Pace))
	}
	if c.Timeout < 0 {
		problems = append(problems, fmt.Sprintf("timeout must not be negative (got %s)", c.Timeout))
	}
	if c.InputDir == "" {
		problems = append(problems, "input directory is empty")
	}
	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}

// loadFile attempts to read config.json from the current working directory.
// A missing file yields an error wrapping os.ErrNotExist.
func loadFile() (*File, string, error) {
	path, err := filepath.Abs(DefaultConfigFile)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("config.json not found at %s: %w", path, os.ErrNotExist)
		}
		return nil, "", fmt.Errorf("reading config.json: %w", err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, "", fmt.Errorf("parsing config.json: %w", err)
	}
	return &f, path, nil
}

// applyFile copies values from a parsed File into cfg,
// skipping any fields that are zero/empty.
func applyFile(cfg *Config, f *File, path string) error {
	cfg.ConfigPath = path
	if f.InputDir != "" {
		cfg.InputDir = f.InputDir
	}
	if f.Iterations > 0 {
		cfg.Iterations = f.Iterations
	}
	if f.Warmup > 0 {
		cfg.Warmup = f.Warmup
	}
	if len(f.Codecs) > 0 {
		cfg.Codecs = append([]string(nil), f.Codecs...)
	}
	if f.DefaultFormat != "" {
		cfg.Format = f.DefaultFormat
	}
	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return fmt.Errorf("config.json: invalid timeout %q: %w", f.Timeout, err)
		}
		cfg.Timeout = d
	}
	if f.Pace > 0 {
		cfg.Pace = f.Pace
	}
	if f.DBPath != "" {
		cfg.DBPath = f.DBPath
	}
	return nil
}

// Template returns a File populated with sensible defaults, suitable for
// writing an initial config.json via `jsonperf config init`.
func Template() File {
	return File{
		InputDir:      DefaultInputDir,
		Iterations:    DefaultIterations,
		Warmup:        0,
		Codecs:        []string{},
		DefaultFormat: DefaultFormat,
		Timeout:       "0s",
		Pace:          0,
	}
}

// WriteFile serialises a File to the given path.
func WriteFile(path string, f File) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0600)
}

// Get returns the resolved value of key as display text. Keys use the
// config.json field names.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "input_dir":
		return c.InputDir, nil
	case "iterations":
		return fmt.Sprintf("%d", c.Iterations), nil
	case "warmup":
		return fmt.Sprintf("%d", c.Warmup), nil
	case "codecs":
		if len(c.Codecs) == 0 {
			return "(all)", nil
		}
		return strings.Join(c.Codecs, ","), nil
	case "default_format":
		return c.Format, nil
	case "timeout":
		return c.Timeout.String(), nil
	case "pace":
		return fmt.Sprintf("%g", c.Pace), nil
	case "db_path":
		return c.DBPath, nil
	case "config_path":
		return c.ConfigPath, nil
	}
	return "", fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys, ", "))
}

// Keys lists every key accepted by Get, in display order.
var Keys = []string{"input_dir", "iterations", "warmup", "codecs", "default_format", "timeout", "pace", "db_path", "config_path"}
