package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/derickschaefer/jsonperf/internal/codec"
	"github.com/derickschaefer/jsonperf/internal/config"
	"github.com/derickschaefer/jsonperf/internal/render"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage jsonperf configuration",
	Long:  `Read and write jsonperf configuration stored in config.json.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a template config.json in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultConfigFile
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config.json already exists at %s (delete it first to re-initialise)", path)
		}
		if err := config.WriteFile(path, config.Template()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Created %s\n", path)
		fmt.Fprintf(cmd.OutOrStdout(), "  Put your sample documents in ./%s or set input_dir.\n", config.DefaultInputDir)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get [KEY]",
	Short: "Print the current resolved configuration",
	Example: `  jsonperf config get
  jsonperf config get iterations
  jsonperf config get --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		cfg := deps.Config

		if len(args) == 1 {
			v, err := cfg.Get(strings.ToLower(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		}

		rows := make([][]string, 0, len(config.Keys))
		for _, key := range config.Keys {
			v, _ := cfg.Get(key)
			if key == "config_path" && v == "" {
				v = "(not found)"
			}
			rows = append(rows, []string{key, v})
		}

		switch resolveFormat(cfg.Format) {
		case render.FormatJSON:
			out := make(map[string]string, len(rows))
			for _, r := range rows {
				out[r[0]] = r[1]
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		default:
			printKVTable(cmd.OutOrStdout(), rows)
			return nil
		}
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value in config.json",
	Example: `  jsonperf config set iterations 200
  jsonperf config set codecs std,sonic`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := strings.ToLower(args[0])
		val := args[1]

		// Load existing file or start from template
		var f config.File
		existing, path, err := loadConfigFile()
		switch {
		case err == nil:
			f = *existing
		case os.IsNotExist(err):
			path = config.DefaultConfigFile
			f = config.Template()
		default:
			return fmt.Errorf("reading %s: %w", config.DefaultConfigFile, err)
		}

		switch key {
		case "input_dir":
			f.InputDir = val
		case "iterations", "warmup":
			n, err := strconv.Atoi(val)
			if err != nil || n < 0 || (key == "iterations" && n == 0) {
				return fmt.Errorf("%s must be a positive integer", key)
			}
			if key == "iterations" {
				f.Iterations = n
			} else {
				f.Warmup = n
			}
		case "codecs":
			names := splitList(val)
			if _, err := codec.Resolve(names); err != nil {
				return err
			}
			f.Codecs = names
		case "default_format", "format":
			if err := validateFormat(val); err != nil {
				return err
			}
			f.DefaultFormat = val
		case "timeout":
			if _, err := time.ParseDuration(val); err != nil {
				return fmt.Errorf("timeout must be a duration such as 30s or 5m")
			}
			f.Timeout = val
		case "pace":
			r, err := strconv.ParseFloat(val, 64)
			if err != nil || r < 0 {
				return fmt.Errorf("pace must be a non-negative number")
			}
			f.Pace = r
		case "db_path":
			f.DBPath = val
		default:
			return fmt.Errorf("unknown config key: %q\n\nValid keys: input_dir, iterations, warmup, codecs, default_format, timeout, pace, db_path", key)
		}

		if err := config.WriteFile(path, f); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Set %s in %s\n", key, path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}

// loadConfigFile reads config.json from cwd; used by configSetCmd.
func loadConfigFile() (*config.File, string, error) {
	path := config.DefaultConfigFile
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	var f config.File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, "", err
	}
	return &f, path, nil
}
