package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version is the canonical release string. The default here is the fallback
// for `go run` and untagged builds. Production builds overwrite this via:
//
//	go build -ldflags "-X github.com/derickschaefer/jsonperf/cmd.Version=v0.2.0"
var Version = "v0.1.0"

// BuildTime is optionally injected at build time alongside Version:
//
//	-ldflags "-X github.com/derickschaefer/jsonperf/cmd.BuildTime=2026-02-16T12:00:00Z"
var BuildTime = ""

// versionInfo is the structured payload for --format json output.
type versionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	GOOS      string `json:"goos"`
	GOARCH    string `json:"goarch"`
	CPUs      int    `json:"cpus"`
	BuildTime string `json:"build_time,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the jsonperf version and build information",
	Long: `Print the jsonperf version string and build metadata.

Timings depend on the Go runtime and hardware, so the Go version, platform
and CPU count are included. Use --format json for structured output.

Examples:
  jsonperf version
  jsonperf version --format json | jq .go_version`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := globalFlags.Format
		if format == "" {
			format = "text"
		}

		info := versionInfo{
			Version:   Version,
			GoVersion: runtime.Version(),
			GOOS:      runtime.GOOS,
			GOARCH:    runtime.GOARCH,
			CPUs:      runtime.NumCPU(),
			BuildTime: BuildTime,
		}

		switch format {
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(info)

		case "jsonl":
			b, err := json.Marshal(info)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", b)
			return nil

		default:
			// Plain text: one value per line, grep/awk friendly.
			fmt.Fprintf(cmd.OutOrStdout(), "jsonperf %s\n", info.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "go       %s\n", info.GoVersion)
			fmt.Fprintf(cmd.OutOrStdout(), "os       %s/%s\n", info.GOOS, info.GOARCH)
			fmt.Fprintf(cmd.OutOrStdout(), "cpus     %d\n", info.CPUs)
			if info.BuildTime != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "built    %s\n", info.BuildTime)
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
