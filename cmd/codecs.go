package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/derickschaefer/jsonperf/internal/codec"
	"github.com/derickschaefer/jsonperf/internal/model"
)

var codecsCmd = &cobra.Command{
	Use:     "codecs",
	Short:   "List the JSON codecs available to 'run'",
	Example: `  jsonperf codecs`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		names := codec.Names()
		return emit(cmd, deps, &model.Result{
			Kind:        model.KindCodecs,
			GeneratedAt: time.Now(),
			Command:     "codecs",
			Data:        names,
			Stats:       model.ResultStats{Items: len(names)},
		})
	},
}

func init() {
	rootCmd.AddCommand(codecsCmd)
}
