package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/derickschaefer/jsonperf/internal/codec"
	"github.com/derickschaefer/jsonperf/internal/corpus"
	"github.com/derickschaefer/jsonperf/internal/normalize"
)

var normalizeCodec string

var normalizeCmd = &cobra.Command{
	Use:   "normalize <FILE>",
	Short: "Parse and normalize one document, then print it re-encoded",
	Long: `Parse FILE, convert it into the generic tree the harness times, and write
the tree back out with the chosen codec.

Useful for checking that a document loads and for seeing exactly what each
codec produces from it.`,
	Example: `  jsonperf normalize samples/twitter.json
  jsonperf normalize samples/twitter.json --codec sonic --out twitter.norm.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps(cmd)
		if err != nil {
			return err
		}

		c, err := codec.Get(normalizeCodec)
		if err != nil {
			return err
		}
		v, err := corpus.ParseFile(args[0])
		if err != nil {
			return err
		}
		tree, err := normalize.Document(v)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		data, err := c.Encode(tree)
		if err != nil {
			return fmt.Errorf("encoding with %s: %w", c.Name(), err)
		}
		deps.Logger.Debug("normalized",
			slog.String("file", args[0]),
			slog.Int("depth", v.Depth()),
			slog.Int("keys", len(tree)),
			slog.Int("bytes", len(data)),
		)

		w, closeFn, err := outputWriter(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer closeFn()
		if _, err := w.Write(append(data, '\n')); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
	normalizeCmd.Flags().StringVarP(&normalizeCodec, "codec", "c", "std", "codec used to re-encode the tree")
}
