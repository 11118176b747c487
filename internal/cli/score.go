// internal/cli/score.go
package senticv

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/mwiater/senticv/internal/accuracy"
	"github.com/mwiater/senticv/internal/appconfig"
	"github.com/mwiater/senticv/internal/sink"
)

// scoreCmd implements 'score', which rescores fold outputs persisted by an earlier run.
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Rescore persisted fold outputs against the dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("results")
		return runScore(GetConfig(), dir, cmd.OutOrStdout())
	},
}

func runScore(cfg *appconfig.Config, dir string, out io.Writer) error {
	if dir == "" {
		dir = cfg.OutputDir()
	}
	ds, stats, err := loadDataset(cfg)
	if err != nil {
		return err
	}
	outputs, err := sink.LoadFolds(dir)
	if err != nil {
		return err
	}

	summary, err := accuracy.ScoreFolds(outputs, ds)
	summary.Dropped = stats.Dropped
	if rerr := render(out, summary, cfg.JSONMode); rerr != nil {
		return rerr
	}
	return err
}

func init() {
	scoreCmd.Flags().String("dataset", "", "labeled dataset (.csv, .tsv or .xlsx)")
	scoreCmd.Flags().String("results", "", "directory holding fold-<i>.json files (default: output dir)")
	rootCmd.AddCommand(scoreCmd)
}
