// internal/cli/run.go
package senticv

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// runCmd implements 'run', the full sanitize, cross-validate and score pipeline.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Cross-validate the configured classifier over a labeled dataset",
	Long: `Run loads and sanitizes the dataset, splits it into k contiguous folds, trains a
fresh classifier per fold on the other folds, classifies the held-out texts and
reports the hit rate per fold and overall. Fold outputs and the summary are written
to the output directory (and S3 when configured).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return runPipeline(ctx, GetConfig(), cmd.OutOrStdout())
	},
}

func init() {
	runCmd.Flags().String("dataset", "", "labeled dataset (.csv, .tsv or .xlsx)")
	runCmd.Flags().Int("folds", 0, "number of folds (default 3)")
	runCmd.Flags().Int("concurrency", 0, "folds processed in parallel (default 1)")
	runCmd.Flags().String("classifier", "", "classifier backend: uclassify, textprocessing or bayes")
	runCmd.Flags().String("outputDir", "", "directory for fold outputs and summary")
	rootCmd.AddCommand(runCmd)
}
