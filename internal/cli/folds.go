// internal/cli/folds.go
package senticv

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mwiater/senticv/internal/appconfig"
	"github.com/mwiater/senticv/internal/folds"
)

// foldsCmd implements 'folds', which prints the deterministic fold plan.
var foldsCmd = &cobra.Command{
	Use:   "folds",
	Short: "Print the fold plan for the dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFolds(GetConfig(), cmd.OutOrStdout())
	},
}

func runFolds(cfg *appconfig.Config, out io.Writer) error {
	ds, _, err := loadDataset(cfg)
	if err != nil {
		return err
	}

	if cfg.JSONMode {
		plan, err := folds.Partition(len(ds), cfg.FoldCount())
		if err != nil {
			return err
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	}

	sizes, err := folds.BlockSizes(len(ds), cfg.FoldCount())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d records, %d folds\n", len(ds), len(sizes))
	start := 0
	for i, size := range sizes {
		fmt.Fprintf(out, "fold %d: test [%d..%d] (%d records), train %d records\n",
			i, start, start+size-1, size, len(ds)-size)
		start += size
	}
	return nil
}

func init() {
	foldsCmd.Flags().String("dataset", "", "labeled dataset (.csv, .tsv or .xlsx)")
	foldsCmd.Flags().Int("folds", 0, "number of folds (default 3)")
	rootCmd.AddCommand(foldsCmd)
}
