// internal/cli/export.go
package senticv

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mwiater/senticv/internal/appconfig"
	"github.com/mwiater/senticv/internal/corenlp"
)

// exportCmd groups dataset exporters.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Group commands for exporting folds to other toolkits",
}

// exportCoreNLPCmd implements 'export corenlp'.
var exportCoreNLPCmd = &cobra.Command{
	Use:   "corenlp",
	Short: "Write per-fold CoreNLP sentiment train and test files",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("out")
		return runExportCoreNLP(GetConfig(), dir, cmd.OutOrStdout())
	},
}

func runExportCoreNLP(cfg *appconfig.Config, dir string, out io.Writer) error {
	ds, _, err := loadDataset(cfg)
	if err != nil {
		return err
	}
	exporter, err := corenlp.NewExporter()
	if err != nil {
		return err
	}
	paths, err := exporter.Export(dir, ds, cfg.FoldCount())
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintln(out, p)
	}
	return nil
}

func init() {
	exportCoreNLPCmd.Flags().String("dataset", "", "labeled dataset (.csv, .tsv or .xlsx)")
	exportCoreNLPCmd.Flags().Int("folds", 0, "number of folds (default 3)")
	exportCoreNLPCmd.Flags().String("out", "tmp/corenlp", "output directory")
	exportCmd.AddCommand(exportCoreNLPCmd)
	rootCmd.AddCommand(exportCmd)
}
