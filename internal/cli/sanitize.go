// internal/cli/sanitize.go
package senticv

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mwiater/senticv/internal/appconfig"
	"github.com/mwiater/senticv/internal/dataset"
	"github.com/mwiater/senticv/internal/util"
)

// sanitizeCmd implements 'sanitize', which writes the rows that survive the rating filter.
var sanitizeCmd = &cobra.Command{
	Use:   "sanitize",
	Short: "Write the sanitized rating,text records as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath, _ := cmd.Flags().GetString("out")
		return runSanitize(GetConfig(), outPath, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func runSanitize(cfg *appconfig.Config, outPath string, stdout, stderr io.Writer) error {
	ds, stats, err := loadDataset(cfg)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := dataset.WriteCSV(&buf, ds); err != nil {
		return err
	}
	if outPath == "" {
		_, err = stdout.Write(buf.Bytes())
	} else {
		err = util.WriteFile(outPath, buf.Bytes())
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(stderr, "%d rows read, %d kept, %d dropped\n", stats.Total, stats.Kept, stats.Dropped)
	return nil
}

func init() {
	sanitizeCmd.Flags().String("dataset", "", "labeled dataset (.csv, .tsv or .xlsx)")
	sanitizeCmd.Flags().String("out", "", "write CSV here instead of stdout")
	rootCmd.AddCommand(sanitizeCmd)
}
