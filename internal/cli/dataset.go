// internal/cli/dataset.go
package senticv

import (
	"fmt"
	"strings"

	"github.com/mwiater/senticv/internal/appconfig"
	"github.com/mwiater/senticv/internal/dataset"
)

func loadOptions(cfg *appconfig.Config) dataset.LoadOptions {
	return dataset.LoadOptions{SkipHeader: cfg.Dataset.HeaderSkipped(), Sheet: cfg.Dataset.Sheet}
}

func columns(cfg *appconfig.Config) dataset.Columns {
	return dataset.Columns{Rating: cfg.Dataset.RatingColumnIndex(), Text: cfg.Dataset.TextColumnIndex()}
}

// loadDataset reads and sanitizes the configured dataset.
func loadDataset(cfg *appconfig.Config) (dataset.Dataset, dataset.SanitizeStats, error) {
	path := strings.TrimSpace(cfg.Dataset.Path)
	if path == "" {
		return nil, dataset.SanitizeStats{}, fmt.Errorf("no dataset configured: pass --dataset or set dataset.path")
	}
	return dataset.LoadRecords(path, loadOptions(cfg), columns(cfg))
}
