package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary. Credentials are masked.
func ShowConfig(out io.Writer, file string, cfg *Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	if cfg == nil {
		cfg = &Config{}
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Debug:            %v\n", cfg.Debug)
	fmt.Fprintf(out, "  JSON Mode:        %v\n", cfg.JSONMode)
	fmt.Fprintf(out, "  Dataset:          %s\n", cfg.Dataset.Path)
	fmt.Fprintf(out, "  Rating Column:    %d\n", cfg.Dataset.RatingColumnIndex())
	fmt.Fprintf(out, "  Text Column:      %d\n", cfg.Dataset.TextColumnIndex())
	fmt.Fprintf(out, "  Skip Header:      %v\n", cfg.Dataset.HeaderSkipped())
	fmt.Fprintf(out, "  Folds:            %d\n", cfg.FoldCount())
	fmt.Fprintf(out, "  Concurrency:      %d\n", cfg.FoldConcurrency())
	fmt.Fprintf(out, "  Fold Timeout:     %s\n", cfg.FoldTimeout())
	fmt.Fprintf(out, "  Classifier:       %s\n", cfg.Classifier.BackendType())
	fmt.Fprintf(out, "  Classifier URL:   %s\n", cfg.Classifier.URL)
	fmt.Fprintf(out, "  Classifier Name:  %s\n", cfg.Classifier.Name)
	fmt.Fprintf(out, "  Read Key:         %s\n", mask(cfg.Classifier.ReadKey))
	fmt.Fprintf(out, "  Write Key:        %s\n", mask(cfg.Classifier.WriteKey))
	fmt.Fprintf(out, "  Request Timeout:  %s\n", cfg.Classifier.RequestTimeout())
	fmt.Fprintf(out, "  Retries:          %d\n", cfg.Classifier.RetryAttempts())
	fmt.Fprintf(out, "  Output Dir:       %s\n", cfg.OutputDir())
	if cfg.Output.S3.Enabled() {
		fmt.Fprintf(out, "  S3 Bucket:        %s\n", cfg.Output.S3.Bucket)
		fmt.Fprintf(out, "  S3 Prefix:        %s\n", cfg.Output.S3.Prefix)
		fmt.Fprintf(out, "  S3 Region:        %s\n", cfg.Output.S3.Region)
	}
	fmt.Fprintf(out, "  Log File:         %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Metrics File:     %s\n", cfg.MetricsFile)
}

func mask(secret string) string {
	switch {
	case secret == "":
		return "(unset)"
	case len(secret) <= 4:
		return "****"
	default:
		return secret[:2] + "****" + secret[len(secret)-2:]
	}
}

// Redacted returns a copy of the configuration with credentials masked.
func (c Config) Redacted() Config {
	c.Classifier.ReadKey = mask(c.Classifier.ReadKey)
	c.Classifier.WriteKey = mask(c.Classifier.WriteKey)
	return c
}
