// internal/cli/run_entry.go
package senticv

import (
	"context"
	"fmt"
	"io"

	"github.com/mwiater/senticv/internal/accuracy"
	"github.com/mwiater/senticv/internal/appconfig"
	"github.com/mwiater/senticv/internal/classifier"
	"github.com/mwiater/senticv/internal/crossval"
	"github.com/mwiater/senticv/internal/folds"
	"github.com/mwiater/senticv/internal/logging"
	"github.com/mwiater/senticv/internal/metrics"
	"github.com/mwiater/senticv/internal/providerfactory"
	"github.com/mwiater/senticv/internal/sink"
)

// newSink is swapped in tests.
var newSink = buildSink

// buildSink writes to the output directory and, when configured, to S3.
func buildSink(ctx context.Context, cfg *appconfig.Config) (sink.Sink, error) {
	sinks := sink.Multi{sink.NewFilesystem(cfg.OutputDir())}
	if cfg.Output.S3.Enabled() {
		s3Sink, err := sink.NewS3(ctx, cfg.Output.S3)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s3Sink)
	}
	return sinks, nil
}

// runPipeline loads the dataset, cross-validates the configured backend, scores
// the folds and writes the report to out. Outputs of a previous run in the output
// directory are removed first. A cancelled run still reports the folds that finished.
func runPipeline(ctx context.Context, cfg *appconfig.Config, out io.Writer) error {
	ds, stats, err := loadDataset(cfg)
	if err != nil {
		return err
	}

	m := metrics.New()
	m.RecordDropped(stats.Dropped)
	if cfg.MetricsFile != "" {
		defer func() {
			if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
				logging.LogWarn("%v", err)
			}
		}()
	}

	backend, session, err := providerfactory.NewBackend(cfg, m)
	if err != nil {
		return err
	}
	defer backend.Close()

	// Reject the fold count before the previous run's outputs are cleared.
	if _, err := folds.BlockSizes(len(ds), cfg.FoldCount()); err != nil {
		return err
	}
	persist, err := newSink(ctx, cfg)
	if err != nil {
		return err
	}
	if err := sink.NewFilesystem(cfg.OutputDir()).Clear(); err != nil {
		return err
	}

	runner := crossval.NewRunner(classifier.New(backend, session), crossval.Options{
		Folds:       cfg.FoldCount(),
		Concurrency: cfg.FoldConcurrency(),
		FoldTimeout: cfg.FoldTimeout(),
		Writer:      persist,
		Metrics:     m,
	})
	report, runErr := runner.Run(ctx, ds)
	if runErr != nil && report.Folds == 0 {
		return runErr
	}

	summary, scoreErr := accuracy.Summarize(report, ds)
	summary.Backend = backend.Name()
	summary.Classifier = session.Name
	summary.Dropped = stats.Dropped
	for _, fs := range summary.PerFold {
		m.RecordScore(fs.Result.Hits, fs.Result.Evaluated, fs.Result.UnmatchedCount)
	}

	if err := persist.WriteSummary(context.WithoutCancel(ctx), summary); err != nil {
		logging.LogWarn("persist summary: %v", err)
		m.RecordSinkError()
	}
	if err := render(out, summary, cfg.JSONMode); err != nil {
		return err
	}

	switch {
	case runErr != nil:
		return fmt.Errorf("run interrupted after %d of %d folds: %w", len(report.Outputs), report.Folds, runErr)
	case len(report.Failures) > 0:
		return fmt.Errorf("%d of %d folds failed", len(report.Failures), report.Folds)
	default:
		return scoreErr
	}
}

func render(out io.Writer, summary accuracy.Summary, jsonMode bool) error {
	if jsonMode {
		return accuracy.RenderJSON(out, summary)
	}
	return accuracy.Render(out, summary)
}
