// Package crossval runs k-fold cross-validation of a classifier backend over a
// sanitized dataset. Folds are independent: each owns its classifier instance,
// its timeout and its failure.
package crossval

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mwiater/senticv/internal/classifier"
	"github.com/mwiater/senticv/internal/dataset"
	"github.com/mwiater/senticv/internal/folds"
	"github.com/mwiater/senticv/internal/logging"
	"github.com/mwiater/senticv/internal/metrics"
	"github.com/mwiater/senticv/internal/providers"
)

// FoldOutput is the persisted triple of one fold. TestTexts, GroundTruth and
// Outputs are aligned by position.
type FoldOutput struct {
	Fold        int                     `json:"fold"`
	TestTexts   []string                `json:"testTexts"`
	GroundTruth []int                   `json:"groundTruth"`
	Outputs     []providers.ClassOutput `json:"outputs"`
}

// FoldFailure reports a fold aborted by a classifier error.
type FoldFailure struct {
	Fold  int
	Cause error
}

func (f *FoldFailure) Error() string {
	return fmt.Sprintf("fold %d failed: %v", f.Fold, f.Cause)
}

func (f *FoldFailure) Unwrap() error { return f.Cause }

// FoldWriter persists fold outputs as they complete.
type FoldWriter interface {
	WriteFold(ctx context.Context, out FoldOutput) error
}

// Options tunes a Runner. Zero values select the defaults.
type Options struct {
	Folds       int
	Concurrency int
	FoldTimeout time.Duration
	Writer      FoldWriter
	Metrics     *metrics.Metrics
}

const (
	defaultFolds       = 3
	defaultFoldTimeout = 30 * time.Minute
)

// Report holds the outcome of every fold, ordered by fold index.
type Report struct {
	Folds    int
	Outputs  []FoldOutput
	Failures []*FoldFailure
}

// Runner orchestrates the train and classify cycle per fold.
type Runner struct {
	adapter *classifier.Adapter
	opts    Options
}

// NewRunner returns a runner driving adapter.
func NewRunner(adapter *classifier.Adapter, opts Options) *Runner {
	if opts.Folds == 0 {
		opts.Folds = defaultFolds
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.FoldTimeout <= 0 {
		opts.FoldTimeout = defaultFoldTimeout
	}
	return &Runner{adapter: adapter, opts: opts}
}

// Run partitions ds and processes every fold. An invalid fold count is returned
// as an error before any classifier is touched; fold failures are collected in
// the report instead. The error is also set when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, ds dataset.Dataset) (Report, error) {
	plan, err := folds.Partition(len(ds), r.opts.Folds)
	if err != nil {
		return Report{}, err
	}
	logging.LogEvent("Running %d-fold cross-validation over %d records (concurrency %d)", len(plan), len(ds), r.opts.Concurrency)

	outputs := make([]*FoldOutput, len(plan))
	failures := make([]*FoldFailure, len(plan))

	var g errgroup.Group
	g.SetLimit(r.opts.Concurrency)
	for i, fold := range plan {
		g.Go(func() error {
			out, err := r.RunFold(ctx, ds, fold)
			if err != nil {
				logging.LogWarn("fold %d failed: %v", fold.Index, err)
				r.opts.Metrics.RecordFoldFailure()
				failures[i] = &FoldFailure{Fold: fold.Index, Cause: err}
				return nil
			}
			outputs[i] = &out
			r.persist(ctx, out)
			return nil
		})
	}
	_ = g.Wait()

	report := Report{Folds: len(plan)}
	for i := range plan {
		if outputs[i] != nil {
			report.Outputs = append(report.Outputs, *outputs[i])
		}
		if failures[i] != nil {
			report.Failures = append(report.Failures, failures[i])
		}
	}
	return report, ctx.Err()
}

// RunFold trains a fresh classifier on the fold's training records and classifies
// its test texts. The classifier is released before returning.
func (r *Runner) RunFold(ctx context.Context, ds dataset.Dataset, fold folds.Fold) (FoldOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.FoldTimeout)
	defer cancel()

	fc, err := r.adapter.Open(ctx, fold.Index)
	if err != nil {
		return FoldOutput{}, err
	}
	defer func() {
		if err := fc.Release(context.WithoutCancel(ctx)); err != nil {
			logging.LogWarn("fold %d: release %s: %v", fold.Index, fc.Name(), err)
		}
	}()

	examples := classifier.GroupByLabel(ds, fold.TrainIndices)
	if err := fc.Train(ctx, examples); err != nil {
		return FoldOutput{}, err
	}

	texts := ds.Texts(fold.TestIndices)
	truth := ds.Ratings(fold.TestIndices)
	outputs, err := fc.Classify(ctx, texts)
	if err != nil {
		return FoldOutput{}, err
	}
	logging.LogEvent("fold %d: trained on %d records, classified %d", fold.Index, len(fold.TrainIndices), len(outputs))

	return FoldOutput{Fold: fold.Index, TestTexts: texts, GroundTruth: truth, Outputs: outputs}, nil
}

func (r *Runner) persist(ctx context.Context, out FoldOutput) {
	if r.opts.Writer == nil {
		return
	}
	if err := r.opts.Writer.WriteFold(ctx, out); err != nil {
		logging.LogWarn("fold %d: persist output: %v", out.Fold, err)
		r.opts.Metrics.RecordSinkError()
	}
}
