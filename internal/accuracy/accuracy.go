// internal/accuracy/accuracy.go

// Package accuracy reconciles classifier outputs with the ground-truth dataset and
// reports hit rates per fold and across folds.
package accuracy

import (
	"errors"
	"fmt"
	"time"

	"github.com/mwiater/senticv/internal/crossval"
	"github.com/mwiater/senticv/internal/dataset"
	"github.com/mwiater/senticv/internal/providers"
)

// ErrEmptyEvaluationSet is returned when no output could be matched to a record.
var ErrEmptyEvaluationSet = errors.New("empty evaluation set")

// Index maps each distinct text to the rating of its first record in dataset order.
type Index map[string]int

// NewIndex builds the text lookup for ds.
func NewIndex(ds dataset.Dataset) Index {
	idx := make(Index, len(ds))
	for _, rec := range ds {
		if _, dup := idx[rec.Text]; dup {
			continue
		}
		idx[rec.Text] = rec.Rating
	}
	return idx
}

// Score computes the hit rate of outputs against ds.
func Score(outputs []providers.ClassOutput, ds dataset.Dataset) (Result, error) {
	return NewIndex(ds).Score(outputs)
}

// Score matches every output by exact text. The predicted rating comes from the
// argmax of the output's scores, not from its reported label. Outputs without a
// matching record are listed as unmatched and left out of the hit rate.
func (idx Index) Score(outputs []providers.ClassOutput) (Result, error) {
	res := Result{Results: make([]ScoredResult, 0, len(outputs))}
	for _, out := range outputs {
		predicted, _ := out.Scores.Argmax().Rating()
		sr := ScoredResult{Text: out.Text, PredictedRating: predicted}

		truth, ok := idx[out.Text]
		if !ok {
			res.Unmatched = append(res.Unmatched, out.Text)
			res.UnmatchedCount++
			res.Results = append(res.Results, sr)
			continue
		}

		sr.GroundTruthRating = &truth
		sr.Matched = true
		sr.Hit = predicted == truth
		res.Evaluated++
		if sr.Hit {
			res.Hits++
		}
		res.Confusion.Add(truth, predicted)
		res.Results = append(res.Results, sr)
	}

	if res.Evaluated == 0 {
		return res, fmt.Errorf("%w: %d outputs, %d unmatched", ErrEmptyEvaluationSet, len(outputs), res.UnmatchedCount)
	}
	res.HitRate = float64(res.Hits) / float64(res.Evaluated)
	return res, nil
}

// ScoreFolds scores each fold on its own and all outputs pooled together. Folds
// with nothing to evaluate are reported in their FoldScore and skipped by the
// running statistics. The error is ErrEmptyEvaluationSet when the pooled set is empty.
func ScoreFolds(outputs []crossval.FoldOutput, ds dataset.Dataset) (Summary, error) {
	idx := NewIndex(ds)
	summary := Summary{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Records:   len(ds),
		Folds:     len(outputs),
		PerFold:   make([]FoldScore, 0, len(outputs)),
	}

	var pooled []providers.ClassOutput
	for _, fo := range outputs {
		res, err := idx.Score(fo.Outputs)
		fs := FoldScore{Fold: fo.Fold, Result: res}
		if err != nil {
			fs.Err = err.Error()
		} else {
			summary.FoldStats.Update(res.HitRate)
		}
		summary.PerFold = append(summary.PerFold, fs)
		pooled = append(pooled, fo.Outputs...)
	}
	summary.StdDev = summary.FoldStats.StdDev()

	agg, err := idx.Score(pooled)
	// Per-fold results already carry every scored text.
	agg.Results = nil
	summary.Aggregate = agg
	return summary, err
}

// Summarize scores a cross-validation report and records its failed folds.
func Summarize(report crossval.Report, ds dataset.Dataset) (Summary, error) {
	summary, err := ScoreFolds(report.Outputs, ds)
	summary.Folds = report.Folds
	for _, f := range report.Failures {
		summary.Failures = append(summary.Failures, FailedFold{Fold: f.Fold, Error: f.Cause.Error()})
	}
	return summary, err
}
