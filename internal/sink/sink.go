// Package sink persists fold outputs and run summaries. Persistence is a side
// effect of a run: callers log sink errors rather than failing on them.
package sink

import (
	"context"
	"errors"
	"fmt"

	"github.com/mwiater/senticv/internal/accuracy"
	"github.com/mwiater/senticv/internal/crossval"
)

// Sink receives each completed fold and the final summary.
type Sink interface {
	WriteFold(ctx context.Context, out crossval.FoldOutput) error
	WriteSummary(ctx context.Context, summary accuracy.Summary) error
}

// FoldFile is the object name of a fold output.
func FoldFile(fold int) string {
	return fmt.Sprintf("fold-%d.json", fold)
}

const (
	// SummaryFile is the object name of the run summary.
	SummaryFile = "summary.json"
	// ResultsFile holds one scored result per line.
	ResultsFile = "results.jsonl"
)

// Nop discards everything.
type Nop struct{}

func (Nop) WriteFold(context.Context, crossval.FoldOutput) error { return nil }
func (Nop) WriteSummary(context.Context, accuracy.Summary) error { return nil }

// Multi fans writes out to several sinks. Every sink is attempted; the first error
// is returned.
type Multi []Sink

// WriteFold writes out to every sink.
func (m Multi) WriteFold(ctx context.Context, out crossval.FoldOutput) error {
	var first error
	for _, s := range m {
		if err := s.WriteFold(ctx, out); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// WriteSummary writes summary to every sink.
func (m Multi) WriteSummary(ctx context.Context, summary accuracy.Summary) error {
	var first error
	for _, s := range m {
		if err := s.WriteSummary(ctx, summary); err != nil && first == nil {
			first = err
		}
	}
	return first
}

var (
	// ErrNoFolds is returned by LoadFolds when a directory holds no fold outputs.
	ErrNoFolds = errors.New("no fold outputs found")
	// ErrFoldMismatch is returned by LoadFolds when the fold files on disk are not
	// the ones the directory's summary was computed from.
	ErrFoldMismatch = errors.New("fold outputs do not match run summary")
)
