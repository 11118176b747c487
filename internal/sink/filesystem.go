package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sort"

	"github.com/mwiater/senticv/internal/accuracy"
	"github.com/mwiater/senticv/internal/crossval"
	"github.com/mwiater/senticv/internal/logging"
	"github.com/mwiater/senticv/internal/util"
)

var foldFilePattern = regexp.MustCompile(`^fold-(\d+)\.json$`)

// Filesystem writes JSON documents under a directory.
type Filesystem struct {
	Dir string
}

// NewFilesystem returns a sink rooted at dir.
func NewFilesystem(dir string) *Filesystem {
	return &Filesystem{Dir: dir}
}

// Clear removes the fold outputs, summary and results left in the directory by an
// earlier run. Other files are kept. A missing directory is not an error.
func (f *Filesystem) Clear() error {
	entries, err := os.ReadDir(f.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !(foldFilePattern.MatchString(name) || name == SummaryFile || name == ResultsFile) {
			continue
		}
		if err := os.Remove(filepath.Join(f.Dir, name)); err != nil {
			return fmt.Errorf("clear %s: %w", name, err)
		}
	}
	logging.LogDebug("cleared previous run outputs in %s", f.Dir)
	return nil
}

// WriteFold writes fold-<i>.json.
func (f *Filesystem) WriteFold(_ context.Context, out crossval.FoldOutput) error {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(f.Dir, FoldFile(out.Fold))
	if err := util.WriteFile(path, data); err != nil {
		return fmt.Errorf("write fold %d: %w", out.Fold, err)
	}
	logging.LogDebug("wrote %s", path)
	return nil
}

// WriteSummary writes summary.json and the per-text results.jsonl.
func (f *Filesystem) WriteSummary(_ context.Context, summary accuracy.Summary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	if err := util.WriteFile(filepath.Join(f.Dir, SummaryFile), data); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	lines, err := encodeResults(summary)
	if err != nil {
		return err
	}
	if err := util.WriteFile(filepath.Join(f.Dir, ResultsFile), lines); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

type resultLine struct {
	Fold int `json:"fold"`
	accuracy.ScoredResult
}

func encodeResults(summary accuracy.Summary) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, fs := range summary.PerFold {
		for _, r := range fs.Result.Results {
			if err := enc.Encode(resultLine{Fold: fs.Fold, ScoredResult: r}); err != nil {
				return nil, fmt.Errorf("error writing results: %w", err)
			}
		}
	}
	return buf.Bytes(), nil
}

// LoadFolds reads every fold-<i>.json in dir, ordered by fold index. When dir also
// holds summary.json the fold set must be exactly the folds that summary scored,
// otherwise ErrFoldMismatch is returned.
func LoadFolds(dir string) ([]crossval.FoldOutput, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var outputs []crossval.FoldOutput
	for _, entry := range entries {
		if entry.IsDir() || !foldFilePattern.MatchString(entry.Name()) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		var out crossval.FoldOutput
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("decode %s: %w", entry.Name(), err)
		}
		outputs = append(outputs, out)
	}
	if len(outputs) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFolds, dir)
	}
	sort.Slice(outputs, func(i, j int) bool { return outputs[i].Fold < outputs[j].Fold })
	if err := checkAgainstSummary(dir, outputs); err != nil {
		return nil, err
	}
	return outputs, nil
}

func checkAgainstSummary(dir string, outputs []crossval.FoldOutput) error {
	data, err := os.ReadFile(filepath.Join(dir, SummaryFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	var summary accuracy.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return fmt.Errorf("decode %s: %w", SummaryFile, err)
	}

	want := make([]int, 0, len(summary.PerFold))
	for _, score := range summary.PerFold {
		want = append(want, score.Fold)
	}
	slices.Sort(want)
	have := make([]int, 0, len(outputs))
	for _, out := range outputs {
		have = append(have, out.Fold)
	}
	if !slices.Equal(have, want) {
		return fmt.Errorf("%w in %s: found folds %v, summary of %d-fold run scored %v",
			ErrFoldMismatch, dir, have, summary.Folds, want)
	}
	return nil
}
