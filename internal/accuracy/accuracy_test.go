package accuracy

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwiater/senticv/internal/crossval"
	"github.com/mwiater/senticv/internal/dataset"
	"github.com/mwiater/senticv/internal/providers"
)

var truth = dataset.Dataset{
	{Rating: -1, Text: "bad"},
	{Rating: 0, Text: "meh"},
	{Rating: 1, Text: "great"},
}

func out(text string, neg, neutral, pos float64) providers.ClassOutput {
	return providers.NewClassOutput(text, providers.Scores{Neg: neg, Neutral: neutral, Pos: pos})
}

func TestScorePerfectAndZero(t *testing.T) {
	res, err := Score([]providers.ClassOutput{
		out("bad", 0.9, 0.05, 0.05),
		out("meh", 0.1, 0.8, 0.1),
		out("great", 0.1, 0.1, 0.8),
	}, truth)
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.HitRate)
	assert.Equal(t, 3, res.Hits)
	assert.Equal(t, 3, res.Evaluated)

	res, err = Score([]providers.ClassOutput{
		out("bad", 0, 0, 1),
		out("meh", 1, 0, 0),
		out("great", 0, 1, 0),
	}, truth)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.HitRate)
	assert.Equal(t, 1, res.Confusion.Count(-1, 1))
	assert.Equal(t, 1, res.Confusion.Count(0, -1))
	assert.Equal(t, 1, res.Confusion.Count(1, 0))
}

func TestScoreUsesArgmaxWithNegTieBreak(t *testing.T) {
	// The reported label disagrees with the scores; the scores win.
	o := providers.ClassOutput{Text: "bad", Label: providers.LabelPos, Scores: providers.Scores{Neg: 0.5, Neutral: 0.5, Pos: 0.5}}
	res, err := Score([]providers.ClassOutput{o}, truth)
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, -1, res.Results[0].PredictedRating)
	assert.True(t, res.Results[0].Hit)

	res, err = Score([]providers.ClassOutput{out("meh", 0.2, 0.4, 0.4)}, truth)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Results[0].PredictedRating, "neutral beats pos on a tie")
}

func TestScoreUnmatchedExcludedFromDenominator(t *testing.T) {
	res, err := Score([]providers.ClassOutput{
		out("bad", 1, 0, 0),
		out("meh", 1, 0, 0),
		out("not in dataset", 1, 0, 0),
	}, truth)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Evaluated)
	assert.Equal(t, 1, res.Hits)
	assert.Equal(t, 0.5, res.HitRate)
	assert.Equal(t, 1, res.UnmatchedCount)
	assert.Equal(t, []string{"not in dataset"}, res.Unmatched)

	unmatched := res.Results[2]
	assert.False(t, unmatched.Matched)
	assert.Nil(t, unmatched.GroundTruthRating)
	require.NotNil(t, res.Results[0].GroundTruthRating)
	assert.Equal(t, -1, *res.Results[0].GroundTruthRating)
}

func TestScoreEmptyEvaluationSet(t *testing.T) {
	_, err := Score(nil, truth)
	assert.ErrorIs(t, err, ErrEmptyEvaluationSet)

	res, err := Score([]providers.ClassOutput{out("unknown", 1, 0, 0)}, truth)
	assert.True(t, errors.Is(err, ErrEmptyEvaluationSet))
	assert.Equal(t, 1, res.UnmatchedCount)
	assert.False(t, math.IsNaN(res.HitRate))
}

func TestScoreDuplicateTextsUseFirstRecord(t *testing.T) {
	ds := dataset.Dataset{
		{Rating: 1, Text: "fine"},
		{Rating: -1, Text: "fine"},
	}
	res, err := Score([]providers.ClassOutput{out("fine", 0, 0, 1)}, ds)
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.HitRate)
}

func TestScoreTextMatchIsExact(t *testing.T) {
	res, err := Score([]providers.ClassOutput{out("bad ", 1, 0, 0), out("Bad", 1, 0, 0), out("bad", 1, 0, 0)}, truth)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Evaluated)
	assert.Equal(t, 2, res.UnmatchedCount)
}

func TestScoreFoldsPerFoldAndPooled(t *testing.T) {
	outputs := []crossval.FoldOutput{
		{Fold: 0, TestTexts: []string{"bad"}, GroundTruth: []int{-1}, Outputs: []providers.ClassOutput{out("bad", 1, 0, 0)}},
		{Fold: 1, TestTexts: []string{"meh"}, GroundTruth: []int{0}, Outputs: []providers.ClassOutput{out("meh", 1, 0, 0)}},
		{Fold: 2, TestTexts: []string{"great"}, GroundTruth: []int{1}, Outputs: []providers.ClassOutput{out("great", 0, 0, 1)}},
		{Fold: 3, Outputs: []providers.ClassOutput{out("ghost", 0, 0, 1)}},
	}
	summary, err := ScoreFolds(outputs, truth)
	require.NoError(t, err)

	require.Len(t, summary.PerFold, 4)
	assert.Equal(t, 1.0, summary.PerFold[0].Result.HitRate)
	assert.Equal(t, 0.0, summary.PerFold[1].Result.HitRate)
	assert.Contains(t, summary.PerFold[3].Err, "empty evaluation set")

	assert.Equal(t, 3, summary.Aggregate.Evaluated)
	assert.Equal(t, 2, summary.Aggregate.Hits)
	assert.InDelta(t, 2.0/3.0, summary.Aggregate.HitRate, 1e-9)
	assert.Equal(t, 1, summary.Aggregate.UnmatchedCount)
	assert.Nil(t, summary.Aggregate.Results)

	assert.Equal(t, int64(3), summary.FoldStats.Count)
	assert.InDelta(t, 2.0/3.0, summary.FoldStats.Mean, 1e-9)
	assert.InDelta(t, math.Sqrt(1.0/3.0), summary.StdDev, 1e-9)
}

func TestSummarizeRecordsFailures(t *testing.T) {
	report := crossval.Report{
		Folds:   2,
		Outputs: []crossval.FoldOutput{{Fold: 0, Outputs: []providers.ClassOutput{out("great", 0, 0, 1)}}},
		Failures: []*crossval.FoldFailure{
			{Fold: 1, Cause: &providers.ClassifierError{Op: "classify", Err: errors.New("timeout")}},
		},
	}
	summary, err := Summarize(report, truth)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Folds)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, 1, summary.Failures[0].Fold)
	assert.Contains(t, summary.Failures[0].Error, "timeout")

	_, err = Summarize(crossval.Report{Folds: 3}, truth)
	assert.ErrorIs(t, err, ErrEmptyEvaluationSet)
}

func TestRender(t *testing.T) {
	summary, err := ScoreFolds([]crossval.FoldOutput{
		{Fold: 0, Outputs: []providers.ClassOutput{out("bad", 1, 0, 0), out("meh", 1, 0, 0)}},
	}, truth)
	require.NoError(t, err)
	summary.Backend = "bayes"
	summary.Classifier = "demo"
	summary.Failures = []FailedFold{{Fold: 1, Error: "boom"}}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, summary))
	text := buf.String()
	assert.Contains(t, text, "bayes (demo)")
	assert.Contains(t, text, "50.00%")
	assert.Contains(t, text, "1/2")
	assert.Contains(t, text, "fold 1 failed: boom")

	buf.Reset()
	require.NoError(t, RenderJSON(&buf, summary))
	var decoded Summary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 0.5, decoded.Aggregate.HitRate)
}

func TestRenderClipsUnmatchedTextsAndFailures(t *testing.T) {
	summary, err := ScoreFolds([]crossval.FoldOutput{
		{Fold: 0, Outputs: []providers.ClassOutput{out("bad", 1, 0, 0), out("not\nin the\tdataset", 1, 0, 0)}},
	}, truth)
	require.NoError(t, err)
	summary.Failures = []FailedFold{{Fold: 1, Error: strings.Repeat("x", 100) + "\nstack"}}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, summary))
	text := buf.String()
	assert.Contains(t, text, "unmatched outputs:")
	assert.Contains(t, text, `"not in the dataset"`)
	assert.Contains(t, text, "fold 1 failed: "+strings.Repeat("x", 72)+"…")
	assert.NotContains(t, text, "stack")
}
