// internal/accuracy/types.go
package accuracy

import "github.com/mwiater/senticv/internal/metrics"

// ScoredResult records one classifier output reconciled against the dataset.
// GroundTruthRating is nil when no record carries the output's text.
type ScoredResult struct {
	Text              string `json:"text"`
	PredictedRating   int    `json:"predictedRating"`
	GroundTruthRating *int   `json:"groundTruthRating,omitempty"`
	Matched           bool   `json:"matched"`
	Hit               bool   `json:"hit"`
}

// Result is the accuracy of one set of outputs.
type Result struct {
	HitRate        float64         `json:"hitRate"`
	Hits           int             `json:"hits"`
	Evaluated      int             `json:"evaluated"`
	Unmatched      []string        `json:"unmatched,omitempty"`
	UnmatchedCount int             `json:"unmatchedCount"`
	Confusion      ConfusionMatrix `json:"confusion"`
	Results        []ScoredResult  `json:"results,omitempty"`
}

// FoldScore is the accuracy of a single fold.
type FoldScore struct {
	Fold   int    `json:"fold"`
	Result Result `json:"result"`
	// Err is set when the fold had nothing to evaluate.
	Err string `json:"error,omitempty"`
}

// FailedFold names a fold that produced no output.
type FailedFold struct {
	Fold  int    `json:"fold"`
	Error string `json:"error"`
}

// Summary is the run-level report persisted next to the fold outputs.
type Summary struct {
	Timestamp  string              `json:"timestamp"`
	Backend    string              `json:"backend,omitempty"`
	Classifier string              `json:"classifier,omitempty"`
	Records    int                 `json:"records"`
	Dropped    int                 `json:"dropped"`
	Folds      int                 `json:"folds"`
	Aggregate  Result              `json:"aggregate"`
	PerFold    []FoldScore         `json:"perFold"`
	FoldStats  metrics.RunningStat `json:"foldHitRateStats"`
	StdDev     float64             `json:"foldHitRateStdDev"`
	Failures   []FailedFold        `json:"failures,omitempty"`
}
