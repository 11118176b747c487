// Package bayes provides an in-process naive Bayes classifier backend. It needs
// no network access, which makes it the reference backend for offline runs.
package bayes

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"unicode"

	"github.com/jbrukh/bayesian"

	"github.com/mwiater/senticv/internal/logging"
	"github.com/mwiater/senticv/internal/providers"
)

// ErrUntrained is returned when Classify is called before any example was learned.
var ErrUntrained = errors.New("bayes: classifier has no training examples")

var classes = []bayesian.Class{
	bayesian.Class(providers.LabelNeg),
	bayesian.Class(providers.LabelNeutral),
	bayesian.Class(providers.LabelPos),
}

// Backend creates independent naive Bayes classifiers.
type Backend struct{}

// New constructs a Backend.
func New() *Backend {
	return &Backend{}
}

// Name identifies the backend.
func (b *Backend) Name() string { return "bayes" }

// Open creates a fresh classifier over neg, neutral and pos.
func (b *Backend) Open(ctx context.Context, classifierName string) (providers.Instance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logging.LogDebug("bayes: created classifier %s", classifierName)
	return &Instance{
		name:       classifierName,
		classifier: bayesian.NewClassifier(classes...),
	}, nil
}

// Close is a no-op; instances hold no external resources.
func (b *Backend) Close() error { return nil }

// Instance is one naive Bayes model.
type Instance struct {
	name string

	mu         sync.Mutex
	classifier *bayesian.Classifier
	learned    int
}

// Name returns the classifier name.
func (i *Instance) Name() string { return i.name }

// Train learns each example as a bag of lower-cased tokens.
func (i *Instance) Train(ctx context.Context, label providers.Label, examples []string) error {
	if _, ok := label.Rating(); !ok {
		return providers.Malformed("unknown class %q", label)
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	for _, text := range examples {
		if err := ctx.Err(); err != nil {
			return err
		}
		i.classifier.Learn(Tokenize(text), bayesian.Class(label))
		i.learned++
	}
	return nil
}

// Classify scores each text with per-class log likelihoods.
func (i *Instance) Classify(ctx context.Context, texts []string) ([]providers.ClassOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.learned == 0 {
		return nil, ErrUntrained
	}

	out := make([]providers.ClassOutput, 0, len(texts))
	for _, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw, _, _ := i.classifier.LogScores(Tokenize(text))
		if len(raw) != len(classes) {
			return nil, providers.Malformed("bayes returned %d scores for %d classes", len(raw), len(classes))
		}
		var scores providers.Scores
		for idx, class := range classes {
			scores.Set(providers.Label(class), finite(raw[idx]))
		}
		out = append(out, providers.NewClassOutput(text, scores))
	}
	return out, nil
}

// Release drops the model.
func (i *Instance) Release(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.classifier = bayesian.NewClassifier(classes...)
	i.learned = 0
	return nil
}

// Tokenize lower-cases text and splits it on anything that is not a letter or digit.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
}

// finite keeps scores JSON-encodable: a class with no examples has log prior -Inf.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, -1) {
		return -math.MaxFloat64
	}
	if math.IsInf(v, 1) {
		return math.MaxFloat64
	}
	return v
}
