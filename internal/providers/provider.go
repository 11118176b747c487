// internal/providers/provider.go

// Package providers defines the contract between the cross-validation pipeline and
// the sentiment classifier backends. A Backend provisions isolated classifier
// Instances; an Instance is trained per class and then classifies a batch of texts.
package providers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/mwiater/senticv/internal/util"
)

// Label is a sentiment class understood by every backend.
type Label string

const (
	LabelNeg     Label = "neg"
	LabelNeutral Label = "neutral"
	LabelPos     Label = "pos"
)

// Labels lists the classes in evaluation order. Training and argmax both walk this order.
var Labels = []Label{LabelNeg, LabelNeutral, LabelPos}

// LabelForRating maps a dataset rating to its class.
func LabelForRating(rating int) (Label, bool) {
	switch rating {
	case -1:
		return LabelNeg, true
	case 0:
		return LabelNeutral, true
	case 1:
		return LabelPos, true
	default:
		return "", false
	}
}

// Rating maps a class back to a dataset rating.
func (l Label) Rating() (int, bool) {
	switch l {
	case LabelNeg:
		return -1, true
	case LabelNeutral:
		return 0, true
	case LabelPos:
		return 1, true
	default:
		return 0, false
	}
}

// ParseLabel normalizes a backend class name.
func ParseLabel(s string) (Label, bool) {
	l := Label(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := l.Rating(); !ok {
		return "", false
	}
	return l, true
}

// Scores holds one comparable score per class. They need not sum to one.
type Scores struct {
	Neg     float64 `json:"neg"`
	Neutral float64 `json:"neutral"`
	Pos     float64 `json:"pos"`
}

// Get returns the score for a class.
func (s Scores) Get(l Label) float64 {
	switch l {
	case LabelNeg:
		return s.Neg
	case LabelNeutral:
		return s.Neutral
	case LabelPos:
		return s.Pos
	default:
		return math.NaN()
	}
}

// Set assigns the score for a class. Unknown classes are ignored.
func (s *Scores) Set(l Label, v float64) {
	switch l {
	case LabelNeg:
		s.Neg = v
	case LabelNeutral:
		s.Neutral = v
	case LabelPos:
		s.Pos = v
	}
}

// Argmax returns the highest-scoring class. Ties resolve to the first class in
// Labels order, so equal scores always yield neg. NaN never wins.
func (s Scores) Argmax() Label {
	best := Labels[0]
	bestScore := math.Inf(-1)
	found := false
	for _, l := range Labels {
		v := s.Get(l)
		if math.IsNaN(v) {
			continue
		}
		if !found || v > bestScore {
			best, bestScore, found = l, v, true
		}
	}
	return best
}

// ClassOutput is the classifier's verdict for one text.
type ClassOutput struct {
	Text   string `json:"text"`
	Label  Label  `json:"label"`
	Scores Scores `json:"scores"`
}

// NewClassOutput builds an output whose label is the argmax of its scores.
func NewClassOutput(text string, scores Scores) ClassOutput {
	return ClassOutput{Text: text, Label: scores.Argmax(), Scores: scores}
}

// Session carries the caller-supplied classifier identity and credentials.
type Session struct {
	Name     string
	ReadKey  string
	WriteKey string
}

// NewSession returns a session. The name is slugified so it can appear in
// backend URLs; a unique name is generated when none is left.
func NewSession(name, readKey, writeKey string) Session {
	name = util.Slugify(name)
	if name == "" {
		name = "senticv-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	}
	return Session{Name: name, ReadKey: readKey, WriteKey: writeKey}
}

// FoldName is the name of the isolated classifier used by one fold.
func (s Session) FoldName(fold int) string {
	return fmt.Sprintf("%s-fold%d", s.Name, fold)
}

// Capability is the train/classify surface of one classifier instance.
type Capability interface {
	// Train adds examples for one class.
	Train(ctx context.Context, label Label, examples []string) error
	// Classify returns one output per text, in input order.
	Classify(ctx context.Context, texts []string) ([]ClassOutput, error)
}

// Instance is a provisioned classifier owned by a single fold.
type Instance interface {
	Capability
	// Name returns the classifier name on the backend.
	Name() string
	// Release tears the classifier down on the backend.
	Release(ctx context.Context) error
}

// Backend is the interface that all classifier backends must implement.
type Backend interface {
	// Name identifies the backend in logs and errors.
	Name() string
	// Open provisions an empty classifier with the three sentiment classes.
	Open(ctx context.Context, classifierName string) (Instance, error)
	// Close cleans up any resources used by the backend.
	Close() error
}

// ErrMalformedResponse marks backend responses that could not be interpreted.
var ErrMalformedResponse = errors.New("malformed classifier response")

// ClassifierError is any failure reported across the classifier boundary.
type ClassifierError struct {
	Backend    string
	Classifier string
	Op         string
	Label      Label
	Err        error
}

func (e *ClassifierError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "classifier %s", e.Op)
	if e.Label != "" {
		fmt.Fprintf(&b, " [%s]", e.Label)
	}
	if e.Backend != "" || e.Classifier != "" {
		fmt.Fprintf(&b, " (%s/%s)", e.Backend, e.Classifier)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ClassifierError) Unwrap() error { return e.Err }

// Malformed wraps a description of a bad response with ErrMalformedResponse.
func Malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, fmt.Sprintf(format, args...))
}
