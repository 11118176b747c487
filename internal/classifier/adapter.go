// Package classifier adapts a providers.Backend to the per-fold train/classify
// cycle. It is the only code that crosses into the external classifier, and every
// failure leaving it is a *providers.ClassifierError.
package classifier

import (
	"context"
	"errors"

	"github.com/mwiater/senticv/internal/dataset"
	"github.com/mwiater/senticv/internal/logging"
	"github.com/mwiater/senticv/internal/providers"
)

// Examples holds training texts grouped by class.
type Examples map[providers.Label][]string

// GroupByLabel collects the texts at indices by the class of their rating. Every
// class is present in the result, possibly with an empty slice.
func GroupByLabel(ds dataset.Dataset, indices []int) Examples {
	ex := make(Examples, len(providers.Labels))
	for _, label := range providers.Labels {
		ex[label] = []string{}
	}
	for _, idx := range indices {
		rec := ds[idx]
		label, ok := providers.LabelForRating(rec.Rating)
		if !ok {
			continue
		}
		ex[label] = append(ex[label], rec.Text)
	}
	return ex
}

// Adapter provisions one classifier per fold on a backend.
type Adapter struct {
	backend providers.Backend
	session providers.Session
}

// New returns an adapter over backend using the session's identity.
func New(backend providers.Backend, session providers.Session) *Adapter {
	return &Adapter{backend: backend, session: session}
}

// Open creates the isolated classifier for a fold.
func (a *Adapter) Open(ctx context.Context, fold int) (*FoldClassifier, error) {
	name := a.session.FoldName(fold)
	inst, err := a.backend.Open(ctx, name)
	if err != nil {
		return nil, wrap(err, a.backend.Name(), name, "open", "")
	}
	return &FoldClassifier{inst: inst, backend: a.backend.Name()}, nil
}

// FoldClassifier is the classifier owned by one fold.
type FoldClassifier struct {
	inst    providers.Instance
	backend string
}

// Name returns the classifier name on the backend.
func (f *FoldClassifier) Name() string { return f.inst.Name() }

// Train calls the backend once per class in neg, neutral, pos order, including
// classes without examples.
func (f *FoldClassifier) Train(ctx context.Context, ex Examples) error {
	for _, label := range providers.Labels {
		texts := ex[label]
		if texts == nil {
			texts = []string{}
		}
		logging.LogDebug("training %s on %d %s examples", f.Name(), len(texts), label)
		if err := f.inst.Train(ctx, label, texts); err != nil {
			return wrap(err, f.backend, f.Name(), "train", label)
		}
	}
	return nil
}

// Classify sends the texts in a single call and checks that one output came back
// per text.
func (f *FoldClassifier) Classify(ctx context.Context, texts []string) ([]providers.ClassOutput, error) {
	out, err := f.inst.Classify(ctx, texts)
	if err != nil {
		return nil, wrap(err, f.backend, f.Name(), "classify", "")
	}
	if len(out) != len(texts) {
		return nil, wrap(providers.Malformed("sent %d texts, received %d outputs", len(texts), len(out)),
			f.backend, f.Name(), "classify", "")
	}
	for i := range out {
		if out[i].Text == "" {
			out[i].Text = texts[i]
		}
	}
	return out, nil
}

// Release tears down the fold's classifier.
func (f *FoldClassifier) Release(ctx context.Context) error {
	if err := f.inst.Release(ctx); err != nil {
		return wrap(err, f.backend, f.Name(), "release", "")
	}
	return nil
}

func wrap(err error, backend, name, op string, label providers.Label) error {
	var ce *providers.ClassifierError
	if errors.As(err, &ce) {
		return err
	}
	return &providers.ClassifierError{Backend: backend, Classifier: name, Op: op, Label: label, Err: err}
}
