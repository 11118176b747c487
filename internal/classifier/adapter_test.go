package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwiater/senticv/internal/dataset"
	"github.com/mwiater/senticv/internal/providers"
)

type trainCall struct {
	label    providers.Label
	examples []string
}

type fakeInstance struct {
	name        string
	trained     []trainCall
	classified  [][]string
	released    bool
	trainErr    map[providers.Label]error
	classifyErr error
	drop        int
}

func (f *fakeInstance) Name() string { return f.name }

func (f *fakeInstance) Train(_ context.Context, label providers.Label, examples []string) error {
	f.trained = append(f.trained, trainCall{label: label, examples: examples})
	return f.trainErr[label]
}

func (f *fakeInstance) Classify(_ context.Context, texts []string) ([]providers.ClassOutput, error) {
	f.classified = append(f.classified, texts)
	if f.classifyErr != nil {
		return nil, f.classifyErr
	}
	out := make([]providers.ClassOutput, 0, len(texts))
	for _, text := range texts[:len(texts)-f.drop] {
		out = append(out, providers.ClassOutput{Scores: providers.Scores{Neutral: 1}, Label: providers.LabelNeutral, Text: text})
	}
	return out, nil
}

func (f *fakeInstance) Release(context.Context) error {
	f.released = true
	return nil
}

type fakeBackend struct {
	opened  []string
	inst    *fakeInstance
	openErr error
}

func (b *fakeBackend) Name() string { return "fake" }
func (b *fakeBackend) Close() error { return nil }
func (b *fakeBackend) Open(_ context.Context, name string) (providers.Instance, error) {
	b.opened = append(b.opened, name)
	if b.openErr != nil {
		return nil, b.openErr
	}
	b.inst.name = name
	return b.inst, nil
}

var sample = dataset.Dataset{
	{Rating: -1, Text: "bad"},
	{Rating: 0, Text: "meh"},
	{Rating: 1, Text: "great"},
	{Rating: 1, Text: "superb"},
}

func TestGroupByLabel(t *testing.T) {
	ex := GroupByLabel(sample, []int{0, 2, 3})
	assert.Equal(t, []string{"bad"}, ex[providers.LabelNeg])
	assert.Equal(t, []string{}, ex[providers.LabelNeutral])
	assert.Equal(t, []string{"great", "superb"}, ex[providers.LabelPos])
}

func TestFoldClassifierTrainsEveryClassInOrder(t *testing.T) {
	inst := &fakeInstance{}
	adapter := New(&fakeBackend{inst: inst}, providers.Session{Name: "demo"})

	fc, err := adapter.Open(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "demo-fold2", fc.Name())

	require.NoError(t, fc.Train(context.Background(), GroupByLabel(sample, []int{2, 3})))
	require.Len(t, inst.trained, 3)
	assert.Equal(t, providers.LabelNeg, inst.trained[0].label)
	assert.Empty(t, inst.trained[0].examples)
	assert.NotNil(t, inst.trained[0].examples)
	assert.Equal(t, providers.LabelNeutral, inst.trained[1].label)
	assert.Equal(t, providers.LabelPos, inst.trained[2].label)
	assert.Equal(t, []string{"great", "superb"}, inst.trained[2].examples)

	require.NoError(t, fc.Release(context.Background()))
	assert.True(t, inst.released)
}

func TestFoldClassifierClassifiesOnceInOrder(t *testing.T) {
	inst := &fakeInstance{}
	adapter := New(&fakeBackend{inst: inst}, providers.Session{Name: "demo"})
	fc, err := adapter.Open(context.Background(), 0)
	require.NoError(t, err)

	out, err := fc.Classify(context.Background(), []string{"meh", "bad"})
	require.NoError(t, err)
	require.Len(t, inst.classified, 1)
	assert.Equal(t, []string{"meh", "bad"}, inst.classified[0])
	assert.Equal(t, "meh", out[0].Text)
	assert.Equal(t, "bad", out[1].Text)
}

func TestFoldClassifierWrapsFailures(t *testing.T) {
	boom := errors.New("boom")

	t.Run("open", func(t *testing.T) {
		adapter := New(&fakeBackend{openErr: boom}, providers.Session{Name: "demo"})
		_, err := adapter.Open(context.Background(), 1)
		var ce *providers.ClassifierError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "open", ce.Op)
		assert.Equal(t, "demo-fold1", ce.Classifier)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("train stops at failing class", func(t *testing.T) {
		inst := &fakeInstance{trainErr: map[providers.Label]error{providers.LabelNeutral: boom}}
		fc, err := New(&fakeBackend{inst: inst}, providers.Session{Name: "demo"}).Open(context.Background(), 0)
		require.NoError(t, err)
		err = fc.Train(context.Background(), GroupByLabel(sample, []int{0, 1, 2}))
		var ce *providers.ClassifierError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "train", ce.Op)
		assert.Equal(t, providers.LabelNeutral, ce.Label)
		assert.Len(t, inst.trained, 2)
	})

	t.Run("classify", func(t *testing.T) {
		inst := &fakeInstance{classifyErr: boom}
		fc, _ := New(&fakeBackend{inst: inst}, providers.Session{Name: "demo"}).Open(context.Background(), 0)
		_, err := fc.Classify(context.Background(), []string{"x"})
		var ce *providers.ClassifierError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "classify", ce.Op)
		assert.Equal(t, "fake", ce.Backend)
	})

	t.Run("already typed errors are not rewrapped", func(t *testing.T) {
		typed := &providers.ClassifierError{Op: "classify", Err: boom}
		inst := &fakeInstance{classifyErr: typed}
		fc, _ := New(&fakeBackend{inst: inst}, providers.Session{Name: "demo"}).Open(context.Background(), 0)
		_, err := fc.Classify(context.Background(), []string{"x"})
		assert.Same(t, typed, err)
	})
}

func TestFoldClassifierRejectsShortOutput(t *testing.T) {
	inst := &fakeInstance{drop: 1}
	fc, err := New(&fakeBackend{inst: inst}, providers.Session{Name: "demo"}).Open(context.Background(), 0)
	require.NoError(t, err)

	_, err = fc.Classify(context.Background(), []string{"a", "b"})
	require.Error(t, err)
	assert.ErrorIs(t, err, providers.ErrMalformedResponse)
	var ce *providers.ClassifierError
	assert.ErrorAs(t, err, &ce)
}
