package metrics

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwiater/senticv/internal/providers"
)

type stubBackend struct {
	classifyErr error
}

func (s *stubBackend) Name() string { return "stub" }
func (s *stubBackend) Close() error { return nil }
func (s *stubBackend) Open(_ context.Context, name string) (providers.Instance, error) {
	return &stubInstance{name: name, classifyErr: s.classifyErr}, nil
}

type stubInstance struct {
	name        string
	classifyErr error
}

func (s *stubInstance) Name() string                                           { return s.name }
func (s *stubInstance) Release(context.Context) error                          { return nil }
func (s *stubInstance) Train(context.Context, providers.Label, []string) error { return nil }
func (s *stubInstance) Classify(_ context.Context, texts []string) ([]providers.ClassOutput, error) {
	if s.classifyErr != nil {
		return nil, s.classifyErr
	}
	out := make([]providers.ClassOutput, len(texts))
	for i, text := range texts {
		out[i] = providers.NewClassOutput(text, providers.Scores{Pos: 1})
	}
	return out, nil
}

func TestBackendDecoratorCountsCalls(t *testing.T) {
	m := New()
	backend := NewBackend(&stubBackend{}, m)
	assert.Equal(t, "stub", backend.Name())

	inst, err := backend.Open(context.Background(), "demo-fold0")
	require.NoError(t, err)
	assert.Equal(t, "demo-fold0", inst.Name())

	require.NoError(t, inst.Train(context.Background(), providers.LabelPos, []string{"a", "b"}))
	out, err := inst.Classify(context.Background(), []string{"x", "y", "z"})
	require.NoError(t, err)
	assert.Len(t, out, 3)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.classifiedTexts.WithLabelValues("stub")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.trainedExamples.WithLabelValues("stub", "pos")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.classifyLatency))
}

func TestBackendDecoratorCountsErrors(t *testing.T) {
	m := New()
	boom := errors.New("boom")
	backend := NewBackend(&stubBackend{classifyErr: boom}, m)
	inst, err := backend.Open(context.Background(), "demo")
	require.NoError(t, err)

	_, err = inst.Classify(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.classifierErrors.WithLabelValues("stub", "classify")))
}

func TestRecordersAndTextfile(t *testing.T) {
	m := New()
	m.RecordDropped(2)
	m.RecordDropped(0)
	m.RecordScore(3, 4, 1)
	m.RecordFoldFailure()
	m.RecordSinkError()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.droppedRows))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.hits))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.evaluated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.unmatched))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.foldFailures))

	path := filepath.Join(t.TempDir(), "senticv.prom")
	require.NoError(t, m.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "senticv_hits_total 3"))
}

func TestNilMetricsRecordersAreNoOps(t *testing.T) {
	var m *Metrics
	m.RecordDropped(1)
	m.RecordScore(1, 1, 0)
	m.RecordFoldFailure()
	m.RecordSinkError()
}

func TestRunningStat(t *testing.T) {
	var rs RunningStat
	assert.Equal(t, 0.0, rs.StdDev())

	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		rs.Update(v)
	}
	assert.Equal(t, int64(8), rs.Count)
	assert.InDelta(t, 5.0, rs.Mean, 1e-9)
	assert.Equal(t, 2.0, rs.Min)
	assert.Equal(t, 9.0, rs.Max)
	assert.InDelta(t, 32.0/7.0, rs.Variance(), 1e-9)
	assert.InDelta(t, math.Sqrt(32.0/7.0), rs.StdDev(), 1e-9)
}
