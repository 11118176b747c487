// internal/metrics/backend.go
package metrics

import (
	"context"
	"time"

	"github.com/mwiater/senticv/internal/logging"
	"github.com/mwiater/senticv/internal/providers"
)

// Backend is a decorator that wraps a providers.Backend to record metrics.
type Backend struct {
	wrapped providers.Backend
	metrics *Metrics
}

// NewBackend wraps an existing backend.
func NewBackend(wrapped providers.Backend, m *Metrics) *Backend {
	logging.LogDebug("[METRICS] Wrapping %s backend with metrics", wrapped.Name())
	return &Backend{wrapped: wrapped, metrics: m}
}

// Name passes the call through to the wrapped backend.
func (b *Backend) Name() string { return b.wrapped.Name() }

// Close passes the call through to the wrapped backend.
func (b *Backend) Close() error { return b.wrapped.Close() }

// Unwrap returns the decorated backend.
func (b *Backend) Unwrap() providers.Backend { return b.wrapped }

// Open wraps the returned instance so train and classify calls are measured.
func (b *Backend) Open(ctx context.Context, classifierName string) (providers.Instance, error) {
	inst, err := b.wrapped.Open(ctx, classifierName)
	if err != nil {
		b.metrics.classifierErrors.WithLabelValues(b.Name(), "open").Inc()
		return nil, err
	}
	return &instance{Instance: inst, backend: b.Name(), metrics: b.metrics}, nil
}

type instance struct {
	providers.Instance
	backend string
	metrics *Metrics
}

func (i *instance) Train(ctx context.Context, label providers.Label, examples []string) error {
	if err := i.Instance.Train(ctx, label, examples); err != nil {
		i.metrics.classifierErrors.WithLabelValues(i.backend, "train").Inc()
		return err
	}
	i.metrics.trainedExamples.WithLabelValues(i.backend, string(label)).Add(float64(len(examples)))
	return nil
}

func (i *instance) Classify(ctx context.Context, texts []string) ([]providers.ClassOutput, error) {
	start := time.Now()
	out, err := i.Instance.Classify(ctx, texts)
	i.metrics.classifyLatency.WithLabelValues(i.backend).Observe(time.Since(start).Seconds())
	if err != nil {
		i.metrics.classifierErrors.WithLabelValues(i.backend, "classify").Inc()
		return nil, err
	}
	i.metrics.classifiedTexts.WithLabelValues(i.backend).Add(float64(len(out)))
	return out, nil
}
