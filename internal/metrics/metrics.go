// internal/metrics/metrics.go

// Package metrics records pipeline counters in a private prometheus registry and
// keeps Welford running statistics for per-fold hit rates.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups every collector of a single run.
type Metrics struct {
	registry *prometheus.Registry

	classifiedTexts  *prometheus.CounterVec
	trainedExamples  *prometheus.CounterVec
	classifierErrors *prometheus.CounterVec
	classifyLatency  *prometheus.HistogramVec
	hits             prometheus.Counter
	evaluated        prometheus.Counter
	unmatched        prometheus.Counter
	foldFailures     prometheus.Counter
	droppedRows      prometheus.Counter
	sinkErrors       prometheus.Counter
}

// New builds and registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		classifiedTexts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "senticv_classified_texts_total",
			Help: "Texts returned by classifier backends",
		}, []string{"backend"}),
		trainedExamples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "senticv_trained_examples_total",
			Help: "Training examples submitted per class",
		}, []string{"backend", "label"}),
		classifierErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "senticv_classifier_errors_total",
			Help: "Failed classifier calls by operation",
		}, []string{"backend", "op"}),
		classifyLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "senticv_classify_duration_seconds",
			Help:    "Latency of batch classify calls",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"backend"}),
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "senticv_hits_total",
			Help: "Predictions matching the ground-truth rating",
		}),
		evaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "senticv_evaluated_total",
			Help: "Predictions matched to a ground-truth record",
		}),
		unmatched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "senticv_unmatched_total",
			Help: "Predictions whose text had no ground-truth record",
		}),
		foldFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "senticv_fold_failures_total",
			Help: "Folds aborted by a classifier error",
		}),
		droppedRows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "senticv_dropped_rows_total",
			Help: "Input rows dropped during sanitization",
		}),
		sinkErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "senticv_sink_errors_total",
			Help: "Failed writes of fold outputs or summaries",
		}),
	}
	m.registry.MustRegister(
		m.classifiedTexts,
		m.trainedExamples,
		m.classifierErrors,
		m.classifyLatency,
		m.hits,
		m.evaluated,
		m.unmatched,
		m.foldFailures,
		m.droppedRows,
		m.sinkErrors,
	)
	return m
}

// RecordDropped counts rows removed by the sanitizer.
func (m *Metrics) RecordDropped(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.droppedRows.Add(float64(n))
}

// RecordScore counts the outcome of one scored fold.
func (m *Metrics) RecordScore(hits, evaluated, unmatched int) {
	if m == nil {
		return
	}
	m.hits.Add(float64(hits))
	m.evaluated.Add(float64(evaluated))
	m.unmatched.Add(float64(unmatched))
}

// RecordFoldFailure counts one aborted fold.
func (m *Metrics) RecordFoldFailure() {
	if m == nil {
		return
	}
	m.foldFailures.Inc()
}

// RecordSinkError counts one failed persistence write.
func (m *Metrics) RecordSinkError() {
	if m == nil {
		return
	}
	m.sinkErrors.Inc()
}

// WriteTextfile dumps the registry in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
