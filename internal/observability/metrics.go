// Package observability holds the Prometheus collectors shared by the domain services.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

var (
	samplesIngested = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "focuslog",
		Subsystem: "ingest",
		Name:      "samples_total",
		Help:      "Activity samples persisted, by sample kind.",
	}, []string{"kind"})
	blockWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "focuslog",
		Subsystem: "blocks",
		Name:      "writes_total",
		Help:      "Canonical block writes, by result (merged, created, conflict).",
	}, []string{"result"})
	classifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "focuslog",
		Subsystem: "classifier",
		Name:      "decisions_total",
		Help:      "Classifier gateway decisions, by path and outcome.",
	}, []string{"path", "outcome"})
	recategorized = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "focuslog",
		Subsystem: "recategorize",
		Name:      "samples_total",
		Help:      "Samples moved to a new category, by match strategy.",
	}, []string{"strategy"})
	suggestionsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "focuslog",
		Subsystem: "suggestions",
		Name:      "created_total",
		Help:      "Suggestions inserted by calendar reconciliation.",
	})
)

func init() {
	prometheus.MustRegister(samplesIngested, blockWrites, classifications, recategorized, suggestionsCreated)
}

// Block write results.
const (
	BlockMerged   = "merged"
	BlockCreated  = "created"
	BlockConflict = "conflict"
)

// RecordSampleIngested counts a persisted sample.
func RecordSampleIngested(kind string) {
	samplesIngested.WithLabelValues(kind).Inc()
}

// RecordBlockWrite counts a canonical block write.
func RecordBlockWrite(result string) {
	blockWrites.WithLabelValues(result).Inc()
}

// RecordClassification counts one gateway decision.
func RecordClassification(path, outcome string) {
	classifications.WithLabelValues(path, outcome).Inc()
}

// ClassificationCount returns the current decision count for path and outcome.
func ClassificationCount(path, outcome string) float64 {
	return counterValue(classifications.WithLabelValues(path, outcome))
}

// RecordRecategorized counts samples moved by one recategorization.
func RecordRecategorized(strategy string, n int64) {
	if n <= 0 {
		return
	}
	recategorized.WithLabelValues(strategy).Add(float64(n))
}

// RecordSuggestionsCreated counts inserted suggestions.
func RecordSuggestionsCreated(n int) {
	if n <= 0 {
		return
	}
	suggestionsCreated.Add(float64(n))
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func counterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}
