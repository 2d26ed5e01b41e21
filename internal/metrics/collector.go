// Package metrics exposes Prometheus metrics for document generation and
// verification traffic.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector manages the engine's Prometheus metrics
type Collector struct {
	documentsGenerated *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	generationErrors   *prometheus.CounterVec
	verificationsTotal *prometheus.CounterVec
	complaintsFiled    prometheus.Counter
}

// NewCollector registers and returns the engine metrics
func NewCollector() *Collector {
	return &Collector{
		documentsGenerated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "acta_documents_generated_total",
			Help: "Documents generated, by variant and paper size",
		}, []string{"variant", "paper"}),
		generationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "acta_generation_duration_seconds",
			Help:    "Time spent rendering one document",
			Buckets: prometheus.DefBuckets,
		}, []string{"variant"}),
		generationErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "acta_generation_errors_total",
			Help: "Failed document generations, by variant",
		}, []string{"variant"}),
		verificationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "acta_verifications_total",
			Help: "Verification lookups, by outcome",
		}, []string{"outcome"}),
		complaintsFiled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "acta_complaints_filed_total",
			Help: "Complaints filed through the API",
		}),
	}
}

// DocumentGenerated records a successful generation
func (c *Collector) DocumentGenerated(variant, paper string, elapsed time.Duration) {
	c.documentsGenerated.WithLabelValues(variant, paper).Inc()
	c.generationDuration.WithLabelValues(variant).Observe(elapsed.Seconds())
}

// GenerationFailed records a failed generation
func (c *Collector) GenerationFailed(variant string) {
	c.generationErrors.WithLabelValues(variant).Inc()
}

// VerificationServed records one verification lookup
func (c *Collector) VerificationServed(outcome string) {
	c.verificationsTotal.WithLabelValues(outcome).Inc()
}

// ComplaintFiled records one filing
func (c *Collector) ComplaintFiled() {
	c.complaintsFiled.Inc()
}
