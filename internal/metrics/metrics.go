// Package metrics holds the prometheus collectors for the document
// intelligence pipeline and the HTTP surface.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	DocumentsProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "propintel",
			Name:      "documents_processed_total",
			Help:      "Total number of documents processed, by type and outcome",
		},
		[]string{"document_type", "outcome"},
	)

	DocumentDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "propintel",
			Name:      "document_duration_seconds",
			Help:      "Per-document processing duration by pipeline stage",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"stage"},
	)

	BatchesProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "propintel",
			Name:      "batches_processed_total",
			Help:      "Total number of batches processed, by final status",
		},
		[]string{"status"},
	)

	BatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "propintel",
			Name:      "batch_duration_seconds",
			Help:      "End-to-end batch processing duration",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600, 1200},
		},
	)

	BatchAverageConfidence = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "propintel",
			Name:      "batch_average_confidence",
			Help:      "Average confidence of completed batches (0-100)",
			Buckets:   []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)

	ExtractionTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "propintel",
			Name:      "extraction_tokens_total",
			Help:      "Total tokens consumed by extraction providers",
		},
		[]string{"provider", "model"},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "propintel",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "propintel",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)
)

var registered bool

// Register registers all collectors with the default registry. Must be
// called once from main; calling it twice is a no-op.
func Register() {
	if registered {
		return
	}
	prometheus.MustRegister(DocumentsProcessedTotal)
	prometheus.MustRegister(DocumentDuration)
	prometheus.MustRegister(BatchesProcessedTotal)
	prometheus.MustRegister(BatchDuration)
	prometheus.MustRegister(BatchAverageConfidence)
	prometheus.MustRegister(ExtractionTokensTotal)
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	registered = true
}
