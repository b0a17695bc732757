package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the gateway.
type Metrics struct {
	ChatRequestsTotal  *prometheus.CounterVec
	ChatDurationMs     *prometheus.HistogramVec
	UploadsTotal       *prometheus.CounterVec
	AnalysisTotal      *prometheus.CounterVec
	RateLimitHitsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		ChatRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "skillbridge_chat_requests_total",
			Help: "Chat requests by answer source and upstream outcome.",
		}, []string{"source", "outcome"}),

		ChatDurationMs: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "skillbridge_chat_duration_ms",
			Help:    "End-to-end chat handling duration in milliseconds.",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000},
		}, []string{"source"}),

		UploadsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "skillbridge_uploads_total",
			Help: "Resume uploads by result.",
		}, []string{"status"}),

		AnalysisTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "skillbridge_analysis_total",
			Help: "Resume analyses by answer source.",
		}, []string{"source"}),

		RateLimitHitsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "skillbridge_rate_limit_hits_total",
			Help: "Requests rejected by the rate limiter.",
		}, []string{"scope"}),
	}
}

// ChatLabels holds the label values for recording one chat request.
type ChatLabels struct {
	Source     string
	Outcome    string
	DurationMs float64
}

// RecordChat records metrics for a completed chat request.
func (m *Metrics) RecordChat(labels ChatLabels) {
	m.ChatRequestsTotal.WithLabelValues(labels.Source, labels.Outcome).Inc()
	m.ChatDurationMs.WithLabelValues(labels.Source).Observe(labels.DurationMs)
}

// RecordUpload records an upload attempt result ("ok", "rejected", "failed").
func (m *Metrics) RecordUpload(status string) {
	m.UploadsTotal.WithLabelValues(status).Inc()
}

// RecordAnalysis records which side produced an analysis ("upstream", "mock").
func (m *Metrics) RecordAnalysis(source string) {
	m.AnalysisTotal.WithLabelValues(source).Inc()
}

// RecordRateLimitHit records a rate-limited request.
func (m *Metrics) RecordRateLimitHit(scope string) {
	m.RateLimitHitsTotal.WithLabelValues(scope).Inc()
}
