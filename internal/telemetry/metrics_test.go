package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestRecordChat(t *testing.T) {
	// Fresh collectors so the default registry stays clean.
	chatTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "test_chat_requests_total",
		Help: "Test counter",
	}, []string{"source", "outcome"})

	durationMs := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "test_chat_duration_ms",
		Help:    "Test histogram",
		Buckets: []float64{100, 500, 1000},
	}, []string{"source"})

	m := &Metrics{
		ChatRequestsTotal: chatTotal,
		ChatDurationMs:    durationMs,
	}

	m.RecordChat(ChatLabels{
		Source:     "mock",
		Outcome:    "timeout",
		DurationMs: 150,
	})

	counter, err := chatTotal.GetMetricWithLabelValues("mock", "timeout")
	if err != nil {
		t.Fatalf("failed to get metric: %v", err)
	}
	var metric dto.Metric
	counter.Write(&metric)
	if *metric.Counter.Value != 1 {
		t.Errorf("expected chat count 1, got %v", *metric.Counter.Value)
	}
}

func TestRecordUpload(t *testing.T) {
	uploads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "test_uploads_total",
		Help: "Test",
	}, []string{"status"})

	m := &Metrics{UploadsTotal: uploads}
	m.RecordUpload("rejected")

	counter, _ := uploads.GetMetricWithLabelValues("rejected")
	var metric dto.Metric
	counter.Write(&metric)
	if *metric.Counter.Value != 1 {
		t.Errorf("expected upload count 1, got %v", *metric.Counter.Value)
	}
}

func TestRecordRateLimitHit(t *testing.T) {
	hits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "test_rate_limit_hits",
		Help: "Test",
	}, []string{"scope"})

	m := &Metrics{RateLimitHitsTotal: hits}
	m.RecordRateLimitHit("ip")

	counter, _ := hits.GetMetricWithLabelValues("ip")
	var metric dto.Metric
	counter.Write(&metric)
	if *metric.Counter.Value != 1 {
		t.Errorf("expected rate limit hit count 1, got %v", *metric.Counter.Value)
	}
}
