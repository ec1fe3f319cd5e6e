package jobs

import (
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/erp_lite/internal/core/domain"
	"github.com/SscSPs/erp_lite/internal/core/ports/gateways"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors for sweeper passes.
type Metrics struct {
	runs      *prometheus.CounterVec
	documents *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	lastRun   *prometheus.GaugeVec
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// NewMetrics registers the sweep metrics against the provided registerer. When the
// registerer is nil the default Prometheus registerer is used.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		defaultOnce.Do(func() {
			defaultMetrics = buildMetrics(prometheus.DefaultRegisterer)
		})
		return defaultMetrics
	}
	return buildMetrics(registerer)
}

var _ gateways.SweepRecorder = (*Metrics)(nil)

// RecordSweep implements gateways.SweepRecorder.
func (m *Metrics) RecordSweep(result domain.SweepResult, duration time.Duration, err error) {
	if m == nil {
		return
	}
	kind := strings.ToLower(string(result.Kind))
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.runs.WithLabelValues(kind, status).Inc()
	m.documents.WithLabelValues(kind, "examined").Add(float64(result.Examined))
	m.documents.WithLabelValues(kind, "updated").Add(float64(result.Updated))
	m.documents.WithLabelValues(kind, "failed").Add(float64(result.Failed))
	m.duration.WithLabelValues(kind).Observe(duration.Seconds())
	if err == nil {
		m.lastRun.WithLabelValues(kind).SetToCurrentTime()
	}
}

func buildMetrics(registerer prometheus.Registerer) *Metrics {
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "erp_sweeps_total",
		Help: "Total sweeper passes partitioned by document kind and status.",
	}, []string{"kind", "status"})
	documents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "erp_sweep_documents_total",
		Help: "Documents handled by the sweeper partitioned by kind and outcome.",
	}, []string{"kind", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "erp_sweep_duration_seconds",
		Help:    "Duration in seconds of sweeper passes.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	lastRun := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "erp_sweep_last_success_timestamp_seconds",
		Help: "Unix time of the last successful sweeper pass.",
	}, []string{"kind"})
	registerer.MustRegister(runs, documents, duration, lastRun)
	return &Metrics{runs: runs, documents: documents, duration: duration, lastRun: lastRun}
}
