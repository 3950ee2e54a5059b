package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics records journey-reconstruction and attribution activity.
type PipelineMetrics struct {
	duration  *prometheus.HistogramVec
	pages     *prometheus.CounterVec
	exposures *prometheus.CounterVec
	orders    *prometheus.CounterVec
}

// NewPipelineMetrics registers the pipeline metrics on the provided registerer.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	if reg == nil {
		return &PipelineMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "journey_stage_duration_seconds",
		Help:    "Duration of journey pipeline stages in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})
	pages := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "journey_pages_total",
		Help: "Page events flowing through the normalizer.",
	}, []string{"outcome"})
	exposures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "journey_exposures_total",
		Help: "Campaign exposures considered by the correlator.",
	}, []string{"outcome"})
	orders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "attribution_orders_total",
		Help: "Purchase orders processed by the attribution engine.",
	}, []string{"outcome"})
	reg.MustRegister(duration, pages, exposures, orders)
	return &PipelineMetrics{
		duration:  duration,
		pages:     pages,
		exposures: exposures,
		orders:    orders,
	}
}

// ObserveStage records the duration of the named pipeline stage.
func (p *PipelineMetrics) ObserveStage(stage string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(normalizeLabel(stage)).Observe(duration.Seconds())
}

// AddPages counts page events by outcome (kept, merged, clamped).
func (p *PipelineMetrics) AddPages(outcome string, n int) {
	if p == nil || p.pages == nil || n <= 0 {
		return
	}
	p.pages.WithLabelValues(normalizeLabel(outcome)).Add(float64(n))
}

// AddExposures counts exposures by outcome (matched, unmatched).
func (p *PipelineMetrics) AddExposures(outcome string, n int) {
	if p == nil || p.exposures == nil || n <= 0 {
		return
	}
	p.exposures.WithLabelValues(normalizeLabel(outcome)).Add(float64(n))
}

// IncOrders counts one attribution order by outcome (attributed, skipped, failed).
func (p *PipelineMetrics) IncOrders(outcome string) {
	if p == nil || p.orders == nil {
		return
	}
	p.orders.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}
