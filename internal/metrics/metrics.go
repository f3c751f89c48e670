package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics for the pipeline.
type Registry struct {
	*prometheus.Registry

	eventsProcessed prometheus.Counter
	eventsRejected  *prometheus.CounterVec
	signalsEmitted  *prometheus.CounterVec
	signalsRouted   *prometheus.CounterVec
	positionsOpened *prometheus.CounterVec
	positionsClosed *prometheus.CounterVec
	positionsOpen   prometheus.Gauge
	eventDuration   prometheus.Histogram
}

// NewRegistry creates a metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		eventsProcessed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "flowdesk_events_processed_total",
				Help: "Total number of flow events accepted by the pipeline",
			},
		),
		eventsRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowdesk_events_rejected_total",
				Help: "Total number of flow events rejected at validation",
			},
			[]string{"reason"},
		),
		signalsEmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowdesk_signals_emitted_total",
				Help: "Total number of signals emitted",
			},
			[]string{"strategy"},
		),
		signalsRouted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowdesk_signals_routed_total",
				Help: "Total number of signals routed to notifiers",
			},
			[]string{"notifier", "status"},
		),
		positionsOpened: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowdesk_paper_positions_opened_total",
				Help: "Total number of paper positions opened",
			},
			[]string{"strategy"},
		),
		positionsClosed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowdesk_paper_positions_closed_total",
				Help: "Total number of paper positions closed",
			},
			[]string{"strategy", "outcome"},
		),
		positionsOpen: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "flowdesk_paper_positions_open",
				Help: "Number of paper positions currently open",
			},
		),
		eventDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "flowdesk_event_duration_seconds",
				Help:    "End-to-end processing time for one flow event",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	reg.MustRegister(r.eventsProcessed)
	reg.MustRegister(r.eventsRejected)
	reg.MustRegister(r.signalsEmitted)
	reg.MustRegister(r.signalsRouted)
	reg.MustRegister(r.positionsOpened)
	reg.MustRegister(r.positionsClosed)
	reg.MustRegister(r.positionsOpen)
	reg.MustRegister(r.eventDuration)

	return r
}

// RecordEvent records one accepted flow event and its processing time.
func (r *Registry) RecordEvent(duration float64) {
	r.eventsProcessed.Inc()
	r.eventDuration.Observe(duration)
}

// RecordEventRejected records a validation rejection.
func (r *Registry) RecordEventRejected(reason string) {
	r.eventsRejected.WithLabelValues(reason).Inc()
}

// RecordSignal records an emitted signal.
func (r *Registry) RecordSignal(strategy string) {
	r.signalsEmitted.WithLabelValues(strategy).Inc()
}

// RecordSignalRouted records a routing attempt per notifier.
func (r *Registry) RecordSignalRouted(notifier, status string) {
	r.signalsRouted.WithLabelValues(notifier, status).Inc()
}

// RecordPositionOpened records a new paper position.
func (r *Registry) RecordPositionOpened(strategy string) {
	r.positionsOpened.WithLabelValues(strategy).Inc()
}

// RecordPositionClosed records a terminal paper position outcome.
func (r *Registry) RecordPositionClosed(strategy, outcome string) {
	r.positionsClosed.WithLabelValues(strategy, outcome).Inc()
}

// SetOpenPositions sets the open-positions gauge.
func (r *Registry) SetOpenPositions(count int) {
	r.positionsOpen.Set(float64(count))
}
