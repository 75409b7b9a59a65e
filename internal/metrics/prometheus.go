package metrics

import (
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusSink implements Sink using the Prometheus client library.
// All methods are non-blocking and fire-and-forget.
// Registration errors are logged but never propagated.
type PrometheusSink struct {
	// Client metrics
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	// Reconciler metrics
	bulkEventsTotal *prometheus.CounterVec
	sweepsTotal     prometheus.Counter
	sweepErrors     prometheus.Counter
	sweepDuration   prometheus.Histogram
}

// NewPrometheusSink creates a new Prometheus metrics sink.
// If registration fails, it logs a warning and returns a functional sink.
func NewPrometheusSink(reg prometheus.Registerer) *PrometheusSink {
	s := &PrometheusSink{}
	s.initClientMetrics(reg)
	s.initReconcilerMetrics(reg)
	return s
}

func (s *PrometheusSink) initClientMetrics(reg prometheus.Registerer) {
	s.requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "croniclectl_client_requests_total",
		Help: "Total number of scheduler API calls.",
	}, []string{"op", "status_class"})

	s.requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "croniclectl_client_request_duration_seconds",
		Help:    "Scheduler API call latency in seconds.",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"op"})

	s.register(reg, s.requestsTotal, "croniclectl_client_requests_total")
	s.register(reg, s.requestDuration, "croniclectl_client_request_duration_seconds")
}

func (s *PrometheusSink) initReconcilerMetrics(reg prometheus.Registerer) {
	s.bulkEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "croniclectl_bulk_delete_events_total",
		Help: "Total number of events targeted by bulk deletes, by outcome.",
	}, []string{"outcome"})

	s.sweepsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "croniclectl_sweeps_total",
		Help: "Total number of sweep cycles.",
	})
	s.sweepErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "croniclectl_sweep_errors_total",
		Help: "Total number of sweep cycles that failed before deleting.",
	})
	s.sweepDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "croniclectl_sweep_duration_seconds",
		Help:    "Duration of each sweep cycle in seconds.",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
	})

	s.register(reg, s.bulkEventsTotal, "croniclectl_bulk_delete_events_total")
	s.register(reg, s.sweepsTotal, "croniclectl_sweeps_total")
	s.register(reg, s.sweepErrors, "croniclectl_sweep_errors_total")
	s.register(reg, s.sweepDuration, "croniclectl_sweep_duration_seconds")
}

// register attempts to register a collector, logging any errors without
// propagating them.
func (s *PrometheusSink) register(reg prometheus.Registerer, c prometheus.Collector, name string) {
	if err := reg.Register(c); err != nil {
		log.Printf("metrics: failed to register %s: %v", name, err)
	}
}

func (s *PrometheusSink) RequestCompleted(op string, statusClass string, duration time.Duration) {
	s.requestsTotal.WithLabelValues(op, statusClass).Inc()
	s.requestDuration.WithLabelValues(op).Observe(duration.Seconds())
}

func (s *PrometheusSink) BulkDeleteCompleted(targeted, failed int) {
	s.bulkEventsTotal.WithLabelValues("success").Add(float64(targeted - failed))
	s.bulkEventsTotal.WithLabelValues("failed").Add(float64(failed))
}

func (s *PrometheusSink) SweepCompleted(duration time.Duration, err error) {
	s.sweepsTotal.Inc()
	s.sweepDuration.Observe(duration.Seconds())
	if err != nil {
		s.sweepErrors.Inc()
	}
}
