package metrics_test

import (
	"testing"
	"time"

	"github.com/djlord-it/croniclectl/internal/cronicle"
	"github.com/djlord-it/croniclectl/internal/metrics"
	"github.com/djlord-it/croniclectl/internal/reconciler"
	"github.com/prometheus/client_golang/prometheus"
)

// Both sink implementations must plug into the client and the reconciler.
var (
	_ metrics.Sink           = (*metrics.NoopSink)(nil)
	_ metrics.Sink           = (*metrics.PrometheusSink)(nil)
	_ cronicle.MetricsSink   = metrics.Sink(nil)
	_ reconciler.MetricsSink = metrics.Sink(nil)
)

func TestNoopSink_MethodsAreInert(t *testing.T) {
	sink := metrics.NewNoopSink()
	sink.RequestCompleted("create_event", metrics.StatusClass2xx, time.Second)
	sink.BulkDeleteCompleted(3, 1)
	sink.SweepCompleted(time.Second, nil)
}

func TestPrometheusSink_ImplementsSink(t *testing.T) {
	var sink metrics.Sink = metrics.NewPrometheusSink(prometheus.NewRegistry())
	sink.RequestCompleted("get_schedule", metrics.StatusClass2xx, time.Millisecond)
}
