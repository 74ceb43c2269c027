package live

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the host's Prometheus collectors.
type metrics struct {
	sessionsActive prometheus.Gauge
	sessionsTotal  prometheus.Counter
	eventsTotal    *prometheus.CounterVec
	patchesSent    prometheus.Counter
	framesSent     prometheus.Counter
	bytesSent      prometheus.Counter
	renderSeconds  prometheus.Histogram
}

// Event outcome labels.
const (
	eventHandled  = "handled"
	eventStale    = "stale"
	eventRejected = "rejected"
)

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)

	return &metrics{
		sessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "arbor",
			Subsystem: "live",
			Name:      "sessions_active",
			Help:      "Number of connected sessions",
		}),

		sessionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "arbor",
			Subsystem: "live",
			Name:      "sessions_total",
			Help:      "Total sessions accepted since start",
		}),

		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arbor",
			Subsystem: "live",
			Name:      "events_total",
			Help:      "Client events by outcome",
		}, []string{"outcome"}),

		patchesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "arbor",
			Subsystem: "live",
			Name:      "patches_sent_total",
			Help:      "Total patches streamed to clients",
		}),

		framesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "arbor",
			Subsystem: "live",
			Name:      "frames_sent_total",
			Help:      "Total wire frames written",
		}),

		bytesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "arbor",
			Subsystem: "live",
			Name:      "bytes_sent_total",
			Help:      "Total frame bytes written",
		}),

		renderSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "arbor",
			Subsystem: "live",
			Name:      "render_seconds",
			Help:      "Render cycle duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}
