// Package metrics exposes Prometheus collectors for the timeline store and
// the transports. Metrics implements timeline.Observer.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "microblog"

type Metrics struct {
	registry *prometheus.Registry

	usersCreated    prometheus.Counter
	follows         prometheus.Counter
	postsCreated    prometheus.Counter
	fanoutWidth     prometheus.Histogram
	fanoutFailures  prometheus.Counter
	integrityFaults *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New builds the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		usersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "timeline",
			Name:      "users_created_total",
			Help:      "Counter of registered users.",
		}),
		follows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "timeline",
			Name:      "follows_total",
			Help:      "Counter of follow operations.",
		}),
		postsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "timeline",
			Name:      "posts_created_total",
			Help:      "Counter of posts fully fanned out.",
		}),
		fanoutWidth: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "timeline",
			Name:      "fanout_width",
			Help:      "Bucketed histogram of personal timelines written per post.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
		}),
		fanoutFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "timeline",
			Name:      "fanout_failures_total",
			Help:      "Counter of posts whose fan-out stopped part way.",
		}),
		integrityFaults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "timeline",
			Name:      "integrity_faults_total",
			Help:      "Counter of dangling references met while reading.",
		}, []string{"kind"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "handle_requests_duration_seconds",
			Help:      "Bucketed histogram of processing time (s) of handled requests.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 13),
		}, []string{"transport", "method", "code"}),
	}

	m.registry.MustRegister(
		m.usersCreated,
		m.follows,
		m.postsCreated,
		m.fanoutWidth,
		m.fanoutFailures,
		m.integrityFaults,
		m.requestDuration,
	)
	return m
}

func (m *Metrics) UserCreated() { m.usersCreated.Inc() }

func (m *Metrics) Followed() { m.follows.Inc() }

func (m *Metrics) PostCreated(fanout int) {
	m.postsCreated.Inc()
	m.fanoutWidth.Observe(float64(fanout))
}

func (m *Metrics) FanoutFailed() { m.fanoutFailures.Inc() }

func (m *Metrics) IntegrityFault(kind string) { m.integrityFaults.WithLabelValues(kind).Inc() }

// ObserveRequest records one handled request. transport is "grpc" or "http".
func (m *Metrics) ObserveRequest(transport, method, code string, d time.Duration) {
	m.requestDuration.WithLabelValues(transport, method, code).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry is exposed for tests and for adding process collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
