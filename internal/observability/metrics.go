package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "ember"

// Metrics holds the Prometheus collectors fed by the EventBus.
type Metrics struct {
	registry *prometheus.Registry

	cacheLookups    *prometheus.CounterVec
	nodes           *prometheus.CounterVec
	rewrites        prometheus.Counter
	fallbacks       prometheus.Counter
	recursionAborts prometheus.Counter
	failures        *prometheus.CounterVec
	queryDuration   *prometheus.HistogramVec
}

// NewMetrics creates collectors registered on a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_lookups_total",
			Help:      "Semantic cache lookups by result.",
		}, []string{"result"}),
		nodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "orchestrator_nodes_total",
			Help:      "Orchestrator state handlers executed, by node.",
		}, []string{"node"}),
		rewrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "orchestrator_rewrites_total",
			Help:      "Question rewrite cycles.",
		}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "orchestrator_fallbacks_total",
			Help:      "Queries answered by the fallback generator.",
		}),
		recursionAborts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "orchestrator_recursion_aborts_total",
			Help:      "Runs aborted by the step ceiling.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "query_failures_total",
			Help:      "Queries that returned an error, by operation.",
		}, []string{"op"}),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "query_duration_seconds",
			Help:      "End-to-end query latency.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 14),
		}, []string{"cache"}),
	}

	reg.MustRegister(
		m.cacheLookups,
		m.nodes,
		m.rewrites,
		m.fallbacks,
		m.recursionAborts,
		m.failures,
		m.queryDuration,
	)

	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observe(eventType string, data map[string]interface{}) {
	switch eventType {
	case EventCacheHit:
		m.cacheLookups.WithLabelValues("hit").Inc()
	case EventCacheMiss:
		m.cacheLookups.WithLabelValues("miss").Inc()
	case EventNodeExecuted:
		if node, ok := data["node"].(string); ok {
			m.nodes.WithLabelValues(node).Inc()
		}
	case EventRewrite:
		m.rewrites.Inc()
	case EventFallback:
		m.fallbacks.Inc()
	case EventRecursionAbort:
		m.recursionAborts.Inc()
	case EventQueryFailed:
		op, _ := data["op"].(string)
		if op == "" {
			op = "unknown"
		}
		m.failures.WithLabelValues(op).Inc()
	case EventQueryCompleted:
		seconds, ok := data["duration_seconds"].(float64)
		if !ok {
			return
		}
		label := "miss"
		if hit, _ := data["cache_hit"].(bool); hit {
			label = "hit"
		}
		m.queryDuration.WithLabelValues(label).Observe(seconds)
	}
}
