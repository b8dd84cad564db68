// Package metrics exposes Prometheus metrics fed by bus events.
package metrics

import (
	"context"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	eventbus "github.com/hanpama/schoolgraph/internal/eventbus"
	events "github.com/hanpama/schoolgraph/internal/events"
)

const namespace = "schoolgraph"

// Metrics owns a private registry so tests and multiple servers in one
// process do not collide on the default one.
type Metrics struct {
	Registry *prometheus.Registry

	httpRequests    *prometheus.CounterVec
	operations      *prometheus.CounterVec
	operationTime   *prometheus.HistogramVec
	gatewayCalls    *prometheus.CounterVec
	gatewayTime     *prometheus.HistogramVec
	resolverTasks   prometheus.Counter
	resolverCalls   prometheus.Counter
	resolverBatches prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "status"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graphql_operations_total",
			Help:      "GraphQL operations by type and outcome.",
		}, []string{"type", "outcome"}),
		operationTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graphql_operation_duration_seconds",
			Help:      "GraphQL operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"type"}),
		gatewayCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_calls_total",
			Help:      "Persistence gateway calls by entity, operation and error kind.",
		}, []string{"entity", "op", "kind"}),
		gatewayTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gateway_call_duration_seconds",
			Help:      "Persistence gateway call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"entity", "op"}),
		resolverTasks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolver_tasks_total",
			Help:      "Remote field tasks dispatched by the resolver runtime.",
		}),
		resolverCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolver_calls_total",
			Help:      "Resolver calls made for remote field tasks after deduplication.",
		}),
		resolverBatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolver_batches_total",
			Help:      "Execution depths dispatched to the resolver runtime.",
		}),
	}
	m.Registry.MustRegister(
		m.httpRequests, m.operations, m.operationTime,
		m.gatewayCalls, m.gatewayTime,
		m.resolverTasks, m.resolverCalls, m.resolverBatches,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Subscribe records bus events into m.
func (m *Metrics) Subscribe(bus *eventbus.Bus) (unsubscribe func()) {
	unsubs := []func(){
		eventbus.Subscribe(bus, func(_ context.Context, e events.HTTPFinish) {
			m.httpRequests.WithLabelValues(e.Request.Method, strconv.Itoa(e.Status)).Inc()
		}),
		eventbus.Subscribe(bus, func(_ context.Context, e events.GraphQLFinish) {
			outcome := "ok"
			if len(e.Errors) > 0 {
				outcome = "error"
			}
			m.operations.WithLabelValues(e.OperationType, outcome).Inc()
			m.operationTime.WithLabelValues(e.OperationType).Observe(e.Duration.Seconds())
		}),
		eventbus.Subscribe(bus, func(_ context.Context, e events.ResolverBatch) {
			m.resolverBatches.Inc()
			m.resolverTasks.Add(float64(e.Tasks))
			m.resolverCalls.Add(float64(e.Calls))
		}),
		eventbus.Subscribe(bus, func(_ context.Context, e events.GatewayCallFinish) {
			m.gatewayCalls.WithLabelValues(e.Entity, e.Op, e.Kind).Inc()
			m.gatewayTime.WithLabelValues(e.Entity, e.Op).Observe(e.Duration.Seconds())
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
