// Package metrics contadores Prometheus del motor de inventario, las notificaciones y la API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/ppe-stock-api/internal/application/inventory"
	"github.com/jhoicas/ppe-stock-api/internal/application/notification"
)

const metricPrefix = "ppe_"

var (
	_ inventory.Metrics    = (*Registry)(nil)
	_ notification.Metrics = (*Registry)(nil)
)

// Registry registro propio (no el global) para poder instanciarlo en tests.
type Registry struct {
	reg *prometheus.Registry

	mutations      *prometheus.CounterVec
	alertsCreated  *prometheus.CounterVec
	alertsResolved prometheus.Counter
	bulkRestocks   *prometheus.CounterVec
	notifications  *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpLatency    *prometheus.HistogramVec
}

// New crea y registra todas las métricas.
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricPrefix + "stock_mutations_total",
			Help: "Stock mutations by operation and result",
		}, []string{"operation", "result"}),
		alertsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricPrefix + "alerts_created_total",
			Help: "Inventory alerts created by type",
		}, []string{"alert_type"}),
		alertsResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "alerts_resolved_total",
			Help: "Inventory alerts auto-resolved on recovery",
		}),
		bulkRestocks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricPrefix + "bulk_restocks_total",
			Help: "Per-station bulk restocks by result",
		}, []string{"result"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricPrefix + "notifications_total",
			Help: "Alert notifications by stage and result",
		}, []string{"stage", "result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricPrefix + "http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    metricPrefix + "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.mutations, r.alertsCreated, r.alertsResolved, r.bulkRestocks,
		r.notifications, r.httpRequests, r.httpLatency,
	)
	return r
}

// Gatherer expone el registro (tests).
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler endpoint /metrics en formato de exposición Prometheus.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

func (r *Registry) ObserveMutation(operation, result string) {
	r.mutations.WithLabelValues(operation, result).Inc()
}

func (r *Registry) AlertsCreated(alertType string, n int) {
	if n > 0 {
		r.alertsCreated.WithLabelValues(alertType).Add(float64(n))
	}
}

func (r *Registry) AlertsResolved(n int) {
	if n > 0 {
		r.alertsResolved.Add(float64(n))
	}
}

func (r *Registry) ObserveBulkRestock(result string) {
	r.bulkRestocks.WithLabelValues(result).Inc()
}

func (r *Registry) ObserveNotification(stage, result string) {
	r.notifications.WithLabelValues(stage, result).Inc()
}

// ObserveHTTP registra una petición ya respondida.
func (r *Registry) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
