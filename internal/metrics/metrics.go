package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics stores the Prometheus collectors used across the service.
type Metrics struct {
	HTTPRequests       *prometheus.CounterVec
	HTTPLatency        *prometheus.HistogramVec
	TransicionesEstado *prometheus.CounterVec
	AsignacionesCupo   *prometheus.CounterVec
	MensajesGenerados  *prometheus.CounterVec
	EmailJobs          *prometheus.CounterVec
}

var (
	regOnce         sync.Once
	metricsInstance *Metrics
)

// Registry builds and registers the metrics singleton with optional namespace.
// Safe to call from multiple packages; only the first namespace wins.
func Registry(namespace string) *Metrics {
	regOnce.Do(func() {
		metricsInstance = &Metrics{
			HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests by method, path and status.",
			}, []string{"method", "path", "status"}),
			HTTPLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Latency distribution of HTTP requests.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"method", "path"}),
			TransicionesEstado: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pedido_transiciones_total",
				Help:      "Status transitions applied to pedidos, by source and target state.",
			}, []string{"de", "a"}),
			AsignacionesCupo: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cupo_asignaciones_total",
				Help:      "Cupo allocation attempts by outcome.",
			}, []string{"resultado"}),
			MensajesGenerados: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mensajes_generados_total",
				Help:      "Notification messages materialized, by trigger state.",
			}, []string{"estado"}),
			EmailJobs: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "email_jobs_total",
				Help:      "Email notification jobs processed, by outcome.",
			}, []string{"status"}),
		}

		prometheus.MustRegister(
			metricsInstance.HTTPRequests,
			metricsInstance.HTTPLatency,
			metricsInstance.TransicionesEstado,
			metricsInstance.AsignacionesCupo,
			metricsInstance.MensajesGenerados,
			metricsInstance.EmailJobs,
		)
	})
	return metricsInstance
}
