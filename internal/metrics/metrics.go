// Package metrics exposes Prometheus metrics for the HTTP server and the
// grocery lists it builds.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requestCount    *prometheus.CounterVec
	groceryItems    prometheus.Histogram
}

// New registers every collector on a private registry, so several servers can
// coexist in one process.
func New() *Metrics {
	metrics := &Metrics{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "family_meals_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		requestCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "family_meals_http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		groceryItems: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "family_meals_grocery_list_items",
			Help:    "Number of items in each grocery list served.",
			Buckets: []float64{0, 5, 10, 20, 40, 80},
		}),
	}

	metrics.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		metrics.requestDuration,
		metrics.requestCount,
		metrics.groceryItems,
	)
	return metrics
}

// Middleware records every request under its chi route pattern rather than
// the raw path, which keeps recipe ids out of the label set.
func (metrics *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(wrapped, r)

		route := "unmatched"
		if routeContext := chi.RouteContext(r.Context()); routeContext != nil {
			if pattern := routeContext.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := wrapped.Status()
		if status == 0 {
			status = http.StatusOK
		}

		labels := []string{r.Method, route, strconv.Itoa(status)}
		metrics.requestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		metrics.requestCount.WithLabelValues(labels...).Inc()
	})
}

func (metrics *Metrics) ObserveGroceryList(items int) {
	metrics.groceryItems.Observe(float64(items))
}

func (metrics *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{})
}
