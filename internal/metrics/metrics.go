package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry with HTTP and marketplace collectors.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	statusCategory  *prometheus.CounterVec

	OrdersCreated    prometheus.Counter
	OrderTransitions *prometheus.CounterVec
	CartAdds         prometheus.Counter
	ReviewsCreated   prometheus.Counter
	ProductViews     prometheus.Counter
	UploadsStored    *prometheus.CounterVec
	OrderNumberClash prometheus.Counter
}

// New registers every collector under the given namespace.
func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		statusCategory: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_status_category_total",
			Help:      "Total number of responses by status category (2xx, 4xx, 5xx)",
		}, []string{"category", "method", "path"}),
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Orders persisted",
		}),
		OrderTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_transitions_total",
			Help:      "Order status transitions by target status",
		}, []string{"status"}),
		CartAdds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_adds_total",
			Help:      "Add-to-cart calls",
		}),
		ReviewsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_created_total",
			Help:      "Reviews persisted",
		}),
		ProductViews: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "product_views_total",
			Help:      "Product detail reads",
		}),
		UploadsStored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_stored_total",
			Help:      "Uploaded files stored by kind",
		}, []string{"kind"}),
		OrderNumberClash: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_number_collisions_total",
			Help:      "Generated order numbers rejected by the unique index",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.requestDuration,
		m.statusCategory,
		m.OrdersCreated,
		m.OrderTransitions,
		m.CartAdds,
		m.ReviewsCreated,
		m.ProductViews,
		m.UploadsStored,
		m.OrderNumberClash,
	)
	return m
}

func category(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500:
		return "5xx"
	}
	return ""
}

// Middleware records request counters and latency histograms.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			method := c.Request().Method
			path := c.Path()
			statusStr := strconv.Itoa(status)

			m.requests.WithLabelValues(method, path, statusStr).Inc()
			m.requestDuration.WithLabelValues(method, path, statusStr).Observe(time.Since(start).Seconds())
			if cat := category(status); cat != "" {
				m.statusCategory.WithLabelValues(cat, method, path).Inc()
			}
			return err
		}
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
