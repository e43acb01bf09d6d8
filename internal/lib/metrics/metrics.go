// Package metrics описывает Prometheus-метрики каталога: HTTP-запросы
// и доменные счётчики (инструменты, оценки, отзывы, подписки).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "aitools"

// Metrics хранит зарегистрированные коллекторы.
type Metrics struct {
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ToolsCreated        prometheus.Counter
	Ratings             *prometheus.CounterVec
	Reviews             *prometheus.CounterVec
	Subscriptions       *prometheus.CounterVec
}

// Исходы доменных операций для меток result.
const (
	ResultOK        = "ok"
	ResultDuplicate = "duplicate"
	ResultRejected  = "rejected"
	ResultError     = "error"
)

// New создаёт метрики и регистрирует их в reg.
// Для тестов передаётся prometheus.NewRegistry(), в приложении — prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Number of HTTP requests by route pattern, method and status code.",
		}, []string{"route", "method", "code"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		ToolsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tools_created_total",
			Help:      "Number of AI tools added to the catalog.",
		}),
		Ratings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ratings_total",
			Help:      "Rating attempts by result.",
		}, []string{"result"}),
		Reviews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_total",
			Help:      "Review attempts by result.",
		}, []string{"result"}),
		Subscriptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_total",
			Help:      "Payment evaluations by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.HTTPRequests,
		m.HTTPRequestDuration,
		m.ToolsCreated,
		m.Ratings,
		m.Reviews,
		m.Subscriptions,
	)
	return m
}

// NewNop создаёт метрики, не привязанные к глобальному реестру.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
