// Package metrics содержит prometheus-метрики API бронирования.
//
// Все методы допускают nil-получатель, чтобы сервисы и тесты могли
// работать без метрик.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Результаты попытки входа.
const (
	AuthSuccess     = "success"
	AuthFailure     = "failure"
	AuthRateLimited = "rate_limited"
)

// Metrics хранит зарегистрированные коллекторы.
type Metrics struct {
	registry        *prometheus.Registry
	authAttempts    *prometheus.CounterVec
	bookingsCreated prometheus.Counter
	requestDuration *prometheus.HistogramVec
}

// New создает отдельный реестр и регистрирует в нем метрики приложения.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "travel_auth_attempts_total",
			Help: "Sign-in attempts by result.",
		}, []string{"result"}),
		bookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "travel_bookings_created_total",
			Help: "Hotel bookings successfully reserved.",
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "travel_http_request_duration_seconds",
			Help:    "HTTP request duration by route, method and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
	reg.MustRegister(m.authAttempts, m.bookingsCreated, m.requestDuration)
	return m
}

// AuthAttempt увеличивает счетчик попыток входа с результатом result.
func (m *Metrics) AuthAttempt(result string) {
	if m == nil {
		return
	}
	m.authAttempts.WithLabelValues(result).Inc()
}

// BookingCreated увеличивает счетчик созданных бронирований.
func (m *Metrics) BookingCreated() {
	if m == nil {
		return
	}
	m.bookingsCreated.Inc()
}

// Handler отдает метрики в формате prometheus.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware измеряет длительность запросов. Метка route берется из шаблона
// маршрута chi, чтобы идентификаторы в пути не раздували число серий.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requestDuration.
			WithLabelValues(route, r.Method, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}
