// Package metrics счётчики Prometheus сервиса бронирования.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Результаты попытки бронирования.
const (
	ResultCreated     = "created"
	ResultFullyBooked = "fully_booked"
	ResultError       = "error"
)

var (
	// BookingAttempts попытки бронирования по результату.
	BookingAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hotel_booking",
		Name:      "booking_attempts_total",
		Help:      "Booking attempts by result.",
	}, []string{"result"})

	// BookingStatusChanges смены статуса бронирования.
	BookingStatusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hotel_booking",
		Name:      "booking_status_changes_total",
		Help:      "Booking status transitions by target status.",
	}, []string{"status"})

	// SchedulerUpdates записи, изменённые фоновыми задачами.
	SchedulerUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hotel_booking",
		Name:      "scheduler_updated_bookings_total",
		Help:      "Bookings updated by scheduler jobs.",
	}, []string{"job"})

	// EmailsSent письма по типу и результату.
	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hotel_booking",
		Name:      "emails_sent_total",
		Help:      "Notification e-mails by kind and result.",
	}, []string{"kind", "result"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hotel_booking",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "code"})
)

// HTTPMiddleware измеряет время ответа по шаблону маршрута chi.
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		httpDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}
