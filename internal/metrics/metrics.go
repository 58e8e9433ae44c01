package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "booking_engine",
			Name:      "booking_created_total",
			Help:      "Count of bookings committed.",
		},
	)

	bookingRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "booking_engine",
			Name:      "booking_rejected_total",
			Help:      "Count of booking attempts rejected, by error kind.",
		},
		[]string{"kind"},
	)

	bookingStatus = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "booking_engine",
			Name:      "booking_status_total",
			Help:      "Count of booking status changes by target status.",
		},
		[]string{"status"},
	)

	slotsGenerated = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "booking_engine",
			Name:      "slots_generated",
			Help:      "Number of slots returned per discovery request.",
			Buckets:   []float64{0, 1, 5, 10, 20, 40, 80},
		},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "booking_engine",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status code.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method", "code"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, bookingRejected, bookingStatus, slotsGenerated, httpDuration)
	})
}

func IncBookingCreated() {
	bookingCreated.Inc()
}

func IncBookingRejected(kind string) {
	bookingRejected.WithLabelValues(kind).Inc()
}

func IncBookingStatus(status string) {
	bookingStatus.WithLabelValues(status).Inc()
}

func ObserveSlots(n int) {
	slotsGenerated.Observe(float64(n))
}

func ObserveHTTP(route, method, code string, elapsed time.Duration) {
	httpDuration.WithLabelValues(route, method, code).Observe(elapsed.Seconds())
}
