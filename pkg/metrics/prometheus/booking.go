package prometheus

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bookerd/bookerd/pkg/metrics"
)

// bookingMetrics is the Prometheus implementation of metrics.BookingMetrics.
type bookingMetrics struct {
	bookOperations   *prometheus.CounterVec
	seatsRequested   *prometheus.HistogramVec
	seatsGranted     *prometheus.CounterVec
	unbookOperations *prometheus.CounterVec
	seatsReleased    *prometheus.CounterVec
	invalidSeats     *prometheus.CounterVec
	seatsBooked      *prometheus.GaugeVec
	activeBookers    prometheus.Gauge
}

var (
	bookingOnce      sync.Once
	bookingSingleton *bookingMetrics
)

// NewBookingMetrics returns the Prometheus-backed BookingMetrics instance.
// The metric vectors register exactly once on the shared registry; every
// caller after the first gets the same instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewBookingMetrics() metrics.BookingMetrics {
	if !metrics.IsEnabled() {
		return nil
	}

	bookingOnce.Do(func() {
		bookingSingleton = newBookingMetrics(metrics.GetRegistry())
	})
	return bookingSingleton
}

func newBookingMetrics(reg *prometheus.Registry) *bookingMetrics {
	return &bookingMetrics{
		bookOperations: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookerd_book_operations_total",
				Help: "Total number of booking calls by movie, theatre, mode and outcome",
			},
			[]string{"movie", "theatre", "best_effort", "outcome"},
		),
		seatsRequested: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bookerd_book_seats_requested",
				Help:    "Distribution of seats requested per booking call",
				Buckets: []float64{1, 2, 4, 8, 12, 16, 20},
			},
			[]string{"movie", "theatre"},
		),
		seatsGranted: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookerd_book_seats_granted_total",
				Help: "Total number of seats newly acquired by booking calls",
			},
			[]string{"movie", "theatre"},
		),
		unbookOperations: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookerd_unbook_operations_total",
				Help: "Total number of release calls by movie and theatre",
			},
			[]string{"movie", "theatre"},
		),
		seatsReleased: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookerd_unbook_seats_released_total",
				Help: "Total number of seats returned to the free pool",
			},
			[]string{"movie", "theatre"},
		),
		invalidSeats: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookerd_unbook_invalid_seats_total",
				Help: "Total number of release requests for seats the booker did not own",
			},
			[]string{"movie", "theatre"},
		),
		seatsBooked: promauto.With(reg).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "bookerd_seats_booked",
				Help: "Current number of allocated seats per theatre",
			},
			[]string{"movie", "theatre"},
		),
		activeBookers: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "bookerd_active_bookers",
				Help: "Current number of bookers joined to the engine",
			},
		),
	}
}

func (m *bookingMetrics) RecordBook(movie, theatre string, requested, granted int, bestEffort bool, outcome string) {
	if m == nil {
		return
	}

	m.bookOperations.WithLabelValues(movie, theatre, strconv.FormatBool(bestEffort), outcome).Inc()
	m.seatsRequested.WithLabelValues(movie, theatre).Observe(float64(requested))

	if granted > 0 {
		m.seatsGranted.WithLabelValues(movie, theatre).Add(float64(granted))
	}
}

func (m *bookingMetrics) RecordUnbook(movie, theatre string, released, invalid int) {
	if m == nil {
		return
	}

	m.unbookOperations.WithLabelValues(movie, theatre).Inc()
	if released > 0 {
		m.seatsReleased.WithLabelValues(movie, theatre).Add(float64(released))
	}
	if invalid > 0 {
		m.invalidSeats.WithLabelValues(movie, theatre).Add(float64(invalid))
	}
}

func (m *bookingMetrics) SetSeatsBooked(movie, theatre string, count int) {
	if m == nil {
		return
	}
	m.seatsBooked.WithLabelValues(movie, theatre).Set(float64(count))
}

func (m *bookingMetrics) SetActiveBookers(count int) {
	if m == nil {
		return
	}
	m.activeBookers.Set(float64(count))
}
