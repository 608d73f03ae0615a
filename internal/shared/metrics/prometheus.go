package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Business metrics
	appointmentsBookedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "appointments_booked_total",
			Help: "Total number of appointments booked",
		},
	)

	appointmentsCancelledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "appointments_cancelled_total",
			Help: "Total number of appointments cancelled",
		},
	)

	bookingConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_conflicts_total",
			Help: "Total number of booking attempts rejected because the slot was taken",
		},
	)

	slotQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slot_queries_total",
			Help: "Total number of availability queries by shift",
		},
		[]string{"shift"},
	)

	patientsRegisteredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "patients_registered_total",
			Help: "Total number of patients registered",
		},
	)
)

// RecordAppointmentBooked increments the booking counter
func RecordAppointmentBooked() {
	appointmentsBookedTotal.Inc()
}

// RecordAppointmentCancelled increments the cancellation counter
func RecordAppointmentCancelled() {
	appointmentsCancelledTotal.Inc()
}

// RecordBookingConflict increments the conflict counter
func RecordBookingConflict() {
	bookingConflictsTotal.Inc()
}

// RecordSlotQuery increments the availability query counter
func RecordSlotQuery(shift string) {
	slotQueriesTotal.WithLabelValues(shift).Inc()
}

// RecordPatientRegistered increments the registration counter
func RecordPatientRegistered() {
	patientsRegisteredTotal.Inc()
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// statusRecorder captures the response status code
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware records request counts and durations
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		duration := time.Since(start).Seconds()
		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(recorder.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}
