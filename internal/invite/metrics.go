package invite

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// distanceCalculations counts distance computations per estimator.
	distanceCalculations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invite_distance_calculations_total",
		Help: "Total number of distance calculations by method",
	}, []string{"method"})

	// solverIterations tracks how many λ iterations Vincenty needed.
	solverIterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "invite_vincenty_iterations",
		Help:    "Number of iterations used by the Vincenty solver",
		Buckets: []float64{1, 2, 3, 4, 5, 10, 20, 50, 100, 200},
	})

	convergenceFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "invite_vincenty_convergence_failures_total",
		Help: "Total number of Vincenty computations that did not converge",
	})

	// fallbacks counts records measured with the spherical estimate after a failure.
	fallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "invite_spherical_fallbacks_total",
		Help: "Total number of spherical fallbacks after a convergence failure",
	})

	invitedCount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "invite_selected_customers_count",
		Help:    "Number of customers invited per selection",
		Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000},
	})

	// operationDuration tracks the time taken per operation.
	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "invite_operation_duration_seconds",
		Help:    "Time taken by invite operations by type",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"operation"}) // operation: select, compare, distance
)

// MetricsRecorder provides methods to record invite metrics.
type MetricsRecorder struct{}

// NewMetricsRecorder creates a new metrics recorder.
func NewMetricsRecorder() *MetricsRecorder {
	return &MetricsRecorder{}
}

// RecordCalculation records one distance computation.
func (m *MetricsRecorder) RecordCalculation(method Method) {
	distanceCalculations.WithLabelValues(string(method)).Inc()
}

// RecordIterations records the iteration count of a converged Vincenty run.
func (m *MetricsRecorder) RecordIterations(n int) {
	solverIterations.Observe(float64(n))
}

// RecordConvergenceFailure records a non-converging Vincenty run.
func (m *MetricsRecorder) RecordConvergenceFailure() {
	convergenceFailures.Inc()
}

// RecordFallback records a spherical fallback.
func (m *MetricsRecorder) RecordFallback() {
	fallbacks.Inc()
}

// RecordInvited records the size of a selection.
func (m *MetricsRecorder) RecordInvited(n int) {
	invitedCount.Observe(float64(n))
}

// RecordDuration records the duration of an operation.
func (m *MetricsRecorder) RecordDuration(operation string, d time.Duration) {
	operationDuration.WithLabelValues(operation).Observe(d.Seconds())
}
