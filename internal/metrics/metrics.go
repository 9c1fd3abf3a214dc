package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var totalBytes atomic.Int64

var (
	FixturesWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mergegen_fixtures_written_total",
		Help: "Number of fixture files written",
	}, []string{"scenario", "role"})

	FixtureBytesWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mergegen_fixture_bytes_written_total",
		Help: "Bytes of float32 data written to fixture files",
	}, []string{"scenario"})

	GoldenElements = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "mergegen_golden_elements",
		Help: "Element count of the most recent golden tensor",
	}, []string{"scenario"})

	ScenarioDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mergegen_scenario_duration_seconds",
		Help:    "Wall time to generate all files of a scenario",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"scenario"})

	ShapeErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mergegen_shape_errors_total",
		Help: "Merges rejected because source shapes disagree",
	}, []string{"scenario"})

	FlightRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mergegen_flight_requests_total",
		Help: "Arrow Flight requests served, by method and status",
	}, []string{"method", "status"})
)

// RecordFixture counts one written file of the given role (source or golden).
func RecordFixture(scenario, role string, bytes int64) {
	FixturesWritten.WithLabelValues(scenario, role).Inc()
	FixtureBytesWritten.WithLabelValues(scenario).Add(float64(bytes))
	totalBytes.Add(bytes)
}

func RecordGolden(scenario string, elements int) {
	GoldenElements.WithLabelValues(scenario).Set(float64(elements))
}

func RecordScenarioDuration(scenario string, d time.Duration) {
	ScenarioDuration.WithLabelValues(scenario).Observe(d.Seconds())
}

func RecordShapeError(scenario string) {
	ShapeErrors.WithLabelValues(scenario).Inc()
}

func RecordFlightRequest(method, status string) {
	FlightRequests.WithLabelValues(method, status).Inc()
}

// TotalBytes returns the bytes written by this process across all scenarios.
func TotalBytes() int64 {
	return totalBytes.Load()
}

// WriteTextfile dumps the default registry in the text exposition format,
// suitable for the node_exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
