package metrics

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "windfleet_"

	resultSuccess = "success"
	resultError   = "error"
	resultSkipped = "skipped"
)

var (
	registerOnce sync.Once
	registry     *prometheus.Registry

	sourceFilesTotal *prometheus.CounterVec
	rowsLoadedTotal  *prometheus.CounterVec
	rowsDroppedTotal *prometheus.CounterVec

	stageTotal   *prometheus.CounterVec
	stageLatency *prometheus.HistogramVec

	availabilityPct *prometheus.GaugeVec
	downtimeHours   *prometheus.GaugeVec

	wakeTimestamps *prometheus.GaugeVec
	powerCurveBins *prometheus.GaugeVec

	reportTotal *prometheus.CounterVec
)

// Init registers the batch collectors on a private registry.
func Init() {
	registerOnce.Do(func() {
		registry = prometheus.NewRegistry()

		sourceFilesTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "source_files_total",
				Help: "Source files processed by family and result",
			},
			[]string{"family", "result"},
		)
		rowsLoadedTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "rows_loaded_total",
				Help: "Rows accepted during ingestion by family",
			},
			[]string{"family"},
		)
		rowsDroppedTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "rows_dropped_total",
				Help: "Rows dropped during ingestion by family and reason",
			},
			[]string{"family", "reason"},
		)

		stageTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "stage_total",
				Help: "Pipeline stage executions by result",
			},
			[]string{"stage", "result"},
		)
		stageLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "stage_latency_seconds",
				Help:    "Pipeline stage latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage", "result"},
		)

		availabilityPct = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "availability_percent",
				Help: "Annual availability by turbine and year",
			},
			[]string{"turbine", "year"},
		)
		downtimeHours = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "downtime_hours",
				Help: "Ranked downtime hours by turbine and IEC category",
			},
			[]string{"turbine", "category"},
		)

		wakeTimestamps = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "wake_timestamps",
				Help: "Wake filter timestamp set sizes",
			},
			[]string{"set"},
		)
		powerCurveBins = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "power_curve_bins",
				Help: "Non-empty power curve bins by turbine",
			},
			[]string{"turbine"},
		)

		reportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_total",
				Help: "Report artifacts written by format and result",
			},
			[]string{"format", "result"},
		)

		registry.MustRegister(
			sourceFilesTotal,
			rowsLoadedTotal,
			rowsDroppedTotal,
			stageTotal,
			stageLatency,
			availabilityPct,
			downtimeHours,
			wakeTimestamps,
			powerCurveBins,
			reportTotal,
		)
	})
}

// Gatherer exposes the private registry, or nil before Init.
func Gatherer() prometheus.Gatherer {
	if registry == nil {
		return nil
	}
	return registry
}

// IncSourceFile counts one processed source file.
func IncSourceFile(family, result string) {
	if family == "" {
		family = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if sourceFilesTotal != nil {
		sourceFilesTotal.WithLabelValues(family, result).Inc()
	}
}

// AddRowsLoaded counts accepted rows.
func AddRowsLoaded(family string, count int) {
	if count <= 0 {
		return
	}
	if rowsLoadedTotal != nil {
		rowsLoadedTotal.WithLabelValues(family).Add(float64(count))
	}
}

// AddRowsDropped counts rows rejected for reason.
func AddRowsDropped(family, reason string, count int) {
	if count <= 0 {
		return
	}
	if reason == "" {
		reason = "unknown"
	}
	if rowsDroppedTotal != nil {
		rowsDroppedTotal.WithLabelValues(family, reason).Add(float64(count))
	}
}

// ObserveStage records a pipeline stage latency and result.
func ObserveStage(stage, result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if stageTotal != nil {
		stageTotal.WithLabelValues(stage, result).Inc()
	}
	if stageLatency != nil {
		stageLatency.WithLabelValues(stage, result).Observe(duration.Seconds())
	}
}

// SetAvailability publishes one availability record.
func SetAvailability(turbine string, year int, pct float64) {
	if availabilityPct != nil {
		availabilityPct.WithLabelValues(turbine, strconv.Itoa(year)).Set(pct)
	}
}

// SetDowntimeHours publishes one ranked downtime cause.
func SetDowntimeHours(turbine, category string, hours float64) {
	if downtimeHours != nil {
		downtimeHours.WithLabelValues(turbine, category).Set(hours)
	}
}

// SetWakeTimestamps publishes the size of a wake filter timestamp set.
func SetWakeTimestamps(set string, count int) {
	if wakeTimestamps != nil {
		wakeTimestamps.WithLabelValues(set).Set(float64(count))
	}
}

// SetPowerCurveBins publishes the number of non-empty bins of a turbine curve.
func SetPowerCurveBins(turbine string, count int) {
	if powerCurveBins != nil {
		powerCurveBins.WithLabelValues(turbine).Set(float64(count))
	}
}

// IncReport counts one written report artifact.
func IncReport(format, result string) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if reportTotal != nil {
		reportTotal.WithLabelValues(format, result).Inc()
	}
}

// WriteTextfile writes the registry in the text exposition format for a
// node_exporter textfile collector.
func WriteTextfile(path string) error {
	g := Gatherer()
	if g == nil {
		return errors.New("metrics: not initialised")
	}
	return prometheus.WriteToTextfile(path, g)
}

// Result labels for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
	ResultSkipped = resultSkipped
)

// Result maps an error to a result label.
func Result(err error) string {
	if err != nil {
		return resultError
	}
	return resultSuccess
}
