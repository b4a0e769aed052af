package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and gauges for one pipeline run.
type Metrics struct {
	RowsLoaded           prometheus.Counter
	InvalidDates         prometheus.Counter
	OutageRowsRemoved    prometheus.Counter
	UnparsableTemps      prometheus.Counter
	InterpolatedValues   prometheus.Counter
	UnfilledValues       prometheus.Counter
	ChartsRendered       *prometheus.CounterVec // labels: chart
	AnomalousYears       prometheus.Gauge
	RunDuration          prometheus.Gauge
	LastSuccessTimestamp prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests can
// build as many as they like or register them with a private registry.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sst_trends",
			Name:      "rows_loaded_total",
			Help:      "Data rows read from the source table.",
		}),
		InvalidDates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sst_trends",
			Name:      "invalid_dates_total",
			Help:      "Rows whose collection date could not be parsed.",
		}),
		OutageRowsRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sst_trends",
			Name:      "outage_rows_removed_total",
			Help:      "Rows dropped because they fall inside the instrument outage.",
		}),
		UnparsableTemps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sst_trends",
			Name:      "unparsable_temperatures_total",
			Help:      "Temperature cells that were empty or non-numeric.",
		}),
		InterpolatedValues: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sst_trends",
			Name:      "interpolated_values_total",
			Help:      "Missing temperatures filled by linear interpolation.",
		}),
		UnfilledValues: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sst_trends",
			Name:      "unfilled_values_total",
			Help:      "Leading or trailing temperatures left missing after interpolation.",
		}),
		ChartsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sst_trends",
			Name:      "charts_rendered_total",
			Help:      "Chart files written, by chart.",
		}, []string{"chart"}),
		AnomalousYears: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sst_trends",
			Name:      "anomalous_years",
			Help:      "Years whose mean lies outside the ±2σ band.",
		}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sst_trends",
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last pipeline run.",
		}),
		LastSuccessTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sst_trends",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time at which the last successful run finished.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.RowsLoaded,
		m.InvalidDates,
		m.OutageRowsRemoved,
		m.UnparsableTemps,
		m.InterpolatedValues,
		m.UnfilledValues,
		m.ChartsRendered,
		m.AnomalousYears,
		m.RunDuration,
		m.LastSuccessTimestamp,
	}
}

// Register adds every collector to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("register metric: %w", err)
		}
	}
	return nil
}

// WriteTextfile writes everything g gathers to path in the Prometheus text
// format. The file is replaced atomically.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
