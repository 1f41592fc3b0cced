package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "boothmon_"

	resultSuccess = "success"

	// ResultAbsent marks a fetch that degraded to "no data".
	ResultAbsent = "absent"
)

var (
	registerOnce sync.Once

	fetchTotal   *prometheus.CounterVec
	fetchLatency prometheus.Histogram

	cycleTotal   *prometheus.CounterVec
	cycleLatency prometheus.Histogram

	boothsNoData prometheus.Gauge

	alertsEmitted *prometheus.CounterVec

	topologyReloads *prometheus.CounterVec
)

// Init registers monitoring metrics. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		fetchTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "fetch_total",
				Help: "Total booth record fetches by result",
			},
			[]string{"result"},
		)
		fetchLatency = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "fetch_latency_seconds",
				Help:    "Booth record fetch latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
		)

		cycleTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "evaluation_cycles_total",
				Help: "Total topology-wide evaluation cycles by result",
			},
			[]string{"result"},
		)
		cycleLatency = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "evaluation_cycle_latency_seconds",
				Help:    "Topology-wide evaluation cycle latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
		)

		boothsNoData = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "booths_no_data",
				Help: "Booths with no data in the last evaluation cycle",
			},
		)

		alertsEmitted = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "alerts_emitted_total",
				Help: "Total alert events emitted by kind",
			},
			[]string{"kind"},
		)

		topologyReloads = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "topology_reloads_total",
				Help: "Total topology snapshot reloads by result",
			},
			[]string{"result"},
		)

		prometheus.MustRegister(
			fetchTotal,
			fetchLatency,
			cycleTotal,
			cycleLatency,
			boothsNoData,
			alertsEmitted,
			topologyReloads,
		)
	})
}

// ObserveFetch records one booth fetch.
func ObserveFetch(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if fetchTotal != nil {
		fetchTotal.WithLabelValues(result).Inc()
	}
	if fetchLatency != nil {
		fetchLatency.Observe(duration.Seconds())
	}
}

// ObserveCycle records one topology-wide evaluation cycle.
func ObserveCycle(result string, duration time.Duration, noData int) {
	if result == "" {
		result = resultSuccess
	}
	if cycleTotal != nil {
		cycleTotal.WithLabelValues(result).Inc()
	}
	if cycleLatency != nil {
		cycleLatency.Observe(duration.Seconds())
	}
	if boothsNoData != nil {
		boothsNoData.Set(float64(noData))
	}
}

// IncAlert increments the emitted alert counter.
func IncAlert(kind string) {
	if kind == "" {
		kind = "unknown"
	}
	if alertsEmitted != nil {
		alertsEmitted.WithLabelValues(kind).Inc()
	}
}

// IncTopologyReload increments the reload counter.
func IncTopologyReload(result string) {
	if result == "" {
		result = resultSuccess
	}
	if topologyReloads != nil {
		topologyReloads.WithLabelValues(result).Inc()
	}
}
