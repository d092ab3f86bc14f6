package keeper

import (
	"time"

	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	go_prometheus "github.com/go-kit/kit/metrics/prometheus"
	"github.com/prometheus/client_golang/prometheus"
)

const MetricsSubsystem = "wasm"

// Metrics records the elapsed seconds per contract entry point
type Metrics struct {
	InstantiateElapsedTimes metrics.Histogram
	ExecuteElapsedTimes     metrics.Histogram
	MigrateElapsedTimes     metrics.Histogram
	SudoElapsedTimes        metrics.Histogram
	ReplyElapsedTimes       metrics.Histogram
	QuerySmartElapsedTimes  metrics.Histogram
	QueryRawElapsedTimes    metrics.Histogram
}

// PrometheusMetrics builds the metrics as summaries registered with reg.
func PrometheusMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	summary := func(name, help string) metrics.Histogram {
		sv := prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      name,
			Help:      help,
		}, nil)
		reg.MustRegister(sv)
		return go_prometheus.NewSummary(sv)
	}
	return &Metrics{
		InstantiateElapsedTimes: summary("instantiate", "elapsed time of Instantiate the wasm contract"),
		ExecuteElapsedTimes:     summary("execute", "elapsed time of Execute the wasm contract"),
		MigrateElapsedTimes:     summary("migrate", "elapsed time of Migrate the wasm contract"),
		SudoElapsedTimes:        summary("sudo", "elapsed time of Sudo the wasm contract"),
		ReplyElapsedTimes:       summary("reply", "elapsed time of Reply the wasm contract"),
		QuerySmartElapsedTimes:  summary("query_smart", "elapsed time of QuerySmart the wasm contract"),
		QueryRawElapsedTimes:    summary("query_raw", "elapsed time of QueryRaw the wasm contract"),
	}
}

// NopMetrics returns no-op Metrics.
func NopMetrics() *Metrics {
	return &Metrics{
		InstantiateElapsedTimes: discard.NewHistogram(),
		ExecuteElapsedTimes:     discard.NewHistogram(),
		MigrateElapsedTimes:     discard.NewHistogram(),
		SudoElapsedTimes:        discard.NewHistogram(),
		ReplyElapsedTimes:       discard.NewHistogram(),
		QuerySmartElapsedTimes:  discard.NewHistogram(),
		QueryRawElapsedTimes:    discard.NewHistogram(),
	}
}

// observeSince records the seconds passed since begin. Use with defer.
func observeSince(h metrics.Histogram, begin time.Time) {
	h.Observe(time.Since(begin).Seconds())
}
