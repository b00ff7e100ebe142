package telemetry

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector captures query cache events.
//
// Hooks run inline while the cache commits fetch results, so implementations
// must not block.
type Collector interface {
	ObserveFetch(query string, outcome string, duration time.Duration)
	IncDeduplicated(query string)
	IncSuperseded(query string)
}

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

type noopCollector struct{}

// Noop returns a collector that discards all metrics.
func Noop() Collector {
	return noopCollector{}
}

func (noopCollector) ObserveFetch(string, string, time.Duration) {}
func (noopCollector) IncDeduplicated(string)                     {}
func (noopCollector) IncSuperseded(string)                       {}

// PrometheusCollector exposes query cache metrics via Prometheus.
type PrometheusCollector struct {
	fetches      *prometheus.CounterVec
	durations    *prometheus.HistogramVec
	deduplicated *prometheus.CounterVec
	superseded   *prometheus.CounterVec
}

// NewPrometheusCollector registers the metrics with reg, reusing collectors that
// are already registered under the same names.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	fetches, err := registerCounterVec(reg, prometheus.CounterOpts{
		Name: "nebuloviz_query_fetches_total",
		Help: "Number of completed query fetches by query name and outcome.",
	}, []string{"query", "outcome"})
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nebuloviz_query_fetch_duration_seconds",
		Help:    "Latency of query fetches by query name.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"query"})
	if err := reg.Register(durations); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, err
		}
		existing, ok := already.ExistingCollector.(*prometheus.HistogramVec)
		if !ok {
			return nil, err
		}
		durations = existing
	}

	deduplicated, err := registerCounterVec(reg, prometheus.CounterOpts{
		Name: "nebuloviz_query_deduplicated_total",
		Help: "Number of fetch requests that joined an in-flight fetch for the same key.",
	}, []string{"query"})
	if err != nil {
		return nil, err
	}

	superseded, err := registerCounterVec(reg, prometheus.CounterOpts{
		Name: "nebuloviz_query_superseded_total",
		Help: "Number of fetch results discarded because a newer fetch was started.",
	}, []string{"query"})
	if err != nil {
		return nil, err
	}

	return &PrometheusCollector{
		fetches:      fetches,
		durations:    durations,
		deduplicated: deduplicated,
		superseded:   superseded,
	}, nil
}

func (c *PrometheusCollector) ObserveFetch(query string, outcome string, duration time.Duration) {
	c.fetches.WithLabelValues(query, outcome).Inc()
	c.durations.WithLabelValues(query).Observe(duration.Seconds())
}

func (c *PrometheusCollector) IncDeduplicated(query string) {
	c.deduplicated.WithLabelValues(query).Inc()
}

func (c *PrometheusCollector) IncSuperseded(query string) {
	c.superseded.WithLabelValues(query).Inc()
}

func registerCounterVec(reg prometheus.Registerer, opts prometheus.CounterOpts, labels []string) (*prometheus.CounterVec, error) {
	counter := prometheus.NewCounterVec(opts, labels)
	if err := reg.Register(counter); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, err
		}
		existing, ok := already.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, err
		}
		return existing, nil
	}

	return counter, nil
}
