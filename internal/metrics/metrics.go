// Package metrics exposes reconciliation counters on a dedicated Prometheus
// registry. Daemon mode serves it on /metrics; one-shot runs push it to a
// Pushgateway when one is configured.
package metrics

import (
	"context"
	"net/http"
	"time"

	"reconciler/internal/core/application/usecases/commands"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Order results used as the result label of reconciler_orders_processed_total.
const (
	ResultUpdated     = "updated"
	ResultUnavailable = "unavailable"
	ResultUnchanged   = "unchanged"
	ResultNotMatched  = "not_matched"
	ResultFailed      = "failed"
	ResultSkipped     = "skipped"
)

type Metrics struct {
	Registry *prometheus.Registry

	OrdersProcessed  *prometheus.CounterVec
	CODConfirmed     *prometheus.CounterVec
	ProviderRequests *prometheus.CounterVec
	RunDuration      prometheus.Histogram
	LastRunSuccess   prometheus.Gauge
}

// New creates the collectors and registers them, together with the Go and
// process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		OrdersProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reconciler_orders_processed_total",
				Help: "Eligible orders processed, by provider and result.",
			},
			[]string{"provider", "result"},
		),
		CODConfirmed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reconciler_cod_confirmed_total",
				Help: "Orders confirmed through a cash on delivery settlement feed.",
			},
			[]string{"provider"},
		),
		ProviderRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reconciler_provider_requests_total",
				Help: "Outbound courier API requests, by provider and result.",
			},
			[]string{"provider", "result"},
		),
		RunDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "reconciler_run_duration_seconds",
				Help:    "Duration of a full reconciliation run.",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
			},
		),
		LastRunSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "reconciler_last_run_success_timestamp_seconds",
				Help: "Unix time of the last run that could read the order store.",
			},
		),
	}

	m.Registry.MustRegister(
		m.OrdersProcessed,
		m.CODConfirmed,
		m.ProviderRequests,
		m.RunDuration,
		m.LastRunSuccess,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveProviderRequest implements couriers.RequestObserver.
func (m *Metrics) ObserveProviderRequest(provider, result string) {
	m.ProviderRequests.WithLabelValues(provider, result).Inc()
}

// ObserveRun records the counters of a finished run.
func (m *Metrics) ObserveRun(report commands.Report, duration time.Duration, finishedAt time.Time) {
	for _, p := range report.Providers {
		m.add(p.Provider, ResultUpdated, p.Updated)
		m.add(p.Provider, ResultUnavailable, p.Unavailable)
		m.add(p.Provider, ResultUnchanged, p.Unchanged)
		m.add(p.Provider, ResultNotMatched, p.NotMatched)
		m.add(p.Provider, ResultFailed, p.Failed)
		m.add(p.Provider, ResultSkipped, p.Skipped)
		m.CODConfirmed.WithLabelValues(p.Provider).Add(float64(p.CODConfirmed))
	}

	m.RunDuration.Observe(duration.Seconds())
	if !report.AllEligibleReadsFailed() {
		m.LastRunSuccess.Set(float64(finishedAt.Unix()))
	}
}

func (m *Metrics) add(provider, result string, n int) {
	if n > 0 {
		m.OrdersProcessed.WithLabelValues(provider, result).Add(float64(n))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Push sends the registry to a Pushgateway under the given job name.
func (m *Metrics) Push(ctx context.Context, gatewayURL, job string) error {
	return push.New(gatewayURL, job).Gatherer(m.Registry).PushContext(ctx)
}
