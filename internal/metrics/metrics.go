package metrics

import (
	"net/http"
	"time"

	"feeder-fund-calc/internal/waterfall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Registry holds the service's Prometheus collectors.
type Registry struct {
	reg *prometheus.Registry

	RunsTotal        *prometheus.CounterVec
	RunDuration      *prometheus.HistogramVec
	PeriodsProcessed prometheus.Counter
	PeriodsSkipped   *prometheus.CounterVec
	CachedRuns       prometheus.Gauge

	HTTPDuration *prometheus.HistogramVec
}

// NewRegistry builds the collectors on a private registry, together with the
// Go runtime and process collectors.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundfee_runs_total",
				Help: "Waterfall runs by policy and result",
			},
			[]string{"policy", "result"},
		),

		RunDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fundfee_run_duration_seconds",
				Help:    "Duration of a waterfall run in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"policy"},
		),

		PeriodsProcessed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "fundfee_periods_processed_total",
				Help: "Ledger rows emitted across all runs",
			},
		),

		PeriodsSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundfee_periods_skipped_total",
				Help: "Input rows dropped by the engine, by reason",
			},
			[]string{"reason"},
		),

		CachedRuns: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "fundfee_cached_runs",
				Help: "Runs currently held in the in-memory cache",
			},
		),

		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fundfee_http_request_duration_seconds",
				Help:    "HTTP request duration by route and status",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}

	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.RunsTotal,
		r.RunDuration,
		r.PeriodsProcessed,
		r.PeriodsSkipped,
		r.CachedRuns,
		r.HTTPDuration,
	)
	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// RunTimer tracks one waterfall run.
type RunTimer struct {
	metrics *Registry
	policy  string
	start   time.Time
}

func (r *Registry) StartRun(policy string) *RunTimer {
	return &RunTimer{metrics: r, policy: policy, start: time.Now()}
}

// Stop records the run outcome. res may be nil when the run failed.
func (t *RunTimer) Stop(res *waterfall.Result, err error) {
	if t == nil || t.metrics == nil {
		return
	}
	t.metrics.ObserveRun(t.policy, time.Since(t.start), res, err)
}

// ObserveRun records a run whose duration was measured elsewhere, such as
// one of a concurrent batch.
func (r *Registry) ObserveRun(policy string, d time.Duration, res *waterfall.Result, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.RunDuration.WithLabelValues(policy).Observe(d.Seconds())
	r.RunsTotal.WithLabelValues(policy, result).Inc()
	if res != nil {
		r.PeriodsProcessed.Add(float64(len(res.Ledger)))
		for _, s := range res.Skipped {
			r.PeriodsSkipped.WithLabelValues(s.Reason).Inc()
		}
	}

	log.Debug().
		Str("policy", policy).
		Str("result", result).
		Dur("duration", d).
		Msg("run completed")
}

func (r *Registry) ObserveHTTP(method, route, status string, d time.Duration) {
	r.HTTPDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}
