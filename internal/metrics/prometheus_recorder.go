package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	registry        *prom.Registry
	runDuration     prom.Histogram
	compileDuration *prom.HistogramVec
	artifactResults *prom.CounterVec
	hookFailures    *prom.CounterVec
	runOutcomes     *prom.CounterVec
	lastRun         prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.once.Do(func() {
		pr.runDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "nile",
			Name:      "compile_run_duration_seconds",
			Help:      "Duration of complete compile runs",
			Buckets:   prom.DefBuckets,
		})
		pr.compileDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "nile",
			Name:      "compile_contract_duration_seconds",
			Help:      "Duration of individual compiler invocations",
			Buckets:   prom.ExponentialBuckets(0.25, 2, 8),
		}, []string{"result"})
		pr.artifactResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "nile",
			Name:      "compile_contract_results_total",
			Help:      "Compiled contracts by result",
		}, []string{"result"})
		pr.hookFailures = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "nile",
			Name:      "hook_failures_total",
			Help:      "Hook failures that aborted a compile run",
		}, []string{"hook"})
		pr.runOutcomes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "nile",
			Name:      "compile_run_outcomes_total",
			Help:      "Compile runs by final status",
		}, []string{"outcome"})
		pr.lastRun = prom.NewGauge(prom.GaugeOpts{
			Namespace: "nile",
			Name:      "compile_last_run_timestamp_seconds",
			Help:      "Unix time the last compile run finished",
		})
		reg.MustRegister(pr.runDuration, pr.compileDuration, pr.artifactResults, pr.hookFailures, pr.runOutcomes, pr.lastRun)
	})
	return pr
}

// Registry returns the registry the metrics were registered with.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.registry }

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
	p.lastRun.SetToCurrentTime()
}

func (p *PrometheusRecorder) ObserveCompileDuration(d time.Duration, result ResultLabel) {
	if p == nil || p.compileDuration == nil {
		return
	}
	p.compileDuration.WithLabelValues(string(result)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncArtifactResult(result ResultLabel) {
	if p == nil || p.artifactResults == nil {
		return
	}
	p.artifactResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncHookFailure(hook string) {
	if p == nil || p.hookFailures == nil {
		return
	}
	p.hookFailures.WithLabelValues(hook).Inc()
}

func (p *PrometheusRecorder) IncRunOutcome(outcome string) {
	if p == nil || p.runOutcomes == nil {
		return
	}
	p.runOutcomes.WithLabelValues(outcome).Inc()
}

// WriteTextfile writes the current registry in the textfile-collector format.
// The file is written atomically (temp file + rename).
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, p.registry)
}
