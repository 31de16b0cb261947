package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	runDuration  prom.Histogram
	runOutcome   *prom.CounterVec
	artifacts    *prom.CounterVec
	orphansSwept prom.Counter
	coverageGaps *prom.GaugeVec
	specFailures prom.Counter
}

// NewPrometheusRecorder constructs and registers Prometheus metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "refgen",
			Name:      "run_duration_seconds",
			Help:      "Total generation run duration",
			Buckets:   prom.DefBuckets,
		}),
		runOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "refgen",
			Name:      "run_outcomes_total",
			Help:      "Run outcomes by final status",
		}, []string{"outcome"}),
		artifacts: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "refgen",
			Name:      "artifacts_total",
			Help:      "Artifacts by disposition (written vs confirmed up-to-date)",
		}, []string{"disposition"}),
		orphansSwept: prom.NewCounter(prom.CounterOpts{
			Namespace: "refgen",
			Name:      "orphans_swept_total",
			Help:      "Orphaned artifacts deleted by the end-of-run sweep",
		}),
		coverageGaps: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "refgen",
			Name:      "coverage_gaps",
			Help:      "Undocumented public symbols, per type, as of the last run",
		}, []string{"type"}),
		specFailures: prom.NewCounter(prom.CounterOpts{
			Namespace: "refgen",
			Name:      "spec_failures_total",
			Help:      "Spec documents aborted due to malformed shape",
		}),
	}
	reg.MustRegister(pr.runDuration, pr.runOutcome, pr.artifacts,
		pr.orphansSwept, pr.coverageGaps, pr.specFailures)
	return pr
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(outcome string) {
	p.runOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncArtifactWritten() {
	p.artifacts.WithLabelValues("written").Inc()
}

func (p *PrometheusRecorder) IncArtifactUpToDate() {
	p.artifacts.WithLabelValues("up_to_date").Inc()
}

func (p *PrometheusRecorder) AddOrphansSwept(n int) {
	p.orphansSwept.Add(float64(n))
}

func (p *PrometheusRecorder) AddCoverageGaps(typeName string, n int) {
	p.coverageGaps.WithLabelValues(typeName).Set(float64(n))
}

func (p *PrometheusRecorder) IncSpecFailure() {
	p.specFailures.Inc()
}
