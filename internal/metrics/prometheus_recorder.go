package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric name.
const Namespace = "skypages"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	stageDuration   *prom.HistogramVec
	buildDuration   prom.Histogram
	stageResults    *prom.CounterVec
	buildOutcome    *prom.CounterVec
	bundlerMessages *prom.CounterVec
	lastBuild       prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: Namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: Namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		})
		pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: Namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: Namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by classification",
		}, []string{"outcome"})
		pr.bundlerMessages = prom.NewCounterVec(prom.CounterOpts{
			Namespace: Namespace,
			Name:      "bundler_messages_total",
			Help:      "Errors and warnings reported by the bundler",
		}, []string{"kind"})
		pr.lastBuild = prom.NewGauge(prom.GaugeOpts{
			Namespace: Namespace,
			Name:      "last_build_timestamp_seconds",
			Help:      "Unix time the last build finished",
		})
		reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.stageResults, pr.buildOutcome, pr.bundlerMessages, pr.lastBuild)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
	p.lastBuild.SetToCurrentTime()
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) AddBundlerMessages(kind string, n int) {
	if p == nil || p.bundlerMessages == nil || n <= 0 {
		return
	}
	p.bundlerMessages.WithLabelValues(kind).Add(float64(n))
}
