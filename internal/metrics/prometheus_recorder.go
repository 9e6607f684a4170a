package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sitefilter"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	fileResults    *prom.CounterVec
	filterDuration prom.Histogram
	bytesRewritten prom.Counter
	runDuration    prom.Histogram
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		fileResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "files_total",
			Help:      "Files handled by outcome",
		}, []string{"result"}),
		filterDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "filter_duration_seconds",
			Help:      "Time spent applying the filter chain to one file",
			Buckets:   prom.ExponentialBuckets(0.0001, 4, 8),
		}),
		bytesRewritten: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_rewritten_total",
			Help:      "Bytes written for files whose content changed",
		}),
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a full directory run",
			Buckets:   prom.DefBuckets,
		}),
	}
	reg.MustRegister(pr.fileResults, pr.filterDuration, pr.bytesRewritten, pr.runDuration)
	return pr
}

func (p *PrometheusRecorder) IncFileResult(result ResultLabel) {
	if p == nil {
		return
	}
	p.fileResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveFilterDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.filterDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) AddBytesRewritten(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.bytesRewritten.Add(float64(n))
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

// HTTPHandler returns an http.Handler that serves Prometheus metrics for the provided registry.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
