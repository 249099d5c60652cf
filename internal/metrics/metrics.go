// Package metrics records fetch outcomes as Prometheus metrics.
//
// The CLI runs once and exits, so nothing is scraped: the registry is flushed to
// a node-exporter textfile when a path is configured.
//
// Metrics:
//   - polybars_chunks_total{timespan, status}
//   - polybars_bars_total{timespan}
//   - polybars_chunk_duration_seconds{timespan}
//   - polybars_chunk_failures_total{kind}
//   - polybars_rate_limit_wait_seconds
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"polybars/internal/model"
)

// Recorder receives engine observations.
type Recorder interface {
	ObserveChunk(g model.Granularity, status string, bars int, d time.Duration)
	ObserveFailure(kind model.FailureKind)
	ObserveWait(d time.Duration)
}

// Nop discards every observation.
type Nop struct{}

func (Nop) ObserveChunk(model.Granularity, string, int, time.Duration) {}
func (Nop) ObserveFailure(model.FailureKind)                           {}
func (Nop) ObserveWait(time.Duration)                                  {}

// Prometheus is a Recorder backed by a private registry.
type Prometheus struct {
	reg      *prometheus.Registry
	chunks   *prometheus.CounterVec
	bars     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
	wait     prometheus.Histogram
}

// NewPrometheus creates and registers the fetch metrics.
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		reg: prometheus.NewRegistry(),
		chunks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "polybars_chunks_total",
			Help: "Chunk requests by timespan and outcome status",
		}, []string{"timespan", "status"}),
		bars: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "polybars_bars_total",
			Help: "Bars merged into the series",
		}, []string{"timespan"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "polybars_chunk_duration_seconds",
			Help:    "Duration of one chunk request",
			Buckets: prometheus.DefBuckets,
		}, []string{"timespan"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "polybars_chunk_failures_total",
			Help: "Failed chunk requests by classification",
		}, []string{"kind"}),
		wait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "polybars_rate_limit_wait_seconds",
			Help:    "Time spent waiting on the rate limiter before a request",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 12, 15, 30},
		}),
	}
	p.reg.MustRegister(p.chunks, p.bars, p.duration, p.failures, p.wait)
	return p
}

// Registry exposes the underlying registry.
func (p *Prometheus) Registry() *prometheus.Registry { return p.reg }

func (p *Prometheus) ObserveChunk(g model.Granularity, status string, bars int, d time.Duration) {
	ts := string(g.Timespan)
	p.chunks.WithLabelValues(ts, status).Inc()
	p.bars.WithLabelValues(ts).Add(float64(bars))
	p.duration.WithLabelValues(ts).Observe(d.Seconds())
}

func (p *Prometheus) ObserveFailure(kind model.FailureKind) {
	p.failures.WithLabelValues(string(kind)).Inc()
}

func (p *Prometheus) ObserveWait(d time.Duration) {
	p.wait.Observe(d.Seconds())
}

// WriteTextfile writes the registry in text exposition format to path.
func (p *Prometheus) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, p.reg)
}
