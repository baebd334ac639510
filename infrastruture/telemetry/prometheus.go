// Package telemetry exports run outcomes as Prometheus metrics.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/beka-birhanu/vinom-nav/metrics"
)

const namespace = "vinom_nav"

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// Collector records every closed run.
type Collector struct {
	runs       *prometheus.CounterVec
	pathLength *prometheus.HistogramVec
	nodes      *prometheus.HistogramVec
	duration   *prometheus.HistogramVec
	score      *prometheus.HistogramVec
}

var _ metrics.Observer = (*Collector)(nil)

// NewCollector registers the run metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	labels := []string{"algorithm", "maze"}

	return &Collector{
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Closed navigation runs by outcome.",
		}, append(labels, "outcome")),
		pathLength: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "path_length_steps",
			Help:      "Steps taken by successful runs.",
			Buckets:   prometheus.ExponentialBuckets(4, 2, 8),
		}, labels),
		nodes: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "nodes_explored",
			Help:      "Distinct positions explored by successful runs.",
			Buckets:   prometheus.ExponentialBuckets(8, 2, 10),
		}, labels),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall clock duration of successful runs, training included.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, labels),
		score: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "score",
			Help:      "Score of successful runs.",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		}, labels),
	}
}

// RunEnded counts r and, when it succeeded, observes its measurements.
func (c *Collector) RunEnded(r metrics.RunMetrics) {
	algo := string(r.Algorithm)
	if !r.Success {
		c.runs.WithLabelValues(algo, r.Maze, outcomeFailure).Inc()
		return
	}

	c.runs.WithLabelValues(algo, r.Maze, outcomeSuccess).Inc()
	c.pathLength.WithLabelValues(algo, r.Maze).Observe(float64(r.PathLength))
	c.nodes.WithLabelValues(algo, r.Maze).Observe(float64(r.NodesExplored))
	c.duration.WithLabelValues(algo, r.Maze).Observe(r.Elapsed)
	c.score.WithLabelValues(algo, r.Maze).Observe(r.Score)
}

// Handler serves the exposition format of g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
