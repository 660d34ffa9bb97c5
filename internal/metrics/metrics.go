// Package metrics records seeding run statistics on a private Prometheus
// registry and pushes them to a Pushgateway at the end of a run.
package metrics

import (
	"context"
	"fmt"
	"time"

	"quiz-seed/internal/seed"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "quizseed"

var _ seed.Observer = (*Recorder)(nil)

// Recorder implements seed.Observer.
type Recorder struct {
	registry *prometheus.Registry
	records  *prometheus.CounterVec
	batches  *prometheus.CounterVec
	duration prometheus.Histogram
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Seed records by entity kind and upsert outcome.",
		}, []string{"kind", "outcome"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Finished seed batches by final state.",
		}, []string{"state"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Time spent running one seed batch, commit included.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
	}
	r.registry.MustRegister(r.records, r.batches, r.duration)
	return r
}

func (r *Recorder) ObserveRecords(kind, outcome string, n int) {
	r.records.WithLabelValues(kind, outcome).Add(float64(n))
}

func (r *Recorder) ObserveBatch(state string, duration time.Duration) {
	r.batches.WithLabelValues(state).Inc()
	r.duration.Observe(duration.Seconds())
}

// Registry exposes the registry for gathering.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Push replaces the metrics of job on the Pushgateway at url.
func (r *Recorder) Push(ctx context.Context, url, job string) error {
	if err := push.New(url, job).Gatherer(r.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	return nil
}
