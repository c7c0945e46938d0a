// Package metrics records reconciliation and publishing results as Prometheus metrics.
//
// gcping runs as a batch job, so metrics are collected in a private registry and
// written to a node-exporter textfile after each run instead of being scraped.
package metrics

import (
	"fmt"

	"github.com/devantler-tech/gcping/pkg/svc/emitter"
	"github.com/devantler-tech/gcping/pkg/svc/reconciler"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gcping"

// Recorder collects gcping metrics in its own registry.
type Recorder struct {
	registry *prometheus.Registry

	runs            *prometheus.CounterVec
	regionOutcomes  *prometheus.CounterVec
	operations      *prometheus.CounterVec
	runDuration     prometheus.Histogram
	lastRun         prometheus.Gauge
	regionsServing  prometheus.Gauge
	lastPublishTime prometheus.Gauge
}

// NewRecorder creates a Recorder with every collector registered.
func NewRecorder() *Recorder {
	recorder := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_runs_total",
			Help:      "Reconciliation runs by result.",
		}, []string{"result"}),
		regionOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "region_outcomes_total",
			Help:      "Per-region reconciliation outcomes.",
		}, []string{"region", "outcome"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Provisioning operations that reached their end state.",
		}, []string{"kind"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reconcile_duration_seconds",
			Help:      "Duration of reconciliation runs.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_reconcile_timestamp_seconds",
			Help:      "Unix time the last reconciliation run finished.",
		}),
		regionsServing: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "emitted_regions",
			Help:      "Regions listed in the last emitted config.",
		}),
		lastPublishTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_emit_timestamp_seconds",
			Help:      "Unix time the config was last emitted.",
		}),
	}

	recorder.registry.MustRegister(
		recorder.runs,
		recorder.regionOutcomes,
		recorder.operations,
		recorder.runDuration,
		recorder.lastRun,
		recorder.regionsServing,
		recorder.lastPublishTime,
	)

	return recorder
}

// Registry returns the registry holding the recorder's collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveReport records a finished reconciliation run.
func (r *Recorder) ObserveReport(report *reconciler.Report) {
	if report == nil {
		return
	}

	result := "success"
	if report.Err() != nil {
		result = "partial_failure"
	}

	r.runs.WithLabelValues(result).Inc()

	for _, regionResult := range report.Results {
		r.regionOutcomes.WithLabelValues(regionResult.Region, string(regionResult.Outcome)).Inc()

		for _, op := range regionResult.Completed {
			r.operations.WithLabelValues(string(op.Kind)).Inc()
		}
	}

	r.runDuration.Observe(report.Duration().Seconds())
	r.lastRun.Set(float64(report.Finished.Unix()))
}

// ObserveFailedRun records a run that aborted before a plan could be applied.
func (r *Recorder) ObserveFailedRun() {
	r.runs.WithLabelValues("error").Inc()
}

// ObserveArtifact records an emitted config artifact.
func (r *Recorder) ObserveArtifact(artifact emitter.Artifact) {
	r.regionsServing.Set(float64(len(artifact.Regions)))
	r.lastPublishTime.SetToCurrentTime()
}

// WriteTextfile writes every metric to path in the Prometheus text format.
func (r *Recorder) WriteTextfile(path string) error {
	err := prometheus.WriteToTextfile(path, r.registry)
	if err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}

	return nil
}
