// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// A generation run is a batch job, not a long-lived process, so there is
// nothing for Prometheus to scrape: counters accumulate in a private
// registry and reach the Pushgateway in one push when the runner flushes at
// the end. The run id becomes a grouping label so concurrent or repeated
// runs never overwrite each other.
//
// All Prometheus-specific dependencies live here; the rest of the project
// sees only metrics.Backend.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Backend collects run counters and pushes them on Flush.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	runID      string // Pushgateway "run_id" group, empty to omit
	reg        *prometheus.Registry

	rows  *prometheus.CounterVec // datagen_rows_total
	files *prometheus.CounterVec // datagen_files_total
	steps *prometheus.SummaryVec // datagen_step_duration_seconds
}

// New constructs a Pushgateway backend.
// jobName defaults to "dwhgen" when empty; gatewayURL is required.
func New(jobName, gatewayURL, runID string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "dwhgen"
	}

	reg := prometheus.NewRegistry()

	rows := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datagen_rows_total",
			Help: "Rows generated per table, counting cached rows even when the file is suppressed or emptied.",
		},
		[]string{"table"},
	)
	files := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datagen_files_total",
			Help: "Artifact decisions per table, partitioned by status (written, suppressed, empty).",
		},
		[]string{"table", "status"},
	)
	steps := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "datagen_step_duration_seconds",
			Help:       "Duration of run steps in seconds.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"step"},
	)

	if err := reg.Register(rows); err != nil {
		return nil, fmt.Errorf("prompush: register rows counter: %w", err)
	}
	if err := reg.Register(files); err != nil {
		return nil, fmt.Errorf("prompush: register files counter: %w", err)
	}
	if err := reg.Register(steps); err != nil {
		return nil, fmt.Errorf("prompush: register step summary: %w", err)
	}

	return &Backend{
		gatewayURL: gatewayURL,
		jobName:    jobName,
		runID:      runID,
		reg:        reg,
		rows:       rows,
		files:      files,
		steps:      steps,
	}, nil
}

// AddRows counts generated rows for one table.
func (b *Backend) AddRows(table string, n int) {
	if b.rows == nil || n <= 0 {
		return
	}
	b.rows.WithLabelValues(table).Add(float64(n))
}

// FileWritten counts one artifact decision for a table.
func (b *Backend) FileWritten(table, status string) {
	if b.files == nil {
		return
	}
	b.files.WithLabelValues(table, status).Inc()
}

// StepDuration records the wall time of one run step.
func (b *Backend) StepDuration(step string, seconds float64) {
	if b.steps == nil {
		return
	}
	b.steps.WithLabelValues(step).Observe(seconds)
}

// Flush pushes the registry to the Pushgateway under the job name and, when
// set, the run id grouping.
func (b *Backend) Flush() error {
	p := push.New(b.gatewayURL, b.jobName).Gatherer(b.reg)
	if b.runID != "" {
		p = p.Grouping("run_id", b.runID)
	}
	return p.Push()
}
