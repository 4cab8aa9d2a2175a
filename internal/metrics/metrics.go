// Package metrics is the backend-agnostic recording surface for a generation
// run. The runner reports row counts, artifact decisions and step timings
// through the Backend interface and never touches a concrete metrics system;
// Prometheus lives in the prompush subpackage, and the zero-configuration
// default is Nop.
package metrics

import "time"

// Artifact statuses reported through FileWritten.
const (
	// StatusWritten means the file reached disk with at least the header.
	StatusWritten = "written"
	// StatusSuppressed means the file was skipped on purpose.
	StatusSuppressed = "suppressed"
	// StatusEmpty means only the header row was written.
	StatusEmpty = "empty"
)

// Backend records run counters. Implementations decide where the numbers
// land; callers may assume every method is cheap and never fails except
// Flush.
type Backend interface {
	// AddRows counts rows generated for a table, including rows that never
	// reach a file.
	AddRows(table string, n int)
	// FileWritten counts one artifact decision for a table.
	FileWritten(table, status string)
	// StepDuration records the wall time of one run step in seconds.
	StepDuration(step string, seconds float64)
	// Flush delivers batched metrics for backends that need it.
	Flush() error
}

// Nop is the default backend. It records nothing.
type Nop struct{}

func (Nop) AddRows(string, int) {}

func (Nop) FileWritten(string, string) {}

func (Nop) StepDuration(string, float64) {}

func (Nop) Flush() error { return nil }

// Step starts a timer for a named step. Calling the returned func records
// the elapsed seconds on b, so the usual pattern is
//
//	defer metrics.Step(b, "reference")()
func Step(b Backend, name string) func() {
	start := time.Now()
	return func() {
		b.StepDuration(name, time.Since(start).Seconds())
	}
}
