// Package metrics defines observability hooks for generation runs.
package metrics

import "time"

// Recorder defines observability hooks for run and artifact metrics.
// Implementations may forward to Prometheus, OpenTelemetry, etc.
type Recorder interface {
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(outcome string) // outcome: success|warning|failed
	IncArtifactWritten()
	IncArtifactUpToDate()
	AddOrphansSwept(n int)
	AddCoverageGaps(typeName string, n int)
	IncSpecFailure()
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRunDuration(time.Duration) {}
func (NoopRecorder) IncRunOutcome(string)             {}
func (NoopRecorder) IncArtifactWritten()              {}
func (NoopRecorder) IncArtifactUpToDate()             {}
func (NoopRecorder) AddOrphansSwept(int)              {}
func (NoopRecorder) AddCoverageGaps(string, int)      {}
func (NoopRecorder) IncSpecFailure()                  {}
