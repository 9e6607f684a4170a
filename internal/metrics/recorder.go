package metrics

import "time"

// ResultLabel enumerates per-file outcomes for counters.
type ResultLabel string

const (
	ResultChanged   ResultLabel = "changed"
	ResultUnchanged ResultLabel = "unchanged"
	ResultCopied    ResultLabel = "copied"
	ResultFailed    ResultLabel = "failed"
)

// Recorder defines observability hooks for filter runs. Implementations may
// forward to Prometheus or any other backend.
type Recorder interface {
	IncFileResult(result ResultLabel)
	ObserveFilterDuration(d time.Duration)
	AddBytesRewritten(n int)
	ObserveRunDuration(d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncFileResult(ResultLabel)            {}
func (NoopRecorder) ObserveFilterDuration(time.Duration) {}
func (NoopRecorder) AddBytesRewritten(int)               {}
func (NoopRecorder) ObserveRunDuration(time.Duration)    {}
