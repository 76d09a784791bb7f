package metrics

import "time"

// ResultLabel enumerates per-contract result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
)

// Run outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
	OutcomeAborted = "aborted"
)

// Recorder defines observability hooks for compile runs. All methods must be
// safe for nil receivers when using the NoopRecorder (allowing optional injection).
type Recorder interface {
	ObserveRunDuration(d time.Duration)
	ObserveCompileDuration(d time.Duration, result ResultLabel)
	IncArtifactResult(result ResultLabel)
	IncHookFailure(hook string)
	IncRunOutcome(outcome string) // outcome: success|failed|aborted
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRunDuration(time.Duration)                  {}
func (NoopRecorder) ObserveCompileDuration(time.Duration, ResultLabel) {}
func (NoopRecorder) IncArtifactResult(ResultLabel)                     {}
func (NoopRecorder) IncHookFailure(string)                             {}
func (NoopRecorder) IncRunOutcome(string)                              {}

// ResultFor maps an exit code to its label.
func ResultFor(exitCode int) ResultLabel {
	if exitCode == 0 {
		return ResultSuccess
	}
	return ResultFailed
}
