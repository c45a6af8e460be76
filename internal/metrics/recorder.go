package metrics

import "time"

// ResultLabel enumerates setup step outcomes for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
	ResultSkipped ResultLabel = "skipped"
)

// TerminationLabel enumerates outcomes of a shutdown termination request.
type TerminationLabel string

const (
	TerminationSent          TerminationLabel = "sent"
	TerminationAlreadyExited TerminationLabel = "already_exited"
	TerminationFailed        TerminationLabel = "failed"
)

// Recorder defines observability hooks for the launcher. All methods must be
// safe to call on the NoopRecorder.
type Recorder interface {
	ObserveStepDuration(step string, d time.Duration)
	IncStepResult(step string, result ResultLabel)
	IncPrerequisiteResult(tool string, found bool)
	IncSpawn(process string, success bool)
	IncTermination(process string, result TerminationLabel)
	SetProcessUp(process string, up bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStepDuration(string, time.Duration) {}
func (NoopRecorder) IncStepResult(string, ResultLabel) {}
func (NoopRecorder) IncPrerequisiteResult(string, bool) {}
func (NoopRecorder) IncSpawn(string, bool) {}
func (NoopRecorder) IncTermination(string, TerminationLabel) {}
func (NoopRecorder) SetProcessUp(string, bool) {}
