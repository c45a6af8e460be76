package eventstore

import (
	"encoding/json"
	"time"

	"git.home.luguber.info/inful/branchlaunch/internal/foundation/errors"
)

// Event type names written to the journal.
const (
	TypeRunStarted        = "RunStarted"
	TypeStepCompleted     = "StepCompleted"
	TypeProcessStarted    = "ProcessStarted"
	TypeProcessTerminated = "ProcessTerminated"
	TypeRunFailed         = "RunFailed"
	TypeRunStopped        = "RunStopped"
)

func newBaseEvent(runID, eventType string, payload any) (BaseEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return BaseEvent{}, errors.EventStoreError("failed to marshal "+eventType+" payload").
			WithCause(err).
			WithContext("run_id", runID).
			Build()
	}
	return BaseEvent{
		EventRunID:     runID,
		EventType:      eventType,
		EventTimestamp: time.Now(),
		EventPayload:   data,
	}, nil
}

// RunStarted is emitted once the launcher begins a run.
type RunStarted struct {
	BaseEvent
	WorkDir string `json:"work_dir"`
	Commit  string `json:"commit,omitempty"`
	Version string `json:"version"`
}

// NewRunStarted creates a RunStarted event.
func NewRunStarted(runID, workDir, commit, version string) (*RunStarted, error) {
	e := &RunStarted{WorkDir: workDir, Commit: commit, Version: version}
	base, err := newBaseEvent(runID, TypeRunStarted, map[string]any{
		"work_dir": workDir,
		"commit":   commit,
		"version":  version,
	})
	if err != nil {
		return nil, err
	}
	e.BaseEvent = base
	return e, nil
}

// StepCompleted is emitted after a setup step ran or was skipped.
type StepCompleted struct {
	BaseEvent
	Step     string        `json:"step"`
	Skipped  bool          `json:"skipped"`
	Duration time.Duration `json:"duration_ms"`
}

// NewStepCompleted creates a StepCompleted event.
func NewStepCompleted(runID, step string, skipped bool, duration time.Duration) (*StepCompleted, error) {
	e := &StepCompleted{Step: step, Skipped: skipped, Duration: duration}
	base, err := newBaseEvent(runID, TypeStepCompleted, map[string]any{
		"step":        step,
		"skipped":     skipped,
		"duration_ms": duration.Milliseconds(),
	})
	if err != nil {
		return nil, err
	}
	e.BaseEvent = base
	return e, nil
}

// ProcessStarted is emitted when a subsystem process is spawned.
type ProcessStarted struct {
	BaseEvent
	Process string `json:"process"`
	PID     int    `json:"pid"`
	Command string `json:"command"`
}

// NewProcessStarted creates a ProcessStarted event.
func NewProcessStarted(runID, process string, pid int, command string) (*ProcessStarted, error) {
	e := &ProcessStarted{Process: process, PID: pid, Command: command}
	base, err := newBaseEvent(runID, TypeProcessStarted, map[string]any{
		"process": process,
		"pid":     pid,
		"command": command,
	})
	if err != nil {
		return nil, err
	}
	e.BaseEvent = base
	return e, nil
}

// ProcessTerminated is emitted when shutdown sent the termination request.
type ProcessTerminated struct {
	BaseEvent
	Process string `json:"process"`
	PID     int    `json:"pid"`
	Outcome string `json:"outcome"`
}

// NewProcessTerminated creates a ProcessTerminated event.
func NewProcessTerminated(runID, process string, pid int, outcome string) (*ProcessTerminated, error) {
	e := &ProcessTerminated{Process: process, PID: pid, Outcome: outcome}
	base, err := newBaseEvent(runID, TypeProcessTerminated, map[string]any{
		"process": process,
		"pid":     pid,
		"outcome": outcome,
	})
	if err != nil {
		return nil, err
	}
	e.BaseEvent = base
	return e, nil
}

// RunFailed is emitted when the launcher aborts with an error.
type RunFailed struct {
	BaseEvent
	Category string `json:"category"`
	Message  string `json:"message"`
}

// NewRunFailed creates a RunFailed event.
func NewRunFailed(runID, category, message string) (*RunFailed, error) {
	e := &RunFailed{Category: category, Message: message}
	base, err := newBaseEvent(runID, TypeRunFailed, map[string]any{
		"category": category,
		"message":  message,
	})
	if err != nil {
		return nil, err
	}
	e.BaseEvent = base
	return e, nil
}

// RunStopped is emitted after a clean shutdown.
type RunStopped struct {
	BaseEvent
	Uptime time.Duration `json:"uptime_ms"`
}

// NewRunStopped creates a RunStopped event.
func NewRunStopped(runID string, uptime time.Duration) (*RunStopped, error) {
	e := &RunStopped{Uptime: uptime}
	base, err := newBaseEvent(runID, TypeRunStopped, map[string]any{"uptime_ms": uptime.Milliseconds()})
	if err != nil {
		return nil, err
	}
	e.BaseEvent = base
	return e, nil
}
