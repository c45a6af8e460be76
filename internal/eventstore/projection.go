// Package eventstore keeps the SQLite journal of launcher runs and the
// read models built from it.
package eventstore

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"time"
)

const (
	RunStatusRunning = "running"
	RunStatusStopped = "stopped"
	RunStatusFailed  = "failed"
)

// RunSummary is a read model summarizing one launcher run.
type RunSummary struct {
	RunID         string         `json:"run_id"`
	Status        string         `json:"status"`
	StartedAt     time.Time      `json:"started_at"`
	EndedAt       *time.Time     `json:"ended_at,omitempty"`
	WorkDir       string         `json:"work_dir,omitempty"`
	Commit        string         `json:"commit,omitempty"`
	StepsRun      int            `json:"steps_run"`
	StepsSkipped  int            `json:"steps_skipped"`
	Processes     map[string]int `json:"processes,omitempty"` // name -> pid
	ErrorCategory string         `json:"error_category,omitempty"`
	ErrorMessage  string         `json:"error_message,omitempty"`
}

// RunHistoryProjection rebuilds run summaries from the journal.
type RunHistoryProjection struct {
	mu      sync.RWMutex
	store   Store
	runs    map[string]*RunSummary
	history []*RunSummary // newest first
	maxSize int
}

// NewRunHistoryProjection creates a projection backed by store.
func NewRunHistoryProjection(store Store, maxHistorySize int) *RunHistoryProjection {
	if maxHistorySize <= 0 {
		maxHistorySize = 100
	}
	return &RunHistoryProjection{
		store:   store,
		runs:    make(map[string]*RunSummary),
		maxSize: maxHistorySize,
	}
}

// Rebuild reconstructs the projection from every event in the store.
func (p *RunHistoryProjection) Rebuild(ctx context.Context) error {
	events, err := p.store.GetRange(ctx, time.Time{}, time.Now().Add(time.Hour))
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.runs = make(map[string]*RunSummary)
	p.history = nil
	for _, event := range events {
		p.applyLocked(event)
	}

	slices.SortStableFunc(p.history, func(a, b *RunSummary) int {
		return b.StartedAt.Compare(a.StartedAt)
	})
	if len(p.history) > p.maxSize {
		p.history = p.history[:p.maxSize]
	}
	return nil
}

func (p *RunHistoryProjection) applyLocked(event Event) {
	run, ok := p.runs[event.RunID()]
	if !ok {
		run = &RunSummary{RunID: event.RunID(), Status: RunStatusRunning, StartedAt: event.Timestamp()}
		p.runs[event.RunID()] = run
		p.history = append(p.history, run)
	}

	var payload map[string]any
	_ = json.Unmarshal(event.Payload(), &payload)

	switch event.Type() {
	case TypeRunStarted:
		run.StartedAt = event.Timestamp()
		run.WorkDir, _ = payload["work_dir"].(string)
		run.Commit, _ = payload["commit"].(string)
	case TypeStepCompleted:
		if skipped, _ := payload["skipped"].(bool); skipped {
			run.StepsSkipped++
		} else {
			run.StepsRun++
		}
	case TypeProcessStarted:
		name, _ := payload["process"].(string)
		pid, _ := payload["pid"].(float64)
		if run.Processes == nil {
			run.Processes = make(map[string]int)
		}
		run.Processes[name] = int(pid)
	case TypeRunFailed:
		ended := event.Timestamp()
		run.Status = RunStatusFailed
		run.EndedAt = &ended
		run.ErrorCategory, _ = payload["category"].(string)
		run.ErrorMessage, _ = payload["message"].(string)
	case TypeRunStopped:
		ended := event.Timestamp()
		run.Status = RunStatusStopped
		run.EndedAt = &ended
	}
}

// Recent returns up to limit runs, newest first. A non-positive limit returns all.
func (p *RunHistoryProjection) Recent(limit int) []RunSummary {
	p.mu.RLock()
	defer p.mu.RUnlock()

	n := len(p.history)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]RunSummary, n)
	for i := range n {
		out[i] = *p.history[i]
	}
	return out
}

// Get returns the summary for runID.
func (p *RunHistoryProjection) Get(runID string) (RunSummary, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	run, ok := p.runs[runID]
	if !ok {
		return RunSummary{}, false
	}
	return *run, true
}
