// Package monitor periodically reports the liveness of managed processes.
//
// A subsystem that dies while the launcher waits for an interrupt is only
// reported, never restarted.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/branchlaunch/internal/logfields"
	"git.home.luguber.info/inful/branchlaunch/internal/metrics"
	"git.home.luguber.info/inful/branchlaunch/internal/supervisor"
)

// ProcessSource lists the processes to watch.
type ProcessSource interface {
	Processes() []*supervisor.ManagedProcess
}

// Status is the liveness of one process at the last check.
type Status struct {
	Process string
	PID     int
	Alive   bool
	ExitErr error
	// Stopped marks an exit that followed a termination request.
	Stopped bool
}

// Monitor wraps a gocron scheduler running the liveness check.
type Monitor struct {
	scheduler gocron.Scheduler
	source    ProcessSource
	recorder  metrics.Recorder
	interval  time.Duration

	mu       sync.Mutex
	reported map[*supervisor.ManagedProcess]bool
}

// New creates a monitor checking source every interval.
func New(source ProcessSource, recorder metrics.Recorder, interval time.Duration) (*Monitor, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("monitor interval must be positive, got %s", interval)
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Monitor{
		scheduler: s,
		source:    source,
		recorder:  recorder,
		interval:  interval,
		reported:  make(map[*supervisor.ManagedProcess]bool),
	}, nil
}

// Start schedules the check and starts the scheduler.
func (m *Monitor) Start(_ context.Context) error {
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(m.interval),
		gocron.NewTask(func() { m.Check() }),
		gocron.WithName("process-liveness"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create liveness job: %w", err)
	}

	slog.Info("Starting process monitor", slog.Duration("interval", m.interval))
	m.scheduler.Start()
	return nil
}

// Stop shuts the scheduler down.
func (m *Monitor) Stop() error {
	slog.Debug("Stopping process monitor")
	return m.scheduler.Shutdown()
}

// Check inspects every process once. An unexpected exit is logged the first
// time it is seen.
func (m *Monitor) Check() []Status {
	procs := m.source.Processes()
	out := make([]Status, 0, len(procs))

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range procs {
		st := Status{Process: p.Name, PID: p.PID(), Alive: !p.Exited()}
		if st.Alive {
			m.recorder.SetProcessUp(p.Name, true)
			slog.Debug("Process alive", logfields.Process(p.Name), logfields.PID(st.PID))
		} else {
			st.ExitErr = p.ExitErr()
			st.Stopped = p.TerminationRequested()
			m.recorder.SetProcessUp(p.Name, false)
			if !m.reported[p] && !st.Stopped {
				m.reported[p] = true
				attrs := []any{logfields.Process(p.Name), logfields.PID(st.PID)}
				if st.ExitErr != nil {
					attrs = append(attrs, logfields.Error(st.ExitErr))
				}
				slog.Warn("Process exited while launcher is running", attrs...)
			}
		}
		out = append(out, st)
	}
	return out
}
