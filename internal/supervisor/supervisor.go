package supervisor

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/jonboulle/clockwork"

	ferrors "git.home.luguber.info/inful/branchlaunch/internal/foundation/errors"
	"git.home.luguber.info/inful/branchlaunch/internal/logfields"
	"git.home.luguber.info/inful/branchlaunch/internal/metrics"
)

// Starter turns a Spec into a running process.
type Starter interface {
	Start(spec Spec) (Handle, error)
}

// Supervisor owns the handles of every spawned subsystem.
type Supervisor struct {
	starter  Starter
	clock    clockwork.Clock
	recorder metrics.Recorder

	mu    sync.Mutex
	procs []*ManagedProcess
}

// New creates a supervisor around starter.
func New(starter Starter) *Supervisor {
	return &Supervisor{starter: starter, clock: clockwork.NewRealClock(), recorder: metrics.NoopRecorder{}}
}

// WithClock injects the clock used for StartedAt timestamps.
func (s *Supervisor) WithClock(c clockwork.Clock) *Supervisor {
	if c != nil {
		s.clock = c
	}
	return s
}

// WithRecorder injects a metrics recorder.
func (s *Supervisor) WithRecorder(r metrics.Recorder) *Supervisor {
	if r != nil {
		s.recorder = r
	}
	return s
}

// Spawn starts the process without waiting for it and registers its handle.
func (s *Supervisor) Spawn(spec Spec) (*ManagedProcess, error) {
	if len(spec.Command) == 0 {
		return nil, ferrors.SpawnError("empty command").WithContext(ferrors.ContextProcess, spec.Name).Build()
	}

	h, err := s.starter.Start(spec)
	if err != nil {
		s.recorder.IncSpawn(spec.Name, false)
		return nil, ferrors.SpawnError(fmt.Sprintf("failed to start %s", spec.Name)).
			WithCause(err).
			WithContext(ferrors.ContextProcess, spec.Name).
			Build()
	}

	p := newManagedProcess(spec, h, s.clock.Now())
	s.Register(p)
	go p.reap()

	s.recorder.IncSpawn(spec.Name, true)
	s.recorder.SetProcessUp(spec.Name, true)
	slog.Info("Process started",
		logfields.Process(p.Name),
		logfields.PID(p.PID()),
		logfields.Dir(p.Dir),
		logfields.Command(p.CommandLine()))
	return p, nil
}

// Register tracks p for shutdown.
func (s *Supervisor) Register(p *ManagedProcess) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.procs = append(s.procs, p)
}

// Processes returns the registered handles in spawn order.
func (s *Supervisor) Processes() []*ManagedProcess {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*ManagedProcess, len(s.procs))
	copy(out, s.procs)
	return out
}

// Shutdown issues one termination request to every registered process.
func (s *Supervisor) Shutdown() []TerminationResult {
	return Shutdown(s.Processes(), s.recorder)
}

// Shutdown sends a termination request to each process exactly once. A process
// that already exited, or whose signal fails, never prevents the remaining
// processes from being signaled. It does not wait for exit.
func Shutdown(procs []*ManagedProcess, recorder metrics.Recorder) []TerminationResult {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	results := make([]TerminationResult, 0, len(procs))
	for _, p := range procs {
		res := p.Terminate()
		recorder.IncTermination(p.Name, res.Outcome)
		recorder.SetProcessUp(p.Name, false)

		switch res.Outcome {
		case metrics.TerminationSent:
			slog.Info("Termination requested", logfields.Process(p.Name), logfields.PID(res.PID))
		case metrics.TerminationAlreadyExited:
			slog.Info("Process already exited", logfields.Process(p.Name), logfields.PID(res.PID))
		default:
			slog.Warn("Termination request failed", logfields.Process(p.Name), logfields.PID(res.PID), logfields.Error(res.Err))
		}
		results = append(results, res)
	}
	return results
}
