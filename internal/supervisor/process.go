package supervisor

import (
	stderrors "errors"
	"os"
	"strings"
	"sync"
	"time"

	"git.home.luguber.info/inful/branchlaunch/internal/metrics"
)

// Spec describes a subsystem process to spawn.
type Spec struct {
	Name    string
	Dir     string
	Command []string
	Env     []string
}

// Handle is the OS-level side of a spawned process.
type Handle interface {
	Pid() int
	// Terminate sends a termination request. It returns os.ErrProcessDone
	// when the process had already exited.
	Terminate() error
	// Wait blocks until the process exits.
	Wait() error
}

// ManagedProcess is a spawned subsystem plus its descriptive metadata.
type ManagedProcess struct {
	Name      string
	Command   []string
	Dir       string
	StartedAt time.Time

	handle Handle
	done   chan struct{}

	mu      sync.Mutex
	exitErr error

	terminateOnce sync.Once
	requested     bool
	result        TerminationResult
}

func newManagedProcess(spec Spec, h Handle, startedAt time.Time) *ManagedProcess {
	return &ManagedProcess{
		Name:      spec.Name,
		Command:   spec.Command,
		Dir:       spec.Dir,
		StartedAt: startedAt,
		handle:    h,
		done:      make(chan struct{}),
	}
}

// PID returns the OS process identifier.
func (p *ManagedProcess) PID() int { return p.handle.Pid() }

// CommandLine renders the launch command for logs.
func (p *ManagedProcess) CommandLine() string { return strings.Join(p.Command, " ") }

// Done is closed once the process has exited and been reaped.
func (p *ManagedProcess) Done() <-chan struct{} { return p.done }

// Exited reports whether the process has exited.
func (p *ManagedProcess) Exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// ExitErr returns the wait error once the process exited.
func (p *ManagedProcess) ExitErr() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exitErr
}

// TerminationRequested reports whether the launcher has asked the process to stop.
func (p *ManagedProcess) TerminationRequested() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requested
}

// reap waits for exit in the background so the process never lingers as a zombie.
func (p *ManagedProcess) reap() {
	err := p.handle.Wait()
	p.mu.Lock()
	p.exitErr = err
	p.mu.Unlock()
	close(p.done)
}

// TerminationResult is the outcome of the single termination request.
type TerminationResult struct {
	Process string
	PID     int
	Outcome metrics.TerminationLabel
	Err     error
}

// Terminate issues the termination request. Only the first call signals the
// process; later calls return the first outcome.
func (p *ManagedProcess) Terminate() TerminationResult {
	p.terminateOnce.Do(func() {
		res := TerminationResult{Process: p.Name, PID: p.PID(), Outcome: metrics.TerminationSent}
		err := p.handle.Terminate()
		switch {
		case err == nil:
		case stderrors.Is(err, os.ErrProcessDone):
			res.Outcome = metrics.TerminationAlreadyExited
		default:
			res.Outcome = metrics.TerminationFailed
			res.Err = err
		}
		p.mu.Lock()
		p.requested = true
		p.result = res
		p.mu.Unlock()
	})
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.result
}
