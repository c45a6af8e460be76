package supervisor

import (
	"io"
	"os"
	"os/exec"
	"sync/atomic"
)

// ExecStarter spawns processes with os/exec in their own process group.
type ExecStarter struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecStarter creates a starter whose children share the launcher's stdio.
func NewExecStarter() *ExecStarter {
	return &ExecStarter{Stdout: os.Stdout, Stderr: os.Stderr}
}

func (s *ExecStarter) Start(spec Spec) (Handle, error) {
	// Not CommandContext: the process must outlive the launcher's context and
	// only stop on the explicit termination request.
	cmd := exec.Command(spec.Command[0], spec.Command[1:]...)
	cmd.Dir = spec.Dir
	cmd.Env = append(os.Environ(), spec.Env...)
	cmd.Stdout = s.Stdout
	cmd.Stderr = s.Stderr
	setProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &execHandle{cmd: cmd}, nil
}

type execHandle struct {
	cmd    *exec.Cmd
	exited atomic.Bool
}

func (h *execHandle) Pid() int { return h.cmd.Process.Pid }

func (h *execHandle) Wait() error {
	err := h.cmd.Wait()
	h.exited.Store(true)
	return err
}

func (h *execHandle) Terminate() error {
	if h.exited.Load() {
		// The pid may be reused after reaping; never signal the group then.
		return os.ErrProcessDone
	}
	return terminate(h.cmd)
}
