//go:build unix

package supervisor

import (
	"errors"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// terminate sends SIGTERM to the child's process group so reloaders and
// dev-server workers stop with it, falling back to the child alone.
func terminate(cmd *exec.Cmd) error {
	pid := cmd.Process.Pid
	err := unix.Kill(-pid, unix.SIGTERM)
	if err == nil {
		return nil
	}
	if errors.Is(err, unix.ESRCH) {
		if sigErr := cmd.Process.Signal(unix.SIGTERM); sigErr != nil {
			if errors.Is(sigErr, os.ErrProcessDone) || errors.Is(sigErr, unix.ESRCH) {
				return os.ErrProcessDone
			}
			return sigErr
		}
		return nil
	}
	return cmd.Process.Signal(unix.SIGTERM)
}
