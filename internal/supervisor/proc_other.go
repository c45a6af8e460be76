//go:build !unix

package supervisor

import "os/exec"

func setProcessGroup(*exec.Cmd) {}

// terminate kills the child; there is no SIGTERM outside unix.
func terminate(cmd *exec.Cmd) error {
	return cmd.Process.Kill()
}
