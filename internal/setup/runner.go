// Package setup prepares the dependency environments of the backend and frontend
// subsystems. Every preparation is idempotent: artifacts that already exist
// (virtual environment, seeded database, installed node modules) are detected
// and the corresponding step is skipped.
package setup

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Step is one external command run to completion during setup.
type Step struct {
	Name    string
	Dir     string
	Command []string
	Env     []string
}

// String renders the command line for logs.
func (s Step) String() string {
	return strings.Join(s.Command, " ")
}

// StepRunner executes setup steps synchronously.
type StepRunner interface {
	Run(ctx context.Context, step Step) error
}

// ExecRunner runs steps as child processes with inherited output.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner creates a runner that streams step output to the launcher's stdio.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
}

func (r *ExecRunner) Run(ctx context.Context, step Step) error {
	cmd := exec.CommandContext(ctx, step.Command[0], step.Command[1:]...)
	cmd.Dir = step.Dir
	cmd.Env = append(os.Environ(), step.Env...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	return cmd.Run()
}

// exitCoder is satisfied by *exec.ExitError.
type exitCoder interface {
	ExitCode() int
}
