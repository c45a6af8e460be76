// Package prereq verifies that the executables the launcher depends on resolve on PATH.
package prereq

import (
	"log/slog"
	"os/exec"

	ferrors "git.home.luguber.info/inful/branchlaunch/internal/foundation/errors"
	"git.home.luguber.info/inful/branchlaunch/internal/logfields"
)

// LookPathFunc resolves an executable name to a path.
type LookPathFunc func(file string) (string, error)

// Check is the outcome of resolving one required tool.
type Check struct {
	Tool      string
	Path      string
	Satisfied bool
}

// Checker evaluates a fixed, ordered list of required tools.
type Checker struct {
	tools    []string
	lookPath LookPathFunc
}

// NewChecker creates a checker backed by exec.LookPath.
func NewChecker(tools []string) *Checker {
	return &Checker{tools: tools, lookPath: exec.LookPath}
}

// WithLookPath swaps the resolver; used by tests.
func (c *Checker) WithLookPath(fn LookPathFunc) *Checker {
	if fn != nil {
		c.lookPath = fn
	}
	return c
}

// Evaluate resolves every tool without stopping at the first failure.
func (c *Checker) Evaluate() []Check {
	checks := make([]Check, 0, len(c.tools))
	for _, tool := range c.tools {
		path, err := c.lookPath(tool)
		checks = append(checks, Check{Tool: tool, Path: path, Satisfied: err == nil})
	}
	return checks
}

// Run resolves the tools in order and fails with the first missing one.
func (c *Checker) Run() ([]Check, error) {
	checks := make([]Check, 0, len(c.tools))
	for _, tool := range c.tools {
		path, err := c.lookPath(tool)
		if err != nil {
			slog.Error("Required tool not found", logfields.Tool(tool))
			checks = append(checks, Check{Tool: tool})
			return checks, ferrors.PrerequisiteError("required tool not found on PATH").
				WithCause(err).
				WithContext(ferrors.ContextTool, tool).
				Build()
		}
		slog.Info("Prerequisite found", logfields.Tool(tool), logfields.Path(path))
		checks = append(checks, Check{Tool: tool, Path: path, Satisfied: true})
	}
	return checks, nil
}
