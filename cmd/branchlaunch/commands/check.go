package commands

import (
	"fmt"
	"os"

	ferrors "git.home.luguber.info/inful/branchlaunch/internal/foundation/errors"
	"git.home.luguber.info/inful/branchlaunch/internal/layout"
	"git.home.luguber.info/inful/branchlaunch/internal/prereq"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct{}

func (c *CheckCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	wd, err := os.Getwd()
	if err != nil {
		return ferrors.FileSystemError("cannot determine working directory").WithCause(err).Build()
	}
	lay := layout.Layout{Root: wd, BackendDir: cfg.Backend.Dir, FrontendDir: cfg.Frontend.Dir}
	return RunCheck(lay, prereq.NewChecker(cfg.Prerequisites))
}

// RunCheck prints the state of the project layout and every prerequisite,
// then fails the same way 'up' would.
func RunCheck(lay layout.Layout, checker *prereq.Checker) error {
	layoutErr := lay.Verify()
	if layoutErr != nil {
		fmt.Fprintf(stdout, "✗ project layout: expected %s/ and %s/ in %s\n", lay.BackendDir, lay.FrontendDir, lay.Root)
	} else {
		fmt.Fprintf(stdout, "✓ project layout: %s\n", lay.Root)
	}

	var missing string
	for _, check := range checker.Evaluate() {
		if check.Satisfied {
			fmt.Fprintf(stdout, "✓ %s: %s\n", check.Tool, check.Path)
			continue
		}
		fmt.Fprintf(stdout, "✗ %s: not found on PATH\n", check.Tool)
		if missing == "" {
			missing = check.Tool
		}
	}

	if layoutErr != nil {
		return layoutErr
	}
	if missing != "" {
		return ferrors.PrerequisiteError("required tool not found on PATH").
			WithContext(ferrors.ContextTool, missing).
			Build()
	}
	fmt.Fprintln(stdout, "Ready to launch")
	return nil
}
