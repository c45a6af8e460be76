package commands

import (
	"fmt"

	"git.home.luguber.info/inful/branchlaunch/internal/version"
)

// VersionCmd implements the 'version' command.
type VersionCmd struct{}

func (v *VersionCmd) Run(_ *Global, _ *CLI) error {
	fmt.Fprintln(stdout, version.String())
	return nil
}
