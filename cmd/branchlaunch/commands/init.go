package commands

import (
	"fmt"

	"git.home.luguber.info/inful/branchlaunch/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	return RunInit(root.Config, i.Force)
}

func RunInit(configPath string, force bool) error {
	fmt.Fprintf(stdout, "Writing configuration to %s\n", configPath)
	if err := config.Init(configPath, force); err != nil {
		fmt.Fprintln(stdout, "Initialization failed")
		return err
	}
	fmt.Fprintln(stdout, "initialized successfully")
	return nil
}
