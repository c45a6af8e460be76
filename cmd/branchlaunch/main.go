package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/branchlaunch/cmd/branchlaunch/commands"
	"git.home.luguber.info/inful/branchlaunch/internal/config"
	ferrors "git.home.luguber.info/inful/branchlaunch/internal/foundation/errors"
	"git.home.luguber.info/inful/branchlaunch/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Must(cli,
		kong.Name("branchlaunch"),
		kong.Description("Bootstrap and run the Branch Messaging App backend and frontend for local development."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String(), "config_file": config.DefaultPath},
	)

	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	err = ctx.Run(&commands.Global{Logger: slog.Default()}, cli)
	os.Exit(ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default(), os.Stderr).Report(err))
}
