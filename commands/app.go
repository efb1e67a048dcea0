package commands

import (
	"github.com/urfave/cli"

	"gitlab.com/tart-cli/tart/common"
)

// NewApp builds the tart command line application. Help is handled by the
// --help flag of the command itself, so the built-in help flag and command
// are disabled.
func NewApp() *cli.App {
	app := cli.NewApp()
	app.Name = common.NAME
	app.Usage = "compress and decompress files using gzip and tar"
	app.Description = usageDescription
	app.Version = common.AppVersion.ShortLine()
	app.HideHelp = true
	app.CustomAppHelpTemplate = usageTemplate
	app.OnUsageError = func(_ *cli.Context, err error, _ bool) error {
		return err
	}

	common.SetAppAction(app, newTartCommand())

	return app
}

// Run expands the input arguments and runs app with them.
func Run(app *cli.App, args []string) error {
	args, err := ExpandInputArgs(args)
	if err != nil {
		return err
	}

	return app.Run(args)
}
