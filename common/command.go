package common

import (
	"github.com/urfave/cli"
	clihelpers "gitlab.com/gitlab-org/golang-cli-helpers"
)

// Commander executes the command with the cli.Context.
type Commander interface {
	Execute(c *cli.Context) error
}

// SetAppAction makes data the single action of app. The flags are derived
// from the struct tags of data and appended after any extra flags.
func SetAppAction(app *cli.App, data Commander, flags ...cli.Flag) {
	app.Action = data.Execute
	app.Flags = append(app.Flags, append(flags, clihelpers.GetFlagsFromStruct(data)...)...)
}
