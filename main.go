package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"gitlab.com/tart-cli/tart/commands"
	"gitlab.com/tart-cli/tart/common"
	cli_helpers "gitlab.com/tart-cli/tart/helpers/cli"
	"gitlab.com/tart-cli/tart/log"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			// log panics forces exit
			if _, ok := r.(*logrus.Entry); ok {
				os.Exit(1)
			}
			panic(r)
		}
	}()

	app := commands.NewApp()
	cli.VersionPrinter = common.AppVersion.Printer

	cli_helpers.LogRuntimePlatform(app)
	log.ConfigureLogging(app)

	if err := commands.Run(app, os.Args); err != nil {
		logrus.Fatal(err)
	}
}
