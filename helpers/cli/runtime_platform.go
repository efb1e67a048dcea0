package cli_helpers

import (
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"gitlab.com/tart-cli/tart/common"
)

// LogRuntimePlatform logs the platform and build details at debug level
// before the app action runs.
func LogRuntimePlatform(app *cli.App) {
	appBefore := app.Before
	app.Before = func(c *cli.Context) error {
		fields := logrus.Fields{
			"os":       runtime.GOOS,
			"arch":     runtime.GOARCH,
			"version":  common.AppVersion.Version,
			"revision": common.AppVersion.Revision,
			"pid":      os.Getpid(),
		}

		if appBefore != nil {
			if err := appBefore(c); err != nil {
				return err
			}
		}

		logrus.WithFields(fields).Debug("Runtime platform")

		return nil
	}
}
