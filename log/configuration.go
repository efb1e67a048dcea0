package log

import (
	"fmt"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	clihelpers "gitlab.com/gitlab-org/golang-cli-helpers"
)

const (
	FormatTart = "tart"
	FormatText = "text"
	FormatJSON = "json"
)

var (
	configuration = NewConfig(logrus.StandardLogger())

	formats = map[string]logrus.Formatter{
		FormatTart: new(TextFormatter),
		FormatText: new(logrus.TextFormatter),
		FormatJSON: new(logrus.JSONFormatter),
	}
)

// Options are the logging flags shared by every invocation.
type Options struct {
	Debug     bool   `long:"debug" env:"TART_DEBUG" description:"Log everything, including the debug summary of each operation"`
	LogFormat string `long:"log-format" env:"TART_LOG_FORMAT" description:"Log format (options: tart, text, json)"`
	LogLevel  string `short:"l" long:"log-level" env:"TART_LOG_LEVEL" description:"Log level (options: debug, info, warn, error, fatal, panic)"`
}

func formatNames() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

type Config struct {
	logger *logrus.Logger
	level  logrus.Level
	format logrus.Formatter
}

func NewConfig(logger *logrus.Logger) *Config {
	return &Config{
		logger: logger,
		level:  logrus.InfoLevel,
		format: new(TextFormatter),
	}
}

func Configuration() *Config {
	return configuration
}

// Apply sets the level and format chosen with opts and reloads the logger.
// --debug overrides --log-level.
func (l *Config) Apply(opts Options) error {
	if opts.LogLevel != "" {
		if err := l.SetLevel(opts.LogLevel); err != nil {
			return err
		}
	}

	if opts.Debug {
		l.level = logrus.DebugLevel
	}

	if opts.LogFormat != "" {
		if err := l.SetFormat(opts.LogFormat); err != nil {
			return err
		}
	}

	l.ReloadConfiguration()

	return nil
}

func (l *Config) SetLevel(levelString string) error {
	level, err := logrus.ParseLevel(levelString)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}

	l.level = level

	return nil
}

func (l *Config) SetFormat(format string) error {
	formatter, ok := formats[format]
	if !ok {
		return fmt.Errorf("unknown log format %q, expected one of: %v", format, formatNames())
	}

	l.format = formatter

	return nil
}

func (l *Config) ReloadConfiguration() {
	l.logger.SetOutput(os.Stderr)
	l.logger.SetFormatter(l.format)
	l.logger.SetLevel(l.level)
}

// ConfigureLogging adds the logging flags to the app and applies them before
// any action runs. Log output always goes to stderr, leaving stdout to the
// operation results.
func ConfigureLogging(app *cli.App) {
	opts := new(Options)
	app.Flags = append(app.Flags, clihelpers.GetFlagsFromStruct(opts)...)

	appBefore := app.Before
	app.Before = func(cliCtx *cli.Context) error {
		if err := Configuration().Apply(*opts); err != nil {
			logrus.WithError(err).Fatal("Error while setting up logging configuration")
		}

		if appBefore != nil {
			return appBefore(cliCtx)
		}
		return nil
	}
}
