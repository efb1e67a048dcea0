package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"gitlab.com/tart-cli/tart/archive"
	"gitlab.com/tart-cli/tart/commands/meter"
	"gitlab.com/tart-cli/tart/common"

	// register the tar.gz archiver, extractor and appender
	_ "gitlab.com/tart-cli/tart/archive/targz"
)

//nolint:lll
type TartCommand struct {
	meter.TransferMeterCommand

	Compress   bool `short:"c" long:"compress" description:"Compress the input files into a single .tar.gz archive"`
	Decompress bool `short:"d" long:"decompress" description:"Extract a .tar.gz archive into the output directory"`
	Add        bool `short:"a" long:"add" description:"Add the input file to the existing .tar.gz output archive"`
	Help       bool `short:"h" long:"help" description:"Display this help message"`

	// -i is rewritten to --input by ExpandInputArgs
	Input  []string `long:"input" description:"Input file(s) for compression, the archive for decompression or the file to add (short: -i)"`
	Output string   `short:"o" long:"output" description:"Output archive (.tar.gz) or extraction directory"`

	CompressionLevel string   `long:"compression-level" env:"TART_COMPRESSION_LEVEL" description:"Compression level (options: fastest, fast, default, slow, slowest)"`
	Exclude          []string `long:"exclude" env:"TART_EXCLUDE" description:"Pattern of paths to leave out of the archive (can be used multiple times)"`
	MetricsFile      string   `long:"metrics-file" env:"TART_METRICS_FILE" description:"Write operation metrics in the Prometheus text format to this file"`
	ConfigFile       string   `long:"config" env:"TART_CONFIG" description:"TOML file with default settings"`

	// progress is where the transfer meter is drawn
	progress io.Writer
}

func newTartCommand() *TartCommand {
	return &TartCommand{progress: os.Stderr}
}

func (cmd *TartCommand) Execute(c *cli.Context) error {
	op, err := cmd.resolveOperation()
	if err != nil {
		return err
	}

	if op == OperationHelp {
		return cli.ShowAppHelp(c)
	}

	if c.NArg() > 0 {
		return fmt.Errorf("%w: %s", ErrUnexpectedArguments, strings.Join(c.Args(), " "))
	}

	if err := cmd.loadConfig(); err != nil {
		return err
	}

	if err := cmd.validate(op); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	result, err := cmd.run(ctx, c.App.Writer, op)

	if cmd.MetricsFile != "" {
		metrics := newOperationMetrics(op)
		metrics.observe(result, time.Since(started), err)

		if werr := metrics.writeTo(cmd.MetricsFile); werr != nil {
			logrus.WithError(werr).Warningln("Failed to write metrics file", cmd.MetricsFile)
		}
	}

	return err
}

func (cmd *TartCommand) run(ctx context.Context, w io.Writer, op Operation) (archive.Result, error) {
	switch op {
	case OperationCompress:
		return cmd.compress(ctx, w)
	case OperationDecompress:
		return cmd.decompress(ctx, w)
	case OperationAdd:
		return cmd.add(ctx, w)
	case OperationUnspecified, OperationHelp:
	}

	return archive.Result{}, fmt.Errorf("%w: got %s", ErrUnspecifiedOperation, op)
}

// loadConfig fills every setting that was not given on the command line or
// through the environment from the config file.
func (cmd *TartCommand) loadConfig() error {
	if cmd.ConfigFile == "" {
		return nil
	}

	config := common.NewConfig()
	if err := config.LoadConfig(cmd.ConfigFile); err != nil {
		return fmt.Errorf("loading config file %s: %w", cmd.ConfigFile, err)
	}

	if !config.Loaded {
		logrus.Warningln("Config file", cmd.ConfigFile, "does not exist, using defaults")
		return nil
	}

	settings := common.Config{
		CompressionLevel:       cmd.CompressionLevel,
		Exclude:                cmd.Exclude,
		MetricsFile:            cmd.MetricsFile,
		TransferMeterFrequency: cmd.TransferMeterFrequency,
	}
	if err := settings.Merge(config); err != nil {
		return fmt.Errorf("merging config file %s: %w", cmd.ConfigFile, err)
	}

	cmd.CompressionLevel = settings.CompressionLevel
	cmd.Exclude = settings.Exclude
	cmd.MetricsFile = settings.MetricsFile
	cmd.TransferMeterFrequency = settings.TransferMeterFrequency

	logrus.WithField("config", cmd.ConfigFile).Debugln("Loaded config file")

	return nil
}
