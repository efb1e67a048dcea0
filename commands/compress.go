package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/docker/go-units"
	"github.com/sirupsen/logrus"

	"gitlab.com/tart-cli/tart/archive"
	"gitlab.com/tart-cli/tart/commands/meter"
)

func (cmd *TartCommand) compress(ctx context.Context, w io.Writer) (archive.Result, error) {
	result, err := cmd.createArchive(ctx)
	if err != nil {
		return result, err
	}

	skipped := ""
	if len(result.Skipped) > 0 {
		skipped = fmt.Sprintf(" (%d skipped)", len(result.Skipped))
	}
	_, _ = fmt.Fprintf(w, "Compressed %d file(s) into %s%s\n", result.Written, cmd.Output, skipped)

	logrus.WithFields(logrus.Fields{
		"entries": result.Entries,
		"size":    units.HumanSize(float64(result.Bytes)),
	}).Debugln("Archive created")

	return result, nil
}

func (cmd *TartCommand) createArchive(ctx context.Context) (result archive.Result, err error) {
	f, err := os.Create(cmd.Output)
	if err != nil {
		return result, fmt.Errorf("creating archive: %w", err)
	}

	output, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return result, fmt.Errorf("creating archive: %w", err)
	}

	out := meter.NewWriter(
		f,
		cmd.TransferMeterFrequency,
		meter.LabelledRateFormat(cmd.progress, "Compressing", meter.UnknownTotalSize),
	)
	defer closeWithError(out, &err)

	level := GetCompressionLevel(cmd.CompressionLevel)
	archiver, err := archive.NewArchiver(archive.TarGzip, out, output, level, cmd.Exclude)
	if err != nil {
		return result, err
	}

	result, err = archiver.Archive(ctx, cmd.Input)
	if err != nil {
		return result, fmt.Errorf("compressing into %s: %w", cmd.Output, err)
	}

	return result, nil
}
