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

func (cmd *TartCommand) decompress(ctx context.Context, w io.Writer) (archive.Result, error) {
	input := cmd.Input[0]

	result, err := cmd.extractArchive(ctx, input)
	if err != nil {
		return result, err
	}

	_, _ = fmt.Fprintf(w, "Extracted contents of %s to %s\n", input, cmd.Output)

	logrus.WithFields(logrus.Fields{
		"entries": result.Entries,
		"size":    units.HumanSize(float64(result.Bytes)),
	}).Debugln("Archive extracted")

	return result, nil
}

func (cmd *TartCommand) extractArchive(ctx context.Context, input string) (result archive.Result, err error) {
	f, err := os.Open(input)
	if err != nil {
		return result, fmt.Errorf("opening archive: %w", err)
	}

	size := int64(meter.UnknownTotalSize)
	if fi, statErr := f.Stat(); statErr == nil {
		size = fi.Size()
	}

	in := meter.NewReader(
		f,
		cmd.TransferMeterFrequency,
		meter.LabelledRateFormat(cmd.progress, "Extracting", size),
	)
	defer closeWithError(in, &err)

	extractor, err := archive.NewExtractor(archive.TarGzip, in, cmd.Output)
	if err != nil {
		return result, err
	}

	result, err = extractor.Extract(ctx)
	if err != nil {
		return result, fmt.Errorf("extracting %s: %w", input, err)
	}

	return result, nil
}
