package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/docker/go-units"
	"github.com/sirupsen/logrus"

	"gitlab.com/tart-cli/tart/archive"
)

// add appends the --input file to the existing --output archive.
func (cmd *TartCommand) add(ctx context.Context, w io.Writer) (archive.Result, error) {
	file := cmd.Input[0]

	result, err := cmd.appendToArchive(ctx, file)
	if err != nil {
		return result, err
	}

	_, _ = fmt.Fprintf(w, "Added %s to %s\n", file, cmd.Output)

	logrus.WithFields(logrus.Fields{
		"archive": cmd.Output,
		"size":    units.HumanSize(float64(result.Bytes)),
	}).Debugln("File appended")

	return result, nil
}

func (cmd *TartCommand) appendToArchive(ctx context.Context, file string) (result archive.Result, err error) {
	f, err := os.OpenFile(cmd.Output, os.O_RDWR, 0)
	if err != nil {
		return result, fmt.Errorf("opening archive: %w", err)
	}
	defer closeWithError(f, &err)

	appender, err := archive.NewAppender(archive.TarGzip, f, GetCompressionLevel(cmd.CompressionLevel))
	if err != nil {
		return result, err
	}

	result, err = appender.Append(ctx, file)
	if err != nil {
		return result, fmt.Errorf("adding %s to %s: %w", file, cmd.Output, err)
	}

	return result, nil
}
