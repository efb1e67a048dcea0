package targz

import (
	"archive/tar"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/gzip"

	"gitlab.com/tart-cli/tart/archive"
)

const appendedFileMode = 0o755

var gzipMagic = []byte{0x1f, 0x8b}

// appender adds entries to an existing tar+gzip archive by writing a new,
// independent gzip member after the existing ones.
type appender struct {
	rw    io.ReadWriteSeeker
	level archive.CompressionLevel
}

// NewAppender returns a new tar+gzip Appender.
func NewAppender(rw io.ReadWriteSeeker, level archive.CompressionLevel) (archive.Appender, error) {
	return &appender{rw: rw, level: level}, nil
}

// Append writes path as one entry with a fixed 0755 mode and a zero (Unix
// epoch) modification time. Content already in the archive is never
// rewritten: the new member starts at the current end of the stream.
func (a *appender) Append(ctx context.Context, path string) (archive.Result, error) {
	result := archive.Result{Requested: 1}

	name, err := EntryName(path)
	if err != nil {
		return result, err
	}

	f, err := os.Open(path)
	if err != nil {
		return result, err
	}
	defer func() { _ = f.Close() }()

	fi, err := f.Stat()
	if err != nil {
		return result, err
	}

	if !fi.Mode().IsRegular() {
		return result, fmt.Errorf("the %q is not a regular file", path)
	}

	if err := a.seekEnd(); err != nil {
		return result, err
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	gz, err := gzip.NewWriterLevel(a.rw, gzipLevel(a.level))
	if err != nil {
		return result, err
	}

	tw := tar.NewWriter(gz)

	hdr := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     name,
		Size:     fi.Size(),
		Mode:     appendedFileMode,
		ModTime:  time.Unix(0, 0),
		Format:   tar.FormatGNU,
	}

	if err := tw.WriteHeader(hdr); err != nil {
		return result, err
	}

	n, err := io.CopyN(tw, f, hdr.Size)
	result.Bytes = n
	if err != nil {
		return result, err
	}

	if err := tw.Close(); err != nil {
		return result, err
	}

	if err := gz.Close(); err != nil {
		return result, err
	}

	result.Written = 1
	result.Entries = 1

	return result, nil
}

// seekEnd checks that a non-empty archive starts with a gzip header and moves
// the cursor to its end.
func (a *appender) seekEnd() error {
	if _, err := a.rw.Seek(0, io.SeekStart); err != nil {
		return err
	}

	magic := make([]byte, len(gzipMagic))
	n, err := io.ReadFull(a.rw, magic)
	switch {
	case err == io.EOF:
		// empty archive, the new member becomes the first one
	case err == io.ErrUnexpectedEOF:
		return invalidArchive(err)
	case err != nil:
		return err
	case !bytes.Equal(magic[:n], gzipMagic):
		return invalidArchive(gzip.ErrHeader)
	}

	_, err = a.rw.Seek(0, io.SeekEnd)
	return err
}
