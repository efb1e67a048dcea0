package targz

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/klauspost/compress/gzip"
	"github.com/sirupsen/logrus"

	"gitlab.com/tart-cli/tart/archive"
)

// archiver is a tar+gzip stream archiver.
type archiver struct {
	w       io.Writer
	output  os.FileInfo
	level   archive.CompressionLevel
	exclude []string
}

// NewArchiver returns a new tar+gzip Archiver.
func NewArchiver(
	w io.Writer,
	output os.FileInfo,
	level archive.CompressionLevel,
	exclude []string,
) (archive.Archiver, error) {
	for _, pattern := range exclude {
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return nil, fmt.Errorf("exclude pattern %q: %w", pattern, doublestar.ErrBadPattern)
		}
	}

	return &archiver{w: w, output: output, level: level, exclude: exclude}, nil
}

// Archive writes every existing path, in the order given, into a single gzip
// member. Missing paths are skipped with a warning. The tar and gzip trailers
// are only written when all paths were archived.
func (a *archiver) Archive(ctx context.Context, paths []string) (archive.Result, error) {
	result := archive.Result{Requested: len(paths)}

	gz, err := gzip.NewWriterLevel(a.w, gzipLevel(a.level))
	if err != nil {
		return result, err
	}

	tw := tar.NewWriter(gz)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		fi, err := os.Lstat(path)
		if errors.Is(err, fs.ErrNotExist) {
			logrus.Warningln("Skipping missing file:", path)
			result.Skipped = append(result.Skipped, path)
			continue
		} else if err != nil {
			return result, err
		}

		if fi.Mode()&irregularModes != 0 {
			logrus.Warningln("Skipping irregular file:", path)
			result.Skipped = append(result.Skipped, path)
			continue
		}

		if a.isOutput(fi) {
			logrus.Warningln("Skipping the archive being written:", path)
			result.Skipped = append(result.Skipped, path)
			continue
		}

		if a.isExcluded(path) {
			logrus.Debugln("Excluding", path)
			continue
		}

		if err := a.add(ctx, tw, path, fi, &result); err != nil {
			return result, err
		}
		result.Written++
	}

	if err := tw.Close(); err != nil {
		return result, err
	}

	return result, gz.Close()
}

func (a *archiver) add(ctx context.Context, tw *tar.Writer, root string, fi os.FileInfo, result *archive.Result) error {
	if !fi.IsDir() {
		return a.writeEntry(tw, root, fi, result)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if path != root && a.isExcluded(path) {
			logrus.Debugln("Excluding", path)
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		if a.isOutput(info) {
			logrus.Warningln("Skipping the archive being written:", path)
			return nil
		}

		return a.writeEntry(tw, path, info, result)
	})
}

func (a *archiver) writeEntry(tw *tar.Writer, path string, fi os.FileInfo, result *archive.Result) error {
	if fi.Mode()&irregularModes != 0 {
		logrus.Warningln("Skipping irregular file:", path)
		return nil
	}

	name, err := EntryName(path)
	if err != nil {
		return err
	}

	// the working directory itself has no entry of its own
	if name == "." {
		return nil
	}

	var link string
	if fi.Mode()&os.ModeSymlink != 0 {
		link, err = os.Readlink(path)
		if err != nil {
			return err
		}
	}

	hdr, err := tar.FileInfoHeader(fi, link)
	if err != nil {
		return err
	}
	hdr.Name = name
	if fi.IsDir() {
		hdr.Name += "/"
	}

	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	result.Entries++

	if !fi.Mode().IsRegular() {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	n, err := io.Copy(tw, f)
	result.Bytes += n

	return err
}

func (a *archiver) isOutput(fi os.FileInfo) bool {
	return a.output != nil && os.SameFile(a.output, fi)
}

func (a *archiver) isExcluded(path string) bool {
	name := filepath.ToSlash(filepath.Clean(path))
	for _, pattern := range a.exclude {
		if matched, _ := doublestar.Match(filepath.ToSlash(pattern), name); matched {
			return true
		}
	}

	return false
}
