package targz

import (
	"archive/tar"
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/sirupsen/logrus"

	"gitlab.com/tart-cli/tart/archive"
)

// extractor is a tar+gzip stream extractor.
type extractor struct {
	r   io.Reader
	dir string

	created bool
	links   []*deferredEntry
	dirs    []*deferredEntry
}

type deferredEntry struct {
	path string
	hdr  *tar.Header
}

// NewExtractor returns a new tar+gzip extractor.
func NewExtractor(r io.Reader, dir string) (archive.Extractor, error) {
	return &extractor{r: r, dir: dir}, nil
}

// Extract extracts every entry of every gzip member found in the stream to the
// directory passed to NewExtractor. The directory is only created once the
// first entry header has been decoded.
func (e *extractor) Extract(ctx context.Context) (archive.Result, error) {
	var result archive.Result

	dir, err := filepath.Abs(e.dir)
	if err != nil {
		return result, err
	}
	e.dir = dir

	br := bufio.NewReader(e.r)
	gz, err := gzip.NewReader(br)
	if err != nil {
		return result, invalidArchive(err)
	}
	defer func() { _ = gz.Close() }()

	for {
		gz.Multistream(false)

		if err := e.extractEntries(ctx, tar.NewReader(gz), &result); err != nil {
			return result, err
		}

		// anything after the end-of-archive marker, up to the end of the member
		if _, err := io.Copy(io.Discard, gz); err != nil {
			return result, invalidArchive(err)
		}

		end, err := skipZeroPadding(br)
		if err != nil {
			return result, invalidArchive(err)
		}
		if end {
			break
		}

		if err := gz.Reset(br); err != nil {
			return result, invalidArchive(err)
		}
	}

	if err := e.ensureDir(); err != nil {
		return result, err
	}

	return result, e.applyDeferred()
}

//nolint:gocognit
func (e *extractor) extractEntries(ctx context.Context, tr *tar.Reader, result *archive.Result) error {
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		// names are confined to the destination by resolve
		if err != nil && !errors.Is(err, tar.ErrInsecurePath) {
			return invalidArchive(err)
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if err := e.ensureDir(); err != nil {
			return err
		}

		path, err := e.resolve(hdr.Name)
		if err != nil {
			return err
		}

		if path == e.dir {
			continue
		}

		if err := os.MkdirAll(filepath.Dir(path), 0o777); err != nil {
			return err
		}

		fi := hdr.FileInfo()

		switch {
		case hdr.Typeflag == tar.TypeLink:
			if err := e.extractHardLink(path, hdr); err != nil {
				return err
			}

		case fi.Mode()&os.ModeSymlink != 0:
			e.links = append(e.links, &deferredEntry{path: path, hdr: hdr})

		case fi.IsDir():
			err := os.Mkdir(path, 0o777)
			if err != nil && !os.IsExist(err) {
				return err
			}
			e.dirs = append(e.dirs, &deferredEntry{path: path, hdr: hdr})

		case fi.Mode().IsRegular():
			n, err := e.extractFile(path, tr, hdr)
			result.Bytes += n
			if err != nil {
				return err
			}

		default:
			logrus.Debugln("Skipping unsupported entry:", hdr.Name)
			continue
		}

		result.Entries++
	}
}

func (e *extractor) extractFile(path string, r io.Reader, hdr *tar.Header) (int64, error) {
	if err := removeLink(path); err != nil {
		return 0, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(f, r)
	if err != nil {
		_ = f.Close()
		return n, err
	}

	if err := f.Close(); err != nil {
		return n, err
	}

	return n, updateFileMetadata(path, hdr)
}

func (e *extractor) extractHardLink(path string, hdr *tar.Header) error {
	target, err := e.resolve(hdr.Linkname)
	if err != nil {
		return err
	}

	if err := removeLink(path); err != nil {
		return err
	}

	return os.Link(target, path)
}

func (e *extractor) applyDeferred() error {
	for _, entry := range e.links {
		if err := removeLink(entry.path); err != nil {
			return err
		}

		if err := os.Symlink(entry.hdr.Linkname, entry.path); err != nil {
			return err
		}

		if err := lchtimes(entry.path, entry.hdr.FileInfo().Mode(), time.Now(), entry.hdr.ModTime); err != nil {
			return err
		}
	}

	// children have all been written, so directory times are final now
	for i := len(e.dirs) - 1; i >= 0; i-- {
		if err := updateFileMetadata(e.dirs[i].path, e.dirs[i].hdr); err != nil {
			return err
		}
	}

	return nil
}

func (e *extractor) ensureDir() error {
	if e.created {
		return nil
	}

	if err := os.MkdirAll(e.dir, 0o777); err != nil {
		return err
	}

	e.created = true
	return nil
}

func (e *extractor) resolve(name string) (string, error) {
	rel := strings.TrimLeft(filepath.FromSlash(name), string(filepath.Separator))
	path := filepath.Join(e.dir, rel)

	if !strings.HasPrefix(path, e.dir+string(filepath.Separator)) && path != e.dir {
		return "", fmt.Errorf("%s cannot be extracted outside of %s", name, e.dir)
	}

	return path, nil
}

// removeLink removes a symlink sitting where a new entry is about to be
// written, so that the entry does not end up at the link target.
func removeLink(path string) error {
	fi, err := os.Lstat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}

	if fi.Mode()&os.ModeSymlink == 0 {
		return nil
	}

	return os.Remove(path)
}

func updateFileMetadata(path string, hdr *tar.Header) error {
	fi := hdr.FileInfo()

	if err := lchtimes(path, fi.Mode(), time.Now(), fi.ModTime()); err != nil {
		return err
	}

	return lchmod(path, fi.Mode())
}

// skipZeroPadding consumes the zero bytes that block oriented writers leave
// after a gzip member. It reports whether the end of the stream was reached.
func skipZeroPadding(br *bufio.Reader) (bool, error) {
	padding := 0
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			if padding > 0 {
				logrus.Debugln("Ignoring", padding, "trailing zero bytes")
			}
			return true, nil
		} else if err != nil {
			return false, err
		}

		if b != 0 {
			return false, br.UnreadByte()
		}
		padding++
	}
}

func invalidArchive(err error) error {
	return fmt.Errorf("%w: %w", archive.ErrInvalidArchive, err)
}
