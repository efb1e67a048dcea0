package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrUnsupportedArchiveFormat is returned if an archiver, extractor or
	// appender format requested has not been registered.
	ErrUnsupportedArchiveFormat = errors.New("unsupported archive format")

	// ErrInvalidArchive is returned when the compressed stream or the container
	// inside it cannot be decoded.
	ErrInvalidArchive = errors.New("invalid archive")
)

// CompressionLevel type for specifying a compression level.
type CompressionLevel int

// Compression levels from fastest (low/zero compression ratio) to slowest
// (high compression ratio).
const (
	FastestCompression CompressionLevel = -2
	FastCompression    CompressionLevel = -1
	DefaultCompression CompressionLevel = 0
	SlowCompression    CompressionLevel = 1
	SlowestCompression CompressionLevel = 2
)

// Format type for specifying format.
type Format string

// TarGzip is a tar stream wrapped in gzip.
const TarGzip Format = "targz"

// Result summarizes a single archive operation.
type Result struct {
	// Requested is the number of paths the operation was asked to process.
	Requested int
	// Written is the number of requested paths that made it into the archive.
	Written int
	// Skipped lists requested paths that were not archived.
	Skipped []string
	// Entries is the number of container entries written or extracted,
	// including the children of directories.
	Entries int
	// Bytes is the uncompressed content size that was processed.
	Bytes int64
}

var (
	archivers  = make(map[Format]NewArchiverFunc)
	extractors = make(map[Format]NewExtractorFunc)
	appenders  = make(map[Format]NewAppenderFunc)
)

// Archiver writes a new archive holding the given paths, in order.
type Archiver interface {
	Archive(ctx context.Context, paths []string) (Result, error)
}

// Extractor unpacks every entry of an archive.
type Extractor interface {
	Extract(ctx context.Context) (Result, error)
}

// Appender adds a single file to the end of an existing archive.
type Appender interface {
	Append(ctx context.Context, path string) (Result, error)
}

// NewArchiverFunc is a function that can be registered (with Register()) and
// used to instantiate a new archiver (with NewArchiver()).
//
// output describes the file w writes to, if any, so that it is never archived
// into itself. It may be nil.
type NewArchiverFunc func(w io.Writer, output os.FileInfo, level CompressionLevel, exclude []string) (Archiver, error)

// NewExtractorFunc is a function that can be registered (with Register()) and
// used to instantiate a new extractor (with NewExtractor()).
type NewExtractorFunc func(r io.Reader, dir string) (Extractor, error)

// NewAppenderFunc is a function that can be registered (with Register()) and
// used to instantiate a new appender (with NewAppender()).
type NewAppenderFunc func(rw io.ReadWriteSeeker, level CompressionLevel) (Appender, error)

// Register registers a new archiver, extractor and/or appender for the format
// provided. Nil functions leave the current registration untouched.
func Register(
	format Format,
	archiver NewArchiverFunc,
	extractor NewExtractorFunc,
	appender NewAppenderFunc,
) (
	prevArchiver NewArchiverFunc,
	prevExtractor NewExtractorFunc,
	prevAppender NewAppenderFunc,
) {
	if archiver != nil {
		prevArchiver = archivers[format]
		archivers[format] = archiver
	}
	if extractor != nil {
		prevExtractor = extractors[format]
		extractors[format] = extractor
	}
	if appender != nil {
		prevAppender = appenders[format]
		appenders[format] = appender
	}
	return
}

// NewArchiver returns a new Archiver of the specified format.
//
// Paths matching one of the exclude patterns are left out of the archive, and
// so is the output file itself.
func NewArchiver(format Format, w io.Writer, output os.FileInfo, level CompressionLevel, exclude []string) (Archiver, error) {
	fn := archivers[format]
	if fn == nil {
		return nil, fmt.Errorf("%q format: %w", format, ErrUnsupportedArchiveFormat)
	}

	return fn(w, output, level, exclude)
}

// NewExtractor returns a new Extractor of the specified format.
//
// The extractor will extract files to the directory provided.
func NewExtractor(format Format, r io.Reader, dir string) (Extractor, error) {
	fn := extractors[format]
	if fn == nil {
		return nil, fmt.Errorf("%q format: %w", format, ErrUnsupportedArchiveFormat)
	}

	return fn(r, dir)
}

// NewAppender returns a new Appender of the specified format operating on an
// archive opened for reading and writing.
func NewAppender(format Format, rw io.ReadWriteSeeker, level CompressionLevel) (Appender, error) {
	fn := appenders[format]
	if fn == nil {
		return nil, fmt.Errorf("%q format: %w", format, ErrUnsupportedArchiveFormat)
	}

	return fn(rw, level)
}
