package targz

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"gitlab.com/tart-cli/tart/archive"
)

func init() {
	archive.Register(archive.TarGzip, NewArchiver, NewExtractor, NewAppender)
}

const irregularModes = os.ModeSocket | os.ModeDevice | os.ModeCharDevice | os.ModeNamedPipe

var levels = map[archive.CompressionLevel]int{
	archive.FastestCompression: gzip.BestSpeed,
	archive.FastCompression:    3,
	archive.DefaultCompression: gzip.DefaultCompression,
	archive.SlowCompression:    7,
	archive.SlowestCompression: gzip.BestCompression,
}

func gzipLevel(level archive.CompressionLevel) int {
	if l, ok := levels[level]; ok {
		return l
	}

	return gzip.DefaultCompression
}

// EntryName converts a filesystem path into the slash separated, relative
// name stored in the archive. Leading separators and volume names are dropped.
// Paths that climb out of the current directory are rejected.
func EntryName(path string) (string, error) {
	name := filepath.Clean(path)
	name = strings.TrimPrefix(name, filepath.VolumeName(name))
	name = strings.TrimLeft(filepath.ToSlash(name), "/")

	if name == "" {
		return ".", nil
	}

	if name == ".." || strings.HasPrefix(name, "../") {
		return "", fmt.Errorf("%s cannot be archived from outside of the working directory", path)
	}

	return name, nil
}
