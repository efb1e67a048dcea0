//go:build !integration

package commands

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/tart-cli/tart/archive"
	"gitlab.com/tart-cli/tart/log/test"
)

func runTart(t *testing.T, args ...string) (string, error) {
	t.Helper()

	out := new(bytes.Buffer)

	app := NewApp()
	app.Writer = out
	app.ErrWriter = io.Discard

	err := Run(app, append([]string{"tart"}, args...))

	return out.String(), err
}

func writeTestFile(t *testing.T, name string, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(name), 0o755))
	require.NoError(t, os.WriteFile(name, []byte(content), 0o644))
}

func assertFileContent(t *testing.T, name string, expected string) {
	t.Helper()

	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, expected, string(data))
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	chdir(t, t.TempDir())

	writeTestFile(t, "a.txt", "first")
	writeTestFile(t, "dir/b.txt", "second")
	writeTestFile(t, "dir/nested/c.txt", "third")

	out, err := runTart(t, "-c", "-i", "a.txt", "dir", "-o", "out.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, "Compressed 2 file(s) into out.tar.gz\n", out)

	out, err = runTart(t, "--decompress", "--input", "out.tar.gz", "--output", "extracted")
	require.NoError(t, err)
	assert.Equal(t, "Extracted contents of out.tar.gz to extracted\n", out)

	assertFileContent(t, filepath.Join("extracted", "a.txt"), "first")
	assertFileContent(t, filepath.Join("extracted", "dir", "b.txt"), "second")
	assertFileContent(t, filepath.Join("extracted", "dir", "nested", "c.txt"), "third")
}

func TestCompressSkipsMissingInputs(t *testing.T) {
	chdir(t, t.TempDir())

	writeTestFile(t, "a.txt", "a")
	writeTestFile(t, "b.txt", "b")

	hook, cleanup := test.NewHook()
	defer cleanup()

	out, err := runTart(t, "-c", "-i", "a.txt", "missing.txt", "b.txt", "-o", "out.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, "Compressed 2 file(s) into out.tar.gz (1 skipped)\n", out)

	warnings := test.Messages(hook, logrus.WarnLevel)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "missing.txt")

	_, err = runTart(t, "-d", "-i", "out.tar.gz", "-o", "extracted")
	require.NoError(t, err)

	entries, err := os.ReadDir("extracted")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"a.txt", "b.txt"}, names)
}

func TestCompressWorkingDirectoryHoldingOutput(t *testing.T) {
	chdir(t, t.TempDir())

	writeTestFile(t, "a.txt", "a")
	writeTestFile(t, "big.bin", string(bytes.Repeat([]byte("0123456789abcdef"), 256*1024)))

	hook, cleanup := test.NewHook()
	defer cleanup()

	out, err := runTart(t, "-c", "-i", ".", "-o", "out.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, "Compressed 1 file(s) into out.tar.gz\n", out)

	warnings := test.Messages(hook, logrus.WarnLevel)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "out.tar.gz")

	_, err = runTart(t, "-d", "-i", "out.tar.gz", "-o", "extracted")
	require.NoError(t, err)

	assertFileContent(t, filepath.Join("extracted", "a.txt"), "a")
	assert.FileExists(t, filepath.Join("extracted", "big.bin"))
	assert.NoFileExists(t, filepath.Join("extracted", "out.tar.gz"))
}

func TestCompressWithoutInputs(t *testing.T) {
	chdir(t, t.TempDir())

	out, err := runTart(t, "-c", "-o", "empty.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, "Compressed 0 file(s) into empty.tar.gz\n", out)

	_, err = runTart(t, "-d", "-i", "empty.tar.gz", "-o", "extracted")
	require.NoError(t, err)

	entries, err := os.ReadDir("extracted")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAddThenDecompress(t *testing.T) {
	chdir(t, t.TempDir())

	writeTestFile(t, "a.txt", "a")
	writeTestFile(t, "newfile.txt", "new")

	_, err := runTart(t, "-c", "-i", "a.txt", "-o", "archive.tar.gz")
	require.NoError(t, err)

	out, err := runTart(t, "-a", "-i", "newfile.txt", "-o", "archive.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, "Added newfile.txt to archive.tar.gz\n", out)

	_, err = runTart(t, "-d", "-i", "archive.tar.gz", "-o", "extracted")
	require.NoError(t, err)

	assertFileContent(t, filepath.Join("extracted", "a.txt"), "a")
	assertFileContent(t, filepath.Join("extracted", "newfile.txt"), "new")

	fi, err := os.Stat(filepath.Join("extracted", "newfile.txt"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), fi.ModTime().Unix())
}

func TestAddToNonArchive(t *testing.T) {
	chdir(t, t.TempDir())

	writeTestFile(t, "plain.txt", "not an archive")
	writeTestFile(t, "newfile.txt", "new")

	_, err := runTart(t, "-a", "-i", "newfile.txt", "-o", "plain.txt")
	assert.ErrorIs(t, err, archive.ErrInvalidArchive)

	assertFileContent(t, "plain.txt", "not an archive")
}

func TestAddToMissingArchive(t *testing.T) {
	chdir(t, t.TempDir())

	writeTestFile(t, "newfile.txt", "new")

	_, err := runTart(t, "-a", "-i", "newfile.txt", "-o", "missing.tar.gz")
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NoFileExists(t, "missing.tar.gz")
}

func TestDecompressFailures(t *testing.T) {
	tests := map[string]struct {
		archive       *string
		expectedError error
	}{
		"missing archive": {
			expectedError: os.ErrNotExist,
		},
		"not an archive": {
			archive:       ptr("plain text"),
			expectedError: archive.ErrInvalidArchive,
		},
		"empty file": {
			archive:       ptr(""),
			expectedError: archive.ErrInvalidArchive,
		},
	}

	for tn, tc := range tests {
		t.Run(tn, func(t *testing.T) {
			chdir(t, t.TempDir())

			if tc.archive != nil {
				writeTestFile(t, "archive.tar.gz", *tc.archive)
			}

			out, err := runTart(t, "-d", "-i", "archive.tar.gz", "-o", "extracted")
			assert.ErrorIs(t, err, tc.expectedError)
			assert.Empty(t, out)
			assert.NoDirExists(t, "extracted")
		})
	}
}

func TestHelp(t *testing.T) {
	tests := map[string][]string{
		"short":                   {"-h"},
		"long":                    {"--help"},
		"with an operation":       {"--help", "-c", "-i", "a.txt", "-o", "out.tar.gz"},
		"with conflicting":        {"-h", "-c", "-d", "-a"},
		"with positional":         {"-h", "-o", "out.tar.gz", "extra"},
		"with missing config":     {"-h", "--config", "missing.toml", "-d", "-i", "out.tar.gz"},
		"after expanded inputs":   {"-c", "-i", "a.txt", "b.txt", "-h"},
		"without operation flags": {"-h", "-i", "a.txt"},
		"input without value":     {"-c", "-o", "out.tar.gz", "-h", "-i"},
	}

	for tn, args := range tests {
		t.Run(tn, func(t *testing.T) {
			dir := t.TempDir()
			chdir(t, dir)

			writeTestFile(t, "a.txt", "a")

			hook, cleanup := test.NewHook()
			defer cleanup()

			out, err := runTart(t, args...)
			require.NoError(t, err)

			assert.Contains(t, out, "NAME:")
			assert.Contains(t, out, "SYNOPSIS:")
			assert.Contains(t, out, "--compress")
			assert.Contains(t, out, "--input")
			assert.Contains(t, out, "--transfer-meter-frequency")
			assert.Contains(t, out, "tart -a -i newfile.txt -o archive.tar.gz")
			assert.Empty(t, hook.AllEntries())

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, "a.txt", entries[0].Name())
		})
	}
}

func TestUsageErrors(t *testing.T) {
	tests := map[string]struct {
		args          []string
		expectedError error
		expectedMsg   string
	}{
		"no arguments": {
			args:          nil,
			expectedError: ErrUnspecifiedOperation,
		},
		"no operation": {
			args:          []string{"-i", "a.txt", "-o", "out.tar.gz"},
			expectedError: ErrUnspecifiedOperation,
		},
		"two operations": {
			args:          []string{"-c", "-d", "-i", "a.txt", "-o", "out.tar.gz"},
			expectedError: ErrConflictingOperations,
		},
		"compress without output": {
			args:          []string{"-c", "-i", "a.txt"},
			expectedError: &MissingArgumentError{},
			expectedMsg:   "missing required argument --output",
		},
		"decompress without input": {
			args:          []string{"-d", "-o", "extracted"},
			expectedError: &MissingArgumentError{},
			expectedMsg:   "missing required argument --input",
		},
		"decompress without output": {
			args:          []string{"-d", "-i", "out.tar.gz"},
			expectedError: &MissingArgumentError{},
			expectedMsg:   "missing required argument --output",
		},
		"decompress with two inputs": {
			args:          []string{"-d", "-i", "a.tar.gz", "b.tar.gz", "-o", "extracted"},
			expectedError: ErrUnexpectedArguments,
		},
		"add without output": {
			args:          []string{"-a", "-i", "a.txt"},
			expectedError: &MissingArgumentError{},
		},
		"add with two inputs": {
			args:          []string{"-a", "-i", "a.txt", "b.txt", "-o", "out.tar.gz"},
			expectedError: ErrUnexpectedArguments,
		},
		"positional arguments": {
			args:          []string{"-c", "-o", "out.tar.gz", "a.txt"},
			expectedError: ErrUnexpectedArguments,
			expectedMsg:   "a.txt",
		},
		"input without value": {
			args:        []string{"-c", "-o", "out.tar.gz", "-i"},
			expectedMsg: "flag needs an argument: -i",
		},
		"unknown flag": {
			args:        []string{"-c", "--unknown"},
			expectedMsg: "flag provided but not defined",
		},
	}

	for tn, tc := range tests {
		t.Run(tn, func(t *testing.T) {
			dir := t.TempDir()
			chdir(t, dir)

			out, err := runTart(t, tc.args...)
			require.Error(t, err)
			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
			}
			if tc.expectedMsg != "" {
				assert.Contains(t, err.Error(), tc.expectedMsg)
			}
			assert.Empty(t, out)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestConfigFile(t *testing.T) {
	chdir(t, t.TempDir())

	writeTestFile(t, "a.txt", "a")
	writeTestFile(t, "b.log", "b")
	writeTestFile(t, "tart.toml", `
compression_level = "fastest"
exclude = ["*.log"]
`)

	out, err := runTart(t, "-c", "--config", "tart.toml", "-i", "a.txt", "b.log", "-o", "config.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, "Compressed 1 file(s) into config.tar.gz\n", out)

	out, err = runTart(t, "-c", "--config", "tart.toml", "--exclude", "*.txt", "-i", "a.txt", "b.log", "-o", "flags.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, "Compressed 1 file(s) into flags.tar.gz\n", out)

	_, err = runTart(t, "-d", "-i", "flags.tar.gz", "-o", "extracted")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join("extracted", "b.log"))
	assert.NoFileExists(t, filepath.Join("extracted", "a.txt"))
}

func TestMissingConfigFileWarns(t *testing.T) {
	chdir(t, t.TempDir())

	writeTestFile(t, "a.txt", "a")

	hook, cleanup := test.NewHook()
	defer cleanup()

	out, err := runTart(t, "-c", "--config", "missing.toml", "-i", "a.txt", "-o", "out.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, "Compressed 1 file(s) into out.tar.gz\n", out)

	warnings := test.Messages(hook, logrus.WarnLevel)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "missing.toml")
}

func TestInvalidConfigFile(t *testing.T) {
	chdir(t, t.TempDir())

	writeTestFile(t, "tart.toml", "exclude = ")

	_, err := runTart(t, "-c", "--config", "tart.toml", "-o", "out.tar.gz")
	assert.ErrorContains(t, err, "loading config file tart.toml")
	assert.NoFileExists(t, "out.tar.gz")
}

func TestCompressWithTransferMeter(t *testing.T) {
	chdir(t, t.TempDir())

	writeTestFile(t, "a.txt", "some content")

	progress := new(bytes.Buffer)
	out := new(bytes.Buffer)

	cmd := newTartCommand()
	cmd.progress = progress
	cmd.TransferMeterFrequency = time.Hour
	cmd.Input = []string{"a.txt"}
	cmd.Output = "out.tar.gz"

	result, err := cmd.compress(context.Background(), out)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Written)

	assert.Contains(t, progress.String(), "\rCompressing ")
	assert.Contains(t, progress.String(), "\n")

	progress.Reset()
	cmd.Input = []string{"out.tar.gz"}
	cmd.Output = "extracted"

	_, err = cmd.decompress(context.Background(), out)
	require.NoError(t, err)
	assert.Contains(t, progress.String(), "\rExtracting ")
}

func TestCompressCanceled(t *testing.T) {
	chdir(t, t.TempDir())

	writeTestFile(t, "a.txt", "a")

	cmd := newTartCommand()
	cmd.Input = []string{"a.txt"}
	cmd.Output = "out.tar.gz"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := new(bytes.Buffer)
	_, err := cmd.compress(ctx, out)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

func ptr(s string) *string {
	return &s
}
