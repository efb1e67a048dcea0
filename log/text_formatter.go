package log

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

const (
	ANSI_BOLD_RED   = "\033[31;1m"
	ANSI_YELLOW     = "\033[0;33m"
	ANSI_BOLD_WHITE = "\033[37;1m"
	ANSI_RESET      = "\033[0;m"
)

// TextFormatter prints one line per entry: a level prefix for anything louder
// than info, the message and then the fields.
type TextFormatter struct {
	// Force disabling colors.
	DisableColors bool

	// The fields are sorted by default for a consistent output.
	DisableSorting bool
}

func (f *TextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := new(bytes.Buffer)
	f.printColored(b, entry)
	b.WriteByte('\n')

	return b.Bytes(), nil
}

func (f *TextFormatter) printColored(b *bytes.Buffer, entry *logrus.Entry) {
	levelColor, resetColor, levelPrefix := f.getColorsAndPrefix(entry)

	fmt.Fprintf(b, "%s%s%s%s", levelColor, levelPrefix, entry.Message, resetColor)
	for _, k := range f.prepareKeys(entry) {
		v := entry.Data[k]
		fmt.Fprintf(b, " %s%s%s=%v", levelColor, k, resetColor, v)
	}
}

func (f *TextFormatter) getColorsAndPrefix(entry *logrus.Entry) (string, string, string) {
	definitions := map[logrus.Level]struct {
		color  string
		prefix string
	}{
		logrus.DebugLevel: {
			color: ANSI_BOLD_WHITE,
		},
		logrus.WarnLevel: {
			color:  ANSI_YELLOW,
			prefix: "WARNING: ",
		},
		logrus.ErrorLevel: {
			color:  ANSI_BOLD_RED,
			prefix: "ERROR: ",
		},
		logrus.FatalLevel: {
			color:  ANSI_BOLD_RED,
			prefix: "FATAL: ",
		},
		logrus.PanicLevel: {
			color:  ANSI_BOLD_RED,
			prefix: "PANIC: ",
		},
	}

	definition := definitions[entry.Level]

	if f.DisableColors {
		return "", "", definition.prefix
	}

	return definition.color, ANSI_RESET, definition.prefix
}

func (f *TextFormatter) prepareKeys(entry *logrus.Entry) []string {
	keys := make([]string, 0, len(entry.Data))

	for k := range entry.Data {
		keys = append(keys, k)
	}

	if !f.DisableSorting {
		sort.Strings(keys)
	}

	return keys
}
