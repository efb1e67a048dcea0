//go:build !integration

package log

import (
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNullLogger(formatter logrus.Formatter, level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetFormatter(formatter)
	logger.SetLevel(level)

	return logger
}

func TestTextFormatter_ColorsAndPrefixes(t *testing.T) {
	// Fatal is left out: logrus calls os.Exit after formatting
	tests := map[logrus.Level]struct {
		expectedPrefix    string
		expectedColorCode string
	}{
		logrus.PanicLevel: {
			expectedPrefix:    "PANIC: ",
			expectedColorCode: ANSI_BOLD_RED,
		},
		logrus.ErrorLevel: {
			expectedPrefix:    "ERROR: ",
			expectedColorCode: ANSI_BOLD_RED,
		},
		logrus.WarnLevel: {
			expectedPrefix:    "WARNING: ",
			expectedColorCode: ANSI_YELLOW,
		},
		logrus.InfoLevel: {},
		logrus.DebugLevel: {
			expectedColorCode: ANSI_BOLD_WHITE,
		},
	}

	for level, tc := range tests {
		for _, colored := range []bool{true, false} {
			t.Run(fmt.Sprintf("%s-level colored-%v", level.String(), colored), func(t *testing.T) {
				formatter := &TextFormatter{DisableColors: !colored}
				logger := newNullLogger(formatter, logrus.DebugLevel)
				hook := test.NewLocal(logger)

				func() {
					defer func() { _ = recover() }()
					logger.WithField("key", "value").Log(level, "test message")
				}()

				entry := hook.LastEntry()
				require.NotNil(t, entry)

				output, err := entry.String()
				require.NoError(t, err)

				assert.Contains(t, output, tc.expectedPrefix+"test message")

				if colored {
					assert.Contains(t, output, ANSI_RESET)
					assert.Contains(t, output, fmt.Sprintf("%skey%s=value", tc.expectedColorCode, ANSI_RESET))
					return
				}

				assert.NotContains(t, output, ANSI_RESET)
				if tc.expectedColorCode != "" {
					assert.NotContains(t, output, tc.expectedColorCode)
				}
				assert.Contains(t, output, " key=value")
			})
		}
	}
}

func TestTextFormatter_KeysSorting(t *testing.T) {
	fields := logrus.Fields{
		"aza": "v",
		"zzz": "v",
		"zaz": "v",
		"aaa": "v",
	}

	formatter := &TextFormatter{DisableColors: true}
	logger := newNullLogger(formatter, logrus.InfoLevel)
	hook := test.NewLocal(logger)

	for i := 0; i <= 2; i++ {
		logger.WithFields(fields).Info("test message")

		entry := hook.LastEntry()
		require.NotNil(t, entry)

		output, err := entry.String()
		require.NoError(t, err)

		assert.Equal(t, "test message aaa=v aza=v zaz=v zzz=v\n", output)
	}
}
