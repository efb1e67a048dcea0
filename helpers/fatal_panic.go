package helpers

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// fatalToPanicHook prints fatal messages and then panics with the entry, so
// the exit that logrus.Fatal would do never happens.
type fatalToPanicHook struct {
	out io.Writer
}

func (h *fatalToPanicHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.FatalLevel}
}

func (h *fatalToPanicHook) Fire(entry *logrus.Entry) error {
	_, _ = fmt.Fprintln(h.out, "FATAL:", entry.Message)

	panic(entry)
}

// MakeFatalToPanic turns logrus.Fatal calls on the standard logger into a
// panic carrying the *logrus.Entry, so tests can recover instead of exiting.
// Every other hook is suspended until the returned function is called.
func MakeFatalToPanic() func() {
	logger := logrus.StandardLogger()

	hooks := make(logrus.LevelHooks)
	hooks.Add(&fatalToPanicHook{out: logger.Out})

	previous := logger.ReplaceHooks(hooks)

	return func() {
		logger.ReplaceHooks(previous)
	}
}
