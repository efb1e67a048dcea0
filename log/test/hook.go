package test

import (
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// NewHook attaches a capturing hook to the standard logger. The returned
// function restores the hooks that were registered before.
//
// Archive code logs through the standard logger, so tests that assert on
// warnings have to capture there.
func NewHook() (*test.Hook, func()) {
	oldHooks := logrus.LevelHooks{}
	for level, hooks := range logrus.StandardLogger().Hooks {
		oldHooks[level] = hooks
	}

	newHook := test.NewGlobal()
	return newHook, func() {
		logrus.StandardLogger().ReplaceHooks(oldHooks)
	}
}

// Messages returns the messages captured by hook at the given level, oldest
// first.
func Messages(hook *test.Hook, level logrus.Level) []string {
	var messages []string
	for _, entry := range hook.AllEntries() {
		if entry.Level == level {
			messages = append(messages, entry.Message)
		}
	}

	return messages
}
