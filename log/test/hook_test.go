//go:build !integration

package test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewHook(t *testing.T) {
	beforeCount := countHooks()

	_, cleanup := NewHook()
	afterCount := countHooks()

	cleanup()

	assert.True(t, afterCount > beforeCount)
	assert.Equal(t, beforeCount, countHooks())
}

func TestMessages(t *testing.T) {
	hook, cleanup := NewHook()
	defer cleanup()

	logrus.Warningln("first warning")
	logrus.Errorln("an error")
	logrus.Warningln("second warning")

	assert.Equal(t, []string{"first warning", "second warning"}, Messages(hook, logrus.WarnLevel))
	assert.Equal(t, []string{"an error"}, Messages(hook, logrus.ErrorLevel))
	assert.Empty(t, Messages(hook, logrus.DebugLevel))
}

func countHooks() int {
	count := 0
	for _, levels := range logrus.StandardLogger().Hooks {
		for range levels {
			count++
		}
	}

	return count
}
