package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewLevels(t *testing.T) {
	var buf bytes.Buffer

	assert.Equal(t, logrus.InfoLevel, New(&buf, false, false).GetLevel())
	assert.Equal(t, logrus.DebugLevel, New(&buf, true, false).GetLevel())
	assert.Equal(t, logrus.ErrorLevel, New(&buf, true, true).GetLevel())

	log := New(&buf, false, false)
	log.WithField("file", "en.json").Warn("skipping")
	assert.Contains(t, buf.String(), "level=warning")
	assert.Contains(t, buf.String(), "file=en.json")
	assert.NotContains(t, buf.String(), "time=")
}

func TestInteractive(t *testing.T) {
	t.Setenv("PRODUCTION", "")
	assert.True(t, Interactive(false))
	assert.False(t, Interactive(true))

	t.Setenv("PRODUCTION", "1")
	assert.False(t, Interactive(false))
}

func TestSpinner(t *testing.T) {
	var buf bytes.Buffer
	s := StartSpinner(&buf, "Checking for missing keys", true)
	s.Tick()
	s.Success("Checking for missing keys")
	assert.Contains(t, buf.String(), "✔ Checking for missing keys")

	buf.Reset()
	off := StartSpinner(&buf, "quiet", false)
	off.Tick()
	off.Success("quiet")
	assert.Empty(t, buf.String())
}
