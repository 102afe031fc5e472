package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCaptureLogger() (*LogrusLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	l := logrus.New()
	l.SetOutput(buf)
	l.SetLevel(logrus.DebugLevel)
	return NewLogrusLogger(l), buf
}

func TestLogrusLogger_Levels(t *testing.T) {
	log, buf := newCaptureLogger()

	log.Debug("debug msg")
	log.Info("info msg")
	log.Warn("warn msg")
	log.Error("error msg")

	out := buf.String()
	assert.Contains(t, out, "debug msg")
	assert.Contains(t, out, "info msg")
	assert.Contains(t, out, "warn msg")
	assert.Contains(t, out, "error msg")
}

func TestLogrusLogger_Fields(t *testing.T) {
	log, buf := newCaptureLogger()

	log.Info("enqueued", F("chunk", 3), F("bytes", 42))

	out := buf.String()
	assert.Contains(t, out, "chunk=3")
	assert.Contains(t, out, "bytes=42")
}

func TestNewLogrusLogger_NilUsesStandard(t *testing.T) {
	require.NotNil(t, NewLogrusLogger(nil))
}
