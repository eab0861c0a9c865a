package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Level(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, New("debug", "text").GetLevel())
	assert.Equal(t, logrus.InfoLevel, New("chatty", "text").GetLevel())
}

func TestNewWithOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput("info", "json", &buf)

	l.WithField("event_id", "e1").Info("Event created")
	l.Debug("hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Event created", entry["msg"])
	assert.Equal(t, "e1", entry["event_id"])
	assert.Equal(t, "info", entry["level"])
}

func TestNewWithOutput_Text(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput("warn", "text", &buf)

	l.Info("hidden")
	l.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestSetVerbose(t *testing.T) {
	l := New("warn", "text")

	SetVerbose(l, logrus.WarnLevel, true)
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	SetVerbose(l, logrus.WarnLevel, false)
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())

	SetVerbose(l, logrus.TraceLevel, true)
	assert.Equal(t, logrus.TraceLevel, l.GetLevel())
}
