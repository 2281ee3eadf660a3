package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.InfoLevel, parseLevel(""))
	assert.Equal(t, logrus.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, logrus.WarnLevel, parseLevel("warn"))
	assert.Equal(t, logrus.InfoLevel, parseLevel("chatty"))
}

func TestNew_JSONFields(t *testing.T) {
	logger, err := New(Options{Level: "debug"})
	require.NoError(t, err)

	var buf bytes.Buffer
	logger.SetOutput(&buf)

	WithComponent(logger, "market").WithField("secid", "SU26238RMFS4").Info("fetched")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "fetched", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "market", entry["component"])
	assert.Equal(t, "SU26238RMFS4", entry["secid"])
	assert.Contains(t, entry, "timestamp")
	assert.Contains(t, entry["file"], "logger_test.go:")
}

func TestNew_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "server.log")

	logger, err := New(Options{File: path})
	require.NoError(t, err)

	logger.Warn("disk check")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "disk check")
}

func TestWithComponent_NilLogger(t *testing.T) {
	entry := WithComponent(nil, "rates")

	assert.NotPanics(t, func() { entry.Info("dropped") })
	assert.Equal(t, "rates", entry.Data["component"])
}
