package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstdesk/internal/config"
	"gstdesk/internal/logging"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithOutput(config.LogConfig{Level: "debug", Format: "json"}, &buf)

	logger.WithField("period", "032024").Info("reconciled")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "reconciled", entry["msg"])
	assert.Equal(t, "032024", entry["period"])
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	logger := logging.NewWithOutput(config.LogConfig{Level: "chatty"}, &bytes.Buffer{})
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}

func TestNew_DebugSuppressedAtWarn(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithOutput(config.LogConfig{Level: "warn"}, &buf)
	logger.Debug("hidden")
	assert.Empty(t, buf.String())
}
