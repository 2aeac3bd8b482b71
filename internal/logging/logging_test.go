package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restore(t *testing.T) {
	t.Cleanup(func() {
		logrus.SetOutput(os.Stderr)
		logrus.SetLevel(logrus.InfoLevel)
		logrus.SetFormatter(&logrus.TextFormatter{})
	})
}

func TestSetup_JSON(t *testing.T) {
	restore(t)
	var buf bytes.Buffer
	require.NoError(t, Setup(&buf, "warn", "json"))

	log := logrus.WithField("module", "test")
	log.Info("dropped")
	log.Warn("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "test", entry["module"])
	assert.Equal(t, "warning", entry["level"])
}

func TestSetup_Text(t *testing.T) {
	restore(t)
	var buf bytes.Buffer
	require.NoError(t, Setup(&buf, "debug", ""))

	logrus.WithField("module", "tax").Debug("bracket 6")
	assert.Contains(t, buf.String(), "bracket 6")
	assert.Contains(t, buf.String(), "module=tax")
}

func TestSetup_Invalid(t *testing.T) {
	restore(t)
	assert.Error(t, Setup(os.Stderr, "trace", "text"))
	assert.Error(t, Setup(os.Stderr, "info", "xml"))
}
