package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildLoggerJSON(t *testing.T) {
	buffer := &bytes.Buffer{}
	logger := buildLogger("info", "json", buffer)
	logger.Info("hello")

	record := make(map[string]any)
	err := json.Unmarshal(buffer.Bytes(), &record)
	assert.NoError(t, err)
	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, "INFO", record["level"])
}

func TestBuildLoggerText(t *testing.T) {
	buffer := &bytes.Buffer{}
	logger := buildLogger("info", "text", buffer)
	logger.Info("hello")
	assert.Contains(t, buffer.String(), "msg=hello")
	assert.Contains(t, buffer.String(), "level=INFO")
}

func TestBuildLoggerLevel(t *testing.T) {
	buffer := &bytes.Buffer{}
	logger := buildLogger("error", "text", buffer)
	logger.Info("dropped")
	assert.Empty(t, buffer.String())
	logger.Error("kept")
	assert.Contains(t, buffer.String(), "msg=kept")
}

func TestBuildLoggerDefaults(t *testing.T) {
	buffer := &bytes.Buffer{}
	logger := buildLogger("invalid", "invalid", buffer)
	logger.Debug("dropped")
	assert.Empty(t, buffer.String())
	logger.Info("kept")
	assert.Contains(t, buffer.String(), "msg=kept")
}
