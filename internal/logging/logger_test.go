package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Defaults(t *testing.T) {
	logger := NewLogger(nil)

	assert.NotNil(t, logger)
	assert.Equal(t, LevelInfo, logger.level)
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{
		Level:  LevelWarn,
		Format: "text",
		Output: &buf,
	})

	ctx := context.Background()
	logger.Debug(ctx, "debug message")
	logger.Info(ctx, "info message")

	assert.Empty(t, buf.String())

	logger.Warn(ctx, nil, "warn message")
	assert.Contains(t, buf.String(), "warn message")
}

func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{
		Level:     LevelInfo,
		Format:    "json",
		Output:    &buf,
		Component: "resolver",
	})

	logger.Error(context.Background(), errors.New("boom"), "resolution failed", "renderer", "react")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "resolution failed", entry["msg"])
	assert.Equal(t, "resolver", entry["component"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "react", entry["renderer"])
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{
		Level:  LevelInfo,
		Format: "json",
		Output: &buf,
	})

	child := logger.With("request_id", "abc123")
	child.Info(context.Background(), "handled")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "abc123", entry["request_id"])
}

func TestLogger_WithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{
		Level:  LevelInfo,
		Format: "json",
		Output: &buf,
	})

	child := logger.WithComponent("registry")
	child.Info(context.Background(), "finalized")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "registry", entry["component"])
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParseLevel(tt.input), "input %q", tt.input)
	}
}

func TestLogLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}
