package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	logger := New()
	assert.NotNil(t, logger)
	assert.NotNil(t, logger.sugar)
}

func TestNewWithLevel_Invalid(t *testing.T) {
	// Unknown levels fall back to the production default
	logger := NewWithLevel("not-a-level")
	assert.NotNil(t, logger)
	logger.Info("still logging: %d", 1)
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	assert.NotNil(t, logger)

	logger.Info("Test message: %s", "info")
	logger.Warn("Test warning: %s", "warning")
	logger.Error("Test error: %s", "error")
}

func TestWith(t *testing.T) {
	logger := NewNop().With("service", "ledger")
	assert.NotNil(t, logger)
	assert.NotNil(t, logger.base)

	logger.Info("User %s topped up %d coins", "john", 123)
}

func TestLogger_Formatting(t *testing.T) {
	logger := NewWithLevel("error")
	assert.NotNil(t, logger)

	logger.Info("User %s logged in with ID %d", "john", 123)
	logger.Error("Failed to process request %d: %s", 404, "not found")
	logger.Warn("Warning: %s count is %d", "items", 5)
}

func TestWith_FieldsReachEveryLevel(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := wrap(zap.New(core)).With("service", "ledger")

	logger.Info("settled %d", 1)
	logger.Warn("retrying %d", 2)
	logger.Error("failed %d", 3)

	entries := logs.All()
	require.Len(t, entries, 3)
	for i, level := range []zapcore.Level{zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel} {
		assert.Equal(t, level, entries[i].Level)
		assert.Equal(t, "ledger", entries[i].ContextMap()["service"])
	}
	assert.Equal(t, "failed 3", entries[2].Message)
}
