package logger_test

import (
	"errors"
	"net/http/httptest"
	"testing"
	"todoTracker/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	previous := logger.Logger
	logger.Logger = zap.New(core)
	t.Cleanup(func() {
		logger.Logger = previous
	})
	return logs
}

func TestInit(t *testing.T) {
	previous := logger.Logger
	t.Cleanup(func() {
		logger.Logger = previous
	})

	require.NoError(t, logger.Init(true))
	require.NoError(t, logger.Init(false))
	assert.NotNil(t, logger.Logger)
}

func TestError_AddsErrorField(t *testing.T) {
	logs := observe(t)

	logger.Error("Repository: Ошибка", errors.New("boom"), zap.String("task_id", "42"))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "boom", fields["error"])
	assert.Equal(t, "42", fields["task_id"])
}

func TestHttpRequestInfo(t *testing.T) {
	logs := observe(t)

	r := httptest.NewRequest("GET", "/todos?page=1", nil)
	logger.HttpRequestInfo(r, "HTTP_IN:")

	entries := logs.FilterMessage("HTTP_IN:").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/todos", fields["path"])
	assert.Equal(t, "page=1", fields["query"])
}
