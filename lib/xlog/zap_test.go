package xlog

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xordered/lib/infra"
)

func TestLogLevelString(t *testing.T) {
	require.Equal(t, "DEBUG", LogLevelDebug.String())
	require.Equal(t, "INFO", LogLevelInfo.String())
	require.Equal(t, "WARN", LogLevelWarn.String())
	require.Equal(t, "ERROR", LogLevelError.String())
	require.Equal(t, zapcore.DebugLevel, LogLevelDebug.zapLevel())
	require.Equal(t, zapcore.InfoLevel, LogLevelInfo.zapLevel())
	require.Equal(t, zapcore.WarnLevel, LogLevelWarn.zapLevel())
	require.Equal(t, zapcore.ErrorLevel, LogLevelError.zapLevel())
}

func TestGetLogLevelOrDefault(t *testing.T) {
	testcases := []struct {
		in       string
		expected zapcore.Level
	}{
		{"", zapcore.DebugLevel},
		{"  ", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"WARN", zapcore.WarnLevel},
		{"Error", zapcore.ErrorLevel},
		{"debug", zapcore.DebugLevel},
		{"unknown", zapcore.DebugLevel},
	}
	for _, tc := range testcases {
		require.Equal(t, tc.expected, getLogLevelOrDefault(tc.in))
	}
}

func newTestLogger(t *testing.T, buf *bytes.Buffer, opts ...XLoggerOption) XLogger {
	t.Helper()
	opts = append([]XLoggerOption{
		WithXLoggerWriteSyncer(zapcore.AddSync(buf)),
		WithXLoggerEncoder(JSON),
		WithXLoggerLevel(LogLevelDebug),
	}, opts...)
	return NewXLogger(opts...)
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	res := make([]map[string]any, 0, len(lines))
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		m := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		res = append(res, m)
	}
	return res
}

func TestXLogger_Levels(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := newTestLogger(t, buf)
	require.Equal(t, "debug", logger.Level())

	logger.Debug("debug msg", zap.Int("size", 1))
	logger.Info("info msg")
	logger.Warn("warn msg")
	logger.Error(errors.New("boom"), "error msg")
	logger.Logf(zapcore.InfoLevel, "formatted %d", 42)
	require.NoError(t, logger.Sync())

	lines := decodeLines(t, buf)
	require.Len(t, lines, 5)
	require.Equal(t, "DEBUG", lines[0]["lvl"])
	require.Equal(t, float64(1), lines[0]["size"])
	require.Equal(t, "info msg", lines[1]["msg"])
	require.Equal(t, "WARN", lines[2]["lvl"])
	require.Equal(t, "boom", lines[3]["error"])
	require.Equal(t, "formatted 42", lines[4]["msg"])

	buf.Reset()
	logger.IncreaseLogLevel(zapcore.WarnLevel)
	require.Equal(t, "warn", logger.Level())
	logger.Debug("dropped")
	logger.Info("dropped")
	logger.Warn("kept")
	lines = decodeLines(t, buf)
	require.Len(t, lines, 1)
	require.Equal(t, "kept", lines[0]["msg"])
}

func TestXLogger_ErrorStack(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := newTestLogger(t, buf).Named("rbtree")

	logger.ErrorStack(infra.NewErrorStack("[rbtree] red violation"), "invariant check")
	logger.ErrorStack(errors.New("plain"), "plain error")
	logger.ErrorStackf(infra.WrapErrorStackWithMessage(errors.New("inner"), "outer"), "key %s", "A")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 3)
	require.Equal(t, "rbtree", lines[0]["component"])
	require.Equal(t, "[rbtree] red violation", lines[0]["error"])
	stack, ok := lines[0]["errorStack"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, stack)
	require.Equal(t, "plain", lines[1]["error"])
	require.Nil(t, lines[1]["errorStack"])
	require.Equal(t, "key A", lines[2]["msg"])
	require.Equal(t, "outer: inner", lines[2]["error"])
}

func TestXLogger_InvalidOptions(t *testing.T) {
	require.Panics(t, func() {
		NewXLogger(WithXLoggerEncoder(_encMax))
	})
	require.Panics(t, func() {
		NewXLogger(WithXLoggerWriter(_writerMax))
	})
	require.Panics(t, func() {
		NewXLogger(WithXLoggerWriteSyncer(nil))
	})
	require.NotPanics(t, func() {
		NewXLogger(nil, WithXLoggerStdOutWriter(), WithXLoggerLevelEncoder(nil), WithXLoggerTimeEncoder(nil))
	})
}

func TestNopXLogger(t *testing.T) {
	logger := NewNopXLogger()
	require.NotPanics(t, func() {
		logger.Info("nothing")
		logger.ErrorStack(infra.NewErrorStack("nothing"), "nothing")
		logger.Named("child").Warn("nothing")
	})
}

func TestAntsXLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewAntsXLogger(newTestLogger(t, buf))
	logger.Printf("worker exits from panic: %v", "oops")
	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	require.Equal(t, "Ants", lines[0]["component"])
	require.Equal(t, "ERROR", lines[0]["lvl"])

	var nilLogger *AntsXLogger
	require.NotPanics(t, func() {
		nilLogger.Printf("ignored")
		NewAntsXLogger(nil).Printf("ignored")
	})
}
