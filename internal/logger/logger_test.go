package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		"WARNING": zapcore.WarnLevel,
		" error ": zapcore.ErrorLevel,
		"panic":   zapcore.PanicLevel,
		"fatal":   zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok, s)
		require.Equal(t, lvl, got, s)
	}

	_, ok := ParseLogLevel("unknown")
	require.False(t, ok)
}

// TestWithLevel_BypassesStricterCoreLevel ensures a pinned logger writes entries the base core would drop.
func TestWithLevel_BypassesStricterCoreLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	base := NewWithWriter(&buf, zap.NewAtomicLevelAt(zapcore.FatalLevel))

	base.Error("dropped")
	require.Empty(t, buf.String())

	pinned := base.WithOptions(WithLevel(zapcore.ErrorLevel))
	pinned.Error("kept")
	pinned.Warn("below the pin")

	require.Contains(t, buf.String(), "kept")
	require.NotContains(t, buf.String(), "below the pin")
}

// TestContextHelpers checks that scoped loggers travel through the context.
func TestContextHelpers(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := NewWithWriter(&buf, zap.NewAtomicLevelAt(zapcore.DebugLevel))

	require.Same(t, Logger(), FromContext(context.Background()))

	ctx := ToContext(context.Background(), l)
	ctx = WithName(ctx, "scheduler")
	ctx = WithKV(ctx, "task", "alarm-loop")

	InfoKV(ctx, "started", "alarms", 3)

	out := buf.String()
	require.Contains(t, out, "scheduler")
	require.Contains(t, out, "started")
	require.Contains(t, out, "alarm-loop")
}
