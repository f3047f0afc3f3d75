package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// pinnedCore overrides the level decision of the wrapped core.
// Entries at or above level are written even when the wrapped core's own
// level enabler (usually the shared atomic level) would have dropped them.
type pinnedCore struct {
	zapcore.Core

	// level is the minimum level this core accepts.
	level zapcore.Level
}

// Enabled reports whether l passes the pinned level.
func (c *pinnedCore) Enabled(l zapcore.Level) bool {
	return c.level.Enabled(l)
}

// Check adds the core to the checked entry when the entry passes the pinned level.
//
//nolint:gocritic // AddCore requires ent to be passed by value.
func (c *pinnedCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}

	return ce
}

// With keeps the pinned level on derived cores.
//
//nolint:ireturn,nolintlint // Returning zapcore.Core is intended for zap integration.
func (c *pinnedCore) With(fields []zapcore.Field) zapcore.Core {
	return &pinnedCore{
		Core:  c.Core.With(fields),
		level: c.level,
	}
}

// WithLevel pins the minimum level of a logger derived from an existing one.
// Watchdog firings use it so they surface whatever level the operator configured.
//
//nolint:ireturn,nolintlint // Returning zap.Option is intended for zap integration.
func WithLevel(lvl zapcore.Level) zap.Option {
	return zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &pinnedCore{Core: core, level: lvl}
	})
}
