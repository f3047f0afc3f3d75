package watchdog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/alarm-watchdog/internal/domain/alarm"
	"github.com/oshokin/alarm-watchdog/internal/logger"
)

// FireLevel is the severity alarms are reported at.
const FireLevel = zapcore.ErrorLevel

// Reporter receives the text of every alarm that fires and passes the throttle.
// Report is called from the watchdog loop without any scheduler lock held;
// it must not block indefinitely.
type Reporter interface {
	Report(level zapcore.Level, text string)
}

// FiringReporter is implemented by reporters that want the whole firing
// record instead of just its text. The scheduler prefers it when available.
type FiringReporter interface {
	ReportFiring(f *alarm.Firing)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(level zapcore.Level, text string)

// Report calls f(level, text).
func (f ReporterFunc) Report(level zapcore.Level, text string) {
	f(level, text)
}

// MultiReporter fans a firing out to several reporters.
type MultiReporter []Reporter

// Report forwards the text to every reporter.
func (m MultiReporter) Report(level zapcore.Level, text string) {
	for _, r := range m {
		r.Report(level, text)
	}
}

// ReportFiring forwards the firing to every reporter, using ReportFiring
// where a reporter supports it.
func (m MultiReporter) ReportFiring(f *alarm.Firing) {
	level, err := zapcore.ParseLevel(f.Level)
	if err != nil {
		level = FireLevel
	}

	for _, r := range m {
		deliver(r, level, f)
	}
}

// deliver hands f to r in the richest form r understands.
func deliver(r Reporter, level zapcore.Level, f *alarm.Firing) {
	if fr, ok := r.(FiringReporter); ok {
		fr.ReportFiring(f.Clone())
		return
	}

	r.Report(level, f.Message)
}

// LogReporter writes firings through zap.
type LogReporter struct {
	log *zap.SugaredLogger
}

// NewLogReporter returns a reporter that logs through l, or through the
// global logger when l is nil. The level is pinned at FireLevel so firings
// are written even when l is configured to drop errors.
func NewLogReporter(l *zap.SugaredLogger) *LogReporter {
	if l == nil {
		l = logger.Logger()
	}

	return &LogReporter{
		log: l.WithOptions(logger.WithLevel(FireLevel)),
	}
}

// Report logs text at level.
func (r *LogReporter) Report(level zapcore.Level, text string) {
	if ce := r.log.Desugar().Check(level, text); ce != nil {
		ce.Write()
	}
}

// ReportFiring logs the firing message with the alarm identity attached.
func (r *LogReporter) ReportFiring(f *alarm.Firing) {
	level, err := zapcore.ParseLevel(f.Level)
	if err != nil {
		level = FireLevel
	}

	fields := []zap.Field{zap.String("alarm_id", f.ID)}
	if f.Name != "" {
		fields = append(fields, zap.String("alarm", f.Name))
	}

	fields = append(fields, zap.Duration("late", f.Late()))

	if ce := r.log.Desugar().Check(level, f.Message); ce != nil {
		ce.Write(fields...)
	}
}
