package watchdog

import (
	"bytes"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/alarm-watchdog/internal/domain/alarm"
	"github.com/oshokin/alarm-watchdog/internal/logger"
)

// recordingReporter keeps every firing it receives.
type recordingReporter struct {
	mu      sync.Mutex
	firings []*alarm.Firing
}

// Report records a text-only firing.
func (r *recordingReporter) Report(level zapcore.Level, text string) {
	r.ReportFiring(&alarm.Firing{Message: text, Level: level.String()})
}

// ReportFiring records the full firing.
func (r *recordingReporter) ReportFiring(f *alarm.Firing) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.firings = append(r.firings, f)
}

// messages returns the reported texts in report order.
func (r *recordingReporter) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.firings))
	for _, f := range r.firings {
		out = append(out, f.Message)
	}

	return out
}

// ids returns how many times each alarm ID was reported.
func (r *recordingReporter) ids() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]int, len(r.firings))
	for _, f := range r.firings {
		out[f.ID]++
	}

	return out
}

// newTestScheduler returns a scheduler reporting into a fresh recorder and
// logging into a buffer instead of stdout.
func newTestScheduler(t *testing.T, opts ...Option) (*Scheduler, *recordingReporter) {
	t.Helper()

	rec := new(recordingReporter)

	var buf bytes.Buffer

	l := logger.NewWithWriter(&buf, zap.NewAtomicLevelAt(zapcore.DebugLevel))

	opts = append([]Option{WithReporter(rec), WithLogger(l)}, opts...)

	return New(opts...), rec
}
