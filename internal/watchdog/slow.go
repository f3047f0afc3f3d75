package watchdog

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	ps "github.com/mitchellh/go-ps"
)

const (
	// DefaultSlowReleaseTimeout is how long an operation may run in an
	// optimized build before it is reported as slow.
	DefaultSlowReleaseTimeout = 2 * time.Minute
	// DefaultSlowDebugTimeout is the same limit for debug builds, which
	// are expected to be slow anyway.
	DefaultSlowDebugTimeout = 10 * time.Second

	slowSeparator = "\n********************************"
)

// SlowOperationConfig configures a SlowOperations factory.
type SlowOperationConfig struct {
	// Debug selects the debug timeout and headline.
	Debug bool
	// ReleaseTimeout overrides DefaultSlowReleaseTimeout when positive.
	ReleaseTimeout time.Duration
	// DebugTimeout overrides DefaultSlowDebugTimeout when positive.
	DebugTimeout time.Duration
	// Hint is appended to the headline, e.g. how to collect a bug report.
	Hint string
}

// SlowOperations arms "operation is taking unusually long" alarms.
// All alarms of one factory share a Counter, so a recurring slow operation
// is reported with a logarithmically shrinking frequency.
type SlowOperations struct {
	counter  Counter
	timeout  time.Duration
	headline string
}

// NewSlowOperations returns a factory configured by cfg.
func NewSlowOperations(cfg SlowOperationConfig) *SlowOperations {
	f := &SlowOperations{
		timeout:  DefaultSlowReleaseTimeout,
		headline: "Very slow operation?",
	}

	if cfg.ReleaseTimeout > 0 {
		f.timeout = cfg.ReleaseTimeout
	}

	if cfg.Debug {
		f.timeout = DefaultSlowDebugTimeout
		if cfg.DebugTimeout > 0 {
			f.timeout = cfg.DebugTimeout
		}

		f.headline = "Slow operation?  This binary runs in debug mode, which can be slow."
	}

	if hint := strings.TrimSpace(cfg.Hint); hint != "" {
		f.headline += "  " + hint
	}

	return f
}

//nolint:gochecknoglobals // Shared by call sites that do not configure their own factory.
var defaultSlowOperations = sync.OnceValue(func() *SlowOperations {
	return NewSlowOperations(SlowOperationConfig{})
})

// DefaultSlowOperations returns the process-wide factory with release defaults.
func DefaultSlowOperations() *SlowOperations {
	return defaultSlowOperations()
}

// Timeout returns the timeout alarms from this factory are armed with.
func (f *SlowOperations) Timeout() time.Duration {
	return f.timeout
}

// Counter returns the throttling counter shared by the factory's alarms.
func (f *SlowOperations) Counter() *Counter {
	return &f.counter
}

// Arm arms a slow-operation alarm on s. The suffix describes the operation
// and is printed below the headline when not empty.
func (f *SlowOperations) Arm(s *Scheduler, suffix string) *Alarm {
	return s.Arm(f.timeout, f.Message(suffix), WithCounter(&f.counter), WithName("slow-operation"))
}

// ArmFunc is Arm with a suffix computed when the alarm fires.
func (f *SlowOperations) ArmFunc(s *Scheduler, suffix func() string) *Alarm {
	produce := func() string {
		if suffix == nil {
			return f.Message("")
		}

		return f.Message(suffix())
	}

	return s.ArmFunc(f.timeout, produce, WithCounter(&f.counter), WithName("slow-operation"))
}

// Message renders the warning body for suffix.
func (f *SlowOperations) Message(suffix string) string {
	var b strings.Builder

	b.WriteString(slowSeparator)
	b.WriteString("\n")
	b.WriteString(f.headline)

	if suffix != "" {
		b.WriteString("\n")
		b.WriteString(suffix)
	}

	b.WriteString("\nprocess: ")
	b.WriteString(processLabel())
	b.WriteString(slowSeparator)

	return b.String()
}

//nolint:gochecknoglobals // The process identity does not change.
var processLabel = sync.OnceValue(func() string {
	pid := os.Getpid()

	p, err := ps.FindProcess(pid)
	if err != nil || p == nil {
		return fmt.Sprintf("pid %d", pid)
	}

	return fmt.Sprintf("%s (pid %d)", p.Executable(), pid)
})
