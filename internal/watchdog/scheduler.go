package watchdog

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/oshokin/alarm-watchdog/internal/logger"
)

// DefaultTaskName is the name the watchdog loop is spawned under.
const DefaultTaskName = "alarm-watchdog"

// Scheduler owns a set of armed alarms and the loop that fires them.
//
// Construct one with New, per process or per test, and hand it to the code
// that arms alarms. The loop is started by Start or lazily by the first Arm,
// and stopped by Close. A Scheduler must not be copied.
type Scheduler struct {
	// ctx carries the scoped logger and is cancelled by Close.
	ctx    context.Context
	cancel context.CancelFunc

	reporter Reporter
	spawn    Spawner
	taskName string

	// mu guards alarms, the counters below it and startErr.
	mu         sync.Mutex
	alarms     map[*Alarm]struct{}
	armed      uint64
	fired      uint64
	suppressed uint64
	cancelled  uint64
	startErr   error

	// wake has capacity one; a pending token means "rescan before sleeping".
	wake chan struct{}

	startOnce sync.Once
	closeOnce sync.Once
	running   atomic.Bool
	panics    atomic.Uint64

	// wg tracks the loop goroutine so Close can wait for it.
	wg sync.WaitGroup
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithReporter sets where firings are reported. The default is a LogReporter
// on the global logger.
func WithReporter(r Reporter) Option {
	return func(s *Scheduler) {
		if r != nil {
			s.reporter = r
		}
	}
}

// WithSpawner replaces the function used to start the watchdog loop.
func WithSpawner(spawn Spawner) Option {
	return func(s *Scheduler) {
		if spawn != nil {
			s.spawn = spawn
		}
	}
}

// WithTaskName sets the name the loop is spawned under.
func WithTaskName(name string) Option {
	return func(s *Scheduler) {
		if name != "" {
			s.taskName = name
		}
	}
}

// WithLogger sets the logger used for the scheduler's own diagnostics.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.ctx = logger.ToContext(s.ctx, l)
		}
	}
}

// New returns a stopped Scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		ctx:      context.Background(),
		spawn:    GoSpawner,
		taskName: DefaultTaskName,
		alarms:   make(map[*Alarm]struct{}),
		wake:     make(chan struct{}, 1),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.reporter == nil {
		s.reporter = NewLogReporter(logger.FromContext(s.ctx))
	}

	s.ctx = logger.WithName(s.ctx, "watchdog")
	s.ctx, s.cancel = context.WithCancel(s.ctx)

	return s
}

//nolint:gochecknoglobals // The process-wide scheduler is created on first use.
var defaultScheduler = sync.OnceValue(func() *Scheduler {
	return New()
})

// Default returns the process-wide Scheduler, for call sites that are not
// handed one explicitly. It is never closed.
func Default() *Scheduler {
	return defaultScheduler()
}

// Start spawns the watchdog loop. Only the first call does any work; every
// call returns the spawn failure, if there was one. Arm calls Start itself.
func (s *Scheduler) Start() error {
	s.startOnce.Do(s.start)

	return s.Err()
}

func (s *Scheduler) start() {
	s.wg.Add(1)

	err := s.spawn(s.taskName, func() {
		defer s.wg.Done()

		s.loop()
	})
	if err != nil {
		s.wg.Done()

		s.mu.Lock()
		s.startErr = fmt.Errorf("spawn %s: %w", s.taskName, err)
		s.mu.Unlock()

		// Alarms keep being accepted, they just never fire.
		logger.ErrorKV(s.ctx, "Watchdog loop failed to start, alarms will not be reported",
			"task", s.taskName, "error", err)

		return
	}

	logger.DebugKV(s.ctx, "Watchdog loop spawned", "task", s.taskName)
}

// Err returns the error that prevented the loop from starting, if any.
func (s *Scheduler) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.startErr
}

// Running reports whether the loop goroutine is currently alive.
func (s *Scheduler) Running() bool {
	return s.running.Load()
}

// Close stops the loop and waits for it to exit. Alarms that are still
// armed are never reported. Close is idempotent.
func (s *Scheduler) Close() {
	s.closeOnce.Do(func() {
		// A scheduler closed before its first Arm never spawns the loop.
		s.startOnce.Do(func() {})

		s.cancel()
		s.wg.Wait()

		logger.DebugKV(s.ctx, "Watchdog closed", "pending", s.Len())
	})
}

// signal wakes the loop without blocking. A token already pending is enough.
func (s *Scheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}
