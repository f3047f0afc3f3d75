package watchdog

import (
	"fmt"
	"time"

	"github.com/oshokin/alarm-watchdog/internal/domain/alarm"
	"github.com/oshokin/alarm-watchdog/internal/logger"
)

// loop is the body of the watchdog goroutine. It alternates between
// scanning for expired alarms and waiting for the next deadline, a wake
// signal, or Close.
func (s *Scheduler) loop() {
	s.running.Store(true)
	defer s.running.Store(false)

	logger.DebugKV(s.ctx, "Watchdog loop started", "task", s.taskName)

	// The timer is only armed while at least one alarm is live.
	timer := time.NewTimer(time.Hour)
	timer.Stop()

	defer timer.Stop()

	for {
		due, next, pending := s.scan(time.Now())

		for _, a := range due {
			s.fire(a)
		}

		if !pending {
			// Nothing to wait for: sleep until an alarm is armed.
			select {
			case <-s.ctx.Done():
				logger.DebugKV(s.ctx, "Watchdog loop stopped", "task", s.taskName)
				return
			case <-s.wake:
			}

			continue
		}

		timer.Reset(time.Until(next))

		select {
		case <-s.ctx.Done():
			logger.DebugKV(s.ctx, "Watchdog loop stopped", "task", s.taskName)
			return
		case <-s.wake:
		case <-timer.C:
		}
	}
}

// scan removes every alarm whose deadline is not after now, applies the
// throttle, and returns the alarms to report together with the earliest
// remaining deadline.
func (s *Scheduler) scan(now time.Time) (due []*Alarm, next time.Time, pending bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for a := range s.alarms {
		if a.deadline.After(now) {
			continue
		}

		delete(s.alarms, a)

		if !a.counter.admit() {
			s.suppressed++
			continue
		}

		a.fired.Store(true)
		s.fired++

		due = append(due, a)
	}

	next, pending = s.earliestDeadlineLocked()

	return due, next, pending
}

// fire evaluates the alarm message and reports it. Each firing is its own
// failure boundary: a panicking producer or reporter is logged and the loop
// carries on with the remaining alarms.
func (s *Scheduler) fire(a *Alarm) {
	defer func() {
		if r := recover(); r != nil {
			s.panics.Add(1)
			logger.ErrorKV(s.ctx, "Alarm reporter panicked", "alarm_id", a.id, "panic", r)
		}
	}()

	message, err := a.evaluate()
	if err != nil {
		s.panics.Add(1)
		logger.ErrorKV(s.ctx, "Alarm message producer panicked", "alarm_id", a.id, "alarm", a.name, "error", err)

		message = fmt.Sprintf("alarm %s fired; message unavailable: %v", a.id, err)
	}

	firing := &alarm.Firing{
		ID:       a.id,
		Name:     a.name,
		Message:  message,
		Level:    FireLevel.String(),
		Deadline: a.deadline,
		FiredAt:  time.Now(),
	}

	deliver(s.reporter, FireLevel, firing)
}
