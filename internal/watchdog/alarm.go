package watchdog

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/oshokin/alarm-watchdog/internal/domain/alarm"
)

// errProducerPanicked wraps the value a message producer panicked with.
var errProducerPanicked = errors.New("message producer panicked")

// Alarm is a deadline armed on a Scheduler. It fires at most once.
//
// The owner must call Cancel on every exit path, typically with defer.
// Cancel after the alarm fired is harmless.
type Alarm struct {
	id       string
	name     string
	deadline time.Time
	produce  func() string
	counter  *Counter
	fired    atomic.Bool
	sched    *Scheduler
}

// AlarmOption configures an alarm at arm time.
type AlarmOption func(*Alarm)

// WithCounter throttles the alarm together with every other alarm sharing c.
func WithCounter(c *Counter) AlarmOption {
	return func(a *Alarm) {
		a.counter = c
	}
}

// WithName labels the alarm for introspection and structured logs.
func WithName(name string) AlarmOption {
	return func(a *Alarm) {
		a.name = name
	}
}

// Arm registers an alarm that reports message once timeout elapses.
func (s *Scheduler) Arm(timeout time.Duration, message string, opts ...AlarmOption) *Alarm {
	return s.ArmFunc(timeout, func() string { return message }, opts...)
}

// ArmFunc registers an alarm whose message is produced when it fires,
// so expensive descriptions are only built for alarms that do fire.
// A timeout that is not positive makes the alarm due on the next scan.
func (s *Scheduler) ArmFunc(timeout time.Duration, produce func() string, opts ...AlarmOption) *Alarm {
	if produce == nil {
		produce = func() string { return "" }
	}

	a := &Alarm{
		id:       uuid.NewString(),
		deadline: time.Now().Add(max(timeout, 0)),
		produce:  produce,
		sched:    s,
	}

	for _, opt := range opts {
		opt(a)
	}

	s.register(a)

	return a
}

// Cancel disarms the alarm. It returns true if the alarm was still pending,
// false if it had already fired, been throttled, or been cancelled.
func (a *Alarm) Cancel() bool {
	if a == nil {
		return false
	}

	return a.sched.unregister(a)
}

// ID returns the unique identifier of the alarm.
func (a *Alarm) ID() string {
	return a.id
}

// Name returns the label given with WithName.
func (a *Alarm) Name() string {
	return a.name
}

// Deadline returns when the alarm becomes eligible to fire.
func (a *Alarm) Deadline() time.Time {
	return a.deadline
}

// Message evaluates the message producer.
func (a *Alarm) Message() string {
	return a.produce()
}

// Fired reports whether the watchdog loop reported this alarm.
// Once true it stays true.
func (a *Alarm) Fired() bool {
	return a.fired.Load()
}

// evaluate runs the producer, turning a panic into an error.
func (a *Alarm) evaluate() (message string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errProducerPanicked, r)
		}
	}()

	return a.produce(), nil
}

// info describes the alarm for snapshots. Called with the scheduler lock held.
func (a *Alarm) info() alarm.Info {
	return alarm.Info{
		ID:        a.id,
		Name:      a.name,
		Deadline:  a.deadline,
		Throttled: a.counter != nil,
	}
}
