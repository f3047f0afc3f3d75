package alarm

import "time"

// Actor identifies the process that reported a firing.
type Actor struct {
	// Hostname is the machine the process runs on.
	Hostname string
	// Username is the system user running the process.
	Username string
	// PID is the process identifier.
	PID int
	// Executable is the process image name.
	Executable string
}

// Clone returns a deep copy of the actor.
func (a *Actor) Clone() *Actor {
	if a == nil {
		return nil
	}

	cloned := *a

	return &cloned
}

// Info describes an alarm that is still waiting for its deadline.
type Info struct {
	// ID uniquely identifies the alarm within the process.
	ID string
	// Name is the optional label given when the alarm was armed.
	Name string
	// Deadline is when the alarm becomes eligible to fire.
	Deadline time.Time
	// Throttled is true when the alarm shares a counter with its class.
	Throttled bool
}

// Overdue reports whether the deadline has passed at now.
func (i Info) Overdue(now time.Time) bool {
	return !i.Deadline.After(now)
}

// Stats summarizes a scheduler at a point in time.
type Stats struct {
	// Live is the number of alarms waiting for their deadline.
	Live int
	// Armed counts every alarm ever registered.
	Armed uint64
	// Fired counts alarms that passed the throttle and were reported.
	Fired uint64
	// Suppressed counts alarms whose deadline passed but were throttled.
	Suppressed uint64
	// Cancelled counts alarms removed by their owner before firing.
	Cancelled uint64
	// Panics counts message producers or reporters that panicked during a firing.
	Panics uint64
	// Running is true while the watchdog loop goroutine is alive.
	Running bool
	// StartError is the spawn failure message, empty when the loop started.
	StartError string
}

// Firing records one reported alarm.
type Firing struct {
	// ID of the alarm that fired.
	ID string
	// Name of the alarm that fired.
	Name string
	// Message is the text produced at fire time.
	Message string
	// Level is the zap level name the firing was reported at.
	Level string
	// Deadline is the alarm's deadline.
	Deadline time.Time
	// FiredAt is when the watchdog loop reported the alarm.
	FiredAt time.Time
	// Actor is the reporting process.
	Actor *Actor
}

// Clone returns a copy of the firing with a deep-copied actor.
func (f *Firing) Clone() *Firing {
	if f == nil {
		return nil
	}

	cloned := *f
	cloned.Actor = f.Actor.Clone()

	return &cloned
}

// Late returns how long after its deadline the alarm was reported.
func (f *Firing) Late() time.Duration {
	return f.FiredAt.Sub(f.Deadline)
}
