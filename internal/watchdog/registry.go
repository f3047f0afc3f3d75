package watchdog

import (
	"slices"
	"time"

	"github.com/oshokin/alarm-watchdog/internal/domain/alarm"
)

// register adds a to the live set and wakes the loop so it can reconsider
// its sleep deadline. The loop is started on first use.
func (s *Scheduler) register(a *Alarm) {
	_ = s.Start()

	s.mu.Lock()
	s.alarms[a] = struct{}{}
	s.armed++
	s.mu.Unlock()

	s.signal()
}

// unregister removes a if it is still live and reports whether it did.
// It is a no-op for alarms that already fired or were cancelled.
func (s *Scheduler) unregister(a *Alarm) bool {
	s.mu.Lock()

	_, ok := s.alarms[a]
	if ok {
		delete(s.alarms, a)
		s.cancelled++
	}

	s.mu.Unlock()

	if ok {
		s.signal()
	}

	return ok
}

// earliestDeadlineLocked returns the minimum deadline of the live set.
// The set is expected to stay small, so a linear scan is fine.
//
// s.mu must be held.
func (s *Scheduler) earliestDeadlineLocked() (time.Time, bool) {
	var (
		earliest time.Time
		found    bool
	)

	for a := range s.alarms {
		if !found || a.deadline.Before(earliest) {
			earliest = a.deadline
			found = true
		}
	}

	return earliest, found
}

// Len returns the number of live alarms.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.alarms)
}

// Snapshot lists the live alarms ordered by deadline.
func (s *Scheduler) Snapshot() []alarm.Info {
	s.mu.Lock()

	infos := make([]alarm.Info, 0, len(s.alarms))
	for a := range s.alarms {
		infos = append(infos, a.info())
	}

	s.mu.Unlock()

	slices.SortFunc(infos, func(x, y alarm.Info) int {
		return x.Deadline.Compare(y.Deadline)
	})

	return infos
}

// Stats returns a consistent summary of the scheduler.
// Live always equals Armed - Cancelled - Fired - Suppressed.
func (s *Scheduler) Stats() alarm.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := alarm.Stats{
		Live:       len(s.alarms),
		Armed:      s.armed,
		Fired:      s.fired,
		Suppressed: s.suppressed,
		Cancelled:  s.cancelled,
		Panics:     s.panics.Load(),
		Running:    s.running.Load(),
	}

	if s.startErr != nil {
		stats.StartError = s.startErr.Error()
	}

	return stats
}
