// Package watchdog implements deadline alarms for long-running operations.
//
// A Scheduler keeps the set of armed alarms and runs a single background
// loop that reports every alarm whose deadline has passed, then sleeps until
// the next deadline or until an alarm is armed or cancelled. Callers arm an
// alarm before a potentially slow operation and cancel it when the operation
// finishes:
//
//	a := s.Arm(30*time.Second, "index rebuild is still running")
//	defer a.Cancel()
//
// Alarms that share a Counter are throttled together: only the firings whose
// pre-increment count is zero or a power of two are reported, so a recurring
// slow operation logs on its 1st, 2nd, 3rd, 5th, 9th, ... occurrence.
package watchdog
