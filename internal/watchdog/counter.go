package watchdog

import "sync/atomic"

// Counter is shared by a class of related alarms to throttle their reports.
// The zero value is ready to use.
type Counter struct {
	n atomic.Int64
}

// Next increments the counter and returns the value it had before.
func (c *Counter) Next() int64 {
	return c.n.Add(1) - 1
}

// Load returns the number of firings counted so far.
func (c *Counter) Load() int64 {
	return c.n.Load()
}

// admit consumes one count and reports whether the firing should be reported.
// A nil counter admits everything.
func (c *Counter) admit() bool {
	if c == nil {
		return true
	}

	return ShouldReport(c.Next())
}

// ShouldReport reports whether a firing with the given pre-increment count
// passes the throttle: true for 0 and for every power of two.
func ShouldReport(count int64) bool {
	return count >= 0 && count&(count-1) == 0
}
