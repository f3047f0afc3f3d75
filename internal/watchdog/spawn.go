package watchdog

import (
	"context"
	"runtime/pprof"
)

// Spawner starts entry as a named background task that outlives its caller.
// A non-nil error means entry was not started.
type Spawner func(name string, entry func()) error

// GoSpawner runs entry in a new goroutine labelled task=name, which makes
// the watchdog loop easy to find in goroutine profiles.
func GoSpawner(name string, entry func()) error {
	go pprof.Do(context.Background(), pprof.Labels("task", name), func(context.Context) {
		entry()
	})

	return nil
}
