package watchdog

import (
	"strings"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"
)

// TestNewSlowOperations_Timeouts picks the timeout by build mode with defaults and overrides.
func TestNewSlowOperations_Timeouts(t *testing.T) {
	t.Parallel()

	require.Equal(t, DefaultSlowReleaseTimeout, NewSlowOperations(SlowOperationConfig{}).Timeout())
	require.Equal(t, DefaultSlowDebugTimeout, NewSlowOperations(SlowOperationConfig{Debug: true}).Timeout())

	f := NewSlowOperations(SlowOperationConfig{ReleaseTimeout: time.Minute, DebugTimeout: time.Second})
	require.Equal(t, time.Minute, f.Timeout())

	f = NewSlowOperations(SlowOperationConfig{Debug: true, ReleaseTimeout: time.Minute, DebugTimeout: time.Second})
	require.Equal(t, time.Second, f.Timeout())

	require.Same(t, DefaultSlowOperations(), DefaultSlowOperations())
}

// TestSlowOperations_Message renders the banner with headline, hint, suffix and process label.
func TestSlowOperations_Message(t *testing.T) {
	t.Parallel()

	release := NewSlowOperations(SlowOperationConfig{Hint: "Run with --journal and attach the file."})

	msg := release.Message("building index for table users")
	require.True(t, strings.HasPrefix(msg, slowSeparator+"\nVery slow operation?  Run with --journal"))
	require.Contains(t, msg, "\nbuilding index for table users\n")
	require.Contains(t, msg, "\nprocess: ")
	require.True(t, strings.HasSuffix(msg, slowSeparator))

	debug := NewSlowOperations(SlowOperationConfig{Debug: true})
	msg = debug.Message("")
	require.Contains(t, msg, "Slow operation?  This binary runs in debug mode")
	require.Equal(t, 2, strings.Count(msg, slowSeparator))
}

// TestSlowOperations_ArmUsesTimeoutAndSharedCounter fires repeated slow operations and checks throttling.
func TestSlowOperations_ArmUsesTimeoutAndSharedCounter(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		s, rec := newTestScheduler(t)
		defer s.Close()

		f := NewSlowOperations(SlowOperationConfig{Debug: true, DebugTimeout: 3 * time.Second})

		first := f.Arm(s, "first run")

		time.Sleep(3*time.Second - time.Millisecond)
		synctest.Wait()
		require.False(t, first.Fired())

		time.Sleep(time.Millisecond)
		synctest.Wait()
		require.True(t, first.Fired())
		require.Equal(t, "slow-operation", first.Name())

		// Four more slow runs: counts 1, 2, 3, 4; count 3 is throttled.
		fired := []bool{}

		for range 4 {
			a := f.Arm(s, "again")

			time.Sleep(3 * time.Second)
			synctest.Wait()

			fired = append(fired, a.Fired())
		}

		require.Equal(t, []bool{true, true, false, true}, fired)
		require.Len(t, rec.messages(), 4)
		require.Equal(t, int64(5), f.Counter().Load())
		require.Contains(t, rec.messages()[0], "first run")
	})
}

// TestSlowOperations_ArmFuncEvaluatesSuffixAtFire renders the suffix only when the alarm fires.
func TestSlowOperations_ArmFuncEvaluatesSuffixAtFire(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		s, rec := newTestScheduler(t)
		defer s.Close()

		f := NewSlowOperations(SlowOperationConfig{Debug: true, DebugTimeout: time.Second})
		started := time.Now()
		var calls atomic.Int32

		a := f.ArmFunc(s, func() string {
			calls.Add(1)

			return "elapsed " + time.Since(started).String()
		})
		defer a.Cancel()

		time.Sleep(time.Second)
		synctest.Wait()

		require.True(t, a.Fired())
		require.Equal(t, int32(1), calls.Load())
		require.Len(t, rec.messages(), 1)
		require.Contains(t, rec.messages()[0], "elapsed 1s")

		b := f.ArmFunc(s, nil)
		defer b.Cancel()

		time.Sleep(time.Second)
		synctest.Wait()

		require.Len(t, rec.messages(), 2)
		require.Contains(t, rec.messages()[1], "Slow operation?")
	})
}
