package integration

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/alarm-watchdog/internal/service/status"
)

// TestStatus_ReportsRunningWatchdog prints the state of a runner through the status service.
func TestStatus_ReportsRunningWatchdog(t *testing.T) {
	t.Parallel()

	addr := reservePort(t)
	cfgPath := writeConfig(t, addr, filepath.Join(t.TempDir(), "journal.jsonl"), time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := startRunner(ctx, cfgPath, "sleep", "30")

	var out bytes.Buffer

	require.Eventually(t, func() bool {
		out.Reset()

		err := status.Run(ctx, &status.Options{ConfigPath: cfgPath, Output: &out})

		return err == nil && strings.Contains(out.String(), `"SERVING"`)
	}, 5*time.Second, 50*time.Millisecond)

	require.Contains(t, out.String(), `"slow-operation"`)
	require.Contains(t, out.String(), addr)

	cancel()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("runner did not stop")
	}
}
