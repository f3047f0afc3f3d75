package integration

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/alarm-watchdog/internal/config"
	"github.com/oshokin/alarm-watchdog/internal/service/runner"
)

// reservePort returns a free loopback address.
func reservePort(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	_ = l.Close()

	return addr
}

// writeConfig saves a debug-mode config listening on addr and journaling to journalPath.
func writeConfig(t *testing.T, addr, journalPath string, timeout time.Duration) string {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "alarm-watchdog.yaml")

	require.NoError(t, config.Save(cfgPath, &config.Config{
		BuildMode: config.BuildModeDebug,
		SlowOperation: config.SlowOperation{
			DebugTimeout: timeout,
			Hint:         "See the journal for earlier reports.",
		},
		ListenAddress: addr,
		ServerAddress: addr,
		JournalFile:   journalPath,
		Timeout:       2 * time.Second,
	}))

	return cfgPath
}

// startRunner runs command in the background and returns a channel with its result.
func startRunner(ctx context.Context, cfgPath string, command ...string) <-chan error {
	done := make(chan error, 1)

	go func() {
		done <- runner.Run(ctx, &runner.Options{
			ConfigPath: cfgPath,
			Command:    command,
		})
	}()

	return done
}
