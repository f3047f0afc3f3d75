package status

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/alarm-watchdog/internal/service/server"
	"github.com/oshokin/alarm-watchdog/internal/watchdog"
)

// TestRun_PrintsReport queries a live server and decodes the printed JSON.
func TestRun_PrintsReport(t *testing.T) {
	t.Parallel()

	sched := watchdog.New()
	defer sched.Close()

	require.NoError(t, sched.Start())

	a := sched.Arm(time.Hour, "later", watchdog.WithName("compaction"))
	defer a.Cancel()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = server.Serve(ctx, lis, &server.Options{Scheduler: sched, HealthInterval: 10 * time.Millisecond})
	}()

	var report struct {
		Server string `json:"server"`
		Health string `json:"health"`
		Stats  struct {
			Live  float64 `json:"live"`
			Armed float64 `json:"armed"`
		} `json:"stats"`
		Alarms []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"alarms"`
	}

	require.Eventually(t, func() bool {
		var out bytes.Buffer

		runErr := Run(ctx, &Options{
			ServerAddress: lis.Addr().String(),
			Timeout:       time.Second,
			Output:        &out,
		})
		if runErr != nil {
			return false
		}

		if json.Unmarshal(out.Bytes(), &report) != nil {
			return false
		}

		return report.Health == "SERVING"
	}, 5*time.Second, 20*time.Millisecond)

	require.Equal(t, lis.Addr().String(), report.Server)
	require.InDelta(t, 1, report.Stats.Live, 0)
	require.InDelta(t, 1, report.Stats.Armed, 0)
	require.Len(t, report.Alarms, 1)
	require.Equal(t, a.ID(), report.Alarms[0].ID)
	require.Equal(t, "compaction", report.Alarms[0].Name)
}

// TestRun_UnreachableServer fails once the call timeout expires.
func TestRun_UnreachableServer(t *testing.T) {
	t.Parallel()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	address := lis.Addr().String()
	require.NoError(t, lis.Close())

	err = Run(context.Background(), &Options{
		ServerAddress: address,
		Timeout:       200 * time.Millisecond,
		Output:        new(bytes.Buffer),
	})
	require.Error(t, err)
}
