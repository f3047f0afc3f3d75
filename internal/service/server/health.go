package server

import (
	"context"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	api "github.com/oshokin/alarm-watchdog/internal/api/grpc/watchdog"
	"github.com/oshokin/alarm-watchdog/internal/logger"
)

// Scheduler is what the server needs from the watchdog.
type Scheduler interface {
	api.Service

	Running() bool
	Err() error
}

// servingStatus maps the scheduler state onto a health status.
// A loop that never started or has already exited is not serving.
func servingStatus(s Scheduler) healthpb.HealthCheckResponse_ServingStatus {
	if s.Err() != nil || !s.Running() {
		return healthpb.HealthCheckResponse_NOT_SERVING
	}

	return healthpb.HealthCheckResponse_SERVING
}

// syncHealth refreshes the health status every interval until ctx is done.
func syncHealth(ctx context.Context, hs *health.Server, s Scheduler, interval time.Duration) {
	last := servingStatus(s)
	setStatus(hs, last)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			current := servingStatus(s)
			if current == last {
				continue
			}

			logger.InfoKV(ctx, "Watchdog health changed", "from", last.String(), "to", current.String())

			last = current
			setStatus(hs, current)
		}
	}
}

// setStatus applies status to both the overall server and the watchdog service.
func setStatus(hs *health.Server, status healthpb.HealthCheckResponse_ServingStatus) {
	hs.SetServingStatus("", status)
	hs.SetServingStatus(api.ServiceName, status)
}
