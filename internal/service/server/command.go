package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	api "github.com/oshokin/alarm-watchdog/internal/api/grpc/watchdog"
	"github.com/oshokin/alarm-watchdog/internal/logger"
)

// Options controls the introspection server.
type Options struct {
	// ListenAddress is the TCP address to listen on.
	ListenAddress string
	// Scheduler is the watchdog being exposed.
	Scheduler Scheduler
	// HealthInterval is how often the health status is refreshed.
	HealthInterval time.Duration
}

// DefaultHealthInterval is the default health refresh period.
const DefaultHealthInterval = time.Second

var (
	// ErrNoListenAddress indicates a missing listen address.
	ErrNoListenAddress = errors.New("no listen address configured")
	// errNoScheduler indicates that Options.Scheduler is nil.
	errNoScheduler = errors.New("no scheduler to serve")
)

// Run listens on opts.ListenAddress and serves until ctx is cancelled.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "introspection")

	if opts == nil || opts.ListenAddress == "" {
		return ErrNoListenAddress
	}

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", opts.ListenAddress, err)
	}

	return Serve(ctx, lis, opts)
}

// Serve serves on an existing listener until ctx is cancelled.
// The listener is closed when Serve returns.
func Serve(ctx context.Context, lis net.Listener, opts *Options) error {
	if opts == nil || opts.Scheduler == nil {
		_ = lis.Close()

		return errNoScheduler
	}

	interval := opts.HealthInterval
	if interval <= 0 {
		interval = DefaultHealthInterval
	}

	healthServer := health.NewServer()

	grpcServer := grpc.NewServer()
	api.RegisterWatchdogServiceServer(grpcServer, api.NewServer(opts.Scheduler))
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	logger.InfoKV(ctx, "Introspection server listening", "listen_address", lis.Addr().String())

	// Done channel is closed after GracefulStop finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		syncHealth(ctx, healthServer, opts.Scheduler, interval)

		logger.Info(ctx, "Shutting down gRPC server")
		healthServer.Shutdown()
		grpcServer.GracefulStop()
		close(done)
	}()

	if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done
	logger.Info(ctx, "GRPC server stopped")

	return nil
}
