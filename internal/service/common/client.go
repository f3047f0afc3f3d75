//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	api "github.com/oshokin/alarm-watchdog/internal/api/grpc/watchdog"
	"github.com/oshokin/alarm-watchdog/internal/config"
	"github.com/oshokin/alarm-watchdog/internal/domain/alarm"
)

// Client wraps the watchdog introspection and health clients.
type Client struct {
	// conn is the underlying gRPC connection.
	conn *grpc.ClientConn
	// api is the introspection service client.
	api api.WatchdogServiceClient
	// health is the standard gRPC health client.
	health healthpb.HealthClient

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// errAddressRequired is returned when a required address value is missing.
var errAddressRequired = errors.New("address must be provided")

// Dial creates a client for the watchdog at address.
// The transport is insecure; the introspection server is meant for loopback
// or a trusted network.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial watchdog server: %w", err)
	}

	client := &Client{
		conn:        conn,
		api:         api.NewWatchdogServiceClient(conn),
		health:      healthpb.NewHealthClient(conn),
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// Health returns the serving status of the watchdog service.
func (c *Client) Health(ctx context.Context) (healthpb.HealthCheckResponse_ServingStatus, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.health.Check(callCtx, &healthpb.HealthCheckRequest{Service: api.ServiceName})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, fmt.Errorf("check health: %w", err)
	}

	return resp.GetStatus(), nil
}

// ListAlarmsRaw returns the ListAlarms response as served.
func (c *Client) ListAlarmsRaw(ctx context.Context) (*structpb.Struct, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.ListAlarms(callCtx, new(emptypb.Empty))
	if err != nil {
		return nil, fmt.Errorf("list alarms: %w", err)
	}

	return resp, nil
}

// ListAlarms returns the live alarms of the remote watchdog.
func (c *Client) ListAlarms(ctx context.Context) ([]alarm.Info, error) {
	resp, err := c.ListAlarmsRaw(ctx)
	if err != nil {
		return nil, err
	}

	return api.StructToAlarms(resp), nil
}

// GetStatsRaw returns the GetStats response as served.
func (c *Client) GetStatsRaw(ctx context.Context) (*structpb.Struct, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.GetStats(callCtx, new(emptypb.Empty))
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}

	return resp, nil
}

// GetStats returns the remote scheduler counters and the server version.
func (c *Client) GetStats(ctx context.Context) (alarm.Stats, string, error) {
	resp, err := c.GetStatsRaw(ctx)
	if err != nil {
		return alarm.Stats{}, "", err
	}

	stats, serverVersion := api.StructToStats(resp)

	return stats, serverVersion, nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
