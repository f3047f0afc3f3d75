package status

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/alarm-watchdog/internal/config"
	"github.com/oshokin/alarm-watchdog/internal/logger"
	"github.com/oshokin/alarm-watchdog/internal/service/common"
)

// Options controls the status query.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ServerAddress overrides server_addr from the config.
	ServerAddress string
	// Timeout overrides the per-RPC timeout from the config.
	Timeout time.Duration
	// Output receives the report; it defaults to os.Stdout.
	Output io.Writer
}

// Run prints the health, stats and live alarms of a remote watchdog as JSON.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "status")

	if opts == nil {
		opts = new(Options)
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	timeout := cfg.Timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}

	client, err := common.Dial(ctx, serverAddress, common.WithCallTimeout(timeout))
	if err != nil {
		return fmt.Errorf("dial server: %w", err)
	}

	defer func() {
		_ = client.Close()
	}()

	logger.DebugKV(ctx, "Querying watchdog", "server_address", serverAddress)

	report, err := collect(ctx, client, serverAddress)
	if err != nil {
		return err
	}

	data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	if _, err = fmt.Fprintln(out, string(data)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// collect builds the report from the health, stats and alarm calls.
func collect(ctx context.Context, client *common.Client, serverAddress string) (*structpb.Struct, error) {
	health, err := client.Health(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := client.GetStatsRaw(ctx)
	if err != nil {
		return nil, err
	}

	alarms, err := client.ListAlarmsRaw(ctx)
	if err != nil {
		return nil, err
	}

	list := alarms.GetFields()["alarms"]
	if list == nil {
		list = structpb.NewListValue(new(structpb.ListValue))
	}

	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"server": structpb.NewStringValue(serverAddress),
			"health": structpb.NewStringValue(health.String()),
			"stats":  structpb.NewStructValue(stats),
			"alarms": list,
		},
	}, nil
}
