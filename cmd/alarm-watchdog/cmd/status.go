package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-watchdog/internal/service/status"
)

// statusCmd prints the state of a running watchdog.
var statusCmd = &cobra.Command{
	Use:   "status [server-address]",
	Short: "Show the health, stats and live alarms of a running watchdog.",
	Long: `Connects to a watchdog introspection server and prints its health,
counters and live alarms as JSON.

The server address can be provided as an argument to override server_addr
from the configuration file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		var serverAddress string
		if len(args) > 0 {
			serverAddress = args[0]
		}

		return status.Run(ctx, &status.Options{
			ConfigPath:    configPath,
			ServerAddress: serverAddress,
		})
	},
}
