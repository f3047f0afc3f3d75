package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-watchdog/internal/config"
	"github.com/oshokin/alarm-watchdog/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// rootCmd is the base command; the work is done by its subcommands.
	rootCmd = &cobra.Command{
		Use:   "alarm-watchdog",
		Short: "Report operations that take longer than they should.",
		Long: `alarm-watchdog arms deadline alarms around long-running work and reports
the ones that expire before being cancelled.

Use "run" to execute a command under a slow-operation alarm, and "status"
to inspect the alarms of a running watchdog over gRPC.`,
		SilenceUsage: true,
	}
)

// Execute runs the alarm-watchdog CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// signalContext returns a context cancelled on SIGTERM or SIGINT.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")

	rootCmd.AddCommand(runCmd, statusCmd)
}
