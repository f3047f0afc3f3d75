package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-watchdog/internal/service/runner"
)

var (
	// listenAddress overrides listen_addr for the introspection server.
	listenAddress string
	// journalFile overrides journal_file.
	journalFile string
	// buildMode overrides build_mode.
	buildMode string
	// runTimeout overrides the slow-operation timeout.
	runTimeout time.Duration

	// runCmd runs a command under a slow-operation alarm.
	runCmd = &cobra.Command{
		Use:   "run [flags] -- command [args...]",
		Short: "Run a command and report it if it is slow.",
		Long: `Runs the given command with a slow-operation alarm armed around it.

If the command is still running when the alarm expires, a warning with the
command line and elapsed time is logged and, when a journal file is set,
appended to the journal. With --listen the watchdog can be inspected with
"alarm-watchdog status" while the command runs.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			options := &runner.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				JournalFile:   journalFile,
				BuildMode:     buildMode,
				Timeout:       runTimeout,
				Command:       args,
			}

			return runner.Run(ctx, options)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	runCmd.Flags().StringVarP(&listenAddress, "listen", "l", "", "introspection server listen address")
	runCmd.Flags().StringVarP(&journalFile, "journal", "j", "", "append firings to this file")
	runCmd.Flags().StringVarP(&buildMode, "build-mode", "m", "", "release or debug")
	runCmd.Flags().
		DurationVarP(&runTimeout, "timeout", "t", 0, "slow-operation timeout, overrides the build mode default")
}
