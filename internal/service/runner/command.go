package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/oshokin/alarm-watchdog/internal/config"
	"github.com/oshokin/alarm-watchdog/internal/logger"
	"github.com/oshokin/alarm-watchdog/internal/repository/journal"
	"github.com/oshokin/alarm-watchdog/internal/service/common"
	"github.com/oshokin/alarm-watchdog/internal/service/server"
	"github.com/oshokin/alarm-watchdog/internal/watchdog"
)

// Options controls a guarded command run.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ListenAddress overrides listen_addr; the introspection server is off when both are empty.
	ListenAddress string
	// JournalFile overrides journal_file; the journal is off when both are empty.
	JournalFile string
	// BuildMode overrides build_mode.
	BuildMode string
	// Timeout overrides the slow-operation timeout picked by the build mode.
	Timeout time.Duration
	// Command is the program and its arguments.
	Command []string
	// Stdout and Stderr receive the command output; they default to the process streams.
	Stdout io.Writer
	Stderr io.Writer
}

// errNoCommand indicates that no command was given.
var errNoCommand = errors.New("no command to run")

// Run executes opts.Command guarded by a slow-operation alarm and returns
// the command's error.
//
//nolint:cyclop,funlen // Wiring of optional components reads best in one place.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "runner")

	if opts == nil || len(opts.Command) == 0 {
		return errNoCommand
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if err = applyOverrides(cfg, opts); err != nil {
		return err
	}

	if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	}

	reporter, err := newReporter(ctx, cfg.JournalFile)
	if err != nil {
		return err
	}

	sched := watchdog.New(watchdog.WithReporter(reporter))
	defer sched.Close()

	if err = sched.Start(); err != nil {
		// Alarms are still accepted; they are just never reported.
		logger.ErrorKV(ctx, "Watchdog is not running", "error", err)
	}

	var wg sync.WaitGroup

	serverCtx, stopServer := context.WithCancel(ctx)

	defer func() {
		stopServer()
		wg.Wait()
	}()

	if cfg.ListenAddress != "" {
		wg.Go(func() {
			serverErr := server.Run(serverCtx, &server.Options{
				ListenAddress: cfg.ListenAddress,
				Scheduler:     sched,
			})
			if serverErr != nil {
				logger.ErrorKV(ctx, "Introspection server failed", "error", serverErr)
			}
		})
	}

	slow := watchdog.NewSlowOperations(watchdog.SlowOperationConfig{
		Debug:          cfg.BuildMode == config.BuildModeDebug,
		ReleaseTimeout: cfg.SlowOperation.ReleaseTimeout,
		DebugTimeout:   cfg.SlowOperation.DebugTimeout,
		Hint:           cfg.SlowOperation.Hint,
	})

	commandLine := strings.Join(opts.Command, " ")
	started := time.Now()

	logger.InfoKV(ctx, "Running command",
		"command", commandLine,
		"build_mode", string(cfg.BuildMode),
		"timeout", slow.Timeout().String())

	guard := slow.ArmFunc(sched, func() string {
		return fmt.Sprintf("command: %s\nrunning for %s", commandLine, time.Since(started).Round(time.Millisecond))
	})
	defer guard.Cancel()

	//nolint:gosec // Running the operator's command is the point of this service.
	cmd := exec.CommandContext(ctx, opts.Command[0], opts.Command[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = writerOr(opts.Stdout, os.Stdout)
	cmd.Stderr = writerOr(opts.Stderr, os.Stderr)

	runErr := cmd.Run()

	guard.Cancel()

	logger.InfoKV(ctx, "Command finished",
		"command", commandLine,
		"elapsed", time.Since(started).Round(time.Millisecond).String(),
		"slow", guard.Fired(),
		"error", runErr)

	if runErr != nil {
		return fmt.Errorf("run %s: %w", opts.Command[0], runErr)
	}

	return nil
}

// applyOverrides copies command line overrides into cfg and revalidates it.
func applyOverrides(cfg *config.Config, opts *Options) error {
	if opts.ListenAddress != "" {
		cfg.ListenAddress = opts.ListenAddress
	}

	if opts.JournalFile != "" {
		cfg.JournalFile = opts.JournalFile
	}

	if opts.BuildMode != "" {
		cfg.BuildMode = config.BuildMode(opts.BuildMode)
	}

	if opts.Timeout > 0 {
		cfg.SlowOperation.ReleaseTimeout = opts.Timeout
		cfg.SlowOperation.DebugTimeout = opts.Timeout
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("validate settings: %w", err)
	}

	return nil
}

// newReporter logs every firing and also journals it when path is set.
//
//nolint:ireturn // The reporter is chosen at runtime.
func newReporter(ctx context.Context, path string) (watchdog.Reporter, error) {
	logReporter := watchdog.NewLogReporter(logger.Logger())
	if path == "" {
		return logReporter, nil
	}

	actor, err := common.DetectActor()
	if err != nil {
		return nil, fmt.Errorf("detect actor: %w", err)
	}

	fileJournal := journal.NewFileJournal(path)

	logger.InfoKV(ctx, "Journaling firings", "journal_file", fileJournal.Path())

	return watchdog.MultiReporter{
		logReporter,
		journal.NewReporter(ctx, fileJournal, actor),
	}, nil
}

func writerOr(w, fallback io.Writer) io.Writer {
	if w != nil {
		return w
	}

	return fallback
}
