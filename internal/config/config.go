package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/alarm-watchdog/internal/logger"
	"github.com/oshokin/alarm-watchdog/internal/watchdog"
)

// BuildMode selects which slow-operation timeout applies.
type BuildMode string

const (
	// BuildModeRelease is the optimized build profile with the long timeout.
	BuildModeRelease BuildMode = "release"
	// BuildModeDebug is the unoptimized build profile with the short timeout.
	BuildModeDebug BuildMode = "debug"
)

// SlowOperation holds the settings of the slow-operation alarm factory.
type SlowOperation struct {
	// ReleaseTimeout is the alarm timeout in release mode.
	ReleaseTimeout time.Duration `yaml:"release_timeout"`
	// DebugTimeout is the alarm timeout in debug mode.
	DebugTimeout time.Duration `yaml:"debug_timeout"`
	// Hint is appended to the warning headline, e.g. how to file a bug.
	Hint string `yaml:"hint"`
}

// Config holds the settings of the alarm-watchdog binary.
type Config struct {
	// LogLevel is the minimum level of regular log output.
	LogLevel string `yaml:"log_level"`
	// BuildMode is either "release" or "debug".
	BuildMode BuildMode `yaml:"build_mode"`
	// SlowOperation configures the slow-operation alarm factory.
	SlowOperation SlowOperation `yaml:"slow_operation"`
	// ListenAddress is where the introspection gRPC server listens; empty disables it.
	ListenAddress string `yaml:"listen_addr"`
	// ServerAddress is the introspection server queried by the status command.
	ServerAddress string `yaml:"server_addr"`
	// JournalFile is where firings are appended; empty disables the journal.
	JournalFile string `yaml:"journal_file"`
	// Timeout is the duration for RPC calls.
	Timeout time.Duration `yaml:"timeout"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "alarm-watchdog.yaml"

	// DefaultServerAddress is the default introspection server address.
	DefaultServerAddress = "127.0.0.1:7070"

	// DefaultTimeout is the default duration for RPC calls.
	DefaultTimeout = 5 * time.Second

	// DefaultReleaseTimeout is the slow-operation timeout of release builds.
	DefaultReleaseTimeout = watchdog.DefaultSlowReleaseTimeout

	// DefaultDebugTimeout is the slow-operation timeout of debug builds.
	DefaultDebugTimeout = watchdog.DefaultSlowDebugTimeout

	// DefaultFilePermissions is the permission of files written by the binaries.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errUnknownBuildMode is returned for build modes other than release and debug.
	errUnknownBuildMode = errors.New("unknown build mode")
	// errUnknownLogLevel is returned when the log level cannot be parsed.
	errUnknownLogLevel = errors.New("unknown log level")
	// errNegativeTimeout is returned when a slow-operation timeout is negative.
	errNegativeTimeout = errors.New("slow operation timeouts must not be negative")
)

// Default returns a configuration with every field set to its default.
func Default() *Config {
	cfg := new(Config)

	// Defaults never fail validation.
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates it.
// A missing file at the default path yields the defaults.
func Load(path string) (*Config, error) {
	isDefaultPath := path == "" || path == DefaultConfigFilename
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if isDefaultPath && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes cfg to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the settings and fills in defaults for empty fields.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errUnknownLogLevel, cfg.LogLevel)
	}

	cfg.BuildMode = BuildMode(strings.ToLower(strings.TrimSpace(string(cfg.BuildMode))))

	switch cfg.BuildMode {
	case "":
		cfg.BuildMode = BuildModeRelease
	case BuildModeRelease, BuildModeDebug:
	default:
		return fmt.Errorf("%w: %q", errUnknownBuildMode, cfg.BuildMode)
	}

	if cfg.SlowOperation.ReleaseTimeout < 0 || cfg.SlowOperation.DebugTimeout < 0 {
		return errNegativeTimeout
	}

	if cfg.SlowOperation.ReleaseTimeout == 0 {
		cfg.SlowOperation.ReleaseTimeout = DefaultReleaseTimeout
	}

	if cfg.SlowOperation.DebugTimeout == 0 {
		cfg.SlowOperation.DebugTimeout = DefaultDebugTimeout
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.ServerAddress == "" {
		cfg.ServerAddress = DefaultServerAddress
	}

	if _, err := net.ResolveTCPAddr("tcp", cfg.ServerAddress); err != nil {
		return fmt.Errorf("invalid server address: %w", err)
	}

	if cfg.ListenAddress == "" {
		return nil
	}

	if _, _, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		return fmt.Errorf("invalid listen address: %w", err)
	}

	return nil
}
