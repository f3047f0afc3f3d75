//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	ps "github.com/mitchellh/go-ps"

	"github.com/oshokin/alarm-watchdog/internal/domain/alarm"
)

// DetectActor gathers host, user and process information for the journal.
func DetectActor() (*alarm.Actor, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("hostname: %w", err)
	}

	currentUser, err := user.Current()
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}

	pid := os.Getpid()

	return &alarm.Actor{
		Hostname:   hostname,
		Username:   currentUser.Username,
		PID:        pid,
		Executable: executableName(pid),
	}, nil
}

// executableName asks the process table for the image name and falls back
// to the base name of os.Args[0].
func executableName(pid int) string {
	if p, err := ps.FindProcess(pid); err == nil && p != nil {
		return p.Executable()
	}

	if len(os.Args) > 0 {
		return filepath.Base(os.Args[0])
	}

	return ""
}
