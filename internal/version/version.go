package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	// Version is the semantic version of the build. It can be overridden via ldflags.
	Version = "0.1.0"
	// Commit is the short git SHA embedded at build time (or "none").
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// shortCommitLength is how many characters of a VCS revision are shown.
const shortCommitLength = 7

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Full returns a human-readable version string with commit, build time and Go version.
func Full() string {
	commit, buildTime := Commit, BuildTime

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch {
			case setting.Key == "vcs.revision" && commit == "none":
				commit = setting.Value
				if len(commit) > shortCommitLength {
					commit = commit[:shortCommitLength]
				}
			case setting.Key == "vcs.time" && buildTime == "unknown":
				buildTime = setting.Value
			}
		}
	}

	return fmt.Sprintf("version: %s, commit: %s, built at: %s, go: %s", Version, commit, buildTime, runtime.Version())
}
