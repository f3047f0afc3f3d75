// Package version exposes build metadata for alarm-watchdog.
//
// Version, Commit and BuildTime are injected with -ldflags; when they are
// left at their defaults the VCS data recorded by the Go toolchain is used.
package version
