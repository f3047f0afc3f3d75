// Package runner runs a command under the watchdog.
//
// The command is guarded by a slow-operation alarm. Firings go to the log
// and, when configured, to an append-only journal, and the scheduler can be
// inspected over gRPC while the command runs.
package runner
