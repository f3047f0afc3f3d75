// Package common holds helpers shared by several services.
//
// It provides a gRPC client for the watchdog introspection service with
// per-call timeouts and detection of the current process identity, which
// is stamped on journaled firings.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
