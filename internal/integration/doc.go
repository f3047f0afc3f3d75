// Package integration holds end-to-end tests that run the watchdog services
// against each other over loopback gRPC.
package integration
