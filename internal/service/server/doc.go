// Package server runs the watchdog introspection gRPC server.
//
// It registers the read-only WatchdogService and the standard gRPC health
// service, keeps the health status in step with the scheduler's loop, and
// stops gracefully when its context is cancelled.
package server
