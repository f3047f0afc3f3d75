// Package status queries a running watchdog over gRPC and prints its state.
package status
