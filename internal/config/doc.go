// Package config defines the watchdog settings shared by the binaries and
// provides helpers to load, validate and save them in YAML format.
//
// The Config type carries the log level, the build mode that selects the
// slow-operation timeout, and the addresses of the introspection server.
package config
