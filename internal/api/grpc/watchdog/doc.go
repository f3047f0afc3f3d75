// Package watchdog exposes a scheduler's live alarms over gRPC.
//
// The service is registered by hand and speaks protobuf well-known types
// only (Empty requests, Struct responses), so it needs no generated code.
// It is read-only: alarms are armed and reported in-process.
package watchdog
