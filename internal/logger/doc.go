// Package logger wraps zap for the watchdog binaries and libraries.
//
// A global sugared logger with a console encoder is created at init time.
// Callers carry scoped loggers through context.Context (ToContext,
// FromContext, WithName, WithKV) and log with the package-level helpers,
// which always resolve the logger from the context they are given.
package logger
