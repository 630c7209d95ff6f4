// Package logging provides structured logging for the Mietradar client.
//
// Logging is built on go.uber.org/zap and is silent by default so that it
// never corrupts the interactive TUI. Verbosity is controlled through the
// MIETRADAR_LOG_LEVEL environment variable ("debug", "info", "warn",
// "error"); when the variable is unset a no-op logger is installed.
package logging
