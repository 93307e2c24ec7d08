// Package logging provides the process-wide structured logger for
// solarops.
//
// It is a thin wrapper around log/slog with two output modes:
//
//   - CLI mode: log lines are written directly to the configured writer
//     (stderr by default). Used by one-shot commands.
//   - Console mode: log entries are delivered on a channel so the
//     interactive console can render them without corrupting the
//     readline prompt. Direct handler output is discarded.
//
// Every call site tags its entry with a subsystem name ("Session",
// "Credentials", "HTTP", ...), which keeps the auth lifecycle traceable
// without grepping free-form text. Token values are never logged; call
// sites log endpoints and state transitions only.
package logging
