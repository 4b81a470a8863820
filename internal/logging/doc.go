// Package logging configures slog for the daemon and CLI: a console handler
// for interactive use, a JSON handler for supervised processes, and helpers
// that thread queue-item context into log records.
package logging
