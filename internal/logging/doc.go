// Package logging configures the process-wide slog logger, optionally
// duplicating records to a rotating JSON log file.
package logging
