// Package scheduler runs workers on fixed intervals with per-worker retry
// and failure isolation. One worker's terminal failure never affects the
// schedule of another.
package scheduler
