// Package worker aggregates rows from a set of source adapters into a
// single deduplicated batch and writes it through a sink. A worker is one
// schedulable unit; the scheduler decides when and how often it runs.
package worker
