// Package database provides the PostgreSQL connection pool used by the
// snapshot and latest-row sinks.
package database
