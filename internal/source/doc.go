// Package source holds the venue adapters: one type per upstream API, each
// mapping that API's proprietary response into canonical rows.
//
// Adapters share the package's Client and fail fast: a non-2xx response or
// transport error becomes *SourceUnavailable, a 200 payload missing its
// structural collection becomes *SourceShapeError. Retrying is the caller's
// job. Unit conversions are documented on each adapter type.
package source
