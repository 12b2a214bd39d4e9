// Package sink persists aggregated derivative rows.
//
// Two postgres-backed sinks cover the two storage shapes: Append grows the
// derivatives_snapshots time series, Upsert maintains one latest row per
// (exchange, symbol) in dex_derivatives_latest. DryRun logs rows for
// inspection. All sinks report the number of rows the store accepted.
package sink
