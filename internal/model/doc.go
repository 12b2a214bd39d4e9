// Package model defines the canonical row shape shared across the pipeline.
//
// Every source adapter maps its proprietary payload into DerivativeRow;
// aggregation workers dedup batches of them; sinks persist them. Symbol
// formats vary by source (BTC-USD, BTCUSDT, BTC) and are only consistent
// within a source; the (exchange, symbol) pair is what identifies a row.
//
// Conventions:
//   - Monetary values: float64 USD notional
//   - FundingRate: decimal fraction (0.0001 = 0.01%), nil = not applicable
//   - Timestamp: capture time assigned by the worker, UTC
package model
