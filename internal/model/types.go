package model

import "time"

// Contract types carried by DerivativeRow.ContractType.
const (
	ContractPerpetual   = "perpetual"
	ContractFutures     = "futures"
	ContractDerivatives = "derivatives" // catch-all when the source cannot distinguish
)

// DerivativeRow is the canonical observation flowing through the pipeline:
// one venue/instrument measurement captured during a poll cycle.
//
// Rows are created fresh each cycle and never mutated afterwards; the next
// cycle's rows supersede them.
type DerivativeRow struct {
	Timestamp       time.Time // Capture time, assigned by the worker, never from the source payload
	Exchange        string    // Canonical venue name (identity component)
	Symbol          string    // Instrument symbol as the source reports it (identity component)
	ContractType    string    // ContractPerpetual, ContractFutures, or ContractDerivatives
	OpenInterestUSD float64   // Notional open interest in USD (>= 0, 0 when unavailable)
	FundingRate     *float64  // Decimal fraction; nil when the contract has no funding concept
	Volume24h       float64   // Trailing 24h notional volume in USD (>= 0, 0 when unavailable)
	IndexPrice      float64   // Mark or index price (>= 0, 0 when unavailable)
}

// Key returns the row's identity within one poll cycle.
func (r DerivativeRow) Key() string {
	return r.Exchange + "|" + r.Symbol
}

// Funding returns a pointer to v, for building funding rate literals.
func Funding(v float64) *float64 {
	return &v
}

// Dedup collapses rows sharing an (exchange, symbol) key, keeping the last
// occurrence in input order. Output preserves the order in which keys first
// appeared.
func Dedup(rows []DerivativeRow) []DerivativeRow {
	if len(rows) <= 1 {
		return rows
	}

	index := make(map[string]int, len(rows))
	out := make([]DerivativeRow, 0, len(rows))

	for _, r := range rows {
		key := r.Key()
		if i, ok := index[key]; ok {
			out[i] = r
			continue
		}
		index[key] = len(out)
		out = append(out, r)
	}

	return out
}
