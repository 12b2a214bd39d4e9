package source

import (
	"context"
	"net/url"
	"strings"

	"github.com/coinlens/deriv-data/internal/model"
)

// coinalyzeFundingDivisor converts the aggregator's per-million funding
// units to a decimal fraction (raw 100 -> 0.0001).
const coinalyzeFundingDivisor = 1_000_000

// Coinalyze polls the Coinalyze aggregator, which tracks derivatives across
// a set of centralized exchanges. Authentication is a static api_key
// header.
//
// Two calls are correlated by symbol: /v1/open-interest (USD-converted
// upstream) and /v1/funding-rate. Futures symbols typically have no funding
// entry and keep a nil funding rate. The aggregator does not report volume
// or an index price, so those canonical fields are 0.
type Coinalyze struct {
	client  *Client
	symbols []string
}

// NewCoinalyze creates the aggregator adapter polling the given symbols
// (aggregator notation, e.g. "BTCUSDT_PERP.A").
func NewCoinalyze(client *Client, symbols []string) *Coinalyze {
	return &Coinalyze{client: client, symbols: symbols}
}

type coinalyzeValue struct {
	Symbol string  `json:"symbol"`
	Value  float64 `json:"value"`
	Update int64   `json:"update"`
}

func (c *Coinalyze) Name() string { return "coinalyze" }

func (c *Coinalyze) Fetch(ctx context.Context) ([]model.DerivativeRow, error) {
	if len(c.symbols) == 0 {
		return nil, nil
	}

	query := url.Values{
		"symbols":        {strings.Join(c.symbols, ",")},
		"convert_to_usd": {"true"},
	}
	var oi []coinalyzeValue
	if err := c.client.get(ctx, "/v1/open-interest", query, &oi); err != nil {
		return nil, err
	}

	var fundingEntries []coinalyzeValue
	if err := c.client.get(ctx, "/v1/funding-rate", url.Values{"symbols": {strings.Join(c.symbols, ",")}}, &fundingEntries); err != nil {
		return nil, err
	}

	funding := make(map[string]float64, len(fundingEntries))
	for _, f := range fundingEntries {
		funding[f.Symbol] = f.Value
	}

	rows := make([]model.DerivativeRow, 0, len(oi))
	for _, entry := range oi {
		instrument, venue := splitAggregatorSymbol(entry.Symbol)

		row := model.DerivativeRow{
			Exchange:        venue,
			Symbol:          instrument,
			ContractType:    contractTypeOf(instrument),
			OpenInterestUSD: nonNeg(entry.Value),
		}
		if raw, ok := funding[entry.Symbol]; ok {
			row.FundingRate = model.Funding(raw / coinalyzeFundingDivisor)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// aggregatorExchangeCodes maps the exchange-code suffix of an aggregator
// symbol to a canonical venue name.
var aggregatorExchangeCodes = map[string]string{
	"A": "binance",
	"6": "bybit",
	"3": "okx",
	"K": "kraken",
	"H": "huobi",
	"F": "bitfinex",
	"0": "bitmex",
	"2": "deribit",
}

// splitAggregatorSymbol splits "BTCUSDT_PERP.A" into the instrument
// "BTCUSDT_PERP" and the venue "binance". Unknown codes keep the raw code
// as the venue so rows stay attributable.
func splitAggregatorSymbol(s string) (instrument, venue string) {
	instrument = s
	if i := strings.LastIndex(s, "."); i >= 0 {
		instrument = s[:i]
		code := s[i+1:]
		if name, ok := aggregatorExchangeCodes[code]; ok {
			return instrument, name
		}
		return instrument, code
	}
	return instrument, "unknown"
}

// contractTypeOf classifies an aggregator instrument by its suffix.
func contractTypeOf(instrument string) string {
	if strings.HasSuffix(instrument, "_PERP") {
		return model.ContractPerpetual
	}
	return model.ContractFutures
}
