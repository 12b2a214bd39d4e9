package source

import (
	"context"

	"github.com/coinlens/deriv-data/internal/model"
)

// Dydx polls the dYdX v4 indexer for all perpetual markets.
//
// Unit conversions:
//   - openInterest arrives in base-asset units and is converted to USD by
//     multiplying with oraclePrice.
//   - nextFundingRate is already a decimal fraction and passes through.
type Dydx struct {
	client *Client
}

// NewDydx creates the dYdX adapter.
func NewDydx(client *Client) *Dydx {
	return &Dydx{client: client}
}

type dydxMarketsResponse struct {
	Markets map[string]dydxMarket `json:"markets"`
}

type dydxMarket struct {
	Ticker          string `json:"ticker"`
	OraclePrice     string `json:"oraclePrice"`
	NextFundingRate string `json:"nextFundingRate"`
	OpenInterest    string `json:"openInterest"`
	Volume24H       string `json:"volume24H"`
}

func (d *Dydx) Name() string { return "dydx" }

// Fetch maps every listed perpetual market to a canonical row. A missing
// markets collection is structural and fails the fetch; missing per-market
// numerics degrade to 0.
func (d *Dydx) Fetch(ctx context.Context) ([]model.DerivativeRow, error) {
	var resp dydxMarketsResponse
	if err := d.client.get(ctx, "/v4/perpetualMarkets", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Markets == nil {
		return nil, &SourceShapeError{Source: "dydx", Field: "markets"}
	}

	rows := make([]model.DerivativeRow, 0, len(resp.Markets))
	for symbol, m := range resp.Markets {
		oracle := nonNeg(parseFloat(m.OraclePrice))
		rows = append(rows, model.DerivativeRow{
			Exchange:        "dydx",
			Symbol:          symbol,
			ContractType:    model.ContractPerpetual,
			OpenInterestUSD: nonNeg(parseFloat(m.OpenInterest) * oracle),
			FundingRate:     model.Funding(parseFloat(m.NextFundingRate)),
			Volume24h:       nonNeg(parseFloat(m.Volume24H)),
			IndexPrice:      oracle,
		})
	}

	return rows, nil
}
