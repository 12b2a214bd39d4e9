package source

import (
	"context"
	"strings"

	"github.com/coinlens/deriv-data/internal/model"
)

// Coinbase polls the Coinbase Exchange API for perpetual products.
//
// Three call shapes: one products listing, then per product a stats call
// and a ticker call correlated by product id. A product whose stats or
// ticker call fails is logged and skipped; only the listing itself is
// structural.
//
// Unit conversions:
//   - funding_rate is already a decimal fraction; a stats payload without
//     one degrades to 0 (perpetuals always carry a funding concept here).
//   - volume arrives in base-asset units and is converted to USD via the
//     ticker price.
//   - open interest is not exposed by this API and stays 0.
type Coinbase struct {
	client *Client
}

// NewCoinbase creates the Coinbase adapter.
func NewCoinbase(client *Client) *Coinbase {
	return &Coinbase{client: client}
}

type coinbaseProduct struct {
	ID string `json:"id"`
}

type coinbaseStats struct {
	Volume      string `json:"volume"`
	FundingRate string `json:"funding_rate"`
}

type coinbaseTicker struct {
	Price string `json:"price"`
}

func (c *Coinbase) Name() string { return "coinbase" }

func (c *Coinbase) Fetch(ctx context.Context) ([]model.DerivativeRow, error) {
	var products []coinbaseProduct
	if err := c.client.get(ctx, "/products", nil, &products); err != nil {
		return nil, err
	}
	if products == nil {
		return nil, &SourceShapeError{Source: "coinbase", Field: "products"}
	}

	var rows []model.DerivativeRow
	for _, p := range products {
		if !strings.Contains(p.ID, "-PERP") {
			continue
		}

		var stats coinbaseStats
		if err := c.client.get(ctx, "/products/"+p.ID+"/stats", nil, &stats); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.client.logger.Warn("skipping product, stats call failed",
				"source", "coinbase", "product", p.ID, "error", err)
			continue
		}

		var ticker coinbaseTicker
		if err := c.client.get(ctx, "/products/"+p.ID+"/ticker", nil, &ticker); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.client.logger.Warn("skipping product, ticker call failed",
				"source", "coinbase", "product", p.ID, "error", err)
			continue
		}

		price := nonNeg(parseFloat(ticker.Price))
		rows = append(rows, model.DerivativeRow{
			Exchange:     "coinbase",
			Symbol:       p.ID,
			ContractType: model.ContractPerpetual,
			FundingRate:  model.Funding(parseFloat(stats.FundingRate)),
			Volume24h:    nonNeg(parseFloat(stats.Volume) * price),
			IndexPrice:   price,
		})
	}

	return rows, nil
}
