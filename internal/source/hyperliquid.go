package source

import (
	"context"
	"encoding/json"

	"github.com/coinlens/deriv-data/internal/model"
)

// Hyperliquid polls the Hyperliquid info endpoint.
//
// The metaAndAssetCtxs response is a two-element array: element 0 holds the
// asset universe, element 1 the per-asset contexts, correlated by index
// position. When the two arrays disagree in length only the common prefix
// is mapped; a mismatch never fails the whole fetch.
//
// Unit conversions:
//   - openInterest arrives in base-asset units and is converted to USD via
//     markPx (oraclePx when the mark is missing).
//   - funding is the hourly rate as a decimal fraction and passes through.
//   - dayNtlVlm is already notional USD.
type Hyperliquid struct {
	client *Client
}

// NewHyperliquid creates the Hyperliquid adapter.
func NewHyperliquid(client *Client) *Hyperliquid {
	return &Hyperliquid{client: client}
}

type hlMeta struct {
	Universe []struct {
		Name string `json:"name"`
	} `json:"universe"`
}

type hlAssetCtx struct {
	Funding      string `json:"funding"`
	OpenInterest string `json:"openInterest"`
	DayNtlVlm    string `json:"dayNtlVlm"`
	MarkPx       string `json:"markPx"`
	OraclePx     string `json:"oraclePx"`
}

func (h *Hyperliquid) Name() string { return "hyperliquid" }

func (h *Hyperliquid) Fetch(ctx context.Context) ([]model.DerivativeRow, error) {
	var raw []json.RawMessage
	if err := h.client.post(ctx, "/info", map[string]string{"type": "metaAndAssetCtxs"}, &raw); err != nil {
		return nil, err
	}
	if len(raw) < 2 {
		return nil, &SourceShapeError{Source: "hyperliquid", Field: "metaAndAssetCtxs"}
	}

	var meta hlMeta
	if err := json.Unmarshal(raw[0], &meta); err != nil || len(meta.Universe) == 0 {
		return nil, &SourceShapeError{Source: "hyperliquid", Field: "universe"}
	}

	var ctxs []hlAssetCtx
	if err := json.Unmarshal(raw[1], &ctxs); err != nil || ctxs == nil {
		return nil, &SourceShapeError{Source: "hyperliquid", Field: "assetCtxs"}
	}

	n := len(meta.Universe)
	if len(ctxs) < n {
		h.client.logger.Warn("universe/assetCtxs length mismatch, mapping common prefix",
			"universe", len(meta.Universe),
			"asset_ctxs", len(ctxs),
		)
		n = len(ctxs)
	}

	rows := make([]model.DerivativeRow, 0, n)
	for i := 0; i < n; i++ {
		c := ctxs[i]

		price := nonNeg(parseFloat(c.MarkPx))
		if price == 0 {
			price = nonNeg(parseFloat(c.OraclePx))
		}

		rows = append(rows, model.DerivativeRow{
			Exchange:        "hyperliquid",
			Symbol:          meta.Universe[i].Name,
			ContractType:    model.ContractPerpetual,
			OpenInterestUSD: nonNeg(parseFloat(c.OpenInterest) * price),
			FundingRate:     model.Funding(parseFloat(c.Funding)),
			Volume24h:       nonNeg(parseFloat(c.DayNtlVlm)),
			IndexPrice:      price,
		})
	}

	return rows, nil
}
