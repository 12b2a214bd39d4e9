package source

import (
	"context"
	"net/url"
	"strconv"

	"github.com/coinlens/deriv-data/internal/model"
)

// CoinGecko walks one derivatives exchange's paginated ticker listing.
//
// Pages are requested until the reported pair total is reached or a page
// comes back shorter than the page size, and all pages are accumulated into
// one result before returning.
//
// Unit conversions:
//   - funding_rate arrives as a percentage and is divided by 100 to the
//     canonical decimal fraction; it stays nil when the listing omits it.
//   - converted volume and open interest are already USD.
type CoinGecko struct {
	client     *Client
	exchangeID string
	pageSize   int
}

// NewCoinGecko creates the listings adapter for one derivatives exchange
// (e.g. "binance_futures").
func NewCoinGecko(client *Client, exchangeID string, pageSize int) *CoinGecko {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &CoinGecko{client: client, exchangeID: exchangeID, pageSize: pageSize}
}

type coingeckoTickersResponse struct {
	Name                   string            `json:"name"`
	NumberOfPerpetualPairs int               `json:"number_of_perpetual_pairs"`
	NumberOfFuturesPairs   int               `json:"number_of_futures_pairs"`
	Tickers                []coingeckoTicker `json:"tickers"`
}

type coingeckoTicker struct {
	Symbol          string   `json:"symbol"`
	ContractType    string   `json:"contract_type"`
	OpenInterestUSD float64  `json:"open_interest_usd"`
	FundingRate     *float64 `json:"funding_rate"`
	Index           float64  `json:"index"`
	ConvertedVolume struct {
		USD string `json:"usd"`
	} `json:"converted_volume"`
}

func (g *CoinGecko) Name() string { return "coingecko" }

func (g *CoinGecko) Fetch(ctx context.Context) ([]model.DerivativeRow, error) {
	var rows []model.DerivativeRow

	total := -1
	for page := 1; ; page++ {
		query := url.Values{
			"page":     {strconv.Itoa(page)},
			"per_page": {strconv.Itoa(g.pageSize)},
		}

		var resp coingeckoTickersResponse
		path := "/derivatives/exchanges/" + g.exchangeID + "/tickers"
		if err := g.client.get(ctx, path, query, &resp); err != nil {
			return nil, err
		}
		if page == 1 {
			if resp.Tickers == nil {
				return nil, &SourceShapeError{Source: "coingecko", Field: "tickers"}
			}
			total = resp.NumberOfPerpetualPairs + resp.NumberOfFuturesPairs
		}

		for _, t := range resp.Tickers {
			rows = append(rows, g.toRow(t))
		}

		if len(resp.Tickers) < g.pageSize {
			break
		}
		if total > 0 && len(rows) >= total {
			break
		}
	}

	return rows, nil
}

func (g *CoinGecko) toRow(t coingeckoTicker) model.DerivativeRow {
	row := model.DerivativeRow{
		Exchange:        g.exchangeID,
		Symbol:          t.Symbol,
		ContractType:    listingContractType(t.ContractType),
		OpenInterestUSD: nonNeg(t.OpenInterestUSD),
		Volume24h:       nonNeg(parseFloat(t.ConvertedVolume.USD)),
		IndexPrice:      nonNeg(t.Index),
	}
	if t.FundingRate != nil {
		row.FundingRate = model.Funding(*t.FundingRate / 100)
	}
	return row
}

// listingContractType normalizes the listing's contract_type, falling back
// to the catch-all when the listing reports something else.
func listingContractType(ct string) string {
	switch ct {
	case model.ContractPerpetual:
		return model.ContractPerpetual
	case model.ContractFutures:
		return model.ContractFutures
	default:
		return model.ContractDerivatives
	}
}
