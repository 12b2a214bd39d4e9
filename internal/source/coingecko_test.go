package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coinlens/deriv-data/internal/model"
)

func TestCoinGecko_PaginationAccumulates(t *testing.T) {
	var pagesServed []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pagesServed = append(pagesServed, page)

		switch page {
		case "1":
			w.Write([]byte(`{
				"name": "Binance (Futures)",
				"number_of_perpetual_pairs": 3,
				"number_of_futures_pairs": 0,
				"tickers": [
					{"symbol": "BTCUSDT", "contract_type": "perpetual", "open_interest_usd": 100, "index": 65000, "funding_rate": 0.01, "converted_volume": {"usd": "5000"}},
					{"symbol": "ETHUSDT", "contract_type": "perpetual", "open_interest_usd": 50, "index": 3200, "converted_volume": {"usd": "2500"}}
				]
			}`))
		case "2":
			w.Write([]byte(`{
				"number_of_perpetual_pairs": 3,
				"number_of_futures_pairs": 0,
				"tickers": [
					{"symbol": "SOLUSDT", "contract_type": "move", "open_interest_usd": 10, "index": 150, "converted_volume": {"usd": "900"}}
				]
			}`))
		default:
			t.Errorf("unexpected page %q", page)
		}
	}))
	defer srv.Close()

	a := NewCoinGecko(NewClient(srv.URL), "binance_futures", 2)
	rows, err := a.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if len(pagesServed) != 2 {
		t.Errorf("served pages %v, want exactly 2 requests", pagesServed)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3 accumulated across pages", len(rows))
	}

	btc := rows[0]
	if btc.Exchange != "binance_futures" || btc.Symbol != "BTCUSDT" {
		t.Errorf("identity = %s/%s", btc.Exchange, btc.Symbol)
	}
	// Percent 0.01 -> decimal fraction 0.0001.
	if btc.FundingRate == nil || *btc.FundingRate != 0.0001 {
		t.Errorf("FundingRate = %v, want 0.0001", btc.FundingRate)
	}
	if btc.Volume24h != 5000 {
		t.Errorf("Volume24h = %v, want 5000", btc.Volume24h)
	}

	if rows[1].FundingRate != nil {
		t.Errorf("ETH FundingRate = %v, want nil when omitted", *rows[1].FundingRate)
	}

	// Unrecognized contract type maps to the catch-all.
	if rows[2].ContractType != model.ContractDerivatives {
		t.Errorf("ContractType = %q, want derivatives", rows[2].ContractType)
	}
}

func TestCoinGecko_ShortPageStops(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, `{
			"number_of_perpetual_pairs": 100,
			"number_of_futures_pairs": 0,
			"tickers": [{"symbol": "BTCUSDT", "contract_type": "perpetual", "converted_volume": {"usd": "1"}}]
		}`)
	}))
	defer srv.Close()

	a := NewCoinGecko(NewClient(srv.URL), "binance_futures", 50)
	rows, err := a.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if requests != 1 {
		t.Errorf("made %d requests, want 1 (short page ends pagination)", requests)
	}
	if len(rows) != 1 {
		t.Errorf("got %d rows, want 1", len(rows))
	}
}

func TestCoinGecko_MissingTickersIsStructural(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name": "Binance (Futures)"}`))
	}))
	defer srv.Close()

	a := NewCoinGecko(NewClient(srv.URL), "binance_futures", 100)
	_, err := a.Fetch(context.Background())

	var shape *SourceShapeError
	if !errors.As(err, &shape) {
		t.Fatalf("error = %v, want *SourceShapeError", err)
	}
	if shape.Field != "tickers" {
		t.Errorf("Field = %q, want tickers", shape.Field)
	}
}
