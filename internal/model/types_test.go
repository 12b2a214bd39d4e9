package model

import (
	"testing"
	"time"
)

func TestDedup_LastOccurrenceWins(t *testing.T) {
	first := DerivativeRow{Exchange: "dydx", Symbol: "BTC-USD", IndexPrice: 64000}
	second := DerivativeRow{Exchange: "dydx", Symbol: "BTC-USD", IndexPrice: 65000}

	out := Dedup([]DerivativeRow{first, second})

	if len(out) != 1 {
		t.Fatalf("Dedup returned %d rows, want 1", len(out))
	}
	if out[0].IndexPrice != 65000 {
		t.Errorf("IndexPrice = %v, want the later row's 65000", out[0].IndexPrice)
	}
}

func TestDedup_UniqueKeysAfterwards(t *testing.T) {
	rows := []DerivativeRow{
		{Exchange: "dydx", Symbol: "BTC-USD"},
		{Exchange: "hyperliquid", Symbol: "BTC"},
		{Exchange: "dydx", Symbol: "ETH-USD"},
		{Exchange: "dydx", Symbol: "BTC-USD"},
		{Exchange: "hyperliquid", Symbol: "BTC"},
	}

	out := Dedup(rows)

	if len(out) != 3 {
		t.Fatalf("Dedup returned %d rows, want 3", len(out))
	}

	seen := make(map[string]bool)
	for _, r := range out {
		if seen[r.Key()] {
			t.Errorf("duplicate key %q after Dedup", r.Key())
		}
		seen[r.Key()] = true
	}
}

func TestDedup_PreservesFirstSeenOrder(t *testing.T) {
	rows := []DerivativeRow{
		{Exchange: "a", Symbol: "1"},
		{Exchange: "b", Symbol: "2"},
		{Exchange: "a", Symbol: "1", Volume24h: 9},
		{Exchange: "c", Symbol: "3"},
	}

	out := Dedup(rows)

	want := []string{"a|1", "b|2", "c|3"}
	if len(out) != len(want) {
		t.Fatalf("Dedup returned %d rows, want %d", len(out), len(want))
	}
	for i, key := range want {
		if out[i].Key() != key {
			t.Errorf("out[%d].Key() = %q, want %q", i, out[i].Key(), key)
		}
	}
	if out[0].Volume24h != 9 {
		t.Errorf("out[0].Volume24h = %v, want 9 (replaced in place)", out[0].Volume24h)
	}
}

func TestDedup_SmallInputs(t *testing.T) {
	if out := Dedup(nil); len(out) != 0 {
		t.Errorf("Dedup(nil) returned %d rows, want 0", len(out))
	}

	one := []DerivativeRow{{Exchange: "dydx", Symbol: "BTC-USD"}}
	if out := Dedup(one); len(out) != 1 {
		t.Errorf("Dedup(one) returned %d rows, want 1", len(out))
	}
}

func TestKey(t *testing.T) {
	r := DerivativeRow{
		Timestamp: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Exchange:  "binance",
		Symbol:    "BTCUSDT_PERP",
	}
	if r.Key() != "binance|BTCUSDT_PERP" {
		t.Errorf("Key() = %q, want %q", r.Key(), "binance|BTCUSDT_PERP")
	}
}

func TestFunding(t *testing.T) {
	p := Funding(0.0001)
	if p == nil || *p != 0.0001 {
		t.Errorf("Funding(0.0001) = %v, want pointer to 0.0001", p)
	}
}
