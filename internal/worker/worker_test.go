package worker

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/coinlens/deriv-data/internal/model"
	"github.com/coinlens/deriv-data/internal/source"
)

type stubAdapter struct {
	name string
	rows []model.DerivativeRow
	err  error
}

func (a *stubAdapter) Name() string { return a.name }

func (a *stubAdapter) Fetch(context.Context) ([]model.DerivativeRow, error) {
	return a.rows, a.err
}

type captureSink struct {
	rows []model.DerivativeRow
	err  error
}

func (s *captureSink) Name() string { return "capture" }

func (s *captureSink) Write(_ context.Context, rows []model.DerivativeRow) (int, error) {
	s.rows = rows
	if s.err != nil {
		return 0, s.err
	}
	return len(rows), nil
}

func row(exchange, symbol string) model.DerivativeRow {
	return model.DerivativeRow{Exchange: exchange, Symbol: symbol, ContractType: model.ContractPerpetual}
}

func TestWorker_StampsSingleCaptureTime(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cs := &captureSink{}

	w := New("dex",
		[]source.Adapter{
			&stubAdapter{name: "a", rows: []model.DerivativeRow{row("dydx", "BTC-USD")}},
			&stubAdapter{name: "b", rows: []model.DerivativeRow{row("hyperliquid", "BTC")}},
		},
		cs,
		WithClock(func() time.Time { return fixed }))

	n, err := w.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("wrote %d rows, want 2", n)
	}
	for _, r := range cs.rows {
		if !r.Timestamp.Equal(fixed) {
			t.Errorf("row %s/%s stamped %v, want %v", r.Exchange, r.Symbol, r.Timestamp, fixed)
		}
	}
}

func TestWorker_IsolateKeepsSurvivors(t *testing.T) {
	cs := &captureSink{}
	w := New("dex",
		[]source.Adapter{
			&stubAdapter{name: "ok", rows: []model.DerivativeRow{
				row("dydx", "BTC-USD"),
				row("dydx", "ETH-USD"),
				row("dydx", "SOL-USD"),
				row("dydx", "AVAX-USD"),
				row("dydx", "DOGE-USD"),
			}},
			&stubAdapter{name: "down", err: errors.New("503")},
		},
		cs)

	n, err := w.Run(context.Background())
	if err != nil {
		t.Fatalf("one failing adapter must not fail the cycle: %v", err)
	}
	if n != 5 {
		t.Errorf("wrote %d rows, want the 5 surviving rows", n)
	}
}

func TestWorker_IsolateFailsWhenAllFail(t *testing.T) {
	w := New("dex",
		[]source.Adapter{
			&stubAdapter{name: "a", err: errors.New("boom a")},
			&stubAdapter{name: "b", err: errors.New("boom b")},
		},
		&captureSink{})

	_, err := w.Run(context.Background())
	if err == nil {
		t.Fatal("want error when every adapter fails")
	}
	for _, want := range []string{"boom a", "boom b"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing cause %q", err, want)
		}
	}
}

func TestWorker_AllModeFailsFast(t *testing.T) {
	cs := &captureSink{}
	w := New("dex",
		[]source.Adapter{
			&stubAdapter{name: "ok", rows: []model.DerivativeRow{row("dydx", "BTC-USD")}},
			&stubAdapter{name: "down", err: errors.New("503")},
		},
		cs,
		WithComposition(CompositionAll))

	_, err := w.Run(context.Background())
	if err == nil {
		t.Fatal("all mode must fail on any adapter error")
	}
	if cs.rows != nil {
		t.Error("sink must not be written on a failed cycle")
	}
}

func TestWorker_DeduplicatesAcrossAdapters(t *testing.T) {
	first := row("dydx", "BTC-USD")
	first.OpenInterestUSD = 1
	second := row("dydx", "BTC-USD")
	second.OpenInterestUSD = 2

	cs := &captureSink{}
	w := New("dex",
		[]source.Adapter{&stubAdapter{name: "a", rows: []model.DerivativeRow{first, second}}},
		cs)

	n, err := w.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("wrote %d rows, want 1 after dedup", n)
	}
	if cs.rows[0].OpenInterestUSD != 2 {
		t.Errorf("OpenInterestUSD = %v, want the later occurrence to win", cs.rows[0].OpenInterestUSD)
	}
}

func TestWorker_EmptyCycleSkipsSink(t *testing.T) {
	cs := &captureSink{err: errors.New("sink must not be called")}
	w := New("dex", []source.Adapter{&stubAdapter{name: "a"}}, cs)

	n, err := w.Run(context.Background())
	if err != nil {
		t.Fatalf("empty cycle must succeed: %v", err)
	}
	if n != 0 {
		t.Errorf("wrote %d rows, want 0", n)
	}
}

type panicAdapter struct{}

func (panicAdapter) Name() string { return "panicky" }

func (panicAdapter) Fetch(context.Context) ([]model.DerivativeRow, error) {
	panic("unexpected payload shape")
}

func TestWorker_AdapterPanicIsIsolated(t *testing.T) {
	cs := &captureSink{}
	w := New("dex",
		[]source.Adapter{
			&stubAdapter{name: "ok", rows: []model.DerivativeRow{row("dydx", "BTC-USD")}},
			panicAdapter{},
		},
		cs)

	n, err := w.Run(context.Background())
	if err != nil {
		t.Fatalf("panicking adapter must not fail an isolating cycle: %v", err)
	}
	if n != 1 {
		t.Errorf("wrote %d rows, want 1", n)
	}
}

func TestWorker_SinkErrorPropagates(t *testing.T) {
	cs := &captureSink{err: errors.New("connection refused")}
	w := New("dex",
		[]source.Adapter{&stubAdapter{name: "a", rows: []model.DerivativeRow{row("dydx", "BTC-USD")}}},
		cs)

	_, err := w.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("error = %v, want sink failure", err)
	}
}
