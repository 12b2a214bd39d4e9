package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/coinlens/deriv-data/internal/metrics"
	"github.com/coinlens/deriv-data/internal/model"
	"github.com/coinlens/deriv-data/internal/sink"
	"github.com/coinlens/deriv-data/internal/source"
)

// Composition selects how a worker treats a failing adapter when it has
// more than one.
type Composition string

const (
	// CompositionIsolate drops the failing adapter's rows and keeps the
	// rest. The cycle fails only when every adapter fails.
	CompositionIsolate Composition = "isolate"

	// CompositionAll fails the whole cycle on the first adapter error.
	CompositionAll Composition = "all"
)

// Worker runs one fetch-aggregate-write cycle: fan out to its adapters,
// stamp a single capture time on every row, deduplicate by
// (exchange, symbol) and hand the batch to its sink.
type Worker struct {
	name     string
	adapters []source.Adapter
	sink     sink.Sink
	mode     Composition
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Worker.
type Option func(*Worker)

// WithComposition overrides the default isolating composition.
func WithComposition(mode Composition) Option {
	return func(w *Worker) { w.mode = mode }
}

// WithLogger sets the worker's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) { w.logger = logger }
}

// WithClock overrides the capture-time source. Tests use this to pin the
// stamped timestamp.
func WithClock(now func() time.Time) Option {
	return func(w *Worker) { w.now = now }
}

// New creates a worker over the given adapters and sink.
func New(name string, adapters []source.Adapter, s sink.Sink, opts ...Option) *Worker {
	w := &Worker{
		name:     name,
		adapters: adapters,
		sink:     s,
		mode:     CompositionIsolate,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With("worker", name)
	return w
}

// Name returns the worker's configured name.
func (w *Worker) Name() string { return w.name }

type fetchResult struct {
	adapter string
	rows    []model.DerivativeRow
	err     error
}

// safeFetch runs one adapter fetch, converting a panic into an error so a
// misbehaving adapter cannot take down the process.
func safeFetch(ctx context.Context, a source.Adapter) (rows []model.DerivativeRow, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fetch %s panicked: %v", a.Name(), r)
		}
	}()
	return a.Fetch(ctx)
}

// Run executes one cycle and returns the number of rows the sink accepted.
// In isolating mode an adapter failure is logged and absorbed unless every
// adapter fails; in all mode the first failure aborts the cycle.
func (w *Worker) Run(ctx context.Context) (int, error) {
	runID := uuid.NewString()
	logger := w.logger.With("run_id", runID)
	start := time.Now()

	var rows []model.DerivativeRow
	var err error
	if w.mode == CompositionAll {
		rows, err = w.fetchAll(ctx)
	} else {
		rows, err = w.fetchIsolated(ctx, logger)
	}
	if err != nil {
		return 0, err
	}

	// One capture time for the whole cycle, assigned here regardless of
	// anything the sources reported.
	ts := w.now().UTC()
	for i := range rows {
		rows[i].Timestamp = ts
	}

	rows = model.Dedup(rows)
	if len(rows) == 0 {
		logger.Info("cycle produced no rows, skipping sink")
		return 0, nil
	}

	written, err := w.sink.Write(ctx, rows)
	if err != nil {
		return written, fmt.Errorf("worker %s: %w", w.name, err)
	}

	logger.Info("cycle complete",
		"rows", written,
		"sink", w.sink.Name(),
		"duration", time.Since(start).Round(time.Millisecond))
	return written, nil
}

// fetchIsolated gathers every adapter's result and keeps whatever
// succeeded. It fails only when no adapter produced rows, joining the
// individual errors.
func (w *Worker) fetchIsolated(ctx context.Context, logger *slog.Logger) ([]model.DerivativeRow, error) {
	results := make([]fetchResult, len(w.adapters))

	var wg errgroup.Group
	for i, a := range w.adapters {
		wg.Go(func() error {
			rows, err := safeFetch(ctx, a)
			results[i] = fetchResult{adapter: a.Name(), rows: rows, err: err}
			return nil
		})
	}
	_ = wg.Wait()

	var rows []model.DerivativeRow
	var failures []error
	for _, res := range results {
		if res.err != nil {
			metrics.FetchErrors.WithLabelValues(w.name, res.adapter).Inc()
			logger.Warn("source fetch failed, continuing without it",
				"source", res.adapter, "error", res.err)
			failures = append(failures, fmt.Errorf("%s: %w", res.adapter, res.err))
			continue
		}
		rows = append(rows, res.rows...)
	}

	if len(failures) == len(w.adapters) && len(w.adapters) > 0 {
		return nil, fmt.Errorf("worker %s: all sources failed: %w", w.name, errors.Join(failures...))
	}
	return rows, nil
}

// fetchAll aborts on the first adapter error.
func (w *Worker) fetchAll(ctx context.Context) ([]model.DerivativeRow, error) {
	results := make([][]model.DerivativeRow, len(w.adapters))

	g, ctx := errgroup.WithContext(ctx)
	for i, a := range w.adapters {
		g.Go(func() error {
			rows, err := safeFetch(ctx, a)
			if err != nil {
				metrics.FetchErrors.WithLabelValues(w.name, a.Name()).Inc()
				return fmt.Errorf("%s: %w", a.Name(), err)
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("worker %s: %w", w.name, err)
	}

	var rows []model.DerivativeRow
	for _, r := range results {
		rows = append(rows, r...)
	}
	return rows, nil
}
