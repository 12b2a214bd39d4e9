package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/coinlens/deriv-data/internal/backoff"
	"github.com/coinlens/deriv-data/internal/metrics"
)

// Runner is one schedulable unit of work. Worker satisfies it.
type Runner interface {
	Name() string
	Run(ctx context.Context) (int, error)
}

// Entry binds a runner to its polling interval and retry policy.
type Entry struct {
	Runner   Runner
	Interval time.Duration
	Retry    backoff.Config
}

// Scheduler drives a set of runners on fixed intervals. Each runner gets
// an immediate first run at Start, then repeats every Interval. A failed
// cycle is retried per the entry's backoff policy; terminal failure is
// logged and never stops the schedule or the other runners.
type Scheduler struct {
	entries []Entry
	cron    *cron.Cron
	logger  *slog.Logger

	mu      sync.Mutex
	running map[string]bool
	stats   map[string]*EntryStats

	wg      sync.WaitGroup
	baseCtx context.Context
	cancel  context.CancelFunc
	started bool
}

// EntryStats is a point-in-time snapshot of one runner's recent history,
// exposed through the health endpoint.
type EntryStats struct {
	LastRun     time.Time `json:"last_run"`
	LastSuccess time.Time `json:"last_success"`
	LastError   string    `json:"last_error,omitempty"`
	Cycles      uint64    `json:"cycles"`
	Failures    uint64    `json:"failures"`
	RowsWritten uint64    `json:"rows_written"`
}

// New creates a scheduler over the given entries.
func New(entries []Entry, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	stats := make(map[string]*EntryStats, len(entries))
	for _, e := range entries {
		stats[e.Runner.Name()] = &EntryStats{}
	}
	return &Scheduler{
		entries: entries,
		cron:    cron.New(),
		logger:  logger,
		running: make(map[string]bool),
		stats:   stats,
	}
}

// Start registers every entry and kicks off its first run immediately.
// It returns once everything is scheduled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return fmt.Errorf("scheduler already started")
	}
	s.started = true
	s.baseCtx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
	s.mu.Unlock()

	for _, e := range s.entries {
		spec := fmt.Sprintf("@every %s", e.Interval)
		if _, err := s.cron.AddFunc(spec, func() { s.runOnce(e) }); err != nil {
			return fmt.Errorf("schedule %s: %w", e.Runner.Name(), err)
		}
		s.logger.Info("scheduled worker",
			"worker", e.Runner.Name(), "interval", e.Interval)

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runOnce(e)
		}()
	}

	s.cron.Start()
	return nil
}

// Stop halts scheduling of new cycles and waits for in-flight ones to
// complete, up to ctx's deadline. Runs still in flight past the deadline
// are cancelled and abandoned.
func (s *Scheduler) Stop(ctx context.Context) error {
	cronDone := s.cron.Stop()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		<-cronDone.Done()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		if s.cancel != nil {
			s.cancel()
		}
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
}

// Stats snapshots per-runner state.
func (s *Scheduler) Stats() map[string]EntryStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]EntryStats, len(s.stats))
	for name, st := range s.stats {
		out[name] = *st
	}
	return out
}

// runOnce executes one retried cycle for the entry. Overlapping runs of
// the same runner are skipped rather than queued.
func (s *Scheduler) runOnce(e Entry) {
	name := e.Runner.Name()

	s.mu.Lock()
	if s.running[name] {
		s.mu.Unlock()
		s.logger.Warn("previous cycle still running, skipping", "worker", name)
		return
	}
	s.running[name] = true
	st := s.stats[name]
	st.LastRun = time.Now().UTC()
	st.Cycles++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running[name] = false
		s.mu.Unlock()
	}()

	start := time.Now()
	written, err := backoff.Do(s.baseCtx, e.Retry, func(ctx context.Context) (int, error) {
		return e.Runner.Run(ctx)
	})
	elapsed := time.Since(start)
	metrics.CycleDuration.WithLabelValues(name).Observe(elapsed.Seconds())

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		st.Failures++
		st.LastError = err.Error()
		metrics.Cycles.WithLabelValues(name, "error").Inc()

		attempts := 1
		var exhausted *backoff.RetriesExhausted
		if errors.As(err, &exhausted) {
			attempts = exhausted.Attempts
		}
		s.logger.Error("cycle failed",
			"worker", name,
			"attempts", attempts,
			"error", err,
			"duration", elapsed.Round(time.Millisecond))
		return
	}

	st.LastSuccess = time.Now().UTC()
	st.LastError = ""
	st.RowsWritten += uint64(written)
	metrics.Cycles.WithLabelValues(name, "ok").Inc()
	metrics.RowsWritten.WithLabelValues(name).Add(float64(written))
}
