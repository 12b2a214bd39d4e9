package sink

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coinlens/deriv-data/internal/model"
)

const appendSQL = `
	INSERT INTO derivatives_snapshots
		(ts, exchange, symbol, contract_type, open_interest_usd, funding_rate, volume_24h, index_price)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

// Append writes rows into the time-series snapshots table. Every poll cycle
// appends; the store derives the latest view per (exchange, symbol).
type Append struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewAppend creates the time-series sink.
func NewAppend(db *pgxpool.Pool, logger *slog.Logger) *Append {
	if logger == nil {
		logger = slog.Default()
	}
	return &Append{db: db, logger: logger}
}

func (s *Append) Name() string { return "append:derivatives_snapshots" }

func (s *Append) Write(ctx context.Context, rows []model.DerivativeRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(appendSQL,
			r.Timestamp, r.Exchange, r.Symbol, r.ContractType,
			r.OpenInterestUSD, r.FundingRate, r.Volume24h, r.IndexPrice)
	}

	written, err := sendBatch(ctx, s.db, batch, len(rows))
	if err != nil {
		return written, &StorageError{Table: "derivatives_snapshots", Err: err}
	}

	s.logger.Debug("appended snapshots", "rows", written)
	return written, nil
}

const upsertSQL = `
	INSERT INTO dex_derivatives_latest
		(ts, exchange, symbol, contract_type, open_interest, volume_24h, funding_rate, price)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (exchange, symbol) DO UPDATE SET
		ts            = EXCLUDED.ts,
		contract_type = EXCLUDED.contract_type,
		open_interest = EXCLUDED.open_interest,
		volume_24h    = EXCLUDED.volume_24h,
		funding_rate  = EXCLUDED.funding_rate,
		price         = EXCLUDED.price
`

// Upsert replaces the latest snapshot per (exchange, symbol); a conflicting
// row's non-key columns are fully replaced, never merged. Every column in
// the target table is non-null, so a nil funding rate is coerced to 0 at
// this boundary only.
type Upsert struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewUpsert creates the latest-snapshot sink.
func NewUpsert(db *pgxpool.Pool, logger *slog.Logger) *Upsert {
	if logger == nil {
		logger = slog.Default()
	}
	return &Upsert{db: db, logger: logger}
}

func (s *Upsert) Name() string { return "upsert:dex_derivatives_latest" }

func (s *Upsert) Write(ctx context.Context, rows []model.DerivativeRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(upsertSQL,
			r.Timestamp, r.Exchange, r.Symbol, r.ContractType,
			r.OpenInterestUSD, r.Volume24h, fundingOrZero(r.FundingRate), r.IndexPrice)
	}

	written, err := sendBatch(ctx, s.db, batch, len(rows))
	if err != nil {
		return written, &StorageError{Table: "dex_derivatives_latest", Err: err}
	}

	s.logger.Debug("upserted latest snapshots", "rows", written)
	return written, nil
}

// sendBatch executes the queued statements and accumulates rows affected.
// On error it reports the rows written before the failing statement.
func sendBatch(ctx context.Context, db *pgxpool.Pool, batch *pgx.Batch, n int) (int, error) {
	results := db.SendBatch(ctx, batch)
	defer results.Close()

	written := 0
	for i := 0; i < n; i++ {
		ct, err := results.Exec()
		if err != nil {
			return written, err
		}
		written += int(ct.RowsAffected())
	}
	return written, nil
}
