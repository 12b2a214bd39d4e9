package sink

import (
	"context"
	"log/slog"

	"github.com/coinlens/deriv-data/internal/model"
)

// DryRun logs each row instead of persisting it. Used by the one-shot CLI
// to inspect adapter output without a database.
type DryRun struct {
	logger *slog.Logger
}

func NewDryRun(logger *slog.Logger) *DryRun {
	if logger == nil {
		logger = slog.Default()
	}
	return &DryRun{logger: logger}
}

func (s *DryRun) Name() string { return "dry-run" }

func (s *DryRun) Write(_ context.Context, rows []model.DerivativeRow) (int, error) {
	for _, r := range rows {
		s.logger.Info("row",
			"exchange", r.Exchange,
			"symbol", r.Symbol,
			"contract_type", r.ContractType,
			"open_interest_usd", r.OpenInterestUSD,
			"funding_rate", r.FundingRate,
			"volume_24h", r.Volume24h,
			"index_price", r.IndexPrice,
			"ts", r.Timestamp)
	}
	return len(rows), nil
}
