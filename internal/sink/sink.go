package sink

import (
	"context"
	"fmt"

	"github.com/coinlens/deriv-data/internal/model"
)

// Sink persists one batch of canonical rows and reports how many the store
// accepted. The count may trail len(rows) on partial failure; callers treat
// any error as failure of the whole cycle.
type Sink interface {
	Name() string
	Write(ctx context.Context, rows []model.DerivativeRow) (int, error)
}

// StorageError tags a failed write with its target table.
type StorageError struct {
	Table string
	Err   error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Table, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// fundingOrZero coerces a nil funding rate to 0 for tables whose
// funding_rate column is non-null. The append sink does NOT use this: the
// time-series table keeps NULL so "no funding concept" stays
// distinguishable from "rate is exactly zero".
func fundingOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
