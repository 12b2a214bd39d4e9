package source

import (
	"context"

	"github.com/coinlens/deriv-data/internal/model"
)

// Adapter fetches one upstream API and maps its payload into canonical
// rows. Implementations are pure functions of the HTTP responses they
// receive: no retries (the backoff executor owns those), no global state.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context) ([]model.DerivativeRow, error)
}
