package topsearched

import (
	"context"
	"time"

	"github.com/kailas-cloud/searchapi/internal/domain/search/period"
	"github.com/kailas-cloud/searchapi/internal/domain/search/result"
)

// Repository writes and aggregates the search log.
type Repository interface {
	Record(ctx context.Context, terms []string, at time.Time) error
	Top(ctx context.Context, rng period.Range, n int) ([]result.Bucket, error)
}
