// Package topsearched reports the most searched keywords over a period.
package topsearched

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/searchapi/internal/domain"
	"github.com/kailas-cloud/searchapi/internal/domain/search/period"
	"github.com/kailas-cloud/searchapi/internal/domain/search/result"
	"github.com/kailas-cloud/searchapi/internal/metrics"
)

// DefaultN is used when the caller does not ask for a positive count.
const DefaultN = 10

// Service answers top-searched queries.
type Service struct {
	repo    Repository
	timeout time.Duration
	now     func() time.Time
}

// New creates a top-searched service. timeout bounds each store call; zero disables it.
func New(repo Repository, timeout time.Duration) *Service {
	return &Service{repo: repo, timeout: timeout, now: time.Now}
}

// WithClock replaces the clock used to reject future ranges.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Top returns up to n keywords ordered by search count. The period is empty,
// "all", or an explicit past range; relative keywords are refused.
func (s *Service) Top(ctx context.Context, rawPeriod string, n int) ([]result.Bucket, error) {
	rng, err := period.Resolve(rawPeriod, s.now(), period.RangeOnlyPolicy)
	if err != nil {
		return nil, fmt.Errorf("resolve period: %w", err)
	}
	if rng.Active() && rng.Start().After(rng.End()) {
		return nil, fmt.Errorf("%w: start %s is after end %s", domain.ErrInvalidPeriod, rng.StartString(), rng.EndString())
	}
	if n <= 0 {
		n = DefaultN
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	buckets, err := s.repo.Top(ctx, rng, n)
	if err != nil {
		return nil, fmt.Errorf("top searched: %w", err)
	}
	metrics.SearchHits.WithLabelValues("topsearched").Observe(float64(len(buckets)))
	return buckets, nil
}

// Record logs searched terms at the given instant, bounded by the service timeout.
func (s *Service) Record(ctx context.Context, terms []string, at time.Time) error {
	if len(terms) == 0 {
		return nil
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if err := s.repo.Record(ctx, terms, at); err != nil {
		return fmt.Errorf("record searched terms: %w", err)
	}
	return nil
}
