package domain

import "context"

type queryStatsKey struct{}

// QueryStats collects per-request search facts for the request log line.
// The handler puts a mutable pointer into the context, the service fills it in.
type QueryStats struct {
	Tokens int
	// StoreHits is the hit count before category capping.
	StoreHits int
	Returned  int
	// Recorded is true once the searched terms were handed to the search log.
	Recorded bool
}

// NewContextWithStats returns a context carrying an empty stats collector.
func NewContextWithStats(ctx context.Context) (context.Context, *QueryStats) {
	s := &QueryStats{}
	return context.WithValue(ctx, queryStatsKey{}, s), s
}

// StatsFromContext returns the collector, or nil if none was set.
func StatsFromContext(ctx context.Context) *QueryStats {
	s, _ := ctx.Value(queryStatsKey{}).(*QueryStats)
	return s
}

// Observe records hit counts before and after capping. Safe on a nil receiver.
func (s *QueryStats) Observe(tokens, storeHits, returned int) {
	if s == nil {
		return
	}
	s.Tokens = tokens
	s.StoreHits = storeHits
	s.Returned = returned
}

// MarkRecorded notes a dispatched search-log write. Safe on a nil receiver.
func (s *QueryStats) MarkRecorded() {
	if s != nil {
		s.Recorded = true
	}
}
