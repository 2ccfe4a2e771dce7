// Package search turns search criteria into a query plan, runs it and shapes the hits.
package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchapi/internal/domain"
	"github.com/kailas-cloud/searchapi/internal/domain/search/criteria"
	"github.com/kailas-cloud/searchapi/internal/domain/search/keyword"
	"github.com/kailas-cloud/searchapi/internal/domain/search/period"
	"github.com/kailas-cloud/searchapi/internal/domain/search/plan"
	"github.com/kailas-cloud/searchapi/internal/domain/search/result"
	"github.com/kailas-cloud/searchapi/internal/logger"
	"github.com/kailas-cloud/searchapi/internal/metrics"
)

// Config holds the fixed query shaping parameters.
type Config struct {
	DateField string
	Boost     float64
	MinScore  float64
	PreTag    string
	PostTag   string
	// FragmentSize and Fragments are passed through to the store highlighter.
	FragmentSize int
	Fragments    int
	// Timeout bounds the store round trip; zero leaves only the caller's deadline.
	Timeout time.Duration
	// RecordTimeout bounds a background search-log write; zero falls back to Timeout.
	RecordTimeout time.Duration
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		DateField:     "writeDate",
		Boost:         DefaultBoost,
		MinScore:      2.0,
		PreTag:        "<b>",
		PostTag:       "</b>",
		FragmentSize:  10000,
		Timeout:       3 * time.Second,
		RecordTimeout: time.Second,
	}
}

// Service handles document search.
type Service struct {
	repo      Repository
	forbidden ForbiddenChecker
	recorder  PopularityRecorder
	cfg       Config
	now       func() time.Time
	pending   sync.WaitGroup
}

// New creates a search service. forbidden and recorder may be nil.
func New(repo Repository, forbidden ForbiddenChecker, recorder PopularityRecorder, cfg Config) *Service {
	return &Service{
		repo:      repo,
		forbidden: forbidden,
		recorder:  recorder,
		cfg:       cfg,
		now:       time.Now,
	}
}

// WithClock replaces the wall clock used for relative periods and the search log.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Search validates c, queries the store and returns merged documents in output order.
func (s *Service) Search(ctx context.Context, c criteria.Criteria) ([]result.Document, error) {
	log := logger.FromContext(ctx)

	if s.forbidden != nil && s.forbidden.IsForbidden(c.Keyword()) {
		metrics.SearchRejectedTotal.WithLabelValues("forbidden").Inc()
		return nil, domain.ErrForbiddenKeyword
	}

	tokens, err := keyword.Tokenize(c.Keyword())
	if err != nil {
		metrics.SearchRejectedTotal.WithLabelValues("keyword").Inc()
		return nil, fmt.Errorf("tokenize: %w", err)
	}

	now := s.now()
	p, err := s.buildPlan(ctx, tokens, c, now)
	if err != nil {
		return nil, err
	}

	s.record(ctx, tokens, now)

	storeCtx := ctx
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		storeCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	hits, err := s.repo.Search(storeCtx, p)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	kept := Categorize(hits, c)
	domain.StatsFromContext(ctx).Observe(len(tokens), len(hits), len(kept))
	metrics.SearchHits.WithLabelValues("search").Observe(float64(len(kept)))
	log.Debug("Search completed",
		zap.Int("tokens", len(tokens)),
		zap.Int("store_hits", len(hits)),
		zap.Int("returned", len(kept)),
	)

	return MergeAll(kept), nil
}

func (s *Service) buildPlan(ctx context.Context, tokens []keyword.Token, c criteria.Criteria, now time.Time) (plan.Plan, error) {
	p := Assemble(tokens, c.Fields(), s.cfg.Boost)

	rng, err := period.Resolve(c.Period(), now, period.SearchPolicy)
	if err != nil {
		metrics.SearchRejectedTotal.WithLabelValues("period").Inc()
		return plan.Plan{}, fmt.Errorf("resolve period: %w", err)
	}
	if rng.Active() {
		p = p.WithDateFilter(plan.DateFilter{
			Field:  s.cfg.DateField,
			From:   rng.StartString(),
			To:     rng.EndString(),
			Format: period.Format,
		})
	}

	p = p.WithPage(c.Offset(), c.PageSize())

	var ok bool
	p, ok = applyRank(p, c.SortOption(), Ranking{DateField: s.cfg.DateField, MinScore: s.cfg.MinScore})
	if !ok {
		logger.FromContext(ctx).Debug("Unknown sort option, keeping store order",
			zap.String("sort_option", c.SortOption()))
	}

	return p.WithHighlight(plan.Highlight{
		Fields:       []string{plan.AllFields},
		PreTag:       s.cfg.PreTag,
		PostTag:      s.cfg.PostTag,
		FragmentSize: s.cfg.FragmentSize,
		Fragments:    s.cfg.Fragments,
	}), nil
}

// record hands searched terms to the search log in the background. The write
// outlives the request but not RecordTimeout, and never fails the search.
func (s *Service) record(ctx context.Context, tokens []keyword.Token, at time.Time) {
	if s.recorder == nil {
		return
	}
	terms := keyword.Terms(tokens)
	if len(terms) == 0 {
		return
	}

	timeout := s.cfg.RecordTimeout
	if timeout <= 0 {
		timeout = s.cfg.Timeout
	}
	recCtx := context.WithoutCancel(ctx)
	cancel := func() {}
	if timeout > 0 {
		recCtx, cancel = context.WithTimeout(recCtx, timeout)
	}
	log := logger.FromContext(ctx)
	domain.StatsFromContext(ctx).MarkRecorded()

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		defer cancel()
		if err := s.recorder.Record(recCtx, terms, at); err != nil {
			metrics.PopularityWriteFailuresTotal.Inc()
			log.Warn("Failed to record searched terms",
				zap.Strings("terms", terms),
				zap.Error(err),
			)
		}
	}()
}

// Flush blocks until in-flight search-log writes finish.
func (s *Service) Flush() {
	s.pending.Wait()
}
