package searchapi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/searchapi/internal/db"
	dbRedis "github.com/kailas-cloud/searchapi/internal/db/redis"
	"github.com/kailas-cloud/searchapi/internal/domain/search/criteria"
	"github.com/kailas-cloud/searchapi/internal/domain/search/result"
	"github.com/kailas-cloud/searchapi/internal/repository/forbidden"
	"github.com/kailas-cloud/searchapi/internal/repository/popularity"
	searchrepo "github.com/kailas-cloud/searchapi/internal/repository/search"
	"github.com/kailas-cloud/searchapi/internal/resilience"
	autocompleteuc "github.com/kailas-cloud/searchapi/internal/usecase/autocomplete"
	healthuc "github.com/kailas-cloud/searchapi/internal/usecase/health"
	searchuc "github.com/kailas-cloud/searchapi/internal/usecase/search"
	"github.com/kailas-cloud/searchapi/internal/usecase/topsearched"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultPageSize         = 10
)

// Internal interfaces, swapped out in tests.
type searchUseCase interface {
	Search(ctx context.Context, c criteria.Criteria) ([]result.Document, error)
}

type suggestUseCase interface {
	Suggest(ctx context.Context, keyword, option string) ([]result.Suggestion, error)
}

type topUseCase interface {
	Top(ctx context.Context, period string, n int) ([]result.Bucket, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the searchapi SDK entry point.
type Client struct {
	store     db.Store
	searchSvc searchUseCase
	// flush waits for background search-log writes.
	flush     func()
	suggest   suggestUseCase
	top       topUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := defaultClientConfig()
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("searchapi: database address required (use WithRedis)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("searchapi: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("searchapi: database not ready: %w", err)
	}

	c, err := wireClient(ctx, store, cfg, obs)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func wireClient(ctx context.Context, store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	exec := resilience.NewExecutor(resilience.DefaultConfig(), nil)

	docRepo := searchrepo.New(store, exec, searchrepo.Options{
		Index:         cfg.documents.name,
		KeyPrefix:     cfg.documents.keyPrefix,
		CategoryField: cfg.categoryField,
	})
	suggestRepo := searchrepo.New(store, exec, searchrepo.Options{
		Index:        cfg.suggestions.name,
		KeyPrefix:    cfg.suggestions.keyPrefix,
		ReturnFields: []string{cfg.suggestionField},
	})
	logRepo := popularity.New(store, exec, cfg.searchLog.name, cfg.searchLog.keyPrefix)

	if cfg.createIndexes {
		if _, err := db.EnsureIndex(ctx, store, logRepo.Schema()); err != nil {
			return nil, fmt.Errorf("searchapi: create search log index: %w", err)
		}
	}

	words := forbidden.NewStatic(cfg.forbiddenWords...)
	topSvc := topsearched.New(logRepo, 0)

	var recorder searchuc.PopularityRecorder
	if cfg.record {
		recorder = topSvc
	}

	searchCfg := searchuc.DefaultConfig()
	searchCfg.DateField = cfg.dateField
	searchSvc := searchuc.New(docRepo, words, recorder, searchCfg)

	return &Client{
		store:     store,
		searchSvc: searchSvc,
		flush:     searchSvc.Flush,
		suggest: autocompleteuc.New(suggestRepo, autocompleteuc.Config{
			Field: cfg.suggestionField,
		}),
		top:       topSvc,
		healthSvc: healthuc.New(store, exec, words),
		obs:       obs,
	}, nil
}

// Close waits for pending search-log writes and releases all resources.
func (c *Client) Close() {
	if c.flush != nil {
		c.flush()
	}
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search runs q and returns documents in output order.
func (c *Client) Search(ctx context.Context, q Query) (_ []Document, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	q = q.withDefaults()
	crit, err := criteria.New(q.Fields, q.Period, q.Keyword, q.PageSize, q.Page,
		string(q.Sort), q.Categories, q.Caps)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	docs, err := c.searchSvc.Search(ctx, crit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return fromDocuments(docs), nil
}

// Autocomplete suggests terms containing keyword at the position option selects.
func (c *Client) Autocomplete(ctx context.Context, keyword string, option MatchOption) (_ []Suggestion, err error) {
	start := time.Now()
	defer func() { c.obs.observe("autocomplete", start, err) }()

	out, err := c.suggest.Suggest(ctx, keyword, string(option))
	if err != nil {
		return nil, fmt.Errorf("autocomplete: %w", err)
	}
	return fromSuggestions(out), nil
}

// TopSearched returns up to n of the most searched keywords over period.
// n <= 0 means 10. period is "", "all" or an explicit "yyyy.MM.dd~yyyy.MM.dd" range.
func (c *Client) TopSearched(ctx context.Context, period string, n int) (_ []Bucket, err error) {
	start := time.Now()
	defer func() { c.obs.observe("top_searched", start, err) }()

	out, err := c.top.Top(ctx, period, n)
	if err != nil {
		return nil, fmt.Errorf("top searched: %w", err)
	}
	return fromBuckets(out), nil
}

// Health checks the health of all system components.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status:       string(report.Status),
		Checks:       checks,
		OpenCircuits: report.OpenCircuits,
	}
}
