package search

import (
	"context"
	"strings"
	"time"

	"github.com/kailas-cloud/searchapi/internal/db"
	"github.com/kailas-cloud/searchapi/internal/domain/search/plan"
	"github.com/kailas-cloud/searchapi/internal/domain/search/result"
	"github.com/kailas-cloud/searchapi/internal/repository/storeerr"
	"github.com/kailas-cloud/searchapi/internal/resilience"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	Search(ctx context.Context, q *db.PlanQuery) (*db.SearchResult, error)
}

type executor interface {
	Execute(ctx context.Context, op string, fn func(context.Context) error, classifier resilience.ErrorClassifier) error
}

// Options binds a repository to one FT index.
type Options struct {
	Index string
	// KeyPrefix is stripped from store keys to form hit IDs.
	KeyPrefix     string
	CategoryField string
	// ReturnFields limits the stored fields fetched per hit; empty fetches all.
	ReturnFields []string
}

// Repo implements usecase/search.Repository and usecase/autocomplete.Repository.
type Repo struct {
	store store
	exec  executor
	opts  Options
}

// New creates a search repository.
func New(s store, exec executor, opts Options) *Repo {
	return &Repo{store: s, exec: exec, opts: opts}
}

// Index returns the index this repository queries.
func (r *Repo) Index() string { return r.opts.Index }

// Search runs the plan and returns raw hits in store order.
func (r *Repo) Search(ctx context.Context, p plan.Plan) ([]result.Hit, error) {
	q := &db.PlanQuery{
		IndexName:    r.opts.Index,
		Plan:         p,
		ReturnFields: r.opts.ReturnFields,
	}

	var sr *db.SearchResult
	start := time.Now()
	err := r.exec.Execute(ctx, db.OpSearch+" "+r.opts.Index, func(ctx context.Context) error {
		var err error
		sr, err = r.store.Search(ctx, q)
		return err
	}, storeerr.RecordFailure)
	storeerr.Observe(r.opts.Index, "search", start, err)
	if err != nil {
		return nil, storeerr.Translate("search "+r.opts.Index, err)
	}

	return r.toHits(sr), nil
}

func (r *Repo) toHits(sr *db.SearchResult) []result.Hit {
	if sr == nil || len(sr.Entries) == 0 {
		return nil
	}

	hits := make([]result.Hit, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		id := strings.TrimPrefix(e.Key, r.opts.KeyPrefix)
		hits = append(hits, result.NewHit(id, e.Score, r.categoryOf(e), e.Fields, e.Highlights))
	}
	return hits
}

func (r *Repo) categoryOf(e db.SearchEntry) string {
	if r.opts.CategoryField == "" {
		return ""
	}
	for _, f := range e.Fields {
		if f.Name == r.opts.CategoryField {
			return f.Value
		}
	}
	return ""
}
