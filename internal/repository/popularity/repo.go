// Package popularity stores the search log and aggregates it into top-N terms.
package popularity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/searchapi/internal/db"
	"github.com/kailas-cloud/searchapi/internal/domain/search/period"
	"github.com/kailas-cloud/searchapi/internal/domain/search/plan"
	"github.com/kailas-cloud/searchapi/internal/domain/search/result"
	"github.com/kailas-cloud/searchapi/internal/repository/storeerr"
	"github.com/kailas-cloud/searchapi/internal/resilience"
)

// Log entry field names.
const (
	FieldKeyword      = "keyword"
	FieldSearchedDate = "searchedDate"
	FieldSearchedAt   = "searchedAt"
)

// keywordSeparator splits TAG values; search terms never contain it after tokenizing.
const keywordSeparator = "|"

type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	Aggregate(ctx context.Context, q *db.AggregateQuery) ([]db.AggregateRow, error)
}

type executor interface {
	Execute(ctx context.Context, op string, fn func(context.Context) error, classifier resilience.ErrorClassifier) error
}

// Repo writes one hash per searched term and aggregates them by keyword.
type Repo struct {
	store     store
	exec      executor
	index     string
	keyPrefix string
	newID     func() string
}

// New creates a popularity repository over index, writing keys under keyPrefix.
func New(s store, exec executor, index, keyPrefix string) *Repo {
	return &Repo{
		store:     s,
		exec:      exec,
		index:     index,
		keyPrefix: keyPrefix,
		newID:     uuid.NewString,
	}
}

// Schema returns the FT index definition covering the log entries.
func (r *Repo) Schema() *db.IndexDefinition {
	return db.NewIndex(r.index).
		Prefix(r.keyPrefix).
		TagWithOpts(FieldKeyword, keywordSeparator, true).
		SortableNumeric(FieldSearchedDate).
		MustBuild()
}

// Record logs each term as searched at the given instant.
func (r *Repo) Record(ctx context.Context, terms []string, at time.Time) error {
	items := make([]db.HashSetItem, 0, len(terms))
	for _, t := range terms {
		t = strings.ReplaceAll(strings.TrimSpace(t), keywordSeparator, " ")
		if t == "" {
			continue
		}
		items = append(items, db.HashSetItem{
			Key: r.keyPrefix + r.newID(),
			Fields: map[string]string{
				FieldKeyword:      t,
				FieldSearchedDate: db.NumericDate(at),
				FieldSearchedAt:   at.UTC().Format(time.RFC3339),
			},
		})
	}
	if len(items) == 0 {
		return nil
	}

	start := time.Now()
	err := r.exec.Execute(ctx, db.OpHSet+" "+r.index, func(ctx context.Context) error {
		return r.store.HSetMulti(ctx, items)
	}, storeerr.RecordFailure)
	storeerr.Observe(r.index, "record", start, err)
	return storeerr.Translate("record search terms", err)
}

// Top returns the n most searched keywords within rng (inactive means all time).
func (r *Repo) Top(ctx context.Context, rng period.Range, n int) ([]result.Bucket, error) {
	q := &db.AggregateQuery{
		IndexName: r.index,
		GroupBy:   FieldKeyword,
		Limit:     n,
	}
	if rng.Active() {
		q.DateFilter = &plan.DateFilter{
			Field:  FieldSearchedDate,
			From:   rng.StartString(),
			To:     rng.EndString(),
			Format: period.Format,
		}
	}

	var rows []db.AggregateRow
	start := time.Now()
	err := r.exec.Execute(ctx, db.OpAggregate+" "+r.index, func(ctx context.Context) error {
		var err error
		rows, err = r.store.Aggregate(ctx, q)
		return err
	}, storeerr.RecordFailure)
	storeerr.Observe(r.index, "aggregate", start, err)
	if err != nil {
		return nil, storeerr.Translate("top searched", err)
	}

	out := make([]result.Bucket, 0, len(rows))
	for _, row := range rows {
		out = append(out, result.Bucket{Key: row.Key, Count: row.Count})
	}
	return out, nil
}
