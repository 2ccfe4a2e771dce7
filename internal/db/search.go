package db

import (
	"time"

	"github.com/kailas-cloud/searchapi/internal/domain/search/plan"
	"github.com/kailas-cloud/searchapi/internal/domain/search/result"
)

// PlanQuery is the input for a plan-driven FT.SEARCH.
type PlanQuery struct {
	IndexName string
	Plan      plan.Plan
	// ReturnFields limits the returned fields; empty returns every stored field.
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key   string
	Score float64
	// Fields are raw stored values, in the order the store returned them.
	Fields []result.Field
	// Highlights holds marked-up fragments for fields the store highlighted.
	Highlights map[string][]string
}

// AggregateQuery groups documents by one field and counts each group.
type AggregateQuery struct {
	IndexName  string
	DateFilter *plan.DateFilter
	GroupBy    string
	Limit      int
}

// AggregateRow is one group of an aggregation, ordered by count descending.
type AggregateRow struct {
	Key   string
	Count int64
}

// NumericDateLayout is how dates are stored in NUMERIC SORTABLE fields, so that
// range filters and SORTBY agree with calendar order.
const NumericDateLayout = "20060102"

// NumericDate renders t the way date fields are indexed.
func NumericDate(t time.Time) string {
	return t.Format(NumericDateLayout)
}
