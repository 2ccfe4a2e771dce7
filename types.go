package searchapi

import (
	"github.com/kailas-cloud/searchapi/internal/domain/search/mode"
	"github.com/kailas-cloud/searchapi/internal/domain/search/result"
	autocompleteuc "github.com/kailas-cloud/searchapi/internal/usecase/autocomplete"
)

// SortOption selects result ordering.
type SortOption string

// Sort options. Any other value keeps store order.
const (
	SortAccuracy SortOption = SortOption(mode.Accuracy)
	SortLatest   SortOption = SortOption(mode.Latest)
	SortEarliest SortOption = SortOption(mode.Earliest)
)

// MatchOption selects where an autocomplete keyword must occur.
type MatchOption string

// Match options. The empty option yields no suggestions.
const (
	MatchPrefix   MatchOption = MatchOption(autocompleteuc.Prefix)
	MatchSuffix   MatchOption = MatchOption(autocompleteuc.Suffix)
	MatchContains MatchOption = MatchOption(autocompleteuc.Contains)
)

// Query is one document search.
type Query struct {
	// Fields restricts matching; empty or ["all"] searches every field.
	Fields []string
	// Period is "", "all", day, week, month, year or "yyyy.MM.dd~yyyy.MM.dd".
	Period  string
	Keyword string
	// PageSize defaults to 10; Page is 1-based and defaults to 1.
	PageSize int
	Page     int
	Sort     SortOption
	// Categories and Caps are positional pairs; "all" in Categories disables capping.
	Categories []string
	Caps       []int
}

// Field is one stored attribute of a document.
type Field struct {
	Name  string
	Value string
}

// Document is a search result with highlighted values merged in.
// Fields keep the store's order.
type Document struct {
	Fields []Field
}

// Get returns the value of the named field.
func (d Document) Get(name string) (string, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Suggestion is an autocomplete candidate and how often it matched.
type Suggestion struct {
	Text  string
	Count int
}

// Bucket is a keyword and how many times it was searched.
type Bucket struct {
	Keyword string
	Count   int64
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status       string            // "ok", "degraded", "error"
	Checks       map[string]string // component → "ok"/"error"/"empty"
	OpenCircuits string
}

func fromDocuments(docs []result.Document) []Document {
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		fields := d.Fields()
		doc := Document{Fields: make([]Field, 0, len(fields))}
		for _, f := range fields {
			doc.Fields = append(doc.Fields, Field{Name: f.Name, Value: f.Value})
		}
		out = append(out, doc)
	}
	return out
}

func fromSuggestions(in []result.Suggestion) []Suggestion {
	out := make([]Suggestion, 0, len(in))
	for _, s := range in {
		out = append(out, Suggestion{Text: s.Text, Count: s.Count})
	}
	return out
}

func fromBuckets(in []result.Bucket) []Bucket {
	out := make([]Bucket, 0, len(in))
	for _, b := range in {
		out = append(out, Bucket{Keyword: b.Key, Count: b.Count})
	}
	return out
}

func (q Query) withDefaults() Query {
	if q.PageSize == 0 {
		q.PageSize = defaultPageSize
	}
	if q.Page == 0 {
		q.Page = 1
	}
	return q
}
