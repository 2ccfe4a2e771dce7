// Package plan holds the store-agnostic query plan handed to the document store.
//
// A Plan is a value: every With* method returns a new Plan and leaves the
// receiver untouched, so stages can be composed without ordering surprises.
package plan

import (
	"slices"

	"github.com/kailas-cloud/searchapi/internal/domain/search/mode"
)

// AllFields targets every searchable field.
const AllFields = "*"

// MatchType selects how a clause text is matched.
type MatchType int

// Match types.
const (
	// Term matches any analyzed term of the text.
	Term MatchType = iota
	// Phrase matches the text as a contiguous phrase.
	Phrase
	// Fuzzy tolerates small edit distances.
	Fuzzy
	// Prefix matches terms starting with the text.
	Prefix
	// Suffix matches terms ending with the text.
	Suffix
	// Infix matches terms containing the text.
	Infix
)

func (m MatchType) String() string {
	switch m {
	case Phrase:
		return "phrase"
	case Fuzzy:
		return "fuzzy"
	case Prefix:
		return "prefix"
	case Suffix:
		return "suffix"
	case Infix:
		return "infix"
	default:
		return "term"
	}
}

// Clause is one leaf of the boolean tree.
type Clause struct {
	Fields []string
	Text   string
	Match  MatchType
	Boost  float64
}

// CrossField reports whether the clause targets every field.
func (c Clause) CrossField() bool {
	return len(c.Fields) == 0 || (len(c.Fields) == 1 && c.Fields[0] == AllFields)
}

// DateFilter restricts results to an inclusive date range on Field.
type DateFilter struct {
	Field  string
	From   string
	To     string
	Format string
}

// Page is the result window.
type Page struct {
	From int
	Size int
}

// Sort orders results by a field instead of by relevance.
type Sort struct {
	Field      string
	Descending bool
}

// ScoreMode combines the base relevance score with auxiliary scoring functions.
type ScoreMode string

// ScoreMultiply multiplies the relevance score by every scoring function.
const ScoreMultiply ScoreMode = "multiply"

// Rank is the selected ranking transform. The zero Rank keeps store defaults.
type Rank struct {
	Mode      mode.Mode
	ScoreMode ScoreMode
	MinScore  float64
}

// Highlight asks the store to mark matched substrings.
type Highlight struct {
	Fields  []string
	PreTag  string
	PostTag string
	// FragmentSize is the maximum fragment length in characters.
	FragmentSize int
	// Fragments is the number of fragments per field; 0 returns the whole field highlighted.
	Fragments int
	// RequireFieldMatch restricts highlighting to fields that had a clause.
	RequireFieldMatch bool
}

// Plan is the complete query plan.
type Plan struct {
	must       []Clause
	mustNot    []Clause
	should     []Clause
	dateFilter *DateFilter
	rank       Rank
	sort       *Sort
	page       Page
	highlight  *Highlight
}

// New returns an empty plan (matches everything).
func New() Plan { return Plan{} }

// Must returns the required clauses.
func (p Plan) Must() []Clause { return slices.Clone(p.must) }

// MustNot returns the forbidden clauses.
func (p Plan) MustNot() []Clause { return slices.Clone(p.mustNot) }

// Should returns the optional clauses.
func (p Plan) Should() []Clause { return slices.Clone(p.should) }

// DateFilter returns the date filter, nil when unset.
func (p Plan) DateFilter() *DateFilter {
	if p.dateFilter == nil {
		return nil
	}
	df := *p.dateFilter
	return &df
}

// Rank returns the ranking transform.
func (p Plan) Rank() Rank { return p.rank }

// Sort returns the field sort, nil when ordering by relevance.
func (p Plan) Sort() *Sort {
	if p.sort == nil {
		return nil
	}
	s := *p.sort
	return &s
}

// Page returns the result window.
func (p Plan) Page() Page { return p.page }

// Highlight returns the highlight directive, nil when unset.
func (p Plan) Highlight() *Highlight {
	if p.highlight == nil {
		return nil
	}
	h := *p.highlight
	h.Fields = slices.Clone(h.Fields)
	return &h
}

// IsEmpty reports whether the plan has no boolean clauses.
func (p Plan) IsEmpty() bool {
	return len(p.must) == 0 && len(p.mustNot) == 0 && len(p.should) == 0
}

// WithMust returns a copy with additional required clauses.
func (p Plan) WithMust(c ...Clause) Plan {
	p.must = appendClauses(p.must, c)
	return p
}

// WithMustNot returns a copy with additional forbidden clauses.
func (p Plan) WithMustNot(c ...Clause) Plan {
	p.mustNot = appendClauses(p.mustNot, c)
	return p
}

// WithShould returns a copy with additional optional clauses.
func (p Plan) WithShould(c ...Clause) Plan {
	p.should = appendClauses(p.should, c)
	return p
}

// WithDateFilter returns a copy filtered by df. The filter always applies on
// the outer boolean level, whatever clauses the plan holds.
func (p Plan) WithDateFilter(df DateFilter) Plan {
	p.dateFilter = &df
	return p
}

// WithPage returns a copy with the given window.
func (p Plan) WithPage(from, size int) Plan {
	p.page = Page{From: from, Size: size}
	return p
}

// WithRank returns a copy with the ranking transform replaced.
func (p Plan) WithRank(r Rank) Plan {
	p.rank = r
	return p
}

// WithSort returns a copy ordered by s.
func (p Plan) WithSort(s Sort) Plan {
	p.sort = &s
	return p
}

// WithHighlight returns a copy carrying the highlight directive.
func (p Plan) WithHighlight(h Highlight) Plan {
	h.Fields = slices.Clone(h.Fields)
	p.highlight = &h
	return p
}

// appendClauses never writes into the backing array of src, which may be shared with other plans.
func appendClauses(src, add []Clause) []Clause {
	out := make([]Clause, 0, len(src)+len(add))
	out = append(out, src...)
	for _, c := range add {
		c.Fields = slices.Clone(c.Fields)
		out = append(out, c)
	}
	return out
}
