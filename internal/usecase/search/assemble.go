package search

import (
	"github.com/kailas-cloud/searchapi/internal/domain/search/criteria"
	"github.com/kailas-cloud/searchapi/internal/domain/search/keyword"
	"github.com/kailas-cloud/searchapi/internal/domain/search/mode"
	"github.com/kailas-cloud/searchapi/internal/domain/search/plan"
)

// DefaultBoost is the weight every assembled clause carries.
const DefaultBoost = 2.0

// Assemble turns tokens into a boolean plan with one clause per token and target field.
// Empty fields, or the single "all" sentinel, produce one cross-field clause per token.
func Assemble(tokens []keyword.Token, fields []string, boost float64) plan.Plan {
	if boost <= 0 {
		boost = DefaultBoost
	}
	targets := targetFields(fields)

	p := plan.New()
	for _, t := range tokens {
		if t.Text == "" {
			continue
		}
		match := plan.Term
		if t.Kind == keyword.Exact {
			match = plan.Phrase
		}

		clauses := make([]plan.Clause, 0, len(targets))
		for _, f := range targets {
			clauses = append(clauses, plan.Clause{
				Fields: []string{f},
				Text:   t.Text,
				Match:  match,
				Boost:  boost,
			})
		}

		switch t.Kind {
		case keyword.Include, keyword.Exact:
			p = p.WithMust(clauses...)
		case keyword.Exclude:
			p = p.WithMustNot(clauses...)
		default:
			p = p.WithShould(clauses...)
		}
	}
	return p
}

func targetFields(fields []string) []string {
	if len(fields) == 0 || (len(fields) == 1 && fields[0] == criteria.All) {
		return []string{plan.AllFields}
	}
	return fields
}

// Ranking configures how each mode shapes the plan.
type Ranking struct {
	DateField string
	MinScore  float64
}

// applyRank sets the ranking transform for m. ok is false for unknown modes,
// in which case p is returned untouched.
func applyRank(p plan.Plan, sortOption string, r Ranking) (out plan.Plan, ok bool) {
	m, ok := mode.Parse(sortOption)
	if !ok {
		return p, false
	}

	switch m {
	case mode.Latest:
		return p.WithSort(plan.Sort{Field: r.DateField, Descending: true}), true
	case mode.Earliest:
		return p.WithSort(plan.Sort{Field: r.DateField}), true
	default:
		return p.WithRank(plan.Rank{Mode: mode.Accuracy, ScoreMode: plan.ScoreMultiply, MinScore: r.MinScore}), true
	}
}
