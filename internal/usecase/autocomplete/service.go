// Package autocomplete suggests completions from highlighted matches on a single field.
package autocomplete

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchapi/internal/domain"
	"github.com/kailas-cloud/searchapi/internal/domain/search/plan"
	"github.com/kailas-cloud/searchapi/internal/domain/search/result"
	"github.com/kailas-cloud/searchapi/internal/logger"
	"github.com/kailas-cloud/searchapi/internal/metrics"
)

// Option selects where the keyword must occur in the suggested term.
type Option string

// Match options.
const (
	Prefix   Option = "prefix"
	Suffix   Option = "suffix"
	Contains Option = "contains"
)

// Highlight markers wrapped around matched substrings.
const (
	preTag  = "<b>"
	postTag = "</b>"
)

// DefaultSize is the number of candidate documents scanned per request.
const DefaultSize = 100

var markPattern = regexp.MustCompile(regexp.QuoteMeta(preTag) + `(.*?)` + regexp.QuoteMeta(postTag))

// Config binds the service to the suggestion field.
type Config struct {
	Field   string
	Size    int
	Timeout time.Duration
}

// Service produces suggestions.
type Service struct {
	repo Repository
	cfg  Config
}

// New creates an autocomplete service.
func New(repo Repository, cfg Config) *Service {
	if cfg.Size <= 0 {
		cfg.Size = DefaultSize
	}
	return &Service{repo: repo, cfg: cfg}
}

// Suggest returns highlighted terms matching kw under option, most frequent first.
// An empty option or keyword yields no suggestions.
func (s *Service) Suggest(ctx context.Context, kw, option string) ([]result.Suggestion, error) {
	opt := Option(strings.TrimSpace(option))
	kw = strings.TrimSpace(kw)
	if opt == "" {
		return []result.Suggestion{}, nil
	}

	match, ok := matchFor(opt)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not one of prefix, suffix or contains", domain.ErrInvalidOption, option)
	}
	if kw == "" {
		return []result.Suggestion{}, nil
	}

	p := plan.New().
		WithMust(plan.Clause{Fields: []string{s.cfg.Field}, Text: kw, Match: match}).
		WithPage(0, s.cfg.Size).
		WithHighlight(plan.Highlight{
			Fields:  []string{s.cfg.Field},
			PreTag:  preTag,
			PostTag: postTag,
		})

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	hits, err := s.repo.Search(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("autocomplete: %w", err)
	}

	out := rank(hits, s.cfg.Field)
	metrics.SearchHits.WithLabelValues("autocomplete").Observe(float64(len(out)))
	logger.FromContext(ctx).Debug("Autocomplete completed",
		zap.String("option", string(opt)),
		zap.Int("store_hits", len(hits)),
		zap.Int("suggestions", len(out)),
	)
	return out, nil
}

func matchFor(o Option) (plan.MatchType, bool) {
	switch o {
	case Prefix:
		return plan.Prefix, true
	case Suffix:
		return plan.Suffix, true
	case Contains:
		return plan.Infix, true
	default:
		return 0, false
	}
}

// rank counts every marked substring in field fragments. Ties keep first-seen order.
func rank(hits []result.Hit, field string) []result.Suggestion {
	counts := make(map[string]int)
	var order []string
	for i := range hits {
		for _, frag := range hits[i].Fragments(field) {
			for _, m := range markPattern.FindAllStringSubmatch(frag, -1) {
				term := m[1]
				if _, seen := counts[term]; !seen {
					order = append(order, term)
				}
				counts[term]++
			}
		}
	}

	out := make([]result.Suggestion, 0, len(order))
	for _, term := range order {
		out = append(out, result.Suggestion{Text: term, Count: counts[term]})
	}
	slices.SortStableFunc(out, func(a, b result.Suggestion) int { return b.Count - a.Count })
	return out
}
