package search

import (
	"github.com/kailas-cloud/searchapi/internal/domain/search/criteria"
	"github.com/kailas-cloud/searchapi/internal/domain/search/result"
)

// Categorize keeps at most the positional cap of hits per requested category and
// concatenates the buckets in category-list order. Hits of unrequested or uncapped
// categories are dropped. An unfiltered criteria returns hits unchanged.
func Categorize(hits []result.Hit, c criteria.Criteria) []result.Hit {
	if c.Unfiltered() {
		return hits
	}

	buckets := make(map[string][]result.Hit)
	for _, h := range hits {
		limit, ok := c.CapFor(h.Category())
		if !ok || len(buckets[h.Category()]) >= limit {
			continue
		}
		buckets[h.Category()] = append(buckets[h.Category()], h)
	}

	out := make([]result.Hit, 0, len(hits))
	seen := make(map[string]bool)
	for _, cat := range c.Categories() {
		if seen[cat] {
			continue
		}
		seen[cat] = true
		out = append(out, buckets[cat]...)
	}
	return out
}
