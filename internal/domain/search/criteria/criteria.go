package criteria

import (
	"fmt"
	"slices"

	"github.com/kailas-cloud/searchapi/internal/domain"
)

// All is the sentinel for "all fields" in a field list and "all categories" in a category list.
const All = "all"

// Search parameter limits.
const (
	// MaxKeywordLength is the maximum allowed keyword length in bytes.
	MaxKeywordLength = 4096
	MaxPageSize      = 1000
)

// Criteria is a validated search request.
type Criteria struct {
	fields     []string
	period     string
	keyword    string
	pageSize   int
	page       int
	sortOption string
	categories []string
	caps       []int
}

// New validates search parameters. page is 1-based.
// categories and caps are positional pairs; a category without a cap is legal and never matches.
func New(
	fields []string,
	period, keyword string,
	pageSize, page int,
	sortOption string,
	categories []string,
	caps []int,
) (Criteria, error) {
	if pageSize <= 0 {
		return Criteria{}, fmt.Errorf("%w: page size must be positive, got %d", domain.ErrInvalidPagination, pageSize)
	}
	if pageSize > MaxPageSize {
		return Criteria{}, fmt.Errorf("%w: page size too large (max %d)", domain.ErrInvalidPagination, MaxPageSize)
	}
	if page <= 0 {
		return Criteria{}, fmt.Errorf("%w: page must be positive, got %d", domain.ErrInvalidPagination, page)
	}
	if len(keyword) > MaxKeywordLength {
		return Criteria{}, fmt.Errorf("%w: keyword too long (max %d chars)", domain.ErrInvalidKeyword, MaxKeywordLength)
	}
	for i, c := range caps {
		if c < 0 {
			return Criteria{}, fmt.Errorf("%w: category cap at position %d is negative", domain.ErrInvalidCriteria, i)
		}
	}

	return Criteria{
		fields:     slices.Clone(fields),
		period:     period,
		keyword:    keyword,
		pageSize:   pageSize,
		page:       page,
		sortOption: sortOption,
		categories: slices.Clone(categories),
		caps:       slices.Clone(caps),
	}, nil
}

// Fields returns the designated target fields.
func (c Criteria) Fields() []string { return slices.Clone(c.fields) }

// AllFields reports whether every field is targeted: no designation, or the single sentinel.
func (c Criteria) AllFields() bool {
	return len(c.fields) == 0 || (len(c.fields) == 1 && c.fields[0] == All)
}

// Period returns the raw period descriptor.
func (c Criteria) Period() string { return c.period }

// Keyword returns the raw advanced-search keyword.
func (c Criteria) Keyword() string { return c.keyword }

// PageSize returns the maximum documents per page.
func (c Criteria) PageSize() int { return c.pageSize }

// Page returns the 1-based page number.
func (c Criteria) Page() int { return c.page }

// Offset returns the number of documents to skip.
func (c Criteria) Offset() int { return (c.page - 1) * c.pageSize }

// SortOption returns the raw sort identifier.
func (c Criteria) SortOption() string { return c.sortOption }

// Categories returns the requested categories in order.
func (c Criteria) Categories() []string { return slices.Clone(c.categories) }

// Caps returns the per-category maximum counts, positionally aligned with Categories.
func (c Criteria) Caps() []int { return slices.Clone(c.caps) }

// Unfiltered reports whether results bypass category partitioning.
func (c Criteria) Unfiltered() bool {
	return len(c.categories) == 0 || slices.Contains(c.categories, All)
}

// CapFor returns the cap of the first occurrence of category. ok is false when the
// category is not requested or has no positional cap.
func (c Criteria) CapFor(category string) (limit int, ok bool) {
	i := slices.Index(c.categories, category)
	if i < 0 || i >= len(c.caps) {
		return 0, false
	}
	return c.caps[i], true
}
