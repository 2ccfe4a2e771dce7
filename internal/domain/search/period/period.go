package period

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/kailas-cloud/searchapi/internal/domain"
)

// Period descriptor constants.
const (
	// Layout is the Go layout of the fixed yyyy.MM.dd date format.
	Layout = "2006.01.02"
	// Format is the store-facing spelling of Layout.
	Format = "yyyy.MM.dd"
	// Delimiter separates the endpoints of an explicit range.
	Delimiter = "~"
)

var datePattern = regexp.MustCompile(`^\d{4}\.\d{2}\.\d{2}$`)

// Keyword is a named period descriptor.
type Keyword string

// Recognized period keywords.
const (
	All   Keyword = "all"
	Day   Keyword = "day"
	Week  Keyword = "week"
	Month Keyword = "month"
	Year  Keyword = "year"
)

// ParseKeyword matches s case-insensitively against the known keywords.
func ParseKeyword(s string) (Keyword, bool) {
	switch k := Keyword(strings.ToLower(strings.TrimSpace(s))); k {
	case All, Day, Week, Month, Year:
		return k, true
	}
	return "", false
}

// IsRelative reports whether k denotes a window ending now.
func (k Keyword) IsRelative() bool {
	return k == Day || k == Week || k == Month || k == Year
}

// Policy controls which descriptor forms an entry point accepts.
type Policy struct {
	// AllowEmpty treats an empty descriptor as "no filter" instead of an error.
	AllowEmpty bool
	// AllowRelative accepts day/week/month/year.
	AllowRelative bool
}

// SearchPolicy is the tolerance of the document search entry point.
var SearchPolicy = Policy{AllowEmpty: true, AllowRelative: true}

// RangeOnlyPolicy accepts only "all", empty, or an explicit range.
var RangeOnlyPolicy = Policy{AllowEmpty: true, AllowRelative: false}

// Range is an inclusive date range. The zero Range means "no filter".
type Range struct {
	start time.Time
	end   time.Time
}

// NewRange builds a range from two dates, truncated to day precision.
func NewRange(start, end time.Time) Range {
	return Range{start: truncate(start), end: truncate(end)}
}

// Start returns the first day of the range.
func (r Range) Start() time.Time { return r.start }

// End returns the last day of the range.
func (r Range) End() time.Time { return r.end }

// Active reports whether the range restricts results.
func (r Range) Active() bool { return !r.start.IsZero() || !r.end.IsZero() }

// StartString renders Start in the fixed format.
func (r Range) StartString() string { return r.start.Format(Layout) }

// EndString renders End in the fixed format.
func (r Range) EndString() string { return r.end.Format(Layout) }

func (r Range) String() string {
	if !r.Active() {
		return string(All)
	}
	return r.StartString() + Delimiter + r.EndString()
}

// Resolve turns a period descriptor into a concrete range relative to now.
func Resolve(raw string, now time.Time, policy Policy) (Range, error) {
	value := strings.TrimSpace(raw)
	today := truncate(now)

	if value == "" {
		if policy.AllowEmpty {
			return Range{}, nil
		}
		return Range{}, fmt.Errorf("%w: period is required", domain.ErrInvalidPeriod)
	}

	if strings.EqualFold(value, string(All)) {
		return Range{}, nil
	}

	if strings.Contains(value, Delimiter) {
		return resolveExplicit(value, today)
	}

	k, ok := ParseKeyword(value)
	if !ok || !k.IsRelative() {
		return Range{}, fmt.Errorf("%w: %q is not one of all, day, week, month, year or %s%s%s",
			domain.ErrInvalidPeriod, raw, Format, Delimiter, Format)
	}
	if !policy.AllowRelative {
		return Range{}, fmt.Errorf("%w: relative period %q is not accepted here", domain.ErrInvalidPeriod, raw)
	}

	var start time.Time
	switch k {
	case Day:
		start = today.AddDate(0, 0, -1)
	case Week:
		start = today.AddDate(0, 0, -7)
	case Month:
		start = today.AddDate(0, -1, 0)
	case Year:
		start = today.AddDate(-1, 0, 0)
	}
	return Range{start: start, end: today}, nil
}

func resolveExplicit(value string, today time.Time) (Range, error) {
	parts := strings.Split(value, Delimiter)
	if len(parts) != 2 {
		return Range{}, fmt.Errorf("%w: range must have exactly one %q", domain.ErrInvalidPeriod, Delimiter)
	}

	bounds := make([]time.Time, 2)
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if !datePattern.MatchString(p) {
			return Range{}, fmt.Errorf("%w: %q does not match %s", domain.ErrInvalidPeriod, p, Format)
		}
		t, err := time.ParseInLocation(Layout, p, today.Location())
		if err != nil {
			return Range{}, fmt.Errorf("%w: %q: %w", domain.ErrInvalidPeriod, p, err)
		}
		if t.After(today) {
			return Range{}, fmt.Errorf("%w: %q is in the future", domain.ErrInvalidPeriod, p)
		}
		bounds[i] = t
	}

	// start after end is passed through; the store simply matches nothing
	return Range{start: bounds[0], end: bounds[1]}, nil
}

func truncate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
