package period

import (
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/searchapi/internal/domain"
)

var now = time.Date(2024, 6, 10, 15, 30, 0, 0, time.UTC)

func TestResolve_Relative(t *testing.T) {
	tests := []struct {
		raw       string
		wantStart string
	}{
		{"day", "2024.06.09"},
		{"week", "2024.06.03"},
		{"WEEK", "2024.06.03"},
		{"month", "2024.05.10"},
		{"Year", "2023.06.10"},
	}
	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			r, err := Resolve(tc.raw, now, SearchPolicy)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !r.Active() {
				t.Fatal("expected active range")
			}
			if r.StartString() != tc.wantStart {
				t.Errorf("start = %s, want %s", r.StartString(), tc.wantStart)
			}
			if r.EndString() != "2024.06.10" {
				t.Errorf("end = %s, want 2024.06.10", r.EndString())
			}
		})
	}
}

func TestResolve_All(t *testing.T) {
	for _, raw := range []string{"all", "ALL", "All", " all "} {
		r, err := Resolve(raw, now, SearchPolicy)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", raw, err)
		}
		if r.Active() {
			t.Errorf("Resolve(%q) should disable the filter, got %s", raw, r)
		}
	}
}

func TestResolve_ExplicitRange(t *testing.T) {
	r, err := Resolve("2024.01.01~2024.01.31", now, SearchPolicy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.StartString() != "2024.01.01" || r.EndString() != "2024.01.31" {
		t.Errorf("range = %s", r)
	}

	later := now.AddDate(0, 3, 0)
	r2, err := Resolve("2024.01.01~2024.01.31", later, SearchPolicy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r2 != r {
		t.Errorf("explicit range depends on now: %s vs %s", r, r2)
	}
}

func TestResolve_ExplicitRangeWithSpaces(t *testing.T) {
	r, err := Resolve("2024.01.01 ~ 2024.01.31", now, RangeOnlyPolicy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.String() != "2024.01.01~2024.01.31" {
		t.Errorf("range = %s", r)
	}
}

func TestResolve_EndBeforeStartPassesThrough(t *testing.T) {
	r, err := Resolve("2024.02.01~2024.01.01", now, SearchPolicy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.End().Before(r.Start()) {
		t.Errorf("expected inverted range to be kept, got %s", r)
	}
}

func TestResolve_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"unknown keyword", "fortnight"},
		{"bad date", "2024-01-01~2024-01-31"},
		{"short year", "24.01.01~24.01.31"},
		{"three parts", "2024.01.01~2024.01.02~2024.01.03"},
		{"impossible date", "2024.02.30~2024.03.01"},
		{"future start", "2024.06.11~2024.06.12"},
		{"future end", "2024.06.01~2024.07.01"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Resolve(tc.raw, now, SearchPolicy)
			if !errors.Is(err, domain.ErrInvalidPeriod) {
				t.Errorf("Resolve(%q) err = %v, want ErrInvalidPeriod", tc.raw, err)
			}
		})
	}
}

func TestResolve_TodayIsNotFuture(t *testing.T) {
	if _, err := Resolve("2024.06.10~2024.06.10", now, SearchPolicy); err != nil {
		t.Fatalf("today should be accepted: %v", err)
	}
}

func TestResolve_EmptyPolicy(t *testing.T) {
	r, err := Resolve("", now, SearchPolicy)
	if err != nil || r.Active() {
		t.Fatalf("empty under SearchPolicy: r=%s err=%v", r, err)
	}

	_, err = Resolve("", now, Policy{AllowRelative: true})
	if !errors.Is(err, domain.ErrInvalidPeriod) {
		t.Errorf("empty under strict policy: err = %v", err)
	}
}

func TestResolve_RangeOnlyRejectsRelative(t *testing.T) {
	_, err := Resolve("week", now, RangeOnlyPolicy)
	if !errors.Is(err, domain.ErrInvalidPeriod) {
		t.Errorf("err = %v, want ErrInvalidPeriod", err)
	}
}

func TestParseKeyword(t *testing.T) {
	if k, ok := ParseKeyword("Month"); !ok || k != Month {
		t.Errorf("ParseKeyword(Month) = %q, %v", k, ok)
	}
	if _, ok := ParseKeyword("decade"); ok {
		t.Error("ParseKeyword(decade) should fail")
	}
	if All.IsRelative() {
		t.Error("all must not be relative")
	}
}
