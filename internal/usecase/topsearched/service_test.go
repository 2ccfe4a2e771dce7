package topsearched

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/searchapi/internal/domain"
	"github.com/kailas-cloud/searchapi/internal/domain/search/period"
	"github.com/kailas-cloud/searchapi/internal/domain/search/result"
)

type mockRepo struct {
	recorded    []string
	recDeadline bool
	recErr      error
	buckets     []result.Bucket
	err         error
	rng         period.Range
	n           int
	calls       int
}

func (m *mockRepo) Top(_ context.Context, rng period.Range, n int) ([]result.Bucket, error) {
	m.calls++
	m.rng, m.n = rng, n
	return m.buckets, m.err
}

func (m *mockRepo) Record(ctx context.Context, terms []string, _ time.Time) error {
	_, m.recDeadline = ctx.Deadline()
	m.recorded = append(m.recorded, terms...)
	return m.recErr
}

var today = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

func newSvc(repo Repository) *Service {
	return New(repo, time.Second).WithClock(func() time.Time { return today })
}

func TestTop_AllTime(t *testing.T) {
	for _, p := range []string{"", "all", " ALL "} {
		repo := &mockRepo{buckets: []result.Bucket{{Key: "go", Count: 5}}}
		got, err := newSvc(repo).Top(context.Background(), p, 3)
		if err != nil {
			t.Fatalf("period %q: %v", p, err)
		}
		if repo.rng.Active() {
			t.Errorf("period %q: expected inactive range", p)
		}
		if repo.n != 3 || len(got) != 1 || got[0].Key != "go" {
			t.Errorf("period %q: n=%d got=%v", p, repo.n, got)
		}
	}
}

func TestTop_ExplicitRange(t *testing.T) {
	repo := &mockRepo{}
	if _, err := newSvc(repo).Top(context.Background(), "2024.03.01~2024.03.15", 5); err != nil {
		t.Fatalf("Top: %v", err)
	}
	if repo.rng.String() != "2024.03.01~2024.03.15" {
		t.Errorf("range = %s", repo.rng)
	}
}

func TestTop_DefaultN(t *testing.T) {
	for _, n := range []int{0, -4} {
		repo := &mockRepo{}
		if _, err := newSvc(repo).Top(context.Background(), "all", n); err != nil {
			t.Fatal(err)
		}
		if repo.n != DefaultN {
			t.Errorf("n=%d: repo got %d, want %d", n, repo.n, DefaultN)
		}
	}
}

func TestTop_InvalidPeriods(t *testing.T) {
	tests := []struct {
		name   string
		period string
	}{
		{"relative keyword", "week"},
		{"future end", "2024.03.01~2024.03.16"},
		{"reversed", "2024.03.10~2024.03.01"},
		{"malformed", "2024-03-01~2024-03-02"},
		{"garbage", "lately"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockRepo{}
			_, err := newSvc(repo).Top(context.Background(), tc.period, 10)
			if !errors.Is(err, domain.ErrInvalidPeriod) {
				t.Fatalf("err = %v, want ErrInvalidPeriod", err)
			}
			if repo.calls != 0 {
				t.Error("store must not be queried")
			}
		})
	}
}

func TestTop_StoreError(t *testing.T) {
	repo := &mockRepo{err: domain.ErrStoreUnavailable}
	if _, err := newSvc(repo).Top(context.Background(), "", 10); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("err = %v", err)
	}
}

func TestRecord(t *testing.T) {
	repo := &mockRepo{}
	svc := newSvc(repo)
	if err := svc.Record(context.Background(), []string{"go", "rust"}, today); err != nil {
		t.Fatal(err)
	}
	if err := svc.Record(context.Background(), nil, today); err != nil {
		t.Fatal(err)
	}
	if len(repo.recorded) != 2 {
		t.Errorf("recorded = %v", repo.recorded)
	}
	if !repo.recDeadline {
		t.Error("record should run under the service timeout")
	}

	repo.recErr = domain.ErrStoreUnavailable
	if err := svc.Record(context.Background(), []string{"go"}, today); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Errorf("err = %v", err)
	}
}
