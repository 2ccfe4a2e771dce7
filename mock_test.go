package searchapi

import (
	"context"

	"github.com/kailas-cloud/searchapi/internal/domain/search/criteria"
	"github.com/kailas-cloud/searchapi/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/searchapi/internal/usecase/health"
)

type mockSearchUC struct {
	searchFn func(ctx context.Context, c criteria.Criteria) ([]result.Document, error)
}

func (m *mockSearchUC) Search(ctx context.Context, c criteria.Criteria) ([]result.Document, error) {
	return m.searchFn(ctx, c)
}

type mockSuggestUC struct {
	suggestFn func(ctx context.Context, keyword, option string) ([]result.Suggestion, error)
}

func (m *mockSuggestUC) Suggest(ctx context.Context, keyword, option string) ([]result.Suggestion, error) {
	return m.suggestFn(ctx, keyword, option)
}

type mockTopUC struct {
	topFn func(ctx context.Context, period string, n int) ([]result.Bucket, error)
}

func (m *mockTopUC) Top(ctx context.Context, period string, n int) ([]result.Bucket, error) {
	return m.topFn(ctx, period, n)
}

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }
