package search

import (
	"context"
	"time"

	"github.com/kailas-cloud/searchapi/internal/domain/search/plan"
	"github.com/kailas-cloud/searchapi/internal/domain/search/result"
)

// Repository runs query plans against the document index.
type Repository interface {
	Search(ctx context.Context, p plan.Plan) ([]result.Hit, error)
}

// ForbiddenChecker screens raw keywords against the banned-word list.
type ForbiddenChecker interface {
	IsForbidden(keyword string) bool
}

// PopularityRecorder logs searched terms for the top-searched ranking.
type PopularityRecorder interface {
	Record(ctx context.Context, terms []string, at time.Time) error
}
