package autocomplete

import (
	"context"

	"github.com/kailas-cloud/searchapi/internal/domain/search/plan"
	"github.com/kailas-cloud/searchapi/internal/domain/search/result"
)

// Repository runs plans against the autocomplete index.
type Repository interface {
	Search(ctx context.Context, p plan.Plan) ([]result.Hit, error)
}
