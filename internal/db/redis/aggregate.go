package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/searchapi/internal/db"
	"github.com/kailas-cloud/searchapi/internal/domain/search/period"
)

const countAlias = "count"

// Aggregate groups documents by q.GroupBy and returns groups ordered by count descending.
func (s *Store) Aggregate(ctx context.Context, q *db.AggregateQuery) ([]db.AggregateRow, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if !isFieldName(q.GroupBy) {
		return nil, fmt.Errorf("%w: group field %q", db.ErrInvalidPlan, q.GroupBy)
	}
	if q.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	query := "*"
	if q.DateFilter != nil {
		f, err := compileDateFilter(*q.DateFilter)
		if err != nil {
			return nil, err
		}
		query = f
	}

	args := []string{
		q.IndexName, query,
		"GROUPBY", "1", "@" + q.GroupBy,
		"REDUCE", "COUNT", "0", "AS", countAlias,
		"SORTBY", "2", "@" + countAlias, "DESC",
		"LIMIT", "0", strconv.Itoa(q.Limit),
		"DIALECT", "2",
	}

	cmd := s.b().Arbitrary("FT.AGGREGATE").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, wrapErr(db.OpAggregate, err)
	}

	return parseAggregateRows(raw, q.GroupBy), nil
}

// parseAggregateRows reads [n, [k1, v1, ...], [k1, v1, ...], ...].
func parseAggregateRows(raw []rueidis.RedisMessage, groupBy string) []db.AggregateRow {
	if len(raw) <= 1 {
		return nil
	}

	rows := make([]db.AggregateRow, 0, len(raw)-1)
	for _, msg := range raw[1:] {
		pairs, err := msg.ToArray()
		if err != nil {
			continue
		}
		var row db.AggregateRow
		var hasKey bool
		for _, f := range parseFieldPairs(pairs) {
			switch f.Name {
			case groupBy:
				row.Key = f.Value
				hasKey = true
			case countAlias:
				n, err := strconv.ParseInt(f.Value, 10, 64)
				if err == nil {
					row.Count = n
				}
			}
		}
		if hasKey {
			rows = append(rows, row)
		}
	}
	return rows
}

// dateBound converts a formatted date into its yyyymmdd numeric form;
// empty yields the open bound.
func dateBound(v, format, open string) (string, error) {
	if v == "" {
		return open, nil
	}
	if format != "" && format != period.Format {
		return "", fmt.Errorf("%w: unsupported date format %q", db.ErrInvalidPlan, format)
	}
	t, err := time.Parse(period.Layout, v)
	if err != nil {
		return "", fmt.Errorf("%w: date %q: %w", db.ErrInvalidPlan, v, err)
	}
	return db.NumericDate(t), nil
}
