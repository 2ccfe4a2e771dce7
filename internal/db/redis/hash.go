package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/searchapi/internal/db"
)

// HSet sets hash fields.
func (s *Store) HSet(ctx context.Context, key string, fields map[string]string) error {
	if err := s.do(ctx, hsetCmd(s.b(), key, fields)).Error(); err != nil {
		return wrapErr(db.OpHSet, err)
	}
	return nil
}

// HSetMulti stores multiple hashes in a single DoMulti round-trip.
func (s *Store) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if len(items) == 0 {
		return nil
	}

	cmds := make([]rueidis.Completed, len(items))
	for i, item := range items {
		cmds[i] = hsetCmd(s.b(), item.Key, item.Fields)
	}

	results := s.client.DoMulti(ctx, cmds...)
	for i, res := range results {
		if err := res.Error(); err != nil {
			return fmt.Errorf("key %s: %w", items[i].Key, wrapErr(db.OpHSet, err))
		}
	}
	return nil
}

func hsetCmd(b rueidis.Builder, key string, fields map[string]string) rueidis.Completed {
	cmd := b.Hset().Key(key).FieldValue()
	for k, v := range fields {
		cmd = cmd.FieldValue(k, v)
	}
	return cmd.Build()
}
