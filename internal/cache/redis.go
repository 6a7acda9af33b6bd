package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "view:"
	genPrefix = "view-gen:"
)

var _ ViewCache = (*RedisViewCache)(nil)

// RedisViewCache keeps rendered views in Redis so every server instance sees
// the same invalidations.
type RedisViewCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisViewCache returns a cache whose entries expire after ttl.
func NewRedisViewCache(rdb *redis.Client, ttl time.Duration) *RedisViewCache {
	return &RedisViewCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached view for path.
func (c *RedisViewCache) Get(ctx context.Context, path string) ([]byte, bool, error) {
	b, err := c.rdb.Get(ctx, keyPrefix+path).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Generation returns the current generation of path. A path that was never
// revalidated is at generation zero.
func (c *RedisViewCache) Generation(ctx context.Context, path string) (int64, error) {
	return generation(ctx, c.rdb, path)
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func generation(ctx context.Context, g getter, path string) (int64, error) {
	gen, err := g.Get(ctx, genPrefix+path).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Set stores the view for path unless path moved past gen. The generation
// key is watched so a Revalidate racing the write aborts it.
func (c *RedisViewCache) Set(ctx context.Context, path string, gen int64, view []byte) error {
	err := c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := generation(ctx, tx, path)
		if err != nil {
			return err
		}
		if cur != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, keyPrefix+path, view, c.ttl)
			return nil
		})
		return err
	}, genPrefix+path)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

// Revalidate drops the view for path and advances its generation in one
// transaction.
func (c *RedisViewCache) Revalidate(ctx context.Context, path string) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genPrefix+path)
		pipe.Del(ctx, keyPrefix+path)
		return nil
	})
	return err
}
