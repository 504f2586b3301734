package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/karajelley/lab-toy-factory/internal/toy"
	"github.com/karajelley/lab-toy-factory/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

// ErrStale is returned by SetList when the cache was invalidated after the
// caller read the generation.
var ErrStale = errors.New("toy list cache generation changed")

// ListCache caches the full toy listing. A miss is (nil, false, nil).
//
// Every Invalidate bumps a generation counter. Readers take Generation before
// loading the list from the store and hand it back to SetList, which stores
// nothing if a write has invalidated the cache in between.
type ListCache interface {
	GetList(ctx context.Context) ([]*toy.Toy, bool, error)
	Generation(ctx context.Context) (int64, error)
	SetList(ctx context.Context, gen int64, toys []*toy.Toy) error
	Invalidate(ctx context.Context) error
}

// RedisCache stores the listing as one JSON value under "<prefix>list" with a
// TTL, and its generation as a counter under "<prefix>gen".
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed list cache. Prefix may be empty.
func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	if prefix == "" {
		prefix = "toys:"
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisCache) key() string {
	return r.prefix + "list"
}

func (r *RedisCache) genKey() string {
	return r.prefix + "gen"
}

func (r *RedisCache) GetList(ctx context.Context) ([]*toy.Toy, bool, error) {
	b, err := r.client.Get(ctx, r.key()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CacheLookups.WithLabelValues("miss").Inc()
			return nil, false, nil
		}
		metrics.CacheLookups.WithLabelValues("error").Inc()
		return nil, false, err
	}
	var toys []*toy.Toy
	if err := json.Unmarshal(b, &toys); err != nil {
		// unreadable entry: drop it and report a miss
		_ = r.client.Del(ctx, r.key()).Err()
		metrics.CacheLookups.WithLabelValues("error").Inc()
		return nil, false, err
	}
	if toys == nil {
		toys = []*toy.Toy{}
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return toys, true, nil
}

// Generation returns the current invalidation count, 0 before the first write.
func (r *RedisCache) Generation(ctx context.Context) (int64, error) {
	gen, err := r.client.Get(ctx, r.genKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// SetList stores toys if the generation is still gen. The check and the write
// run in one WATCH/MULTI transaction on the generation key.
func (r *RedisCache) SetList(ctx context.Context, gen int64, toys []*toy.Toy) error {
	b, err := json.Marshal(toys)
	if err != nil {
		return err
	}
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, r.genKey()).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return ErrStale
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.key(), b, r.ttl)
			return nil
		})
		return err
	}, r.genKey())
	if errors.Is(err, redis.TxFailedErr) {
		return ErrStale
	}
	return err
}

// Invalidate bumps the generation and drops the cached listing.
func (r *RedisCache) Invalidate(ctx context.Context) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, r.genKey())
		pipe.Del(ctx, r.key())
		return nil
	})
	return err
}
