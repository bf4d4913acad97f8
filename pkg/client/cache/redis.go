package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RedisStore mirrors client state into Redis, for shells that share a cache
// across devices or restarts. Entries never expire unless TTL is set.
type RedisStore struct {
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
	log    *slog.Logger
}

func NewRedisStore(rdb *goredis.Client, prefix string, ttl time.Duration, logger *slog.Logger) *RedisStore {
	if logger == nil {
		logger = slog.Default()
	}
	if prefix == "" {
		prefix = "propconnect:cache:"
	}
	return &RedisStore{rdb: rdb, prefix: prefix, ttl: ttl, log: logger}
}

func (s *RedisStore) Get(ctx context.Context, key string, v any) (bool, error) {
	raw, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("read cache entry %s: %w", key, err)
	}
	if err := unmarshalJSON(raw, v); err != nil {
		s.log.Warn("corrupt cache entry ignored", "key", key, "err", err)
		return false, nil
	}
	return true, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, v any) error {
	raw, err := marshalJSON(v)
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}
	if err := s.rdb.Set(ctx, s.prefix+key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("write cache entry %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("delete cache entry %s: %w", key, err)
	}
	return nil
}
