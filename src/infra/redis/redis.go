package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const generationKey = "cache:generation"

// RedisClient is the entity cache store. Values expire after ttl and are
// indexed by registry sets so every lookup that returned an entity can be
// found again on invalidation.
type RedisClient struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisClient connects to a single node, or to a cluster when addrs lists
// more than one host.
func NewRedisClient(addrs string, poolSize int, ttl time.Duration) *RedisClient {
	return &RedisClient{
		client: redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:           strings.Split(addrs, ","),
			PoolSize:        poolSize,
			MinIdleConns:    poolSize / 4,
			MaxRedirects:    3,
			DialTimeout:     5 * time.Second,
			ReadTimeout:     time.Second,
			WriteTimeout:    time.Second,
			MaxRetries:      3,
			MinRetryBackoff: 50 * time.Millisecond,
			MaxRetryBackoff: 500 * time.Millisecond,
		}),
		ttl: ttl,
	}
}

// CacheWithRegistry stores value under key and adds key to each registry.
func (rc *RedisClient) CacheWithRegistry(ctx context.Context, key string, value []byte, registries ...string) error {
	_, err := rc.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, value, rc.ttl)
		for _, registry := range registries {
			pipe.SAdd(ctx, registry, key)
			pipe.Expire(ctx, registry, rc.ttl)
		}
		return nil
	})
	return err
}

// GetMany returns the values found among keys; misses are left out. Keys
// are fetched in one pipeline rather than MGET since they may hash to
// different cluster slots.
func (rc *RedisClient) GetMany(ctx context.Context, keys []string) (map[string][]byte, error) {
	commands := make([]*redis.StringCmd, len(keys))
	_, err := rc.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, key := range keys {
			commands[i] = pipe.Get(ctx, key)
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	found := make(map[string][]byte, len(keys))
	for i, cmd := range commands {
		if value, err := cmd.Bytes(); err == nil {
			found[keys[i]] = value
		}
	}
	return found, nil
}

// Members returns the members of each registry set.
func (rc *RedisClient) Members(ctx context.Context, registries []string) (map[string][]string, error) {
	commands := make([]*redis.StringSliceCmd, len(registries))
	_, err := rc.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, registry := range registries {
			commands[i] = pipe.SMembers(ctx, registry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	members := make(map[string][]string, len(registries))
	for i, cmd := range commands {
		members[registries[i]] = cmd.Val()
	}
	return members, nil
}

// Delete removes keys one command at a time so cluster slots never mix.
func (rc *RedisClient) Delete(ctx context.Context, keys []string) error {
	var errs []error
	for _, key := range keys {
		if err := rc.client.Del(ctx, key).Err(); err != nil {
			errs = append(errs, fmt.Errorf("key %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// Generation reads the invalidation counter, zero when it was never bumped.
func (rc *RedisClient) Generation(ctx context.Context) (int64, error) {
	generation, err := rc.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return generation, err
}

// BumpGeneration advances the invalidation counter. The counter has no
// expiry so it never moves backwards.
func (rc *RedisClient) BumpGeneration(ctx context.Context) error {
	return rc.client.Incr(ctx, generationKey).Err()
}

func (rc *RedisClient) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

func (rc *RedisClient) Close() error {
	return rc.client.Close()
}
