package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"domaintracker/src/domain/entities"
	"domaintracker/src/infra/metrics"
	"domaintracker/src/infra/redis"
)

// entityCache is what the repository needs from redis.RedisClient.
type entityCache interface {
	CacheWithRegistry(ctx context.Context, key string, value []byte, registries ...string) error
	GetMany(ctx context.Context, keys []string) (map[string][]byte, error)
	Members(ctx context.Context, registries []string) (map[string][]string, error)
	Delete(ctx context.Context, keys []string) error
	Generation(ctx context.Context) (int64, error)
	BumpGeneration(ctx context.Context) error
}

// CachedEntityRepository serves by-key lookups from redis and falls back to
// Postgres for misses. A nil redis client disables caching.
//
// Every invalidation bumps a shared generation counter before it reads the
// registries. A fill whose Postgres read started under an older generation
// removes what it wrote, since the invalidation may have missed it.
type CachedEntityRepository struct {
	logger                *slog.Logger
	entityQueryRepository *EntityQueryRepository
	cache                 entityCache
}

func NewCachedEntityRepository(
	logger *slog.Logger,
	entityQueryRepository *EntityQueryRepository,
	redisClient *redis.RedisClient,
) *CachedEntityRepository {
	repository := &CachedEntityRepository{
		logger:                logger,
		entityQueryRepository: entityQueryRepository,
	}
	if redisClient != nil {
		repository.cache = redisClient
	}
	return repository
}

func (r *CachedEntityRepository) FindByIDs(ctx context.Context, entityType string, ids []int64) ([]entities.Entity, error) {
	if r.cache == nil {
		return r.entityQueryRepository.FindByIDs(ctx, entityType, ids)
	}

	cacheKeys := make([]string, len(ids))
	for i, id := range ids {
		cacheKeys[i] = entityCacheKey(entityType, id)
	}

	generation, fillable := r.generation(ctx)
	cached := r.getFromCache(ctx, entityType, cacheKeys)

	result := make([]entities.Entity, 0, len(ids))
	missing := make([]int64, 0, len(ids))
	for i, id := range ids {
		if entity, ok := cached[cacheKeys[i]]; ok {
			result = append(result, entity)
			continue
		}
		missing = append(missing, id)
	}

	metrics.CacheRequests.WithLabelValues(entityType, "hit").Add(float64(len(result)))
	metrics.CacheRequests.WithLabelValues(entityType, "miss").Add(float64(len(missing)))

	if len(missing) == 0 {
		return result, nil
	}

	loaded, err := r.entityQueryRepository.FindByIDs(ctx, entityType, missing)
	if err != nil {
		return nil, fmt.Errorf("CachedEntityRepository.FindByIDs - postgres query failed: %w", err)
	}

	if fillable {
		r.setInCacheAsync(generation, loaded, func(e entities.Entity) string { return entityCacheKey(e.Type, e.ID) })
	}

	return append(result, loaded...), nil
}

func (r *CachedEntityRepository) FindByReferences(ctx context.Context, entityType string, references []string) ([]entities.Entity, error) {
	if r.cache == nil {
		return r.entityQueryRepository.FindByReferences(ctx, entityType, references)
	}

	cacheKeys := make([]string, len(references))
	for i, reference := range references {
		cacheKeys[i] = referenceCacheKey(entityType, reference)
	}

	generation, fillable := r.generation(ctx)
	cached := r.getFromCache(ctx, entityType, cacheKeys)

	result := make([]entities.Entity, 0, len(references))
	missing := make([]string, 0, len(references))
	for i, reference := range references {
		if entity, ok := cached[cacheKeys[i]]; ok {
			result = append(result, entity)
			continue
		}
		missing = append(missing, reference)
	}

	metrics.CacheRequests.WithLabelValues(entityType, "hit").Add(float64(len(result)))
	metrics.CacheRequests.WithLabelValues(entityType, "miss").Add(float64(len(missing)))

	if len(missing) == 0 {
		return result, nil
	}

	loaded, err := r.entityQueryRepository.FindByReferences(ctx, entityType, missing)
	if err != nil {
		return nil, fmt.Errorf("CachedEntityRepository.FindByReferences - postgres query failed: %w", err)
	}

	if fillable {
		r.setInCacheAsync(generation, loaded, func(e entities.Entity) string { return referenceCacheKey(e.Type, e.Reference) })
	}

	return append(result, loaded...), nil
}

// InvalidateByEntityIDs drops every cached lookup that returned one of the
// given entities.
func (r *CachedEntityRepository) InvalidateByEntityIDs(ctx context.Context, entityIDs []int64) error {
	if r.cache == nil || len(entityIDs) == 0 {
		return nil
	}

	if err := r.cache.BumpGeneration(ctx); err != nil {
		return fmt.Errorf("CachedEntityRepository.InvalidateByEntityIDs - failed to bump generation: %w", err)
	}

	registryKeys := make([]string, len(entityIDs))
	for i, entityID := range entityIDs {
		registryKeys[i] = registryKey(entityID)
	}

	registryResults, err := r.cache.Members(ctx, registryKeys)
	if err != nil {
		return fmt.Errorf("CachedEntityRepository.InvalidateByEntityIDs - failed to get registry data: %w", err)
	}

	allKeysToDelete := make(map[string]bool)
	for registry, relatedKeys := range registryResults {
		allKeysToDelete[registry] = true
		for _, relatedKey := range relatedKeys {
			allKeysToDelete[relatedKey] = true
		}
	}

	keysToDelete := make([]string, 0, len(allKeysToDelete))
	for key := range allKeysToDelete {
		keysToDelete = append(keysToDelete, key)
	}

	if len(keysToDelete) == 0 {
		return nil
	}

	r.logger.Debug("Invalidating cache keys", "keys", len(keysToDelete), "entities", len(entityIDs))
	return r.cache.Delete(ctx, keysToDelete)
}

func (r *CachedEntityRepository) getFromCache(ctx context.Context, entityType string, cacheKeys []string) map[string]entities.Entity {
	raw, err := r.cache.GetMany(ctx, cacheKeys)
	if err != nil {
		// cache errors never fail the lookup
		metrics.CacheRequests.WithLabelValues(entityType, "error").Inc()
		r.logger.Warn("Cache error", "collection", entityType, "error", err)
		return nil
	}

	result := make(map[string]entities.Entity, len(raw))
	for key, value := range raw {
		var entity entities.Entity
		if err := json.Unmarshal(value, &entity); err != nil {
			r.logger.Warn("Failed to unmarshal cached entity", "key", key, "error", err)
			continue
		}
		result[key] = entity
	}

	return result
}

// generation reports the counter a later fill is checked against. Without
// it the fill is skipped.
func (r *CachedEntityRepository) generation(ctx context.Context) (int64, bool) {
	generation, err := r.cache.Generation(ctx)
	if err != nil {
		r.logger.Warn("Failed to read cache generation", "error", err)
		return 0, false
	}
	return generation, true
}

func (r *CachedEntityRepository) setInCacheAsync(generation int64, loaded []entities.Entity, cacheKey func(entities.Entity) string) {
	if len(loaded) == 0 {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		written := make([]string, 0, len(loaded))
		for _, entity := range loaded {
			value, err := json.Marshal(entity)
			if err != nil {
				r.logger.Warn("Failed to marshal entity for cache", "id", entity.ID, "error", err)
				continue
			}

			key := cacheKey(entity)
			if err := r.cache.CacheWithRegistry(ctx, key, value, registryKey(entity.ID)); err != nil {
				r.logger.Warn("Failed to set cache with registry", "key", key, "error", err)
				continue
			}
			written = append(written, key)
		}

		if len(written) == 0 {
			return
		}

		current, err := r.cache.Generation(ctx)
		if err == nil && current == generation {
			return
		}

		r.logger.Debug("Dropping cache fill raced by an invalidation", "keys", len(written), "generation", generation)
		if err := r.cache.Delete(ctx, written); err != nil {
			r.logger.Warn("Failed to drop raced cache fill", "keys", len(written), "error", err)
		}
	}()
}

func entityCacheKey(entityType string, id int64) string {
	return fmt.Sprintf("entity:%s:%d", entityType, id)
}

func referenceCacheKey(entityType string, reference string) string {
	return fmt.Sprintf("entity:%s:ref:%s", entityType, reference)
}

func registryKey(entityID int64) string {
	return fmt.Sprintf("registry:entity:%d", entityID)
}
