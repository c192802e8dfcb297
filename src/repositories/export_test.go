package repositories

import "log/slog"

func NewCachedEntityRepositoryWithCache(logger *slog.Logger, entityQueryRepository *EntityQueryRepository, cache entityCache) *CachedEntityRepository {
	return &CachedEntityRepository{logger: logger, entityQueryRepository: entityQueryRepository, cache: cache}
}
