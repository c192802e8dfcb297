package loaders

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"domaintracker/src/domain"
	"domaintracker/src/domain/entities"
	"domaintracker/src/helper/i18n"
	"domaintracker/src/repositories"
	"domaintracker/src/services/connection"

	"github.com/graph-gophers/dataloader/v7"
)

const (
	batchWait     = 2 * time.Millisecond
	batchCapacity = 100
)

type EntityFinder interface {
	FindByIDs(ctx context.Context, entityType string, ids []int64) ([]entities.Entity, error)
	FindByReferences(ctx context.Context, entityType string, references []string) ([]entities.Entity, error)
}

// Batch holds the by-key loaders of one request. Keys requested while a
// batch is open are deduplicated and fetched with a single query.
type Batch struct {
	Users         *dataloader.Loader[string, entities.User]
	Organizations *dataloader.Loader[string, entities.Organization]
	Domains       *dataloader.Loader[string, entities.Domain]
	// DomainsByName is keyed by normalized hostname.
	DomainsByName *dataloader.Loader[string, entities.Domain]
}

// lookup describes one by-key loader. canonical rewrites a requested key
// into the form keyOf produces.
type lookup struct {
	loader     string
	collection string
	noun       string
	find       func(ctx context.Context, keys []string) ([]entities.Entity, error)
	keyOf      func(entities.Entity) string
	canonical  func(string) string
}

func (s *Service) byID(loader, collection, noun string) lookup {
	return lookup{
		loader:     loader,
		collection: collection,
		noun:       noun,
		find: func(ctx context.Context, keys []string) ([]entities.Entity, error) {
			ids := make([]int64, len(keys))
			for i, key := range keys {
				ids[i] = entities.ParseKey(key)
			}
			return s.entityFinder.FindByIDs(ctx, collection, ids)
		},
		keyOf:     entities.Entity.Key,
		canonical: func(key string) string {
			return strconv.FormatInt(entities.ParseKey(key), 10)
		},
	}
}

func (s *Service) byReference(loader, collection, noun string) lookup {
	return lookup{
		loader:     loader,
		collection: collection,
		noun:       noun,
		find: func(ctx context.Context, keys []string) ([]entities.Entity, error) {
			return s.entityFinder.FindByReferences(ctx, collection, keys)
		},
		keyOf:     func(e entities.Entity) string { return e.Reference },
		canonical: func(key string) string { return key },
	}
}

// NewBatch must be called once per request: results are cached for the
// lifetime of the returned loaders.
func (s *Service) NewBatch() *Batch {
	return &Batch{
		Users:         newByKeyLoader(s.logger, s.byID("loadUserByKey", domain.CollectionUsers, i18n.NounUsers), entities.UserFromEntity),
		Organizations: newByKeyLoader(s.logger, s.byID("loadOrgByKey", domain.CollectionOrganizations, i18n.NounOrganizations), entities.OrganizationFromEntity),
		Domains:       newByKeyLoader(s.logger, s.byID("loadDomainByKey", domain.CollectionDomains, i18n.NounDomains), entities.DomainFromEntity),
		DomainsByName: newByKeyLoader(s.logger, s.byReference("loadDomainByDomain", domain.CollectionDomains, i18n.NounDomains), entities.DomainFromEntity),
	}
}

func newByKeyLoader[T any](logger *slog.Logger, l lookup, mapEntity func(entities.Entity) (T, error)) *dataloader.Loader[string, T] {
	batchFn := func(ctx context.Context, keys []string) []*dataloader.Result[T] {
		results := make([]*dataloader.Result[T], len(keys))

		found, err := l.find(ctx, keys)
		if err != nil {
			loadErr := connection.Failure(ctx, logger, l.loader, l.noun, err)
			for i := range results {
				results[i] = &dataloader.Result[T]{Error: loadErr}
			}
			return results
		}

		byKey := make(map[string]entities.Entity, len(found))
		for _, entity := range found {
			byKey[l.keyOf(entity)] = entity
		}

		for i, key := range keys {
			entity, ok := byKey[l.canonical(key)]
			if !ok {
				results[i] = &dataloader.Result[T]{Error: fmt.Errorf("%s %s: %w", l.collection, key, domain.ErrEntityNotFound)}
				continue
			}

			node, err := mapEntity(entity)
			if err != nil {
				mapErr := fmt.Errorf("%s %s: %w: %w", l.collection, key, repositories.ErrCursor, err)
				results[i] = &dataloader.Result[T]{Error: connection.Failure(ctx, logger, l.loader, l.noun, mapErr)}
				continue
			}
			results[i] = &dataloader.Result[T]{Data: node}
		}

		return results
	}

	return dataloader.NewBatchedLoader(batchFn,
		dataloader.WithWait[string, T](batchWait),
		dataloader.WithBatchCapacity[string, T](batchCapacity),
	)
}
