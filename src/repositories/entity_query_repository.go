package repositories

import (
	"context"
	"fmt"

	"domaintracker/src/domain/entities"
)

type EntityQueryRepository struct {
	db Querier
}

func NewEntityQueryRepository(db Querier) *EntityQueryRepository {
	return &EntityQueryRepository{db: db}
}

// FindByIDs returns the entities of one collection matching ids. Order is
// not guaranteed and missing ids are simply absent.
func (r *EntityQueryRepository) FindByIDs(ctx context.Context, entityType string, ids []int64) ([]entities.Entity, error) {
	query := `
		SELECT
			id,
			type,
			reference,
			properties,
			created_at,
			updated_at
		FROM
			entities
		WHERE
			type = $1 AND id = ANY($2)`

	return r.queryEntities(ctx, "FindByIDs", query, entityType, ids)
}

// FindByReferences looks entities up by business reference (e.g. guidance
// tag ids).
func (r *EntityQueryRepository) FindByReferences(ctx context.Context, entityType string, references []string) ([]entities.Entity, error) {
	query := `
		SELECT
			id,
			type,
			reference,
			properties,
			created_at,
			updated_at
		FROM
			entities
		WHERE
			type = $1 AND reference = ANY($2)`

	return r.queryEntities(ctx, "FindByReferences", query, entityType, references)
}

func (r *EntityQueryRepository) queryEntities(ctx context.Context, method string, query string, args ...any) ([]entities.Entity, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("EntityQueryRepository.%s - query failed: %w", method, err)
	}
	defer rows.Close()

	var result []entities.Entity
	for rows.Next() {
		var entity entities.Entity
		if err := rows.Scan(&entity.ID, &entity.Type, &entity.Reference, &entity.Properties, &entity.CreatedAt, &entity.UpdatedAt); err != nil {
			return nil, fmt.Errorf("EntityQueryRepository.%s - failed to scan entity: %w: %w", method, ErrCursor, err)
		}
		result = append(result, entity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("EntityQueryRepository.%s - error iterating rows: %w: %w", method, ErrCursor, err)
	}

	return result, nil
}
