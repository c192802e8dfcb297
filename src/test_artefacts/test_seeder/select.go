package test_seeder

import (
	"context"

	"github.com/jackc/pgx/v5"

	"domaintracker/src/domain/entities"
)

func (ts TestSeeder) SelectEntitiesByType(ctx context.Context, entityType string) ([]entities.Entity, error) {
	rows, err := ts.pool.Query(ctx, `
		SELECT id, type, reference, properties, created_at, updated_at
		FROM entities
		WHERE type = $1
		ORDER BY id`, entityType)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[entities.Entity])
}

// SelectEdgesByRelationship returns every edge of one collection in id order.
func (ts TestSeeder) SelectEdgesByRelationship(ctx context.Context, relationship string) ([]entities.Edge, error) {
	rows, err := ts.pool.Query(ctx, `
		SELECT id, left_entity_id, right_entity_id, relationship_type, metadata, created_at, updated_at
		FROM edges
		WHERE relationship_type = $1
		ORDER BY id`, relationship)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[entities.Edge])
}
