package test_seeder

import (
	"context"
	"fmt"

	"domaintracker/src/domain/entities"
)

const (
	insertEntitySQL = `INSERT INTO entities (type, reference, properties, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`
	insertEdgeSQL = `INSERT INTO edges (left_entity_id, right_entity_id, relationship_type, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, COALESCE($4::jsonb, '{}'), $5, $6) RETURNING id`
)

// InsertEntity stores each entity and writes the generated id back.
func (ts TestSeeder) InsertEntity(ctx context.Context, all ...*entities.Entity) {
	for _, e := range all {
		e.ID = ts.returningID(ctx, "InsertEntity", insertEntitySQL,
			e.Type, e.Reference, e.Properties, e.CreatedAt, e.UpdatedAt)
	}
}

// InsertEdge stores each edge and writes the generated id back. Missing
// metadata is stored as an empty object.
func (ts TestSeeder) InsertEdge(ctx context.Context, all ...*entities.Edge) {
	for _, e := range all {
		e.ID = ts.returningID(ctx, "InsertEdge", insertEdgeSQL,
			e.LeftEntityID, e.RightEntityID, e.RelationshipType, nullableJSON(e.Metadata), e.CreatedAt, e.UpdatedAt)
	}
}

// Link inserts an edge of the given collection from left to right.
func (ts TestSeeder) Link(ctx context.Context, relationship string, left, right entities.Entity, metadata []byte) entities.Edge {
	edge := entities.Edge{
		LeftEntityID:     left.ID,
		RightEntityID:    right.ID,
		RelationshipType: relationship,
		Metadata:         metadata,
		CreatedAt:        left.CreatedAt,
		UpdatedAt:        left.UpdatedAt,
	}
	ts.InsertEdge(ctx, &edge)
	return edge
}

func (ts TestSeeder) returningID(ctx context.Context, op, sql string, args ...any) int64 {
	var id int64
	if err := ts.pool.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		panic(fmt.Sprintf("Seeder.%s failed: %v", op, err))
	}
	return id
}

func nullableJSON(data []byte) *string {
	if len(data) == 0 {
		return nil
	}
	s := string(data)
	return &s
}
