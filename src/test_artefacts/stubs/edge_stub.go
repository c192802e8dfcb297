package stubs

import (
	"encoding/json"
	"time"

	"domaintracker/src/domain"
	"domaintracker/src/domain/entities"

	"github.com/brianvoe/gofakeit/v6"
)

// EdgeStub builds an edge. The zero stub is a plain user affiliation.
type EdgeStub struct {
	edge entities.Edge
}

func NewEdgeStub() EdgeStub {
	stamp := gofakeit.DateRange(time.Now().AddDate(-1, 0, 0), time.Now()).UTC()

	return EdgeStub{edge: entities.Edge{
		ID:               gofakeit.Int64(),
		LeftEntityID:     gofakeit.Int64(),
		RightEntityID:    gofakeit.Int64(),
		RelationshipType: domain.EdgeAffiliations,
		CreatedAt:        stamp,
		UpdatedAt:        stamp,
	}}.WithPermission(entities.PermissionUser)
}

// Between links left to right, the direction every edge collection uses
// (organization to user, organization to domain, domain to scan).
func (s EdgeStub) Between(left, right entities.Entity) EdgeStub {
	s.edge.LeftEntityID, s.edge.RightEntityID = left.ID, right.ID
	return s
}

// WithRelationshipType also clears the affiliation metadata.
func (s EdgeStub) WithRelationshipType(relationshipType string) EdgeStub {
	s.edge.RelationshipType = relationshipType
	s.edge.Metadata = json.RawMessage(`{}`)
	return s
}

func (s EdgeStub) WithPermission(permission string) EdgeStub {
	s.edge.Metadata = mustJSON(map[string]any{"permission": permission})
	return s
}

func (s EdgeStub) WithStartDate(startDate time.Time) EdgeStub {
	s.edge.Metadata = mustJSON(map[string]any{"startDate": startDate.Format(time.DateOnly)})
	return s
}

func (s EdgeStub) Get() entities.Edge {
	return s.edge
}

func mustJSON(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
