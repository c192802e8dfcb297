package entities

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Edge is a row of a named edge collection, directed from LeftEntityID to
// RightEntityID. Metadata holds the edge attributes (e.g. an affiliation
// permission).
type Edge struct {
	ID               int64           `json:"id"`
	LeftEntityID     int64           `json:"left_entity_id"`
	RightEntityID    int64           `json:"right_entity_id"`
	RelationshipType string          `json:"relationship_type"`
	Metadata         json.RawMessage `json:"metadata,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (e Edge) Key() string {
	return strconv.FormatInt(e.ID, 10)
}

func (e Edge) DecodeMetadata(target any) error {
	if len(e.Metadata) == 0 {
		return nil
	}
	if err := json.Unmarshal(e.Metadata, target); err != nil {
		return fmt.Errorf("Edge.DecodeMetadata - %s %d: %w", e.RelationshipType, e.ID, err)
	}
	return nil
}
