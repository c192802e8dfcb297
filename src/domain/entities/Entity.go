package entities

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Entity is a row of a named collection. Type holds the collection name
// and ID is the collection-local numeric key.
type Entity struct {
	ID         int64           `json:"id"`
	Type       string          `json:"type"`
	Reference  string          `json:"reference"`
	Properties json.RawMessage `json:"properties,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Key renders the numeric key the way cursors and ids carry it.
func (e Entity) Key() string {
	return strconv.FormatInt(e.ID, 10)
}

// DecodeProperties unmarshals the JSONB properties into target.
func (e Entity) DecodeProperties(target any) error {
	if len(e.Properties) == 0 {
		return nil
	}
	if err := json.Unmarshal(e.Properties, target); err != nil {
		return fmt.Errorf("Entity.DecodeProperties - %s %d: %w", e.Type, e.ID, err)
	}
	return nil
}

// ParseKey converts a collection-local key back to its numeric form. Keys
// that are not numeric map to -1, which never matches a stored row.
func ParseKey(key string) int64 {
	id, err := strconv.ParseInt(key, 10, 64)
	if err != nil || id < 0 {
		return -1
	}
	return id
}
