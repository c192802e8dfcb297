// Package comparer holds the go-cmp options shared by the test suites.
package comparer

import (
	"encoding/json"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"domaintracker/src/domain/entities"
)

// JSON compares json.RawMessage values by their decoded content, so key
// order and whitespace do not matter.
func JSON() cmp.Option {
	return cmp.Comparer(func(x, y json.RawMessage) bool {
		if len(x) == 0 || len(y) == 0 {
			return len(x) == len(y)
		}

		var xValue, yValue any
		if json.Unmarshal(x, &xValue) != nil || json.Unmarshal(y, &yValue) != nil {
			return false
		}
		return cmp.Equal(xValue, yValue)
	})
}

func Within(tolerance time.Duration) cmp.Option {
	return cmp.Comparer(func(x, y time.Time) bool {
		diff := x.Sub(y)
		if diff < 0 {
			diff = -diff
		}
		return diff <= tolerance
	})
}

// ScanRecord matches ingestion records built from Kafka messages. Missing
// and empty tag lists are equal.
func ScanRecord() cmp.Options {
	return cmp.Options{JSON(), Within(0), cmpopts.EquateEmpty()}
}

// StoredEntity ignores the columns the database assigns.
func StoredEntity() cmp.Options {
	return cmp.Options{
		JSON(),
		cmpopts.IgnoreFields(entities.Entity{}, "ID", "Reference", "CreatedAt", "UpdatedAt"),
	}
}
