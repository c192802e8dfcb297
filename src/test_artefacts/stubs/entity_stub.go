package stubs

import (
	"strings"
	"time"

	"domaintracker/src/domain"
	"domaintracker/src/domain/entities"

	"github.com/brianvoe/gofakeit/v6"
)

// EntityStub builds an entity row. NewEntityStub starts from a user.
type EntityStub struct {
	entity entities.Entity
}

func newStub(collection, reference string, properties map[string]any) EntityStub {
	stamp := gofakeit.DateRange(time.Now().AddDate(-1, 0, 0), time.Now()).UTC()

	return EntityStub{entity: entities.Entity{
		ID:         gofakeit.Int64(),
		Type:       collection,
		Reference:  reference,
		Properties: mustJSON(properties),
		CreatedAt:  stamp,
		UpdatedAt:  stamp,
	}}
}

func NewEntityStub() EntityStub {
	return newStub(domain.CollectionUsers, gofakeit.UUID(), map[string]any{
		"userName":      gofakeit.Email(),
		"displayName":   gofakeit.Name(),
		"preferredLang": gofakeit.RandomString([]string{"english", "french"}),
	})
}

func NewOrganizationStub() EntityStub {
	acronym := strings.ToUpper(gofakeit.LetterN(4))
	details := func(name string) map[string]any {
		return map[string]any{"name": name, "acronym": acronym, "city": gofakeit.City()}
	}
	name := gofakeit.Company()

	return newStub(domain.CollectionOrganizations, gofakeit.UUID(), map[string]any{
		"verified": true,
		"en":       details(name),
		"fr":       details(name + " FR"),
	})
}

func NewDomainStub() EntityStub {
	hostname := strings.ToLower(gofakeit.DomainName())

	return newStub(domain.CollectionDomains, hostname, map[string]any{
		"domain": hostname,
		"status": map[string]any{
			"dkim": "pass", "dmarc": "pass", "https": "info", "spf": "fail", "ssl": "pass",
		},
	})
}

func NewScanStub(scanType domain.ScanType, timestamp time.Time) EntityStub {
	return newStub(scanType.Collection(), gofakeit.UUID(), map[string]any{
		"timestamp": timestamp.UTC().Format(time.RFC3339),
	})
}

func (s EntityStub) WithType(entityType string) EntityStub {
	s.entity.Type = entityType
	return s
}

func (s EntityStub) WithReference(reference string) EntityStub {
	s.entity.Reference = reference
	return s
}

func (s EntityStub) WithProperties(properties map[string]any) EntityStub {
	s.entity.Properties = mustJSON(properties)
	return s
}

func (s EntityStub) Get() entities.Entity {
	return s.entity
}
