package domain

import (
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrEntityNotFound = errors.New("entity not found")

	ErrUnavailableServer = errors.New("Oops, something unexpected happened. Please try again later.")
)

// Entity collections. The value is stored in entities.type.
const (
	CollectionUsers          = "users"
	CollectionOrganizations  = "organizations"
	CollectionDomains        = "domains"
	CollectionDkim           = "dkim"
	CollectionDkimResults    = "dkimResults"
	CollectionDmarc          = "dmarc"
	CollectionSpf            = "spf"
	CollectionSsl            = "ssl"
	CollectionGuidanceTags   = "guidanceTags"
	CollectionDmarcSummaries = "dmarcSummaries"
)

// Edge collections. The value is stored in edges.relationship_type.
const (
	EdgeAffiliations            = "affiliations"
	EdgeClaims                  = "claims"
	EdgeOwnership               = "ownership"
	EdgeDomainsDkim             = "domainsDKIM"
	EdgeDomainsDmarc            = "domainsDMARC"
	EdgeDomainsSpf              = "domainsSPF"
	EdgeDomainsSsl              = "domainsSSL"
	EdgeDkimToDkimResults       = "dkimToDkimResults"
	EdgeDomainsToDmarcSummaries = "domainsToDmarcSummaries"
)

// ScanType identifies the protocol a scan result belongs to.
type ScanType string

const (
	ScanDkim  ScanType = "dkim"
	ScanDmarc ScanType = "dmarc"
	ScanSpf   ScanType = "spf"
	ScanSsl   ScanType = "ssl"
)

func (t ScanType) Valid() bool {
	switch t {
	case ScanDkim, ScanDmarc, ScanSpf, ScanSsl:
		return true
	}
	return false
}

// Collection returns the entity collection holding scans of this type.
func (t ScanType) Collection() string {
	switch t {
	case ScanDkim:
		return CollectionDkim
	case ScanDmarc:
		return CollectionDmarc
	case ScanSpf:
		return CollectionSpf
	case ScanSsl:
		return CollectionSsl
	}
	return ""
}

// DomainEdge returns the edge collection linking a domain to scans of this type.
func (t ScanType) DomainEdge() string {
	switch t {
	case ScanDkim:
		return EdgeDomainsDkim
	case ScanDmarc:
		return EdgeDomainsDmarc
	case ScanSpf:
		return EdgeDomainsSpf
	case ScanSsl:
		return EdgeDomainsSsl
	}
	return ""
}

// StatusField returns the domain status key updated by scans of this type.
func (t ScanType) StatusField() string {
	return string(t)
}

// ############################################################
// ############## SCAN RESULTS INGESTION ######################
// ############################################################

// ScanRecord is one scan result to be attached to a domain.
type ScanRecord struct {
	Domain       string
	Type         ScanType
	Timestamp    time.Time
	Status       string
	Properties   json.RawMessage
	SubResults   []json.RawMessage
	PositiveTags []string
	NeutralTags  []string
	NegativeTags []string
}

// IngestScansRequest is a batch of scan results written in one transaction.
type IngestScansRequest struct {
	BatchID string
	Scans   []ScanRecord
}
