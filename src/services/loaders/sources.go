package loaders

import (
	"context"
	"errors"

	"domaintracker/src/domain"
	"domaintracker/src/domain/entities"
	"domaintracker/src/helper/i18n"
	"domaintracker/src/repositories"
	"domaintracker/src/services/connection"
)

var errMissingEdge = errors.New("row has no edge")

const scanTimestamp = "(n.properties->>'timestamp')::timestamptz"

func langCode(ctx context.Context) string {
	return i18n.Code(ctx)
}

func affiliationFromRow(row repositories.ConnectionRow) (entities.Affiliation, error) {
	if row.Edge == nil {
		return entities.Affiliation{}, errMissingEdge
	}
	return entities.AffiliationFromEdge(*row.Edge)
}

var permissionRank = "CASE ed.metadata->>'permission' WHEN 'user' THEN 1 WHEN 'admin' THEN 2 WHEN 'super_admin' THEN 3 ELSE 0 END"

var affiliationsByOrgSource = connection.Source[entities.Affiliation]{
	Loader:   "loadAffiliationConnectionsByOrgId",
	NodeName: "Affiliation",
	Noun:     i18n.NounAffiliations,
	Sortable: map[string]connection.SortExpr{
		"PERMISSION":        func(string) string { return permissionRank },
		"USER_USERNAME":     text("n.properties->>'userName'"),
		"USER_DISPLAY_NAME": text("n.properties->>'displayName'"),
	},
	Filter: searchFilter(func(string) []string {
		return []string{"n.properties->>'userName'", "n.properties->>'displayName'"}
	}),
	Map: affiliationFromRow,
}

var affiliationsByUserSource = connection.Source[entities.Affiliation]{
	Loader:   "loadAffiliationConnectionsByUserId",
	NodeName: "Affiliation",
	Noun:     i18n.NounAffiliations,
	Sortable: map[string]connection.SortExpr{
		"PERMISSION":       func(string) string { return permissionRank },
		"ORG_NAME":         localized("name"),
		"ORG_ACRONYM":      localized("acronym"),
		"ORG_SLUG":         localized("slug"),
		"ORG_ZONE":         localized("zone"),
		"ORG_SECTOR":       localized("sector"),
		"ORG_COUNTRY":      localized("country"),
		"ORG_PROVINCE":     localized("province"),
		"ORG_CITY":         localized("city"),
		"ORG_VERIFIED":     boolean("n.properties->>'verified'"),
		"ORG_SUMMARY_MAIL": number("n.properties->'summaries'->'mail'->>'pass'"),
		"ORG_SUMMARY_WEB":  number("n.properties->'summaries'->'web'->>'pass'"),
	},
	Filter: searchFilter(func(lang string) []string {
		return []string{"n.properties->'" + lang + "'->>'name'", "n.properties->'" + lang + "'->>'acronym'"}
	}),
	Map: affiliationFromRow,
}

func ownershipFilter(_ context.Context, args connection.Args) []repositories.Predicate {
	if args.Ownership == nil || !*args.Ownership {
		return nil
	}
	return []repositories.Predicate{repositories.Where(
		"EXISTS (SELECT 1 FROM edges o WHERE o.relationship_type = ? AND o.left_entity_id = ed.left_entity_id AND o.right_entity_id = n.id)",
		domain.EdgeOwnership,
	)}
}

var domainsByOrgSource = connection.Source[entities.Domain]{
	Loader:   "loadDomainConnectionsByOrgId",
	NodeName: "Domain",
	Noun:     i18n.NounDomains,
	Sortable: map[string]connection.SortExpr{
		"DOMAIN":       text("n.properties->>'domain'"),
		"LAST_RAN":     timestamp("n.properties->>'lastRan'"),
		"DKIM_STATUS":  text("n.properties->'status'->>'dkim'"),
		"DMARC_STATUS": text("n.properties->'status'->>'dmarc'"),
		"HTTPS_STATUS": text("n.properties->'status'->>'https'"),
		"SPF_STATUS":   text("n.properties->'status'->>'spf'"),
		"SSL_STATUS":   text("n.properties->'status'->>'ssl'"),
	},
	Filter: combine(
		searchFilter(func(string) []string { return []string{"n.properties->>'domain'"} }),
		ownershipFilter,
	),
	Map: func(row repositories.ConnectionRow) (entities.Domain, error) {
		return entities.DomainFromEntity(row.Entity)
	},
}

var dkimByDomainSource = connection.Source[entities.Dkim]{
	Loader:   "loadDkimConnectionsByDomainId",
	NodeName: "DKIM",
	Noun:     i18n.NounDkim,
	Sortable: map[string]connection.SortExpr{
		"TIMESTAMP": timestamp("n.properties->>'timestamp'"),
	},
	Filter: dateRangeFilter(scanTimestamp),
	Map: func(row repositories.ConnectionRow) (entities.Dkim, error) {
		return entities.DkimFromEntity(row.Entity)
	},
}

var dmarcByDomainSource = connection.Source[entities.Dmarc]{
	Loader:   "loadDmarcConnectionsByDomainId",
	NodeName: "DMARC",
	Noun:     i18n.NounDmarc,
	Sortable: map[string]connection.SortExpr{
		"TIMESTAMP": timestamp("n.properties->>'timestamp'"),
		"RECORD":    text("n.properties->>'record'"),
		"P_POLICY":  text("n.properties->>'pPolicy'"),
		"SP_POLICY": text("n.properties->>'spPolicy'"),
		"PCT":       number("n.properties->>'pct'"),
	},
	Filter: dateRangeFilter(scanTimestamp),
	Map: func(row repositories.ConnectionRow) (entities.Dmarc, error) {
		return entities.DmarcFromEntity(row.Entity)
	},
}

var spfByDomainSource = connection.Source[entities.Spf]{
	Loader:   "loadSpfConnectionsByDomainId",
	NodeName: "SPF",
	Noun:     i18n.NounSpf,
	Sortable: map[string]connection.SortExpr{
		"TIMESTAMP":   timestamp("n.properties->>'timestamp'"),
		"LOOKUPS":     number("n.properties->>'lookups'"),
		"RECORD":      text("n.properties->>'record'"),
		"SPF_DEFAULT": text("n.properties->>'spfDefault'"),
	},
	Filter: dateRangeFilter(scanTimestamp),
	Map: func(row repositories.ConnectionRow) (entities.Spf, error) {
		return entities.SpfFromEntity(row.Entity)
	},
}

var sslByDomainSource = connection.Source[entities.Ssl]{
	Loader:   "loadSslConnectionsByDomainId",
	NodeName: "SSL",
	Noun:     i18n.NounSsl,
	Sortable: map[string]connection.SortExpr{
		"TIMESTAMP":                  timestamp("n.properties->>'timestamp'"),
		"CCS_INJECTION_VULNERABLE":   boolean("n.properties->>'ccsInjectionVulnerable'"),
		"HEARTBLEED_VULNERABLE":      boolean("n.properties->>'heartbleedVulnerable'"),
		"SUPPORTS_ECDH_KEY_EXCHANGE": boolean("n.properties->>'supportsEcdhKeyExchange'"),
	},
	Filter: dateRangeFilter(scanTimestamp),
	Map: func(row repositories.ConnectionRow) (entities.Ssl, error) {
		return entities.SslFromEntity(row.Entity)
	},
}

var dkimResultsByDkimSource = connection.Source[entities.DkimResult]{
	Loader:   "loadDkimResultConnectionsByDkimId",
	NodeName: "DKIMResult",
	Noun:     i18n.NounDkimResults,
	Sortable: map[string]connection.SortExpr{
		"SELECTOR":   text("n.properties->>'selector'"),
		"RECORD":     text("n.properties->>'record'"),
		"KEY_LENGTH": number("NULLIF(n.properties->>'keyLength', '')"),
	},
	Map: func(row repositories.ConnectionRow) (entities.DkimResult, error) {
		return entities.DkimResultFromEntity(row.Entity)
	},
}

var guidanceTagsByTagIDSource = connection.Source[entities.GuidanceTag]{
	Loader:   "loadGuidanceTagConnectionsByTagId",
	NodeName: "GuidanceTag",
	Noun:     i18n.NounGuidanceTags,
	Sortable: map[string]connection.SortExpr{
		"TAG_ID":   text("n.reference"),
		"TAG_NAME": text("n.properties->>'tagName'"),
		"GUIDANCE": text("n.properties->>'guidance'"),
	},
	Map: func(row repositories.ConnectionRow) (entities.GuidanceTag, error) {
		return entities.GuidanceTagFromEntity(row.Entity)
	},
}

var dmarcSummariesByDomainSource = connection.Source[entities.DmarcSummary]{
	Loader:   "loadDmarcSummaryConnectionsByDomainId",
	NodeName: "DmarcSummary",
	Noun:     i18n.NounDmarcSummaries,
	Sortable: map[string]connection.SortExpr{
		"START_DATE":     timestamp("ed.metadata->>'startDate'"),
		"TOTAL_MESSAGES": number("n.properties->>'totalMessages'"),
		"FULL_PASS":      number("n.properties->'categoryTotals'->>'fullPass'"),
		"FAIL":           number("n.properties->'categoryTotals'->>'fail'"),
	},
	Filter: dateRangeFilter("(ed.metadata->>'startDate')::timestamptz"),
	Map: func(row repositories.ConnectionRow) (entities.DmarcSummary, error) {
		if row.Edge == nil {
			return entities.DmarcSummary{}, errMissingEdge
		}
		var metadata struct {
			StartDate string `json:"startDate"`
		}
		if err := row.Edge.DecodeMetadata(&metadata); err != nil {
			return entities.DmarcSummary{}, err
		}
		return entities.DmarcSummaryFromEntity(row.Entity, metadata.StartDate)
	},
}
