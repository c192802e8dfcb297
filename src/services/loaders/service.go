package loaders

import (
	"context"
	"log/slog"

	"domaintracker/src/domain"
	"domaintracker/src/domain/entities"
	"domaintracker/src/repositories"
	"domaintracker/src/services/connection"
)

// Service exposes every connection loader of the API. It holds no request
// state and is shared by all requests.
type Service struct {
	logger       *slog.Logger
	entityFinder EntityFinder

	affiliationsByOrg      *connection.Loader[entities.Affiliation]
	affiliationsByUser     *connection.Loader[entities.Affiliation]
	domainsByOrg           *connection.Loader[entities.Domain]
	dkimByDomain           *connection.Loader[entities.Dkim]
	dmarcByDomain          *connection.Loader[entities.Dmarc]
	spfByDomain            *connection.Loader[entities.Spf]
	sslByDomain            *connection.Loader[entities.Ssl]
	dkimResultsByDkim      *connection.Loader[entities.DkimResult]
	guidanceTagsByTagID    *connection.Loader[entities.GuidanceTag]
	dmarcSummariesByDomain *connection.Loader[entities.DmarcSummary]
}

func NewService(logger *slog.Logger, pages connection.PageRepository, entityFinder EntityFinder) *Service {
	return &Service{
		logger:       logger,
		entityFinder: entityFinder,

		affiliationsByOrg:      connection.NewLoader(logger, pages, affiliationsByOrgSource),
		affiliationsByUser:     connection.NewLoader(logger, pages, affiliationsByUserSource),
		domainsByOrg:           connection.NewLoader(logger, pages, domainsByOrgSource),
		dkimByDomain:           connection.NewLoader(logger, pages, dkimByDomainSource),
		dmarcByDomain:          connection.NewLoader(logger, pages, dmarcByDomainSource),
		spfByDomain:            connection.NewLoader(logger, pages, spfByDomainSource),
		sslByDomain:            connection.NewLoader(logger, pages, sslByDomainSource),
		dkimResultsByDkim:      connection.NewLoader(logger, pages, dkimResultsByDkimSource),
		guidanceTagsByTagID:    connection.NewLoader(logger, pages, guidanceTagsByTagIDSource),
		dmarcSummariesByDomain: connection.NewLoader(logger, pages, dmarcSummariesByDomainSource),
	}
}

func (s *Service) AffiliationsByOrg(ctx context.Context, orgKey string, args connection.Args) (*connection.Connection[entities.Affiliation], error) {
	source := repositories.EdgeSource(domain.EdgeAffiliations, repositories.ParentLeft, entities.ParseKey(orgKey), domain.CollectionUsers, true)
	return s.affiliationsByOrg.Load(ctx, source, args)
}

func (s *Service) AffiliationsByUser(ctx context.Context, userKey string, args connection.Args) (*connection.Connection[entities.Affiliation], error) {
	source := repositories.EdgeSource(domain.EdgeAffiliations, repositories.ParentRight, entities.ParseKey(userKey), domain.CollectionOrganizations, true)
	return s.affiliationsByUser.Load(ctx, source, args)
}

func (s *Service) DomainsByOrg(ctx context.Context, orgKey string, args connection.Args) (*connection.Connection[entities.Domain], error) {
	source := repositories.EdgeSource(domain.EdgeClaims, repositories.ParentLeft, entities.ParseKey(orgKey), domain.CollectionDomains, false)
	return s.domainsByOrg.Load(ctx, source, args)
}

func (s *Service) DkimByDomain(ctx context.Context, domainKey string, args connection.Args) (*connection.Connection[entities.Dkim], error) {
	source := repositories.EdgeSource(domain.EdgeDomainsDkim, repositories.ParentLeft, entities.ParseKey(domainKey), domain.CollectionDkim, false)
	return s.dkimByDomain.Load(ctx, source, args)
}

func (s *Service) DmarcByDomain(ctx context.Context, domainKey string, args connection.Args) (*connection.Connection[entities.Dmarc], error) {
	source := repositories.EdgeSource(domain.EdgeDomainsDmarc, repositories.ParentLeft, entities.ParseKey(domainKey), domain.CollectionDmarc, false)
	return s.dmarcByDomain.Load(ctx, source, args)
}

func (s *Service) SpfByDomain(ctx context.Context, domainKey string, args connection.Args) (*connection.Connection[entities.Spf], error) {
	source := repositories.EdgeSource(domain.EdgeDomainsSpf, repositories.ParentLeft, entities.ParseKey(domainKey), domain.CollectionSpf, false)
	return s.spfByDomain.Load(ctx, source, args)
}

func (s *Service) SslByDomain(ctx context.Context, domainKey string, args connection.Args) (*connection.Connection[entities.Ssl], error) {
	source := repositories.EdgeSource(domain.EdgeDomainsSsl, repositories.ParentLeft, entities.ParseKey(domainKey), domain.CollectionSsl, false)
	return s.sslByDomain.Load(ctx, source, args)
}

func (s *Service) DkimResultsByDkim(ctx context.Context, dkimKey string, args connection.Args) (*connection.Connection[entities.DkimResult], error) {
	source := repositories.EdgeSource(domain.EdgeDkimToDkimResults, repositories.ParentLeft, entities.ParseKey(dkimKey), domain.CollectionDkimResults, false)
	return s.dkimResultsByDkim.Load(ctx, source, args)
}

// GuidanceTagsByTagID paginates the guidance tags a scan result refers to.
func (s *Service) GuidanceTagsByTagID(ctx context.Context, tagIDs []string, args connection.Args) (*connection.Connection[entities.GuidanceTag], error) {
	if tagIDs == nil {
		tagIDs = []string{}
	}
	source := repositories.EntitySource(domain.CollectionGuidanceTags, repositories.Where("n.reference = ANY(?)", tagIDs))
	return s.guidanceTagsByTagID.Load(ctx, source, args)
}

func (s *Service) DmarcSummariesByDomain(ctx context.Context, domainKey string, args connection.Args) (*connection.Connection[entities.DmarcSummary], error) {
	source := repositories.EdgeSource(domain.EdgeDomainsToDmarcSummaries, repositories.ParentLeft, entities.ParseKey(domainKey), domain.CollectionDmarcSummaries, false)
	return s.dmarcSummariesByDomain.Load(ctx, source, args)
}
