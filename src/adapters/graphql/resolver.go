package graphqladapter

import (
	"context"
	"errors"
	"log/slog"

	"github.com/graph-gophers/graphql-go"

	"domaintracker/src/domain"
	"domaintracker/src/helper/auth"
	"domaintracker/src/helper/cursor"
	"domaintracker/src/helper/i18n"
	"domaintracker/src/services/loaders"
)

const (
	typeUser         = "SharedUser"
	typeOrganization = "Organization"
	typeDomain       = "Domain"
)

// Resolver is the root query resolver.
type Resolver struct {
	logger  *slog.Logger
	service *loaders.Service
}

func NewResolver(logger *slog.Logger, service *loaders.Service) *Resolver {
	return &Resolver{logger: logger, service: service}
}

func (r *Resolver) FindMe(ctx context.Context) (*userResolver, error) {
	userKey := auth.UserKey(ctx)
	if userKey == "" {
		return nil, newAuthenticationError(ctx)
	}
	return r.loadUser(ctx, userKey)
}

func (r *Resolver) FindUserById(ctx context.Context, args struct{ UserID graphql.ID }) (*userResolver, error) {
	key, ok := localKey(args.UserID, typeUser)
	if !ok {
		return nil, newNotFoundError(ctx, i18n.NounUsers)
	}
	return r.loadUser(ctx, key)
}

func (r *Resolver) FindOrganizationById(ctx context.Context, args struct{ OrgID graphql.ID }) (*organizationResolver, error) {
	key, ok := localKey(args.OrgID, typeOrganization)
	if !ok {
		return nil, newNotFoundError(ctx, i18n.NounOrganizations)
	}
	return r.loadOrganization(ctx, key)
}

func (r *Resolver) FindDomainById(ctx context.Context, args struct{ DomainID graphql.ID }) (*domainResolver, error) {
	key, ok := localKey(args.DomainID, typeDomain)
	if !ok {
		return nil, newNotFoundError(ctx, i18n.NounDomains)
	}
	return r.loadDomain(ctx, key)
}

func (r *Resolver) FindDomainByDomain(ctx context.Context, args struct{ Domain string }) (*domainResolver, error) {
	hostname, err := domain.NormalizeHostname(args.Domain)
	if err != nil {
		return nil, newNotFoundError(ctx, i18n.NounDomains)
	}

	d, err := r.batch(ctx).DomainsByName.Load(ctx, hostname)()
	if err != nil {
		return nil, notFoundOr(ctx, err, i18n.NounDomains)
	}
	return &domainResolver{root: r, domain: d}, nil
}

func (r *Resolver) batch(ctx context.Context) *loaders.Batch {
	if batch, ok := batchFrom(ctx); ok {
		return batch
	}
	return r.service.NewBatch()
}

func (r *Resolver) loadUser(ctx context.Context, key string) (*userResolver, error) {
	user, err := r.batch(ctx).Users.Load(ctx, key)()
	if err != nil {
		return nil, notFoundOr(ctx, err, i18n.NounUsers)
	}
	return &userResolver{root: r, user: user}, nil
}

func (r *Resolver) loadOrganization(ctx context.Context, key string) (*organizationResolver, error) {
	org, err := r.batch(ctx).Organizations.Load(ctx, key)()
	if err != nil {
		return nil, notFoundOr(ctx, err, i18n.NounOrganizations)
	}
	return &organizationResolver{root: r, org: org}, nil
}

func (r *Resolver) loadDomain(ctx context.Context, key string) (*domainResolver, error) {
	d, err := r.batch(ctx).Domains.Load(ctx, key)()
	if err != nil {
		return nil, notFoundOr(ctx, err, i18n.NounDomains)
	}
	return &domainResolver{root: r, domain: d}, nil
}

// localKey decodes a global id, rejecting ids minted for another type.
func localKey(id graphql.ID, typeName string) (string, bool) {
	decodedType, key := cursor.Decode(string(id))
	if decodedType != typeName || key == "" {
		return "", false
	}
	return key, true
}

func globalID(typeName string, key string) graphql.ID {
	return graphql.ID(cursor.Encode(typeName, key))
}

func notFoundOr(ctx context.Context, err error, noun string) error {
	if errors.Is(err, domain.ErrEntityNotFound) {
		return newNotFoundError(ctx, noun)
	}
	return err
}
