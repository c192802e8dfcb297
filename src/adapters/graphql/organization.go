package graphqladapter

import (
	"context"

	"github.com/graph-gophers/graphql-go"

	"domaintracker/src/domain/entities"
	"domaintracker/src/helper/i18n"
)

type userResolver struct {
	root *Resolver
	user entities.User
}

func (u *userResolver) ID() graphql.ID        { return globalID(typeUser, u.user.Key) }
func (u *userResolver) UserName() string      { return u.user.UserName }
func (u *userResolver) DisplayName() string   { return u.user.DisplayName }
func (u *userResolver) PreferredLang() string { return u.user.PreferredLang }
func (u *userResolver) EmailValidated() bool  { return u.user.EmailValidated }
func (u *userResolver) TfaValidated() bool    { return u.user.TfaValidated }

func (u *userResolver) Affiliations(ctx context.Context, args searchArgs) (*connectionResolver[entities.Affiliation, *affiliationResolver], error) {
	conn, err := u.root.service.AffiliationsByUser(ctx, u.user.Key, args.args())
	return newConnection(conn, err, u.root.wrapAffiliation)
}

type organizationResolver struct {
	root *Resolver
	org  entities.Organization
}

func (o *organizationResolver) details(ctx context.Context) entities.OrganizationDetails {
	return o.org.Details(i18n.Code(ctx))
}

func (o *organizationResolver) ID() graphql.ID                      { return globalID(typeOrganization, o.org.Key) }
func (o *organizationResolver) Acronym(ctx context.Context) string  { return o.details(ctx).Acronym }
func (o *organizationResolver) Name(ctx context.Context) string     { return o.details(ctx).Name }
func (o *organizationResolver) Slug(ctx context.Context) string     { return o.details(ctx).Slug }
func (o *organizationResolver) Zone(ctx context.Context) string     { return o.details(ctx).Zone }
func (o *organizationResolver) Sector(ctx context.Context) string   { return o.details(ctx).Sector }
func (o *organizationResolver) Country(ctx context.Context) string  { return o.details(ctx).Country }
func (o *organizationResolver) Province(ctx context.Context) string { return o.details(ctx).Province }
func (o *organizationResolver) City(ctx context.Context) string     { return o.details(ctx).City }
func (o *organizationResolver) Verified() bool                      { return o.org.Verified }

func (o *organizationResolver) Summaries() *summariesResolver {
	return &summariesResolver{summaries: o.org.Summaries}
}

func (o *organizationResolver) Domains(ctx context.Context, args domainArgs) (*connectionResolver[entities.Domain, *domainResolver], error) {
	conn, err := o.root.service.DomainsByOrg(ctx, o.org.Key, args.args())
	return newConnection(conn, err, func(d entities.Domain) *domainResolver {
		return &domainResolver{root: o.root, domain: d}
	})
}

func (o *organizationResolver) Affiliations(ctx context.Context, args searchArgs) (*connectionResolver[entities.Affiliation, *affiliationResolver], error) {
	conn, err := o.root.service.AffiliationsByOrg(ctx, o.org.Key, args.args())
	return newConnection(conn, err, o.root.wrapAffiliation)
}

type summariesResolver struct {
	summaries entities.OrganizationSummaries
}

func (s *summariesResolver) Web() *summaryCountsResolver {
	return &summaryCountsResolver{counts: s.summaries.Web}
}

func (s *summariesResolver) Mail() *summaryCountsResolver {
	return &summaryCountsResolver{counts: s.summaries.Mail}
}

type summaryCountsResolver struct {
	counts entities.SummaryCounts
}

func (s *summaryCountsResolver) Pass() int32  { return int32(s.counts.Pass) }
func (s *summaryCountsResolver) Fail() int32  { return int32(s.counts.Fail) }
func (s *summaryCountsResolver) Total() int32 { return int32(s.counts.Total) }

type affiliationResolver struct {
	root        *Resolver
	affiliation entities.Affiliation
}

func (r *Resolver) wrapAffiliation(affiliation entities.Affiliation) *affiliationResolver {
	return &affiliationResolver{root: r, affiliation: affiliation}
}

func (a *affiliationResolver) ID() graphql.ID {
	return globalID("Affiliation", a.affiliation.Key)
}

func (a *affiliationResolver) Permission() string {
	return a.affiliation.Permission
}

func (a *affiliationResolver) User(ctx context.Context) (*userResolver, error) {
	return a.root.loadUser(ctx, a.affiliation.UserKey)
}

func (a *affiliationResolver) Organization(ctx context.Context) (*organizationResolver, error) {
	return a.root.loadOrganization(ctx, a.affiliation.OrgKey)
}
