package graphqladapter

import (
	"context"

	"github.com/graph-gophers/graphql-go"

	"domaintracker/src/domain/entities"
)

// guidanceTagFields resolves the three guidance tag connections every scan
// result exposes.
type guidanceTagFields struct {
	root *Resolver
	refs entities.GuidanceTagRefs
}

func (g *guidanceTagFields) tags(ctx context.Context, tagIDs []string, args pageArgs) (*connectionResolver[entities.GuidanceTag, *guidanceTagResolver], error) {
	conn, err := g.root.service.GuidanceTagsByTagID(ctx, tagIDs, args.args())
	return newConnection(conn, err, func(tag entities.GuidanceTag) *guidanceTagResolver {
		return &guidanceTagResolver{tag: tag}
	})
}

func (g *guidanceTagFields) PositiveGuidanceTags(ctx context.Context, args pageArgs) (*connectionResolver[entities.GuidanceTag, *guidanceTagResolver], error) {
	return g.tags(ctx, g.refs.PositiveTags, args)
}

func (g *guidanceTagFields) NeutralGuidanceTags(ctx context.Context, args pageArgs) (*connectionResolver[entities.GuidanceTag, *guidanceTagResolver], error) {
	return g.tags(ctx, g.refs.NeutralTags, args)
}

func (g *guidanceTagFields) NegativeGuidanceTags(ctx context.Context, args pageArgs) (*connectionResolver[entities.GuidanceTag, *guidanceTagResolver], error) {
	return g.tags(ctx, g.refs.NegativeTags, args)
}

type dkimResolver struct {
	root *Resolver
	scan entities.Dkim
}

func (d *dkimResolver) ID() graphql.ID          { return globalID("DKIM", d.scan.Key) }
func (d *dkimResolver) Timestamp() graphql.Time { return graphql.Time{Time: d.scan.Timestamp} }

func (d *dkimResolver) Results(ctx context.Context, args pageArgs) (*connectionResolver[entities.DkimResult, *dkimResultResolver], error) {
	conn, err := d.root.service.DkimResultsByDkim(ctx, d.scan.Key, args.args())
	return newConnection(conn, err, func(result entities.DkimResult) *dkimResultResolver {
		return &dkimResultResolver{guidanceTagFields: guidanceTagFields{root: d.root, refs: result.GuidanceTagRefs}, result: result}
	})
}

type dkimResultResolver struct {
	guidanceTagFields
	result entities.DkimResult
}

func (d *dkimResultResolver) ID() graphql.ID    { return globalID("DKIMResult", d.result.Key) }
func (d *dkimResultResolver) Selector() string  { return d.result.Selector }
func (d *dkimResultResolver) Record() string    { return d.result.Record }
func (d *dkimResultResolver) KeyLength() string { return d.result.KeyLength }

type dmarcResolver struct {
	guidanceTagFields
	scan entities.Dmarc
}

func (d *dmarcResolver) ID() graphql.ID          { return globalID("DMARC", d.scan.Key) }
func (d *dmarcResolver) Timestamp() graphql.Time { return graphql.Time{Time: d.scan.Timestamp} }
func (d *dmarcResolver) Record() string          { return d.scan.Record }
func (d *dmarcResolver) PPolicy() string         { return d.scan.PPolicy }
func (d *dmarcResolver) SpPolicy() string        { return d.scan.SpPolicy }
func (d *dmarcResolver) Pct() int32              { return int32(d.scan.Pct) }

type spfResolver struct {
	guidanceTagFields
	scan entities.Spf
}

func (s *spfResolver) ID() graphql.ID          { return globalID("SPF", s.scan.Key) }
func (s *spfResolver) Timestamp() graphql.Time { return graphql.Time{Time: s.scan.Timestamp} }
func (s *spfResolver) Lookups() int32          { return int32(s.scan.Lookups) }
func (s *spfResolver) Record() string          { return s.scan.Record }
func (s *spfResolver) SpfDefault() string      { return s.scan.SpfDefault }

type sslResolver struct {
	guidanceTagFields
	scan entities.Ssl
}

func (s *sslResolver) ID() graphql.ID                { return globalID("SSL", s.scan.Key) }
func (s *sslResolver) Timestamp() graphql.Time       { return graphql.Time{Time: s.scan.Timestamp} }
func (s *sslResolver) AcceptableCiphers() []string   { return nonNil(s.scan.AcceptableCiphers) }
func (s *sslResolver) AcceptableCurves() []string    { return nonNil(s.scan.AcceptableCurves) }
func (s *sslResolver) StrongCiphers() []string       { return nonNil(s.scan.StrongCiphers) }
func (s *sslResolver) StrongCurves() []string        { return nonNil(s.scan.StrongCurves) }
func (s *sslResolver) WeakCiphers() []string         { return nonNil(s.scan.WeakCiphers) }
func (s *sslResolver) WeakCurves() []string          { return nonNil(s.scan.WeakCurves) }
func (s *sslResolver) CcsInjectionVulnerable() bool  { return s.scan.CcsInjectionVulnerable }
func (s *sslResolver) HeartbleedVulnerable() bool    { return s.scan.HeartbleedVulnerable }
func (s *sslResolver) SupportsEcdhKeyExchange() bool { return s.scan.SupportsEcdhKeyExchange }
