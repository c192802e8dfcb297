package graphqladapter

import (
	"context"

	"github.com/graph-gophers/graphql-go"

	"domaintracker/src/domain/entities"
)

type domainResolver struct {
	root   *Resolver
	domain entities.Domain
}

func (d *domainResolver) ID() graphql.ID {
	return globalID(typeDomain, d.domain.Key)
}

func (d *domainResolver) Domain() string {
	return d.domain.Domain
}

func (d *domainResolver) LastRan() *graphql.Time {
	if d.domain.LastRan == nil {
		return nil
	}
	return &graphql.Time{Time: *d.domain.LastRan}
}

func (d *domainResolver) Selectors() []string {
	return nonNil(d.domain.Selectors)
}

func (d *domainResolver) Status() *domainStatusResolver {
	return &domainStatusResolver{status: d.domain.Status}
}

func (d *domainResolver) Email() *emailScanResolver {
	return &emailScanResolver{root: d.root, domainKey: d.domain.Key}
}

func (d *domainResolver) Web() *webScanResolver {
	return &webScanResolver{root: d.root, domainKey: d.domain.Key}
}

func (d *domainResolver) DmarcSummaries(ctx context.Context, args periodArgs) (*connectionResolver[entities.DmarcSummary, *dmarcSummaryResolver], error) {
	conn, err := d.root.service.DmarcSummariesByDomain(ctx, d.domain.Key, args.args())
	return newConnection(conn, err, func(summary entities.DmarcSummary) *dmarcSummaryResolver {
		return &dmarcSummaryResolver{summary: summary}
	})
}

type domainStatusResolver struct {
	status entities.DomainStatus
}

func (s *domainStatusResolver) Dkim() string  { return s.status.Dkim }
func (s *domainStatusResolver) Dmarc() string { return s.status.Dmarc }
func (s *domainStatusResolver) Https() string { return s.status.Https }
func (s *domainStatusResolver) Spf() string   { return s.status.Spf }
func (s *domainStatusResolver) Ssl() string   { return s.status.Ssl }

type emailScanResolver struct {
	root      *Resolver
	domainKey string
}

func (e *emailScanResolver) Dkim(ctx context.Context, args periodArgs) (*connectionResolver[entities.Dkim, *dkimResolver], error) {
	conn, err := e.root.service.DkimByDomain(ctx, e.domainKey, args.args())
	return newConnection(conn, err, func(scan entities.Dkim) *dkimResolver {
		return &dkimResolver{root: e.root, scan: scan}
	})
}

func (e *emailScanResolver) Dmarc(ctx context.Context, args periodArgs) (*connectionResolver[entities.Dmarc, *dmarcResolver], error) {
	conn, err := e.root.service.DmarcByDomain(ctx, e.domainKey, args.args())
	return newConnection(conn, err, func(scan entities.Dmarc) *dmarcResolver {
		return &dmarcResolver{guidanceTagFields: guidanceTagFields{root: e.root, refs: scan.GuidanceTagRefs}, scan: scan}
	})
}

func (e *emailScanResolver) Spf(ctx context.Context, args periodArgs) (*connectionResolver[entities.Spf, *spfResolver], error) {
	conn, err := e.root.service.SpfByDomain(ctx, e.domainKey, args.args())
	return newConnection(conn, err, func(scan entities.Spf) *spfResolver {
		return &spfResolver{guidanceTagFields: guidanceTagFields{root: e.root, refs: scan.GuidanceTagRefs}, scan: scan}
	})
}

type webScanResolver struct {
	root      *Resolver
	domainKey string
}

func (w *webScanResolver) Ssl(ctx context.Context, args periodArgs) (*connectionResolver[entities.Ssl, *sslResolver], error) {
	conn, err := w.root.service.SslByDomain(ctx, w.domainKey, args.args())
	return newConnection(conn, err, func(scan entities.Ssl) *sslResolver {
		return &sslResolver{guidanceTagFields: guidanceTagFields{root: w.root, refs: scan.GuidanceTagRefs}, scan: scan}
	})
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
