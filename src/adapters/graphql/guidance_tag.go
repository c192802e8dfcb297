package graphqladapter

import (
	"strings"

	"github.com/graph-gophers/graphql-go"

	"domaintracker/src/domain/entities"
)

type guidanceTagResolver struct {
	tag entities.GuidanceTag
}

func (g *guidanceTagResolver) ID() graphql.ID   { return globalID("GuidanceTag", g.tag.Key) }
func (g *guidanceTagResolver) TagID() string    { return g.tag.TagID }
func (g *guidanceTagResolver) TagName() string  { return g.tag.TagName }
func (g *guidanceTagResolver) Guidance() string { return g.tag.Guidance }

func (g *guidanceTagResolver) RefLinks() []*refLinkResolver {
	return refLinks(g.tag.RefLinks)
}

func (g *guidanceTagResolver) RefLinksTech() []*refLinkResolver {
	return refLinks(g.tag.RefLinksTech)
}

type refLinkResolver struct {
	link entities.RefLink
}

func (r *refLinkResolver) Description() string { return r.link.Description }
func (r *refLinkResolver) RefLink() string     { return strings.TrimSpace(r.link.RefLink) }

func refLinks(links []entities.RefLink) []*refLinkResolver {
	resolvers := make([]*refLinkResolver, len(links))
	for i, link := range links {
		resolvers[i] = &refLinkResolver{link: link}
	}
	return resolvers
}

type dmarcSummaryResolver struct {
	summary entities.DmarcSummary
}

func (d *dmarcSummaryResolver) ID() graphql.ID       { return globalID("DmarcSummary", d.summary.Key) }
func (d *dmarcSummaryResolver) StartDate() string    { return d.summary.StartDate }
func (d *dmarcSummaryResolver) TotalMessages() int32 { return int32(d.summary.TotalMessages) }

func (d *dmarcSummaryResolver) CategoryTotals() *categoryTotalsResolver {
	return &categoryTotalsResolver{totals: d.summary.CategoryTotals}
}

type categoryTotalsResolver struct {
	totals entities.CategoryTotals
}

func (c *categoryTotalsResolver) PassDkimOnly() int32 { return int32(c.totals.PassDkimOnly) }
func (c *categoryTotalsResolver) PassSpfOnly() int32  { return int32(c.totals.PassSpfOnly) }
func (c *categoryTotalsResolver) FullPass() int32     { return int32(c.totals.FullPass) }
func (c *categoryTotalsResolver) Fail() int32         { return int32(c.totals.Fail) }
