package loaders_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"domaintracker/src/domain"
	"domaintracker/src/domain/entities"
	"domaintracker/src/helper/i18n"
	"domaintracker/src/repositories"
	"domaintracker/src/services/connection"
	"domaintracker/src/services/loaders"
)

type fakePageRepository struct {
	rows    []repositories.ConnectionRow
	queries []repositories.PageQuery
}

func (f *fakePageRepository) FetchPage(_ context.Context, query repositories.PageQuery) ([]repositories.ConnectionRow, error) {
	f.queries = append(f.queries, query)
	return f.rows, nil
}

func (f *fakePageRepository) FetchMeta(context.Context, repositories.PageQuery, *int64, *int64) (repositories.PageMeta, error) {
	return repositories.PageMeta{TotalCount: len(f.rows)}, nil
}

func predicateArgs(predicates []repositories.Predicate) []any {
	var args []any
	for _, p := range predicates {
		args = append(args, p.Args...)
	}
	return args
}

var _ = Describe("Service", func() {
	var (
		pages   *fakePageRepository
		service *loaders.Service
		ctx     context.Context
	)

	BeforeEach(func() {
		pages = &fakePageRepository{}
		service = loaders.NewService(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), pages, &fakeFinder{})
		ctx = context.Background()
	})

	Context("DomainsByOrg", func() {
		When("searching with LIKE wildcards", func() {
			It("should match them literally", func() {
				// ACT
				_, err := service.DomainsByOrg(ctx, "12", connection.Args{First: 10, Search: " 50%_off\\ "})

				// ASSERT
				Expect(err).NotTo(HaveOccurred())
				Expect(predicateArgs(pages.queries[0].Filters)).To(Equal([]any{`%50\%\_off\\%`}))
			})
		})

		When("restricting to owned domains", func() {
			It("should add the ownership predicate", func() {
				// ARRANGE
				ownership := true

				// ACT
				_, err := service.DomainsByOrg(ctx, "12", connection.Args{First: 10, Ownership: &ownership})

				// ASSERT
				Expect(err).NotTo(HaveOccurred())
				Expect(pages.queries[0].Filters).To(HaveLen(1))
				Expect(pages.queries[0].Filters[0].SQL).To(ContainSubstring("EXISTS"))
				Expect(pages.queries[0].Filters[0].Args).To(Equal([]any{domain.EdgeOwnership}))
			})
		})

		It("should paginate the claims of the organization", func() {
			// ACT
			_, err := service.DomainsByOrg(ctx, "12", connection.Args{First: 10})

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(predicateArgs(pages.queries[0].Source.Filters)).To(Equal([]any{domain.EdgeClaims, int64(12), domain.CollectionDomains}))
		})
	})

	Context("AffiliationsByUser", func() {
		When("searching in french", func() {
			It("should match the french organization bundle", func() {
				// ARRANGE
				frCtx := i18n.WithLanguage(ctx, i18n.French)

				// ACT
				_, err := service.AffiliationsByUser(frCtx, "3", connection.Args{First: 5, Search: "tbs"})

				// ASSERT
				Expect(err).NotTo(HaveOccurred())
				Expect(pages.queries[0].Filters[0].SQL).To(ContainSubstring("n.properties->'fr'->>'name' ILIKE ?"))
			})
		})

		It("should key affiliations on the edge and map it", func() {
			// ARRANGE
			pages.rows = []repositories.ConnectionRow{{
				Key:    40,
				Entity: entities.Entity{ID: 9, Type: domain.CollectionOrganizations},
				Edge: &entities.Edge{
					ID:               40,
					LeftEntityID:     9,
					RightEntityID:    3,
					RelationshipType: domain.EdgeAffiliations,
					Metadata:         json.RawMessage(`{"permission":"admin"}`),
				},
			}}

			// ACT
			result, err := service.AffiliationsByUser(ctx, "3", connection.Args{First: 5})

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Edges[0].Node).To(Equal(entities.Affiliation{Key: "40", OrgKey: "9", UserKey: "3", Permission: entities.PermissionAdmin}))
			Expect(pages.queries[0].Source.Key).To(Equal("ed.id"))
		})
	})

	Context("DmarcSummariesByDomain", func() {
		When("a date range is given", func() {
			It("should bound the edge start date", func() {
				// ARRANGE
				start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
				end := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

				// ACT
				_, err := service.DmarcSummariesByDomain(ctx, "1", connection.Args{First: 5, StartDate: &start, EndDate: &end})

				// ASSERT
				Expect(err).NotTo(HaveOccurred())
				Expect(pages.queries[0].Filters).To(HaveLen(2))
				Expect(predicateArgs(pages.queries[0].Filters)).To(Equal([]any{start, end}))
			})
		})
	})

	Context("GuidanceTagsByTagID", func() {
		It("should restrict the tags to the given references", func() {
			// ARRANGE
			pages.rows = []repositories.ConnectionRow{{
				Key:    2,
				Entity: entities.Entity{ID: 2, Reference: "ssl2", Properties: json.RawMessage(`{"tagName":"SSL-rc4"}`)},
			}}

			// ACT
			result, err := service.GuidanceTagsByTagID(ctx, []string{"ssl2", "ssl5"}, connection.Args{First: 5})

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(predicateArgs(pages.queries[0].Source.Filters)).To(ContainElement([]string{"ssl2", "ssl5"}))
			Expect(result.Edges[0].Node.TagID).To(Equal("ssl2"))
			Expect(result.Edges[0].Node.TagName).To(Equal("SSL-rc4"))
		})
	})
})
