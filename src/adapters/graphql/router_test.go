package graphqladapter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	graphqladapter "domaintracker/src/adapters/graphql"
	"domaintracker/src/domain"
	"domaintracker/src/domain/entities"
	"domaintracker/src/helper/auth"
	"domaintracker/src/helper/cursor"
	"domaintracker/src/repositories"
	"domaintracker/src/services/loaders"
)

var secret = []byte("test-secret")

// brokenWriter accepts headers but fails every body write, like a client
// that hung up.
type brokenWriter struct {
	*httptest.ResponseRecorder
}

func (w *brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("write: broken pipe")
}

// fakePages serves rows, or the rows of the traversed edge collection when
// byEdge is set.
type fakePages struct {
	rows   []repositories.ConnectionRow
	byEdge map[string][]repositories.ConnectionRow
	meta   repositories.PageMeta
}

func (f *fakePages) FetchPage(_ context.Context, query repositories.PageQuery) ([]repositories.ConnectionRow, error) {
	if f.byEdge != nil && query.Source.HasEdge {
		relationship, _ := query.Source.Filters[0].Args[0].(string)
		return f.byEdge[relationship], nil
	}
	return f.rows, nil
}

func (f *fakePages) FetchMeta(context.Context, repositories.PageQuery, *int64, *int64) (repositories.PageMeta, error) {
	return f.meta, nil
}

type fakeFinder struct {
	entities []entities.Entity
}

func (f *fakeFinder) FindByIDs(_ context.Context, entityType string, ids []int64) ([]entities.Entity, error) {
	var result []entities.Entity
	for _, entity := range f.entities {
		for _, id := range ids {
			if entity.Type == entityType && entity.ID == id {
				result = append(result, entity)
			}
		}
	}
	return result, nil
}

type graphQLResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message    string         `json:"message"`
		Extensions map[string]any `json:"extensions"`
	} `json:"errors"`
}

func (f *fakeFinder) FindByReferences(_ context.Context, entityType string, references []string) ([]entities.Entity, error) {
	var result []entities.Entity
	for _, entity := range f.entities {
		for _, reference := range references {
			if entity.Type == entityType && entity.Reference == reference {
				result = append(result, entity)
			}
		}
	}
	return result, nil
}

var _ = Describe("Router", func() {
	var (
		pages        *fakePages
		finder       *fakeFinder
		router       http.Handler
		healthChecks map[string]graphqladapter.HealthCheck
		logs         *bytes.Buffer
	)

	orgID := cursor.Encode("Organization", "1")

	BeforeEach(func() {
		pages = &fakePages{}
		finder = &fakeFinder{entities: []entities.Entity{
			{ID: 1, Type: domain.CollectionOrganizations, Properties: json.RawMessage(`{"en":{"name":"Treasury Board"},"fr":{"name":"Conseil du Trésor"}}`)},
			{ID: 5, Type: domain.CollectionUsers, Properties: json.RawMessage(`{"userName":"test@canada.ca","displayName":"Test User"}`)},
		}}
		healthChecks = map[string]graphqladapter.HealthCheck{
			"postgres": func(context.Context) error { return nil },
		}

		logs = &bytes.Buffer{}
		logger := slog.New(slog.NewTextHandler(logs, nil))
		service := loaders.NewService(logger, pages, finder)
		schema, err := graphqladapter.NewSchema(logger, graphqladapter.NewResolver(logger, service))
		Expect(err).NotTo(HaveOccurred())

		router = graphqladapter.NewRouter(logger, schema, service, graphqladapter.RouterConfig{
			TokenSecret:  secret,
			HealthChecks: healthChecks,
		})
	})

	execute := func(query string, headers map[string]string) graphQLResponse {
		body, _ := json.Marshal(map[string]any{"query": query})
		req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		for name, value := range headers {
			req.Header.Set(name, value)
		}

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusOK))

		var response graphQLResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &response)).To(Succeed())
		return response
	}

	Context("organization affiliations", func() {
		When("requesting the first affiliation", func() {
			It("should return the connection with page info", func() {
				// ARRANGE
				pages.rows = []repositories.ConnectionRow{{
					Key:    10,
					Entity: entities.Entity{ID: 5, Type: domain.CollectionUsers},
					Edge: &entities.Edge{
						ID: 10, LeftEntityID: 1, RightEntityID: 5,
						RelationshipType: domain.EdgeAffiliations,
						Metadata:         json.RawMessage(`{"permission":"admin"}`),
					},
				}}
				pages.meta = repositories.PageMeta{HasNextPage: true, TotalCount: 2}

				// ACT
				response := execute(`{
					findOrganizationById(orgId: "`+orgID+`") {
						name
						affiliations(first: 1) {
							edges { cursor node { permission user { displayName } } }
							pageInfo { hasNextPage hasPreviousPage startCursor endCursor }
							totalCount
						}
					}
				}`, nil)

				// ASSERT
				Expect(response.Errors).To(BeEmpty())
				Expect(string(response.Data["findOrganizationById"])).To(MatchJSON(`{
					"name": "Treasury Board",
					"affiliations": {
						"edges": [{"cursor": "QWZmaWxpYXRpb246MTA=", "node": {"permission": "admin", "user": {"displayName": "Test User"}}}],
						"pageInfo": {"hasNextPage": true, "hasPreviousPage": false, "startCursor": "QWZmaWxpYXRpb246MTA=", "endCursor": "QWZmaWxpYXRpb246MTA="},
						"totalCount": 2
					}
				}`))
			})
		})

		When("passing both first and last in french", func() {
			It("should return the french pagination error with its code", func() {
				// ACT
				response := execute(`{
					findOrganizationById(orgId: "`+orgID+`") {
						name
						affiliations(first: 1, last: 1) { totalCount }
					}
				}`, map[string]string{"Accept-Language": "fr-CA,fr;q=0.9"})

				// ASSERT
				Expect(response.Errors).To(HaveLen(1))
				Expect(response.Errors[0].Message).To(Equal("Passer à la fois `first` et `last` pour paginer la connexion `Affiliation` n'est pas supporté."))
				Expect(response.Errors[0].Extensions).To(HaveKeyWithValue("code", "PAGINATION_ERROR"))
				Expect(string(response.Data["findOrganizationById"])).To(MatchJSON(`{"name": "Conseil du Trésor", "affiliations": null}`))
			})
		})
	})

	Context("explicit null pagination arguments", func() {
		DescribeTable("should report the null as a type error",
			func(arguments string, param string) {
				// ACT
				response := execute(`{
					findOrganizationById(orgId: "`+orgID+`") {
						affiliations(`+arguments+`) { totalCount }
					}
				}`, nil)

				// ASSERT
				Expect(response.Errors).To(HaveLen(1))
				Expect(response.Errors[0].Message).To(Equal("`" + param + "` must be of type `number` not `null`."))
				Expect(response.Errors[0].Extensions).To(HaveKeyWithValue("code", "PAGINATION_TYPE_ERROR"))
			},
			Entry("first alone", "first: null", "first"),
			Entry("last alone", "last: null", "last"),
		)

		It("should refuse first: null next to last as both being set", func() {
			// ACT
			response := execute(`{
				findOrganizationById(orgId: "`+orgID+`") {
					affiliations(first: null, last: 5) { totalCount }
				}
			}`, nil)

			// ASSERT
			Expect(response.Errors).To(HaveLen(1))
			Expect(response.Errors[0].Extensions).To(HaveKeyWithValue("code", "PAGINATION_ERROR"))
			Expect(response.Errors[0].Message).To(ContainSubstring("is not supported"))
		})
	})

	Context("findMe", func() {
		When("no token is sent", func() {
			It("should report an authentication error", func() {
				// ACT
				response := execute(`{ findMe { displayName } }`, nil)

				// ASSERT
				Expect(response.Errors).To(HaveLen(1))
				Expect(response.Errors[0].Message).To(Equal("Authentication error. Please sign in."))
				Expect(response.Errors[0].Extensions).To(HaveKeyWithValue("code", "AUTHENTICATION_ERROR"))
			})
		})

		When("a valid token is sent", func() {
			It("should resolve the token owner", func() {
				// ARRANGE
				token, err := auth.SignToken("5", secret, time.Hour)
				Expect(err).NotTo(HaveOccurred())

				// ACT
				response := execute(`{ findMe { id userName } }`, map[string]string{"Authorization": "Bearer " + token})

				// ASSERT
				Expect(response.Errors).To(BeEmpty())
				Expect(string(response.Data["findMe"])).To(MatchJSON(`{"id": "` + cursor.Encode("SharedUser", "5") + `", "userName": "test@canada.ca"}`))
			})
		})
	})

	When("the id does not exist", func() {
		It("should report not found", func() {
			// ACT
			response := execute(`{ findDomainById(domainId: "`+cursor.Encode("Domain", "404")+`") { domain } }`, nil)

			// ASSERT
			Expect(response.Errors).To(HaveLen(1))
			Expect(response.Errors[0].Extensions).To(HaveKeyWithValue("code", "NOT_FOUND"))
		})
	})

	When("the id belongs to another type", func() {
		It("should report not found", func() {
			// ACT
			response := execute(`{ findDomainById(domainId: "`+orgID+`") { domain } }`, nil)

			// ASSERT
			Expect(response.Errors).To(HaveLen(1))
			Expect(response.Errors[0].Message).To(Equal("No domain(s) with the provided id could be found."))
		})
	})

	Context("domain lookup by hostname", func() {
		BeforeEach(func() {
			finder.entities = append(finder.entities, entities.Entity{
				ID:         7,
				Type:       domain.CollectionDomains,
				Reference:  "canada.ca",
				Properties: json.RawMessage(`{"domain":"canada.ca","status":{"dkim":"pass"}}`),
			})
		})

		It("should normalize the hostname before looking it up", func() {
			// ACT
			response := execute(`{ findDomainByDomain(domain: "CANADA.ca.") { id domain status { dkim } } }`, nil)

			// ASSERT
			Expect(response.Errors).To(BeEmpty())
			Expect(string(response.Data["findDomainByDomain"])).To(MatchJSON(
				`{"id": "` + cursor.Encode("Domain", "7") + `", "domain": "canada.ca", "status": {"dkim": "pass"}}`,
			))
		})

		It("should report not found for a bare public suffix", func() {
			// ACT
			response := execute(`{ findDomainByDomain(domain: "gc.ca") { domain } }`, nil)

			// ASSERT
			Expect(response.Errors).To(HaveLen(1))
			Expect(response.Errors[0].Extensions).To(HaveKeyWithValue("code", "NOT_FOUND"))
		})
	})

	Context("domain scans", func() {
		BeforeEach(func() {
			finder.entities = append(finder.entities, entities.Entity{
				ID:         7,
				Type:       domain.CollectionDomains,
				Reference:  "canada.ca",
				Properties: json.RawMessage(`{"domain":"canada.ca"}`),
			})
			pages.byEdge = map[string][]repositories.ConnectionRow{
				domain.EdgeDomainsDkim: {{
					Key:    20,
					Entity: entities.Entity{ID: 20, Type: domain.CollectionDkim, Properties: json.RawMessage(`{"timestamp":"2024-05-01T16:00:00Z"}`)},
					Edge:   &entities.Edge{ID: 90, LeftEntityID: 7, RightEntityID: 20, RelationshipType: domain.EdgeDomainsDkim},
				}},
				domain.EdgeDkimToDkimResults: {{
					Key:    21,
					Entity: entities.Entity{ID: 21, Type: domain.CollectionDkimResults, Properties: json.RawMessage(`{"selector":"selector1","record":"v=DKIM1","keyLength":"2048"}`)},
					Edge:   &entities.Edge{ID: 91, LeftEntityID: 20, RightEntityID: 21, RelationshipType: domain.EdgeDkimToDkimResults},
				}},
			}
			pages.meta = repositories.PageMeta{TotalCount: 1}
		})

		It("should resolve dkim scans and their results through nested connections", func() {
			// ARRANGE
			query := `{ findDomainById(id: "` + cursor.Encode("Domain", "7") + `") {
				email { dkim(first: 5) { totalCount edges { node {
					timestamp
					results(first: 5) { edges { cursor node { selector keyLength } } }
				} } } }
			} }`

			// ACT
			response := execute(query, nil)

			// ASSERT
			Expect(response.Errors).To(BeEmpty())
			Expect(string(response.Data["findDomainById"])).To(MatchJSON(`{"email": {"dkim": {
				"totalCount": 1,
				"edges": [{"node": {
					"timestamp": "2024-05-01T16:00:00Z",
					"results": {"edges": [{"cursor": "` + cursor.Encode("DKIMResult", "21") + `", "node": {"selector": "selector1", "keyLength": "2048"}}]}
				}}]
			}}}`))
		})

		It("should record loader latency on the metrics endpoint", func() {
			// ARRANGE
			execute(`{ findDomainById(id: "`+cursor.Encode("Domain", "7")+`") { email { dkim(first: 1) { totalCount } } } }`, nil)

			// ACT
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			// ASSERT
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring(`domaintracker_loader_duration_seconds_count{loader="loadDkimConnectionsByDomainId"}`))
		})
	})

	Context("healthz", func() {
		It("should report every dependency", func() {
			// ACT
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			// ASSERT
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(MatchJSON(`{"postgres": "ok"}`))
		})

		It("should fail when a dependency is down", func() {
			// ARRANGE
			healthChecks["redis"] = func(context.Context) error { return errors.New("dial tcp: refused") }

			// ACT
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			// ASSERT
			Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
			Expect(rec.Body.String()).To(MatchJSON(`{"postgres": "ok", "redis": "unavailable"}`))
		})

		It("should log a report that cannot be written", func() {
			// ARRANGE
			rec := &brokenWriter{ResponseRecorder: httptest.NewRecorder()}

			// ACT
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			// ASSERT
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(logs.String()).To(ContainSubstring(`msg="Failed to write health report"`))
			Expect(logs.String()).To(ContainSubstring("broken pipe"))
		})
	})
})
