//go:build datagen_postgres
// +build datagen_postgres

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"domaintracker/src/domain"
	"domaintracker/src/helper/env"
	"domaintracker/src/infra/postgres"

	"github.com/go-faker/faker/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type seedEntity struct {
	Type       string
	Reference  string
	Properties map[string]any
}

type seedEdge struct {
	Left         string
	Right        string
	Relationship string
	Metadata     map[string]any
}

// OrgBundle is one organization with its members, claimed domains and the
// scans attached to those domains. Edges refer to entities by reference.
type OrgBundle struct {
	Entities []seedEntity
	Edges    []seedEdge
}

var (
	permissions = []string{"user", "user", "user", "admin", "super_admin"}
	statuses    = []string{"pass", "pass", "fail", "info"}
	sectors     = []string{"TBS", "DND", "ESDC", "CRA", "IRCC"}
	provinces   = []string{"Ontario", "Quebec", "Alberta", "Nova Scotia", "Manitoba"}

	guidanceTags = []struct {
		ID       string
		Name     string
		Guidance string
	}{
		{"dkim2", "DKIM-missing", "Mail servers are not signing outbound mail."},
		{"dkim7", "DKIM-valid", "DKIM record and keys are deployed and valid."},
		{"dmarc2", "DMARC-missing", "No DMARC record was found."},
		{"dmarc23", "DMARC-valid", "DMARC record is deployed and valid."},
		{"spf2", "SPF-missing", "No SPF record was found."},
		{"spf12", "SPF-valid", "SPF record is deployed and valid."},
		{"ssl2", "SSL-missing", "No TLS was negotiated."},
		{"ssl5", "SSL-acceptable-certificate", "Certificate chain is valid."},
	}
)

func newSQLClient() (*pgxpool.Pool, error) {
	return postgres.NewPostgresClient(context.Background(), postgres.Config{
		Host:     env.GetString("DB_HOST", "localhost"),
		Port:     env.GetString("DB_PORT", "5432"),
		Database: env.GetString("DB_NAME", "domaintracker"),
		User:     env.GetString("DB_USER", "postgres"),
		Password: env.GetString("DB_PASSWORD", "postgres"),
		MaxConns: 50,
	})
}

func main() {
	numOrgs := flag.Int("orgs", 100, "Number of organizations to create. Use -1 for infinite.")
	usersPerOrg := flag.Int("users-per-org", 25, "Affiliated users per organization")
	domainsPerOrg := flag.Int("domains-per-org", 40, "Claimed domains per organization")
	summaryMonths := flag.Int("summary-months", 13, "Monthly DMARC summaries per domain")
	bulkSize := flag.Int("bulk-size", 20, "Organizations inserted per transaction")
	numConsumers := flag.Int("consumers", 8, "Concurrent writers")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := newSQLClient()
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	if err := insertGuidanceTags(ctx, db); err != nil {
		log.Fatalf("Failed to seed guidance tags: %v", err)
	}

	dataChan := make(chan OrgBundle, (*bulkSize)*(*numConsumers)*2)

	var wg sync.WaitGroup
	var totalProcessed, totalErrors int64
	startTime := time.Now()

	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				processed := atomic.LoadInt64(&totalProcessed)
				errors := atomic.LoadInt64(&totalErrors)
				elapsed := time.Since(startTime)

				fmt.Printf("Processed: %d orgs | Errors: %d | Rate: %.1f/s | Elapsed: %v\n",
					processed, errors, float64(processed)/elapsed.Seconds(), elapsed.Round(time.Second))
			}
		}
	}()

	for i := 0; i < *numConsumers; i++ {
		wg.Add(1)
		go consumer(ctx, &wg, db, dataChan, *bulkSize, &totalProcessed, &totalErrors)
	}

	wg.Add(1)
	go producer(ctx, &wg, dataChan, *numOrgs, *usersPerOrg, *domainsPerOrg, *summaryMonths)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutdown signal received, stopping...")
		cancel()
	}()

	wg.Wait()

	elapsed := time.Since(startTime)
	fmt.Printf("\nSeeding finished: %d orgs, %d errors in %v\n",
		atomic.LoadInt64(&totalProcessed), atomic.LoadInt64(&totalErrors), elapsed.Round(time.Second))
}

func producer(ctx context.Context, wg *sync.WaitGroup, dataChan chan<- OrgBundle, numOrgs, usersPerOrg, domainsPerOrg, summaryMonths int) {
	defer wg.Done()
	defer close(dataChan)

	for i := 0; numOrgs == -1 || i < numOrgs; i++ {
		select {
		case <-ctx.Done():
			return
		case dataChan <- generateOrgBundle(usersPerOrg, domainsPerOrg, summaryMonths):
		}
	}
}

func consumer(ctx context.Context, wg *sync.WaitGroup, db *pgxpool.Pool, dataChan <-chan OrgBundle, bulkSize int, totalProcessed, totalErrors *int64) {
	defer wg.Done()

	batch := make([]OrgBundle, 0, bulkSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := bulkInsert(ctx, db, batch); err != nil {
			log.Printf("Bulk insert failed: %v", err)
			atomic.AddInt64(totalErrors, int64(len(batch)))
		} else {
			atomic.AddInt64(totalProcessed, int64(len(batch)))
		}
		batch = batch[:0]
	}

	for bundle := range dataChan {
		batch = append(batch, bundle)
		if len(batch) >= bulkSize {
			flush()
		}
	}
	flush()
}

func generateOrgBundle(usersPerOrg, domainsPerOrg, summaryMonths int) OrgBundle {
	var bundle OrgBundle

	acronym := strings.ToUpper(faker.Word())
	orgRef := "org-" + faker.UUIDHyphenated()
	bundle.Entities = append(bundle.Entities, seedEntity{
		Type:      domain.CollectionOrganizations,
		Reference: orgRef,
		Properties: map[string]any{
			"verified": rand.Intn(4) > 0,
			"summaries": map[string]any{
				"web":  summaryCounts(domainsPerOrg),
				"mail": summaryCounts(domainsPerOrg),
			},
			"en": orgDetails(faker.Name()+" Agency", acronym, "Canada"),
			"fr": orgDetails("Agence "+faker.LastName(), acronym, "Canada"),
		},
	})

	for i := 0; i < usersPerOrg; i++ {
		userRef := "user-" + faker.UUIDHyphenated()
		bundle.Entities = append(bundle.Entities, seedEntity{
			Type:      domain.CollectionUsers,
			Reference: userRef,
			Properties: map[string]any{
				"userName":      faker.Email(),
				"displayName":   faker.Name(),
				"preferredLang": []string{"english", "french"}[rand.Intn(2)],
			},
		})
		bundle.Edges = append(bundle.Edges, seedEdge{
			Left:         orgRef,
			Right:        userRef,
			Relationship: domain.EdgeAffiliations,
			Metadata:     map[string]any{"permission": permissions[rand.Intn(len(permissions))]},
		})
	}

	for i := 0; i < domainsPerOrg; i++ {
		hostname := fmt.Sprintf("%s-%d.%s", strings.ToLower(faker.Word()), rand.Intn(100000), faker.DomainName())
		lastRan := time.Now().UTC().Add(-time.Duration(rand.Intn(72)) * time.Hour)

		bundle.Entities = append(bundle.Entities, seedEntity{
			Type:      domain.CollectionDomains,
			Reference: hostname,
			Properties: map[string]any{
				"domain":    hostname,
				"lastRan":   lastRan.Format(time.RFC3339),
				"selectors": []string{"selector1", "selector2"},
				"status": map[string]any{
					"dkim":  randomStatus(),
					"dmarc": randomStatus(),
					"https": randomStatus(),
					"spf":   randomStatus(),
					"ssl":   randomStatus(),
				},
			},
		})
		bundle.Edges = append(bundle.Edges, seedEdge{Left: orgRef, Right: hostname, Relationship: domain.EdgeClaims})
		if rand.Intn(3) == 0 {
			bundle.Edges = append(bundle.Edges, seedEdge{Left: orgRef, Right: hostname, Relationship: domain.EdgeOwnership})
		}

		for _, scanType := range []domain.ScanType{domain.ScanDkim, domain.ScanDmarc, domain.ScanSpf, domain.ScanSsl} {
			scanRef := fmt.Sprintf("%s-%s", scanType, faker.UUIDHyphenated())
			bundle.Entities = append(bundle.Entities, seedEntity{
				Type:       scanType.Collection(),
				Reference:  scanRef,
				Properties: scanProperties(scanType, lastRan),
			})
			bundle.Edges = append(bundle.Edges, seedEdge{Left: hostname, Right: scanRef, Relationship: scanType.DomainEdge()})

			if scanType == domain.ScanDkim {
				resultRef := "dkimResult-" + faker.UUIDHyphenated()
				bundle.Entities = append(bundle.Entities, seedEntity{
					Type:      domain.CollectionDkimResults,
					Reference: resultRef,
					Properties: withTags(domain.ScanDkim, map[string]any{
						"selector":  "selector1",
						"record":    "v=DKIM1; k=rsa; p=" + faker.Password(),
						"keyLength": []string{"1024", "2048", "4096"}[rand.Intn(3)],
					}),
				})
				bundle.Edges = append(bundle.Edges, seedEdge{Left: scanRef, Right: resultRef, Relationship: domain.EdgeDkimToDkimResults})
			}
		}

		month := time.Date(time.Now().Year(), time.Now().Month(), 1, 0, 0, 0, 0, time.UTC)
		for m := 0; m < summaryMonths; m++ {
			summaryRef := "dmarcSummary-" + faker.UUIDHyphenated()
			pass, dkimOnly, spfOnly, fail := rand.Intn(5000), rand.Intn(500), rand.Intn(500), rand.Intn(200)
			bundle.Entities = append(bundle.Entities, seedEntity{
				Type:      domain.CollectionDmarcSummaries,
				Reference: summaryRef,
				Properties: map[string]any{
					"categoryTotals": map[string]any{
						"fullPass": pass, "passDkimOnly": dkimOnly, "passSpfOnly": spfOnly, "fail": fail,
					},
					"totalMessages": pass + dkimOnly + spfOnly + fail,
				},
			})
			bundle.Edges = append(bundle.Edges, seedEdge{
				Left:         hostname,
				Right:        summaryRef,
				Relationship: domain.EdgeDomainsToDmarcSummaries,
				Metadata:     map[string]any{"startDate": month.AddDate(0, -m, 0).Format(time.RFC3339)},
			})
		}
	}

	return bundle
}

func orgDetails(name, acronym, country string) map[string]any {
	return map[string]any{
		"name":     name,
		"acronym":  acronym,
		"slug":     strings.ToLower(strings.ReplaceAll(name, " ", "-")),
		"zone":     "FED",
		"sector":   sectors[rand.Intn(len(sectors))],
		"country":  country,
		"province": provinces[rand.Intn(len(provinces))],
		"city":     faker.GetRealAddress().City,
	}
}

func summaryCounts(total int) map[string]any {
	pass := rand.Intn(total + 1)
	return map[string]any{"pass": pass, "fail": total - pass, "total": total}
}

func randomStatus() string {
	return statuses[rand.Intn(len(statuses))]
}

func scanProperties(scanType domain.ScanType, timestamp time.Time) map[string]any {
	properties := map[string]any{"timestamp": timestamp.Format(time.RFC3339)}

	switch scanType {
	case domain.ScanDmarc:
		properties["record"] = "v=DMARC1; p=reject; pct=100"
		properties["pPolicy"] = "reject"
		properties["spPolicy"] = "reject"
		properties["pct"] = 100
	case domain.ScanSpf:
		properties["record"] = "v=spf1 include:_spf.example.com -all"
		properties["lookups"] = rand.Intn(10)
		properties["spfDefault"] = "fail"
	case domain.ScanSsl:
		properties["acceptableCiphers"] = []string{"TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384"}
		properties["weakCiphers"] = []string{}
		properties["heartbleedVulnerable"] = false
		properties["ccsInjectionVulnerable"] = false
		properties["supportsEcdhKeyExchange"] = true
	}

	if scanType == domain.ScanDkim {
		return properties
	}
	return withTags(scanType, properties)
}

func withTags(scanType domain.ScanType, properties map[string]any) map[string]any {
	var tags []string
	for _, tag := range guidanceTags {
		if strings.HasPrefix(tag.ID, string(scanType)) {
			tags = append(tags, tag.ID)
		}
	}

	properties["positiveTags"] = tags[len(tags)-1:]
	properties["neutralTags"] = []string{}
	properties["negativeTags"] = tags[:rand.Intn(2)]
	return properties
}

func insertGuidanceTags(ctx context.Context, db *pgxpool.Pool) error {
	seeds := make([]seedEntity, len(guidanceTags))
	for i, tag := range guidanceTags {
		refLink := map[string]any{"description": tag.Name, "ref_link": "https://www.cyber.gc.ca/en/guidance/" + tag.ID}
		seeds[i] = seedEntity{
			Type:      domain.CollectionGuidanceTags,
			Reference: tag.ID,
			Properties: map[string]any{
				"en": map[string]any{"tagName": tag.Name, "guidance": tag.Guidance, "refLinks": []any{refLink}, "refLinksTech": []any{}},
				"fr": map[string]any{"tagName": tag.Name, "guidance": tag.Guidance, "refLinks": []any{refLink}, "refLinksTech": []any{}},
			},
		}
	}

	_, err := insertEntities(ctx, db, seeds)
	return err
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func bulkInsert(ctx context.Context, db *pgxpool.Pool, bundles []OrgBundle) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var seeds []seedEntity
	var edges []seedEdge
	for _, b := range bundles {
		seeds = append(seeds, b.Entities...)
		edges = append(edges, b.Edges...)
	}

	ids, err := insertEntities(ctx, tx, seeds)
	if err != nil {
		return err
	}

	leftIDs := make([]int64, 0, len(edges))
	rightIDs := make([]int64, 0, len(edges))
	relationshipTypes := make([]string, 0, len(edges))
	metadata := make([]*string, 0, len(edges))

	for _, edge := range edges {
		leftID, lok := ids[edge.Left]
		rightID, rok := ids[edge.Right]
		if !lok || !rok {
			continue
		}

		leftIDs = append(leftIDs, leftID)
		rightIDs = append(rightIDs, rightID)
		relationshipTypes = append(relationshipTypes, edge.Relationship)

		if edge.Metadata == nil {
			metadata = append(metadata, nil)
			continue
		}
		raw, err := json.Marshal(edge.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal edge metadata: %w", err)
		}
		value := string(raw)
		metadata = append(metadata, &value)
	}

	edgeSQL := `
		INSERT INTO edges (left_entity_id, right_entity_id, relationship_type, metadata)
		SELECT unnest($1::bigint[]), unnest($2::bigint[]), unnest($3::text[]), unnest($4::jsonb[])
		ON CONFLICT (left_entity_id, right_entity_id, relationship_type) DO NOTHING
	`
	if _, err := tx.Exec(ctx, edgeSQL, leftIDs, rightIDs, relationshipTypes, metadata); err != nil {
		return fmt.Errorf("failed to insert edges: %w", err)
	}

	return tx.Commit(ctx)
}

// insertEntities upserts the seeds and returns their ids keyed by
// reference.
func insertEntities(ctx context.Context, db querier, seeds []seedEntity) (map[string]int64, error) {
	types := make([]string, len(seeds))
	references := make([]string, len(seeds))
	properties := make([]string, len(seeds))

	for i, seed := range seeds {
		raw, err := json.Marshal(seed.Properties)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s properties: %w", seed.Type, err)
		}
		types[i] = seed.Type
		references[i] = seed.Reference
		properties[i] = string(raw)
	}

	insertSQL := `
		INSERT INTO entities (type, reference, properties)
		SELECT unnest($1::text[]), unnest($2::text[]), unnest($3::jsonb[])
		ON CONFLICT (type, reference) DO UPDATE SET properties = EXCLUDED.properties, updated_at = NOW()
		RETURNING id, reference
	`

	rows, err := db.Query(ctx, insertSQL, types, references, properties)
	if err != nil {
		return nil, fmt.Errorf("failed to insert entities: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]int64, len(seeds))
	for rows.Next() {
		var id int64
		var reference string
		if err := rows.Scan(&id, &reference); err != nil {
			return nil, fmt.Errorf("failed to scan entity id: %w", err)
		}
		ids[reference] = id
	}

	return ids, rows.Err()
}
