package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"domaintracker/src/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ScanWriteRepository struct {
	logger                 *slog.Logger
	writePool              *pgxpool.Pool
	cachedEntityRepository *CachedEntityRepository
}

func NewScanWriteRepository(logger *slog.Logger, writePool *pgxpool.Pool, cachedEntityRepository *CachedEntityRepository) *ScanWriteRepository {
	return &ScanWriteRepository{logger: logger, writePool: writePool, cachedEntityRepository: cachedEntityRepository}
}

// IngestScans writes a batch of scan results in one transaction: the domain
// is upserted, each scan (and its DKIM results) becomes an entity linked to
// the domain, and the domain status snapshot is refreshed.
func (r *ScanWriteRepository) IngestScans(ctx context.Context, request domain.IngestScansRequest) error {
	if len(request.Scans) == 0 {
		return nil
	}

	tx, err := r.writePool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ScanWriteRepository.IngestScans - failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	domainIDs := make(map[string]int64)
	for _, scan := range request.Scans {
		domainID, ok := domainIDs[scan.Domain]
		if !ok {
			domainID, err = upsertDomain(ctx, tx, scan.Domain)
			if err != nil {
				return fmt.Errorf("ScanWriteRepository.IngestScans - failed to upsert domain %s: %w", scan.Domain, err)
			}
			domainIDs[scan.Domain] = domainID
		}

		if err := insertScan(ctx, tx, request.BatchID, domainID, scan); err != nil {
			return fmt.Errorf("ScanWriteRepository.IngestScans - failed to insert %s scan for %s: %w", scan.Type, scan.Domain, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("ScanWriteRepository.IngestScans - failed to commit: %w", err)
	}

	affectedIDs := make([]int64, 0, len(domainIDs))
	for _, id := range domainIDs {
		affectedIDs = append(affectedIDs, id)
	}

	if r.cachedEntityRepository != nil {
		go func() {
			if invalidateErr := r.cachedEntityRepository.InvalidateByEntityIDs(context.Background(), affectedIDs); invalidateErr != nil {
				r.logger.Warn("Failed to invalidate cache", "batch_id", request.BatchID, "error", invalidateErr)
			}
		}()
	}

	return nil
}

func upsertDomain(ctx context.Context, tx pgx.Tx, hostname string) (int64, error) {
	query := `
		INSERT INTO
			entities (type, reference, properties)
		VALUES
			($1, $2, jsonb_build_object('domain', $2::text))
		ON CONFLICT (type, reference) DO UPDATE SET
			updated_at = NOW()
		RETURNING
			id`

	var id int64
	err := tx.QueryRow(ctx, query, domain.CollectionDomains, hostname).Scan(&id)
	return id, err
}

func insertScan(ctx context.Context, tx pgx.Tx, batchID string, domainID int64, scan domain.ScanRecord) error {
	properties, err := scanProperties(scan.Properties, scan)
	if err != nil {
		return err
	}

	scanID, err := insertEntity(ctx, tx, scan.Type.Collection(), batchID, properties)
	if err != nil {
		return err
	}

	if err := insertEdge(ctx, tx, domainID, scanID, scan.Type.DomainEdge()); err != nil {
		return err
	}

	if scan.Type != domain.ScanDkim && len(scan.SubResults) > 0 {
		return fmt.Errorf("%s scan for %s carries %d dkim results", scan.Type, scan.Domain, len(scan.SubResults))
	}

	for _, subResult := range scan.SubResults {
		resultID, err := insertEntity(ctx, tx, domain.CollectionDkimResults, batchID, subResult)
		if err != nil {
			return err
		}
		if err := insertEdge(ctx, tx, scanID, resultID, domain.EdgeDkimToDkimResults); err != nil {
			return err
		}
	}

	query := `
		UPDATE
			entities
		SET
			properties = COALESCE(properties, '{}'::jsonb)
				|| jsonb_build_object('lastRan', $2::timestamptz)
				|| jsonb_build_object('status', COALESCE(properties->'status', '{}'::jsonb) || jsonb_build_object($3::text, $4::text)),
			updated_at = NOW()
		WHERE
			id = $1`

	_, err = tx.Exec(ctx, query, domainID, scan.Timestamp, scan.Type.StatusField(), scan.Status)
	return err
}

// Scan references are generated: scans carry no business identifier.
func insertEntity(ctx context.Context, tx pgx.Tx, entityType string, batchID string, properties json.RawMessage) (int64, error) {
	query := `
		INSERT INTO
			entities (type, reference, properties)
		VALUES
			($1, $2, $3)
		RETURNING
			id`

	reference := fmt.Sprintf("%s:%s", batchID, uuid.NewString())

	var id int64
	err := tx.QueryRow(ctx, query, entityType, reference, properties).Scan(&id)
	return id, err
}

func insertEdge(ctx context.Context, tx pgx.Tx, leftID, rightID int64, relationshipType string) error {
	query := `
		INSERT INTO
			edges (left_entity_id, right_entity_id, relationship_type)
		VALUES
			($1, $2, $3)
		ON CONFLICT (left_entity_id, right_entity_id, relationship_type) DO NOTHING`

	_, err := tx.Exec(ctx, query, leftID, rightID, relationshipType)
	return err
}

func scanProperties(raw json.RawMessage, scan domain.ScanRecord) (json.RawMessage, error) {
	var properties map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &properties); err != nil {
			return nil, fmt.Errorf("invalid scan data: %w", err)
		}
	}
	// "null" unmarshals to a nil map
	if properties == nil {
		properties = map[string]any{}
	}

	properties["timestamp"] = scan.Timestamp
	properties["positiveTags"] = nonNil(scan.PositiveTags)
	properties["neutralTags"] = nonNil(scan.NeutralTags)
	properties["negativeTags"] = nonNil(scan.NegativeTags)

	return json.Marshal(properties)
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
