package repositories

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"domaintracker/src/domain/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrCursor marks failures that happen while materializing a result set,
// as opposed to the statement being rejected.
var ErrCursor = errors.New("cursor error")

// Querier is the part of pgxpool.Pool the read repositories use.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Predicate is a SQL boolean fragment. Every "?" is a positional
// placeholder bound to the next value of Args.
type Predicate struct {
	SQL  string
	Args []any
}

func Where(sql string, args ...any) Predicate {
	return Predicate{SQL: sql, Args: args}
}

type Side int

const (
	// ParentLeft means the parent entity is the edge's left side and nodes
	// are found on the right side.
	ParentLeft Side = iota
	ParentRight
)

// ConnectionSource is the filtered set a connection paginates over. Table
// must expose the node entity as alias "n" and, when HasEdge is set, the
// traversed edge as alias "ed".
type ConnectionSource struct {
	Table   string
	Key     string
	HasEdge bool
	Filters []Predicate
}

// EntitySource paginates entities of one collection keyed by entity id.
func EntitySource(entityType string, filters ...Predicate) ConnectionSource {
	return ConnectionSource{
		Table:   "entities n",
		Key:     "n.id",
		Filters: append([]Predicate{Where("n.type = ?", entityType)}, filters...),
	}
}

// EdgeSource paginates the entities reached from parentID through one edge
// collection. keyOnEdge selects the edge id as the connection key, used
// when the edge itself is the node (affiliations).
func EdgeSource(relationship string, side Side, parentID int64, nodeType string, keyOnEdge bool) ConnectionSource {
	parentColumn, nodeColumn := "ed.left_entity_id", "ed.right_entity_id"
	if side == ParentRight {
		parentColumn, nodeColumn = nodeColumn, parentColumn
	}

	key := "n.id"
	if keyOnEdge {
		key = "ed.id"
	}

	return ConnectionSource{
		Table:   fmt.Sprintf("edges ed JOIN entities n ON n.id = %s", nodeColumn),
		Key:     key,
		HasEdge: true,
		Filters: []Predicate{
			Where("ed.relationship_type = ?", relationship),
			Where(parentColumn+" = ?", parentID),
			Where("n.type = ?", nodeType),
		},
	}
}

// SortField is a whitelisted sort expression over the source aliases. It
// must never evaluate to NULL.
type SortField struct {
	Expr       string
	Descending bool
}

type PageQuery struct {
	Source   ConnectionSource
	Filters  []Predicate
	Sort     *SortField
	After    *string
	Before   *string
	Limit    int
	Backward bool
}

type ConnectionRow struct {
	Key    int64
	Entity entities.Entity
	Edge   *entities.Edge
}

type PageMeta struct {
	HasNextPage     bool
	HasPreviousPage bool
	TotalCount      int
}

type ConnectionRepository struct {
	db Querier
}

func NewConnectionRepository(db Querier) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

// FetchPage loads at most Limit rows inside the after/before window, in
// presentation order.
func (r *ConnectionRepository) FetchPage(ctx context.Context, query PageQuery) ([]ConnectionRow, error) {
	sql, args := buildPageSQL(query)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("ConnectionRepository.FetchPage - query failed: %w", err)
	}
	defer rows.Close()

	result := make([]ConnectionRow, 0, query.Limit)
	for rows.Next() {
		row, err := scanConnectionRow(rows, query.Source.HasEdge)
		if err != nil {
			return nil, fmt.Errorf("ConnectionRepository.FetchPage - failed to scan row: %w: %w", ErrCursor, err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		var pgErr *pgconn.PgError
		if len(result) == 0 && errors.As(err, &pgErr) {
			return nil, fmt.Errorf("ConnectionRepository.FetchPage - query rejected: %w", err)
		}
		return nil, fmt.Errorf("ConnectionRepository.FetchPage - error iterating rows: %w: %w", ErrCursor, err)
	}

	if query.Backward {
		for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
			result[i], result[j] = result[j], result[i]
		}
	}

	return result, nil
}

// FetchMeta looks for rows beyond the first and last keys of a page and
// counts the filtered set. The after/before window is ignored.
func (r *ConnectionRepository) FetchMeta(ctx context.Context, query PageQuery, firstKey, lastKey *int64) (PageMeta, error) {
	sql, args := buildMetaSQL(query, firstKey, lastKey)

	var meta PageMeta
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&meta.HasNextPage, &meta.HasPreviousPage, &meta.TotalCount); err != nil {
		return PageMeta{}, fmt.Errorf("ConnectionRepository.FetchMeta - query failed: %w", err)
	}

	return meta, nil
}

func buildPageSQL(query PageQuery) (string, []any) {
	b := &sqlBuilder{}

	predicates := query.baseFilters()
	if query.After != nil {
		predicates = append(predicates, boundPredicate(query.Source, query.Sort, entities.ParseKey(*query.After), true))
	}
	if query.Before != nil {
		predicates = append(predicates, boundPredicate(query.Source, query.Sort, entities.ParseKey(*query.Before), false))
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(query.Source.Key)
	sb.WriteString(", ")
	sb.WriteString(selectColumns(query.Source.HasEdge))
	sb.WriteString(" FROM ")
	sb.WriteString(query.Source.Table)
	sb.WriteString(" WHERE ")
	sb.WriteString(b.and(predicates))
	sb.WriteString(" ORDER BY ")
	sb.WriteString(orderClause(query.Source, query.Sort, query.Backward))
	sb.WriteString(" LIMIT ")
	sb.WriteString(b.bind(Where("?", query.Limit)))

	return sb.String(), b.args
}

func buildMetaSQL(query PageQuery, firstKey, lastKey *int64) (string, []any) {
	b := &sqlBuilder{}
	base := query.baseFilters()

	hasNext, hasPrevious := "FALSE", "FALSE"
	if lastKey != nil {
		beyond := append(append([]Predicate{}, base...), boundPredicate(query.Source, query.Sort, *lastKey, true))
		hasNext = fmt.Sprintf("EXISTS (SELECT 1 FROM %s WHERE %s)", query.Source.Table, b.and(beyond))
	}
	if firstKey != nil {
		beyond := append(append([]Predicate{}, base...), boundPredicate(query.Source, query.Sort, *firstKey, false))
		hasPrevious = fmt.Sprintf("EXISTS (SELECT 1 FROM %s WHERE %s)", query.Source.Table, b.and(beyond))
	}
	total := fmt.Sprintf("(SELECT COUNT(*) FROM %s WHERE %s)", query.Source.Table, b.and(base))

	return fmt.Sprintf("SELECT %s, %s, %s", hasNext, hasPrevious, total), b.args
}

func (q PageQuery) baseFilters() []Predicate {
	predicates := make([]Predicate, 0, len(q.Source.Filters)+len(q.Filters))
	predicates = append(predicates, q.Source.Filters...)
	predicates = append(predicates, q.Filters...)
	return predicates
}

// boundPredicate keeps the rows strictly after (or before) the row with the
// given key in (sort field, key ASC) order. A key that cannot exist yields
// an empty window.
func boundPredicate(source ConnectionSource, sort *SortField, key int64, after bool) Predicate {
	if key < 0 {
		return Where("FALSE")
	}

	keyOp := "<"
	if after {
		keyOp = ">"
	}

	if sort == nil {
		return Where(fmt.Sprintf("%s %s ?", source.Key, keyOp), key)
	}

	fieldOp := keyOp
	if sort.Descending {
		fieldOp = flip(keyOp)
	}

	boundValue := fmt.Sprintf("(SELECT %s FROM %s WHERE %s = ? LIMIT 1)", sort.Expr, source.Table, source.Key)
	return Where(
		fmt.Sprintf("(%s %s %s OR (%s = %s AND %s %s ?))",
			sort.Expr, fieldOp, boundValue,
			sort.Expr, boundValue, source.Key, keyOp),
		key, key, key,
	)
}

func orderClause(source ConnectionSource, sort *SortField, backward bool) string {
	keyDirection := "ASC"
	if backward {
		keyDirection = "DESC"
	}

	if sort == nil {
		return fmt.Sprintf("%s %s", source.Key, keyDirection)
	}

	fieldDirection := "ASC"
	if sort.Descending != backward {
		fieldDirection = "DESC"
	}

	return fmt.Sprintf("%s %s, %s %s", sort.Expr, fieldDirection, source.Key, keyDirection)
}

func flip(op string) string {
	if op == ">" {
		return "<"
	}
	return ">"
}

func selectColumns(hasEdge bool) string {
	entityColumns := "n.id, n.type, n.reference, n.properties, n.created_at, n.updated_at"
	if !hasEdge {
		return entityColumns + ", NULL::bigint, NULL::bigint, NULL::bigint, NULL::text, NULL::jsonb, NULL::timestamptz, NULL::timestamptz"
	}
	return entityColumns + ", ed.id, ed.left_entity_id, ed.right_entity_id, ed.relationship_type, ed.metadata, ed.created_at, ed.updated_at"
}

func scanConnectionRow(rows pgx.Rows, hasEdge bool) (ConnectionRow, error) {
	var (
		row              ConnectionRow
		edgeID           *int64
		leftID, rightID  *int64
		relationshipType *string
		metadata         []byte
		edgeCreatedAt    *time.Time
		edgeUpdatedAt    *time.Time
	)

	err := rows.Scan(
		&row.Key,
		&row.Entity.ID,
		&row.Entity.Type,
		&row.Entity.Reference,
		&row.Entity.Properties,
		&row.Entity.CreatedAt,
		&row.Entity.UpdatedAt,
		&edgeID,
		&leftID,
		&rightID,
		&relationshipType,
		&metadata,
		&edgeCreatedAt,
		&edgeUpdatedAt,
	)
	if err != nil {
		return ConnectionRow{}, err
	}

	if hasEdge && edgeID != nil {
		row.Edge = &entities.Edge{
			ID:               *edgeID,
			LeftEntityID:     deref(leftID),
			RightEntityID:    deref(rightID),
			RelationshipType: deref(relationshipType),
			Metadata:         metadata,
			CreatedAt:        deref(edgeCreatedAt),
			UpdatedAt:        deref(edgeUpdatedAt),
		}
	}

	return row, nil
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}

// sqlBuilder renumbers "?" placeholders into $n as fragments are bound.
type sqlBuilder struct {
	args []any
}

func (b *sqlBuilder) bind(p Predicate) string {
	var sb strings.Builder
	next := 0
	for _, r := range p.SQL {
		if r != '?' {
			sb.WriteRune(r)
			continue
		}
		b.args = append(b.args, p.Args[next])
		next++
		sb.WriteString("$")
		sb.WriteString(strconv.Itoa(len(b.args)))
	}
	return sb.String()
}

func (b *sqlBuilder) and(predicates []Predicate) string {
	if len(predicates) == 0 {
		return "TRUE"
	}
	parts := make([]string, len(predicates))
	for i, p := range predicates {
		parts[i] = "(" + b.bind(p) + ")"
	}
	return strings.Join(parts, " AND ")
}
