package connection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"domaintracker/src/helper/auth"
	"domaintracker/src/helper/cursor"
	"domaintracker/src/helper/i18n"
	"domaintracker/src/infra/metrics"
	"domaintracker/src/repositories"
)

// SortExpr returns the SQL sort expression of an orderBy field. lang is
// the request language code, for fields stored per language.
type SortExpr func(lang string) string

// Source describes one kind of connection: how its rows are named, sorted,
// filtered and turned into nodes.
type Source[T any] struct {
	Loader   string
	NodeName string
	Noun     string
	Sortable map[string]SortExpr
	Filter   func(ctx context.Context, args Args) []repositories.Predicate
	Map      func(row repositories.ConnectionRow) (T, error)
}

type PageRepository interface {
	FetchPage(ctx context.Context, query repositories.PageQuery) ([]repositories.ConnectionRow, error)
	FetchMeta(ctx context.Context, query repositories.PageQuery, firstKey, lastKey *int64) (repositories.PageMeta, error)
}

type Loader[T any] struct {
	logger     *slog.Logger
	repository PageRepository
	source     Source[T]
}

func NewLoader[T any](logger *slog.Logger, repository PageRepository, source Source[T]) *Loader[T] {
	return &Loader[T]{logger: logger, repository: repository, source: source}
}

func (l *Loader[T]) Name() string {
	return l.source.Loader
}

// Load resolves one page of the connection rooted at base. The page is read
// first; a second statement then checks both boundaries and counts the
// filtered set.
func (l *Loader[T]) Load(ctx context.Context, base repositories.ConnectionSource, args Args) (*Connection[T], error) {
	start := time.Now()
	defer func() {
		metrics.LoaderDuration.WithLabelValues(l.source.Loader).Observe(time.Since(start).Seconds())
	}()

	window, err := Validate(ctx, l.logger, l.source.Loader, l.source.NodeName, args.First, args.Last)
	if err != nil {
		metrics.LoaderFailures.WithLabelValues(l.source.Loader, "validation").Inc()
		return nil, err
	}

	query := repositories.PageQuery{
		Source:   base,
		Sort:     l.sortField(ctx, args.OrderBy),
		After:    decodeBound(args.After),
		Before:   decodeBound(args.Before),
		Limit:    window.Limit,
		Backward: window.Backward,
	}
	if l.source.Filter != nil {
		query.Filters = l.source.Filter(ctx, args)
	}

	rows, err := l.repository.FetchPage(ctx, query)
	if err != nil {
		return nil, l.failure(ctx, err)
	}

	nodes := make([]T, len(rows))
	keys := make([]string, len(rows))
	for i, row := range rows {
		node, err := l.source.Map(row)
		if err != nil {
			return nil, l.failure(ctx, fmt.Errorf("Loader.Load - failed to map row %d: %w: %w", row.Key, repositories.ErrCursor, err))
		}
		nodes[i] = node
		keys[i] = strconv.FormatInt(row.Key, 10)
	}

	var firstKey, lastKey *int64
	if len(rows) > 0 {
		firstKey = &rows[0].Key
		lastKey = &rows[len(rows)-1].Key
	}

	meta, err := l.repository.FetchMeta(ctx, query, firstKey, lastKey)
	if err != nil {
		return nil, l.failure(ctx, err)
	}

	return Assemble(l.source.NodeName, nodes, keys, meta.HasNextPage, meta.HasPreviousPage, meta.TotalCount), nil
}

func (l *Loader[T]) sortField(ctx context.Context, orderBy *OrderBy) *repositories.SortField {
	if orderBy == nil {
		return nil
	}

	expr, ok := l.source.Sortable[orderBy.Field]
	if !ok {
		return nil
	}

	return &repositories.SortField{
		Expr:       expr(i18n.Code(ctx)),
		Descending: orderBy.Direction == DirectionDesc,
	}
}

func (l *Loader[T]) failure(ctx context.Context, err error) error {
	return Failure(ctx, l.logger, l.source.Loader, l.source.Noun, err)
}

// Failure logs a load failure under its class (cursor or database) and
// returns the generic localized message for noun.
func Failure(ctx context.Context, logger *slog.Logger, loader string, noun string, err error) error {
	userKey := auth.UserKey(ctx)
	englishNoun := i18n.In(i18n.English, noun)

	if errors.Is(err, repositories.ErrCursor) {
		metrics.LoaderFailures.WithLabelValues(loader, "cursor").Inc()
		logger.Error(fmt.Sprintf("Cursor error occurred while user was trying to gather %s in %s", englishNoun, loader),
			"user_key", userKey,
			"loader", loader,
			"error", err)
	} else {
		metrics.LoaderFailures.WithLabelValues(loader, "database").Inc()
		logger.Error(fmt.Sprintf("Database error occurred while user was trying to query %s in %s", englishNoun, loader),
			"user_key", userKey,
			"loader", loader,
			"error", err)
	}

	return NewLoadError(i18n.T(ctx, i18n.MsgLoadFailed, i18n.T(ctx, noun)))
}

func decodeBound(value *string) *string {
	if value == nil {
		return nil
	}
	key := cursor.Key(*value)
	return &key
}
