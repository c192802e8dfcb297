package loaders

import (
	"context"
	"fmt"
	"strings"

	"domaintracker/src/repositories"
	"domaintracker/src/services/connection"
)

// containsPattern turns a search term into an ILIKE pattern matching it
// anywhere, with LIKE wildcards in the term escaped.
func containsPattern(term string) string {
	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + escaper.Replace(term) + "%"
}

// searchFilter matches the term against any of the given text expressions.
func searchFilter(exprs func(lang string) []string) func(context.Context, connection.Args) []repositories.Predicate {
	return func(ctx context.Context, args connection.Args) []repositories.Predicate {
		term := strings.TrimSpace(args.Search)
		if term == "" {
			return nil
		}
		return []repositories.Predicate{matchAny(exprs(langCode(ctx)), term)}
	}
}

func matchAny(exprs []string, term string) repositories.Predicate {
	pattern := containsPattern(term)
	parts := make([]string, len(exprs))
	args := make([]any, len(exprs))
	for i, expr := range exprs {
		parts[i] = fmt.Sprintf("%s ILIKE ?", expr)
		args[i] = pattern
	}
	return repositories.Where(strings.Join(parts, " OR "), args...)
}

// dateRangeFilter bounds expr (a timestamptz expression) by startDate and
// endDate, both inclusive.
func dateRangeFilter(expr string) func(context.Context, connection.Args) []repositories.Predicate {
	return func(_ context.Context, args connection.Args) []repositories.Predicate {
		var predicates []repositories.Predicate
		if args.StartDate != nil {
			predicates = append(predicates, repositories.Where(expr+" >= ?", *args.StartDate))
		}
		if args.EndDate != nil {
			predicates = append(predicates, repositories.Where(expr+" <= ?", *args.EndDate))
		}
		return predicates
	}
}

func combine(filters ...func(context.Context, connection.Args) []repositories.Predicate) func(context.Context, connection.Args) []repositories.Predicate {
	return func(ctx context.Context, args connection.Args) []repositories.Predicate {
		var predicates []repositories.Predicate
		for _, filter := range filters {
			predicates = append(predicates, filter(ctx, args)...)
		}
		return predicates
	}
}

func text(expr string) connection.SortExpr {
	return func(string) string {
		return fmt.Sprintf("COALESCE(%s, '')", expr)
	}
}

// localized sorts on a field of the per-language bundle of an organization.
func localized(field string) connection.SortExpr {
	return func(lang string) string {
		return fmt.Sprintf("COALESCE(n.properties->'%s'->>'%s', '')", lang, field)
	}
}

func number(expr string) connection.SortExpr {
	return func(string) string {
		return fmt.Sprintf("COALESCE((%s)::numeric, 0)", expr)
	}
}

func timestamp(expr string) connection.SortExpr {
	return func(string) string {
		return fmt.Sprintf("COALESCE((%s)::timestamptz, 'epoch'::timestamptz)", expr)
	}
}

func boolean(expr string) connection.SortExpr {
	return func(string) string {
		return fmt.Sprintf("COALESCE((%s)::boolean, false)", expr)
	}
}
