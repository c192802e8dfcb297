package graphqladapter

import (
	"github.com/graph-gophers/graphql-go"

	"domaintracker/src/services/connection"
)

type orderInput struct {
	Field     string
	Direction string
}

func (o *orderInput) orderBy() *connection.OrderBy {
	if o == nil {
		return nil
	}
	return &connection.OrderBy{Field: o.Field, Direction: o.Direction}
}

// amount keeps an explicit null apart from an omitted argument so the
// validator can report it as a type error.
func amount(value graphql.NullInt) any {
	switch {
	case !value.Set:
		return nil
	case value.Value == nil:
		return connection.Null
	default:
		return int(*value.Value)
	}
}

type pageArgs struct {
	First   graphql.NullInt
	Last    graphql.NullInt
	After   *string
	Before  *string
	OrderBy *orderInput
}

func (a pageArgs) args() connection.Args {
	return connection.Args{
		First:   amount(a.First),
		Last:    amount(a.Last),
		After:   a.After,
		Before:  a.Before,
		OrderBy: a.OrderBy.orderBy(),
	}
}

type searchArgs struct {
	First   graphql.NullInt
	Last    graphql.NullInt
	After   *string
	Before  *string
	OrderBy *orderInput
	Search  *string
}

func (a searchArgs) args() connection.Args {
	args := pageArgs{First: a.First, Last: a.Last, After: a.After, Before: a.Before, OrderBy: a.OrderBy}.args()
	if a.Search != nil {
		args.Search = *a.Search
	}
	return args
}

type domainArgs struct {
	First     graphql.NullInt
	Last      graphql.NullInt
	After     *string
	Before    *string
	OrderBy   *orderInput
	Search    *string
	Ownership *bool
}

func (a domainArgs) args() connection.Args {
	args := searchArgs{First: a.First, Last: a.Last, After: a.After, Before: a.Before, OrderBy: a.OrderBy, Search: a.Search}.args()
	args.Ownership = a.Ownership
	return args
}

type periodArgs struct {
	First     graphql.NullInt
	Last      graphql.NullInt
	After     *string
	Before    *string
	OrderBy   *orderInput
	StartDate *graphql.Time
	EndDate   *graphql.Time
}

func (a periodArgs) args() connection.Args {
	args := pageArgs{First: a.First, Last: a.Last, After: a.After, Before: a.Before, OrderBy: a.OrderBy}.args()
	if a.StartDate != nil {
		args.StartDate = &a.StartDate.Time
	}
	if a.EndDate != nil {
		args.EndDate = &a.EndDate.Time
	}
	return args
}

// connectionResolver exposes a loaded page, wrapping each node in its
// GraphQL resolver.
type connectionResolver[T any, R any] struct {
	conn *connection.Connection[T]
	wrap func(T) R
}

func newConnection[T any, R any](conn *connection.Connection[T], err error, wrap func(T) R) (*connectionResolver[T, R], error) {
	if err != nil {
		return nil, err
	}
	return &connectionResolver[T, R]{conn: conn, wrap: wrap}, nil
}

func (c *connectionResolver[T, R]) Edges() []*edgeResolver[R] {
	edges := make([]*edgeResolver[R], len(c.conn.Edges))
	for i, edge := range c.conn.Edges {
		edges[i] = &edgeResolver[R]{cursor: edge.Cursor, node: c.wrap(edge.Node)}
	}
	return edges
}

func (c *connectionResolver[T, R]) PageInfo() *pageInfoResolver {
	return &pageInfoResolver{info: c.conn.PageInfo}
}

func (c *connectionResolver[T, R]) TotalCount() int32 {
	return int32(c.conn.TotalCount)
}

type edgeResolver[R any] struct {
	cursor string
	node   R
}

func (e *edgeResolver[R]) Cursor() string {
	return e.cursor
}

func (e *edgeResolver[R]) Node() R {
	return e.node
}

type pageInfoResolver struct {
	info connection.PageInfo
}

func (p *pageInfoResolver) HasNextPage() bool     { return p.info.HasNextPage }
func (p *pageInfoResolver) HasPreviousPage() bool { return p.info.HasPreviousPage }
func (p *pageInfoResolver) StartCursor() string   { return p.info.StartCursor }
func (p *pageInfoResolver) EndCursor() string     { return p.info.EndCursor }
