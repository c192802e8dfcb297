package connection

import "domaintracker/src/helper/cursor"

type Edge[T any] struct {
	Cursor string
	Node   T
}

type PageInfo struct {
	HasNextPage     bool
	HasPreviousPage bool
	StartCursor     string
	EndCursor       string
}

type Connection[T any] struct {
	Edges      []Edge[T]
	PageInfo   PageInfo
	TotalCount int
}

// Assemble wraps nodes, already in presentation order, into a connection.
// keys[i] is the local key of nodes[i].
func Assemble[T any](nodeName string, nodes []T, keys []string, hasNext, hasPrevious bool, totalCount int) *Connection[T] {
	conn := &Connection[T]{
		Edges:      make([]Edge[T], len(nodes)),
		TotalCount: totalCount,
	}

	for i, node := range nodes {
		conn.Edges[i] = Edge[T]{Cursor: cursor.Encode(nodeName, keys[i]), Node: node}
	}

	if len(conn.Edges) > 0 {
		conn.PageInfo = PageInfo{
			HasNextPage:     hasNext,
			HasPreviousPage: hasPrevious,
			StartCursor:     conn.Edges[0].Cursor,
			EndCursor:       conn.Edges[len(conn.Edges)-1].Cursor,
		}
	}

	return conn
}
