package graphqladapter

import (
	_ "embed"
	"log/slog"

	"github.com/graph-gophers/graphql-go"
)

//go:embed schema.graphql
var schemaSDL string

const maxQueryDepth = 15

// NewSchema binds the resolvers to the SDL. Binding fails if a resolver
// method is missing or mistyped.
func NewSchema(logger *slog.Logger, resolver *Resolver) (*graphql.Schema, error) {
	return graphql.ParseSchema(schemaSDL, resolver,
		graphql.MaxDepth(maxQueryDepth),
		graphql.Logger(&panicLogger{logger: logger}),
	)
}
