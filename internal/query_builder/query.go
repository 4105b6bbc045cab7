package query_builder

import (
	"context"

	"github.com/mkd-neo4j/seraph/internal/database"
	"github.com/mkd-neo4j/seraph/internal/statement"
)

// Query is an immutable statement under construction. Apply returns a new
// Query and never changes the receiver, so a Query can be shared between
// goroutines and extended independently by each.
//
// Example:
//
//	base := NewQuery().Apply(func(b *Builder) { b.Match("(n:Person)") })
//	adults := base.Apply(func(b *Builder) { b.Where("n.age >= 18").Return("n") })
//	all := base.Apply(func(b *Builder) { b.Return("n") })
type Query struct {
	b *Builder
}

// NewQuery returns an empty Query.
func NewQuery(opts ...Option) Query {
	return Query{b: NewQueryBuilder(opts...)}
}

func (q Query) builder() *Builder {
	if q.b == nil {
		return NewQueryBuilder()
	}
	return q.b
}

// Apply runs steps against a private copy and returns it as a new Query.
func (q Query) Apply(steps ...func(*Builder)) Query {
	next := q.builder().clone()
	for _, step := range steps {
		step(next)
	}
	return Query{b: next}
}

// Builder returns a mutable copy for callers that prefer chaining.
func (q Query) Builder() *Builder {
	return q.builder().clone()
}

func (q Query) Build() statement.Statement {
	return q.builder().Build()
}

func (q Query) Execute(ctx context.Context) (database.RecordSet, error) {
	return q.builder().clone().Execute(ctx)
}
