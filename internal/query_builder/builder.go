package query_builder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mkd-neo4j/seraph/internal/database"
	"github.com/mkd-neo4j/seraph/internal/statement"
)

// Executor runs a built statement. The execution engine implements it.
type Executor interface {
	ExecuteStatement(ctx context.Context, stmt statement.Statement) (database.RecordSet, error)
}

// Fragment is anything that can be rendered into statement text plus
// parameters: a *Builder or a literal Cypher command.
type Fragment interface {
	Build() statement.Statement
}

// Cypher is a literal command used where a Fragment is expected.
type Cypher string

func (c Cypher) Build() statement.Statement {
	return statement.Statement{Text: string(c), Params: statement.Params{}}
}

// Builder accumulates Cypher clauses and their parameters.
//
// Every clause method appends exactly one fragment built from its keyword and
// the caller's text, verbatim. The builder does not parse or validate the
// text and does not check that the clauses form a valid statement; ordering
// is the caller's responsibility.
//
// A Builder is owned by one goroutine. Use Query when a statement has to be
// shared.
type Builder struct {
	clauses  []string
	params   statement.Params
	executor Executor
}

// Option configures a Builder.
type Option func(*Builder)

// WithExecutor sets the executor used by Execute.
func WithExecutor(executor Executor) Option {
	return func(b *Builder) {
		b.executor = executor
	}
}

// NewQueryBuilder creates a new builder instance.
func NewQueryBuilder(opts ...Option) *Builder {
	b := &Builder{
		clauses: make([]string, 0),
		params:  make(statement.Params),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) add(clause string) *Builder {
	b.clauses = append(b.clauses, clause)
	return b
}

// Match adds a MATCH clause.
//
// Example:
//
//	builder.Match("(n:Person)").Where("n.age > 30")
//	// Generates: MATCH (n:Person) WHERE n.age > 30
func (b *Builder) Match(pattern string) *Builder {
	return b.add("MATCH " + pattern)
}

func (b *Builder) OptionalMatch(pattern string) *Builder {
	return b.add("OPTIONAL MATCH " + pattern)
}

// MatchPath adds a MATCH clause that binds the whole path to pathVar.
//
// Example:
//
//	builder.MatchPath("p", "(a:Person)-[:KNOWS*]->(b:Person)")
//	// Generates: MATCH p = (a:Person)-[:KNOWS*]->(b:Person)
func (b *Builder) MatchPath(pathVar string, pattern string) *Builder {
	return b.add(fmt.Sprintf("MATCH %s = %s", pathVar, pattern))
}

func (b *Builder) Where(condition string) *Builder {
	return b.add("WHERE " + condition)
}

func (b *Builder) With(items string) *Builder {
	return b.add("WITH " + items)
}

func (b *Builder) Return(items string) *Builder {
	return b.add("RETURN " + items)
}

func (b *Builder) Set(updates string) *Builder {
	return b.add("SET " + updates)
}

func (b *Builder) Remove(items string) *Builder {
	return b.add("REMOVE " + items)
}

func (b *Builder) Delete(target string) *Builder {
	return b.add("DELETE " + target)
}

func (b *Builder) DetachDelete(target string) *Builder {
	return b.add("DETACH DELETE " + target)
}

func (b *Builder) Merge(pattern string) *Builder {
	return b.add("MERGE " + pattern)
}

// Unwind adds UNWIND expr AS alias.
func (b *Builder) Unwind(expr string, alias string) *Builder {
	return b.add(fmt.Sprintf("UNWIND %s AS %s", expr, alias))
}

func (b *Builder) OrderBy(items string) *Builder {
	return b.add("ORDER BY " + items)
}

func (b *Builder) Skip(n int) *Builder {
	return b.add(fmt.Sprintf("SKIP %d", n))
}

func (b *Builder) Limit(n int) *Builder {
	return b.add(fmt.Sprintf("LIMIT %d", n))
}

// Call adds a procedure call, e.g. Call("db.labels()").
func (b *Builder) Call(procedure string) *Builder {
	return b.add("CALL " + procedure)
}

func (b *Builder) Yield(items string) *Builder {
	return b.add("YIELD " + items)
}

// Raw appends text as its own fragment with no keyword.
func (b *Builder) Raw(text string) *Builder {
	return b.add(text)
}

// Param binds name to value without adding a clause. A later bind of the
// same name overwrites the earlier value.
func (b *Builder) Param(name string, value statement.Value) *Builder {
	b.params[name] = value
	return b
}

// CreateIndex adds a range index statement for label over props.
//
// Example:
//
//	builder.CreateIndex("person_name", "Person", "name")
//	// Generates: CREATE INDEX person_name IF NOT EXISTS FOR (n:Person) ON (n.name)
func (b *Builder) CreateIndex(name string, label string, props ...string) *Builder {
	return b.add(fmt.Sprintf("CREATE INDEX %s IF NOT EXISTS FOR (n:%s) ON (%s)",
		name, label, qualify("n", props)))
}

func (b *Builder) DropIndex(name string) *Builder {
	return b.add(fmt.Sprintf("DROP INDEX %s IF EXISTS", name))
}

// CreateUniqueConstraint adds a uniqueness constraint on label.prop.
func (b *Builder) CreateUniqueConstraint(name string, label string, prop string) *Builder {
	return b.add(fmt.Sprintf("CREATE CONSTRAINT %s IF NOT EXISTS FOR (n:%s) REQUIRE n.%s IS UNIQUE",
		name, label, prop))
}

func (b *Builder) DropConstraint(name string) *Builder {
	return b.add(fmt.Sprintf("DROP CONSTRAINT %s IF EXISTS", name))
}

// CreateNode adds a CREATE clause for a node bound to n. Each property is
// rendered as key: $key and its value is bound under the same name.
//
// Example:
//
//	builder.CreateNode("Person", Props(P("name", "Alice"), P("age", 30)))
//	// Generates: CREATE (n:Person {name: $name, age: $age})
//	// Binds: name -> "Alice", age -> 30
//
// Property names are not namespaced: two CreateNode calls sharing a key
// leave only the last value bound.
func (b *Builder) CreateNode(label string, props *Properties) *Builder {
	return b.CreateNodeAs("n", label, props)
}

// CreateNodeAs is CreateNode with a caller-chosen alias.
func (b *Builder) CreateNodeAs(alias string, label string, props *Properties) *Builder {
	if props == nil || props.Len() == 0 {
		return b.add(fmt.Sprintf("CREATE (%s:%s)", alias, label))
	}

	placeholders := make([]string, 0, props.Len())
	for pair := props.Oldest(); pair != nil; pair = pair.Next() {
		placeholders = append(placeholders, fmt.Sprintf("%s: $%s", pair.Key, pair.Key))
		b.params[pair.Key] = pair.Value
	}

	return b.add(fmt.Sprintf("CREATE (%s:%s {%s})", alias, label, strings.Join(placeholders, ", ")))
}

// CreateNodeSpec is CreateNodeAs driven by a NodeSpec.
func (b *Builder) CreateNodeSpec(spec NodeSpec) *Builder {
	alias := spec.Alias
	if alias == "" {
		alias = "n"
	}
	return b.CreateNodeAs(alias, spec.Label, spec.Properties)
}

// CreateRelationship adds CREATE (from)-[:relType]->(to). Both aliases must
// already be bound by earlier clauses.
func (b *Builder) CreateRelationship(relType string, fromAlias string, toAlias string) *Builder {
	return b.add(fmt.Sprintf("CREATE (%s)-[:%s]->(%s)", fromAlias, relType, toAlias))
}

func (b *Builder) CreateRelationshipSpec(spec RelationshipSpec) *Builder {
	return b.CreateRelationship(spec.Type, spec.From, spec.To)
}

// Aggregate appends fn(field) AS alias. It adds no keyword, so it is meant to
// follow a RETURN or WITH fragment.
func (b *Builder) Aggregate(fn string, field string, alias string) *Builder {
	return b.add(fmt.Sprintf("%s(%s) AS %s", fn, field, alias))
}

// AggregateWithGroup appends group, fn(field) AS alias.
func (b *Builder) AggregateWithGroup(group string, fn string, field string, alias string) *Builder {
	return b.add(fmt.Sprintf("%s, %s(%s) AS %s", group, fn, field, alias))
}

// GroupBy adds WITH field. Grouping and aggregation are separate fragments and
// are never reordered.
func (b *Builder) GroupBy(field string) *Builder {
	return b.With(field)
}

// Subquery wraps the nested builder's text in CALL { ... } AS alias and
// merges its parameters into this builder. On a name collision the nested
// value wins. A nil nested builder is ignored.
func (b *Builder) Subquery(nested *Builder, alias string) *Builder {
	if nested == nil {
		return b
	}
	sub := nested.Build()
	b.params.Merge(sub.Params)
	return b.add(fmt.Sprintf("CALL { %s } AS %s", sub.Text, alias))
}

// ForEach adds FOREACH (variable IN list | body). body is either Cypher("...")
// or a nested *Builder whose parameters are merged like Subquery. A nil body
// or one that renders to empty text adds nothing.
func (b *Builder) ForEach(variable string, list string, body Fragment) *Builder {
	if body == nil {
		return b
	}
	if nested, ok := body.(*Builder); ok && nested == nil {
		return b
	}
	sub := body.Build()
	if strings.TrimSpace(sub.Text) == "" {
		return b
	}
	b.params.Merge(sub.Params)
	return b.add(fmt.Sprintf("FOREACH (%s IN %s | %s)", variable, list, sub.Text))
}

// Build joins the fragments with single spaces in call order and returns
// them with a copy of the parameter table. It does not modify the builder.
func (b *Builder) Build() statement.Statement {
	if b == nil {
		return statement.Statement{Params: statement.Params{}}
	}
	return statement.Statement{
		Text:   strings.Join(b.clauses, " "),
		Params: b.params.Clone(),
	}
}

// GetClauseCount returns the number of fragments added.
func (b *Builder) GetClauseCount() int {
	if b == nil {
		return 0
	}
	return len(b.clauses)
}

// Execute builds the statement and runs it through the configured executor.
// Without an executor it fails with *database.ConfigurationError before any
// I/O. Executor failures are returned as *database.ExecutionError.
func (b *Builder) Execute(ctx context.Context) (database.RecordSet, error) {
	if b == nil || b.executor == nil {
		return nil, &database.ConfigurationError{Reason: "query builder has no executor, construct it with WithExecutor"}
	}

	stmt := b.Build()
	records, err := b.executor.ExecuteStatement(ctx, stmt)
	if err != nil {
		var execErr *database.ExecutionError
		if errors.As(err, &execErr) {
			return nil, err
		}
		return nil, &database.ExecutionError{Query: stmt.Text, Cause: err}
	}
	return records, nil
}

func (b *Builder) clone() *Builder {
	return &Builder{
		clauses:  append(make([]string, 0, len(b.clauses)), b.clauses...),
		params:   b.params.Clone(),
		executor: b.executor,
	}
}

func qualify(alias string, props []string) string {
	qualified := make([]string, len(props))
	for i, prop := range props {
		qualified[i] = alias + "." + prop
	}
	return strings.Join(qualified, ", ")
}
