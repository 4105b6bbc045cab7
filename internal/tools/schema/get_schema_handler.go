package schema

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mkd-neo4j/seraph/internal/database"
	"github.com/mkd-neo4j/seraph/internal/engine"
	"github.com/mkd-neo4j/seraph/internal/query_builder"
	"github.com/mkd-neo4j/seraph/internal/statement"
	"github.com/mkd-neo4j/seraph/internal/tools"
)

// GetSchemaHandler returns a handler function for the get-schema tool
func GetSchemaHandler(deps *tools.ToolDependencies, schemaSampleSize int) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGetSchema(ctx, deps, schemaSampleSize)
	}
}

func nodePropertiesQuery(exec query_builder.Executor) *query_builder.Builder {
	return query_builder.NewQueryBuilder(query_builder.WithExecutor(exec)).
		Call("db.schema.nodeTypeProperties()").
		Yield("nodeLabels, propertyName, propertyTypes").
		Return("nodeLabels, propertyName, propertyTypes")
}

func relPropertiesQuery(exec query_builder.Executor) *query_builder.Builder {
	return query_builder.NewQueryBuilder(query_builder.WithExecutor(exec)).
		Call("db.schema.relTypeProperties()").
		Yield("relType, propertyName, propertyTypes").
		Return("relType, propertyName, propertyTypes")
}

func relPatternsQuery(exec query_builder.Executor, sampleSize int) *query_builder.Builder {
	return query_builder.NewQueryBuilder(query_builder.WithExecutor(exec)).
		Match("(a)-[r]->(b)").
		With("a, r, b").
		Raw("LIMIT $sampleSize").
		Param("sampleSize", statement.Int(int64(sampleSize))).
		Return("DISTINCT labels(a)[0] AS source, type(r) AS relType, labels(b)[0] AS target")
}

func handleGetSchema(ctx context.Context, deps *tools.ToolDependencies, schemaSampleSize int) (*mcp.CallToolResult, error) {
	log := deps.Log()
	if deps.Engine == nil {
		errMessage := "execution engine is not initialized"
		log.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	dbName := deps.Engine.GetDatabaseName()
	log.Info("retrieving schema from the database", "database", dbName)

	reader := engine.Reader(deps.Engine)

	nodeProps, err := nodePropertiesQuery(reader).Execute(ctx)
	if err != nil {
		log.Error("failed to execute node properties query", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	relProps, err := relPropertiesQuery(reader).Execute(ctx)
	if err != nil {
		log.Error("failed to execute relationship properties query", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	patterns, err := relPatternsQuery(reader, schemaSampleSize).Execute(ctx)
	if err != nil {
		log.Error("failed to execute relationship pattern query", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(nodeProps) == 0 && len(relProps) == 0 && len(patterns) == 0 {
		log.Info("database is empty, no schema to return", "database", dbName)
		return mcp.NewToolResultText(fmt.Sprintf("The get-schema tool executed successfully; however, since the Neo4j database '%s' contains no data, no schema information was returned.", dbName)), nil
	}

	items := buildSchema(nodeProps, relProps, patterns)
	markdown := formatSchemaAsMarkdown(items)

	log.Info("returning schema", "items", len(items), "schema_size", len(markdown))
	return mcp.NewToolResultText(markdown), nil
}

type SchemaItem struct {
	Key   string       `json:"key"`
	Value SchemaDetail `json:"value"`
}

type SchemaDetail struct {
	Type          string                  `json:"type"`
	Properties    map[string]string       `json:"properties,omitempty"`
	Relationships map[string]Relationship `json:"relationships,omitempty"`
}

type Relationship struct {
	Type       string            `json:"type"`
	Direction  string            `json:"direction"`
	Labels     []string          `json:"labels"` // List of connected node labels
	Properties map[string]string `json:"properties,omitempty"`
}

// buildSchema combines the three schema queries into node items followed by
// relationship items, each sorted by name.
func buildSchema(nodeProps, relProps, patterns database.RecordSet) []SchemaItem {
	nodes := make(map[string]*SchemaDetail)
	node := func(label string) *SchemaDetail {
		if nodes[label] == nil {
			nodes[label] = &SchemaDetail{Type: "node", Properties: map[string]string{}, Relationships: map[string]Relationship{}}
		}
		return nodes[label]
	}

	for _, record := range nodeProps {
		label := firstString(record["nodeLabels"])
		if label == "" {
			continue
		}
		detail := node(label)
		if name, ok := record["propertyName"].(string); ok && name != "" {
			detail.Properties[name] = firstString(record["propertyTypes"])
		}
	}

	rels := make(map[string]*SchemaDetail)
	for _, record := range relProps {
		relType := cleanRelType(record["relType"])
		if relType == "" {
			continue
		}
		if rels[relType] == nil {
			rels[relType] = &SchemaDetail{Type: "relationship", Properties: map[string]string{}}
		}
		if name, ok := record["propertyName"].(string); ok && name != "" {
			rels[relType].Properties[name] = firstString(record["propertyTypes"])
		}
	}

	for _, record := range patterns {
		source, _ := record["source"].(string)
		relType, _ := record["relType"].(string)
		target, _ := record["target"].(string)
		if source == "" || relType == "" || target == "" {
			continue
		}

		var props map[string]string
		if rels[relType] != nil {
			props = rels[relType].Properties
		}
		addRelationship(node(source), relType, "out", target, props)
		addRelationship(node(target), relType, "in", source, props)
	}

	items := make([]SchemaItem, 0, len(nodes)+len(rels))
	for _, label := range slices.Sorted(maps.Keys(nodes)) {
		items = append(items, SchemaItem{Key: label, Value: *nodes[label]})
	}
	for _, relType := range slices.Sorted(maps.Keys(rels)) {
		items = append(items, SchemaItem{Key: relType, Value: *rels[relType]})
	}
	return items
}

func addRelationship(detail *SchemaDetail, relType, direction, otherLabel string, props map[string]string) {
	key := direction + ":" + relType
	rel, ok := detail.Relationships[key]
	if !ok {
		rel = Relationship{Type: relType, Direction: direction, Properties: props}
	}
	if !slices.Contains(rel.Labels, otherLabel) {
		rel.Labels = append(rel.Labels, otherLabel)
		slices.Sort(rel.Labels)
	}
	detail.Relationships[key] = rel
}

// firstString returns the first element of a list of strings as returned by
// the schema procedures.
func firstString(v any) string {
	switch list := v.(type) {
	case []any:
		if len(list) > 0 {
			s, _ := list[0].(string)
			return s
		}
	case []string:
		if len(list) > 0 {
			return list[0]
		}
	case string:
		return list
	}
	return ""
}

// cleanRelType turns the procedure's ":`KNOWS`" form into "KNOWS".
func cleanRelType(v any) string {
	s, _ := v.(string)
	return strings.Trim(strings.TrimPrefix(s, ":"), "`")
}

// formatSchemaAsMarkdown converts the structured schema to Neo4j documentation markdown format
func formatSchemaAsMarkdown(items []SchemaItem) string {
	var md strings.Builder

	md.WriteString("# Database Schema\n\n")
	md.WriteString("This schema represents the current state of your Neo4j database.\n\n")

	var nodes []SchemaItem
	var relationships []SchemaItem
	for _, item := range items {
		switch item.Value.Type {
		case "node":
			nodes = append(nodes, item)
		case "relationship":
			relationships = append(relationships, item)
		}
	}

	if len(nodes) > 0 {
		md.WriteString("## 1. Node Labels and Properties\n\n")

		for _, node := range nodes {
			md.WriteString(fmt.Sprintf("### %s\n\n", node.Key))
			writeProperties(&md, node.Value.Properties)

			if len(node.Value.Relationships) > 0 {
				md.WriteString("*Relationships:*\n\n")
				for _, key := range slices.Sorted(maps.Keys(node.Value.Relationships)) {
					rel := node.Value.Relationships[key]
					// (:Source)-[:REL_TYPE]->(:Target) or (:Source)<-[:REL_TYPE]-(:Target)
					var cypherPattern string
					targetLabels := strings.Join(rel.Labels, "|")
					if rel.Direction == "out" {
						cypherPattern = fmt.Sprintf("(:%s)-[:%s]->(:%s)", node.Key, rel.Type, targetLabels)
					} else {
						cypherPattern = fmt.Sprintf("(:%s)<-[:%s]-(:%s)", node.Key, rel.Type, targetLabels)
					}
					md.WriteString(fmt.Sprintf("  - `%s`\n", cypherPattern))
				}
				md.WriteString("\n")
			}
		}
	}

	if len(relationships) > 0 {
		md.WriteString("## 2. Relationship Types\n\n")

		for _, rel := range relationships {
			md.WriteString(fmt.Sprintf("### :%s\n\n", rel.Key))
			writeProperties(&md, rel.Value.Properties)
		}
	}

	return md.String()
}

func writeProperties(md *strings.Builder, props map[string]string) {
	if len(props) == 0 {
		return
	}
	md.WriteString("*Properties:*\n\n")
	for _, name := range slices.Sorted(maps.Keys(props)) {
		md.WriteString(fmt.Sprintf("  - `%s` (%s)\n", name, props[name]))
	}
	md.WriteString("\n")
}
