package schema

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func GetSchemaSpec() mcp.Tool {
	return mcp.NewTool("get-schema",
		mcp.WithDescription(`
		Retrieve the database schema from Neo4j.

		Returns the structure of your Neo4j database including:
		- Node labels and their properties with data types
		- Relationship types, their directions and properties

		Relationship patterns are sampled, so very rare patterns may be missing.
		The underlying queries go through the result cache; call clear-cache after schema changes.

		If the database contains no data, no schema information is returned.`),
		mcp.WithTitleAnnotation("Get Neo4j Schema"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}
