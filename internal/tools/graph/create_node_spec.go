package graph

import (
	"github.com/mark3labs/mcp-go/mcp"
)

type CreateNodeInput struct {
	Label      string         `json:"label" jsonschema:"description=Label of the node to create (e.g. Person)"`
	Properties map[string]any `json:"properties,omitempty" jsonschema:"default={},description=Node properties; each key is bound as a query parameter"`
}

func CreateNodeSpec() mcp.Tool {
	return mcp.NewTool("create-node",
		mcp.WithDescription(`Create a single node with the given label and properties.
Property values are always passed as query parameters, never inlined into the query text.
The node is written in its own transaction and the generated Cypher is returned.`),
		mcp.WithInputSchema[CreateNodeInput](),
		mcp.WithTitleAnnotation("Create Node"),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}
