package run

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mkd-neo4j/seraph/internal/tools/cypher/utils"
)

type RunCypherInput struct {
	Query  string       `json:"query" jsonschema:"default=MATCH(n) RETURN n LIMIT 25,description=The Cypher query to execute"`
	Params utils.Params `json:"params,omitempty" jsonschema:"default={},description=Parameters to pass to the Cypher query"`
}

func RunCypherSpec() mcp.Tool {
	return mcp.NewTool("run-cypher",
		mcp.WithDescription(`run-cypher executes a single Cypher query in its own session and returns the records as JSON.
Results are cached by query text and parameters until the cache TTL expires, so repeated reads are served without a round trip.
For multi-statement writes use run-batch, which commits statements in transactional chunks.`),
		mcp.WithInputSchema[RunCypherInput](),
		mcp.WithTitleAnnotation("Run Cypher"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}
