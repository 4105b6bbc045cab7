package batch

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mkd-neo4j/seraph/internal/tools/cypher/utils"
)

type StatementInput struct {
	Query  string       `json:"query" jsonschema:"description=The Cypher statement to execute"`
	Params utils.Params `json:"params,omitempty" jsonschema:"default={},description=Parameters to pass to the statement"`
}

type RunBatchInput struct {
	Statements []StatementInput `json:"statements" jsonschema:"description=Statements to execute in order; they are committed in chunks of the configured batch size"`
}

func RunBatchSpec() mcp.Tool {
	return mcp.NewTool("run-batch",
		mcp.WithDescription(`run-batch executes a list of Cypher write statements in order.
Statements are split into chunks of the configured batch size and each chunk runs in its own transaction.
If a statement fails, its chunk is rolled back and execution stops; chunks committed before the failure stay committed.
The error result names the failing chunk so the caller can resume from there.`),
		mcp.WithInputSchema[RunBatchInput](),
		mcp.WithTitleAnnotation("Run Cypher Batch"),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}
