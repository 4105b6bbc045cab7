package run

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mkd-neo4j/seraph/internal/database"
	"github.com/mkd-neo4j/seraph/internal/tools"
	"github.com/mkd-neo4j/seraph/internal/tools/cypher/utils"
)

func RunCypherHandler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleRunCypher(ctx, request, deps)
	}
}

func handleRunCypher(ctx context.Context, request mcp.CallToolRequest, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	log := deps.Log()
	if deps.Engine == nil {
		errMessage := "execution engine is not initialized"
		log.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	var args RunCypherInput
	if err := request.BindArguments(&args); err != nil {
		log.Error("error binding arguments", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	stmt, err := utils.ToStatement(args.Query, args.Params)
	if err != nil {
		log.Error("invalid run-cypher input", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	log.Debug("executing cypher query", "query", stmt.Text)

	records, err := deps.Engine.ExecuteReadStatement(ctx, stmt)
	if err != nil {
		log.Error("error executing cypher query", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	response, err := database.RecordsToJSON(records)
	if err != nil {
		log.Error("error formatting query results", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(response), nil
}
