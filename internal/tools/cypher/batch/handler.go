package batch

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mkd-neo4j/seraph/internal/database"
	"github.com/mkd-neo4j/seraph/internal/statement"
	"github.com/mkd-neo4j/seraph/internal/tools"
	"github.com/mkd-neo4j/seraph/internal/tools/cypher/utils"
)

func RunBatchHandler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleRunBatch(ctx, request, deps)
	}
}

func handleRunBatch(ctx context.Context, request mcp.CallToolRequest, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	log := deps.Log()
	if deps.Engine == nil {
		errMessage := "execution engine is not initialized"
		log.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	var args RunBatchInput
	if err := request.BindArguments(&args); err != nil {
		log.Error("error binding arguments", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(args.Statements) == 0 {
		errMessage := "statements parameter is required and cannot be empty"
		log.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	stmts := make([]statement.Statement, 0, len(args.Statements))
	for i, in := range args.Statements {
		stmt, err := utils.ToStatement(in.Query, in.Params)
		if err != nil {
			errMessage := fmt.Sprintf("statement %d: %v", i, err)
			log.Error("invalid run-batch input", "error", errMessage)
			return mcp.NewToolResultError(errMessage), nil
		}
		stmts = append(stmts, stmt)
	}

	log.Info("executing cypher batch", "statements", len(stmts))

	if err := deps.Engine.ExecuteBatch(ctx, stmts); err != nil {
		log.Error("error executing cypher batch", "error", err)
		var batchErr *database.BatchError
		if errors.As(err, &batchErr) {
			return mcp.NewToolResultError(fmt.Sprintf(
				"batch stopped at chunk %d; earlier chunks were committed: %v",
				batchErr.ChunkIndex, batchErr.Cause)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("executed %d statements", len(stmts))), nil
}
