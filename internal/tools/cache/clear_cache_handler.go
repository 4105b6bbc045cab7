package cache

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mkd-neo4j/seraph/internal/tools"
)

func ClearCacheHandler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := deps.Log()
		if deps.Engine == nil {
			errMessage := "execution engine is not initialized"
			log.Error(errMessage)
			return mcp.NewToolResultError(errMessage), nil
		}

		cleared := deps.Engine.CacheLen()
		deps.Engine.ClearCache()
		log.Info("query cache cleared", "entries", cleared)

		return mcp.NewToolResultText(fmt.Sprintf("cleared %d cached results", cleared)), nil
	}
}
