package cache

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func ClearCacheSpec() mcp.Tool {
	return mcp.NewTool("clear-cache",
		mcp.WithDescription(`Drop every cached query result so the next run-cypher call goes to the database.
Use this after writing data when a fresh read is needed before the cache TTL expires.`),
		mcp.WithTitleAnnotation("Clear Query Cache"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)
}
