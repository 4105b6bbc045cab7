package graph

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mkd-neo4j/seraph/internal/query_builder"
	"github.com/mkd-neo4j/seraph/internal/statement"
	"github.com/mkd-neo4j/seraph/internal/tools"
	"github.com/mkd-neo4j/seraph/internal/tools/cypher/utils"
)

// Labels and property keys are spliced into the query text, so they are
// restricted to plain identifiers.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func CreateNodeHandler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleCreateNode(ctx, request, deps)
	}
}

func handleCreateNode(ctx context.Context, request mcp.CallToolRequest, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	log := deps.Log()
	if deps.Engine == nil {
		errMessage := "execution engine is not initialized"
		log.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	var args CreateNodeInput
	if err := request.BindArguments(&args); err != nil {
		log.Error("error binding arguments", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	stmt, err := buildCreateNode(args)
	if err != nil {
		log.Error("invalid create-node input", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	log.Info("creating node", "label", args.Label, "properties", len(args.Properties))

	if err := deps.Engine.ExecuteBatch(ctx, []statement.Statement{stmt}); err != nil {
		log.Error("error creating node", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("created node with: %s", stmt.Text)), nil
}

// buildCreateNode renders the CREATE statement. Properties are added in key
// order so the same input always produces the same text and cache key.
func buildCreateNode(args CreateNodeInput) (statement.Statement, error) {
	if !identifierPattern.MatchString(args.Label) {
		return statement.Statement{}, fmt.Errorf("label %q must be a plain identifier", args.Label)
	}

	keys := make([]string, 0, len(args.Properties))
	for k := range args.Properties {
		if !identifierPattern.MatchString(k) {
			return statement.Statement{}, fmt.Errorf("property key %q must be a plain identifier", k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]query_builder.Property, 0, len(keys))
	for _, k := range keys {
		v, err := utils.ToValue(args.Properties[k])
		if err != nil {
			return statement.Statement{}, fmt.Errorf("property %q: %w", k, err)
		}
		pairs = append(pairs, query_builder.Property{Key: k, Value: v})
	}

	return query_builder.NewQueryBuilder().
		CreateNode(args.Label, query_builder.Props(pairs...)).
		Build(), nil
}
