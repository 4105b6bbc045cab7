package dynamic

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mkd-neo4j/seraph/internal/database"
	"github.com/mkd-neo4j/seraph/internal/statement"
	"github.com/mkd-neo4j/seraph/internal/tools"
	"github.com/spf13/cast"
)

// NewDynamicHandler creates a handler function for a named query tool
func NewDynamicHandler(config *ToolConfig, deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleDynamicTool(ctx, request, config, deps)
	}
}

func handleDynamicTool(ctx context.Context, request mcp.CallToolRequest, config *ToolConfig, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	log := deps.Log().With("tool", config.Name, "category", config.Category)
	if deps.Engine == nil {
		errMessage := "execution engine is not initialized"
		log.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	stmt, err := bindStatement(config, request.GetArguments())
	if err != nil {
		log.Error("invalid query tool arguments", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	log.Info("query tool called", "write", config.Write)

	if config.Write {
		if err := deps.Engine.ExecuteBatch(ctx, []statement.Statement{stmt}); err != nil {
			log.Error("error executing query tool", "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("%s executed successfully", config.Name)), nil
	}

	records, err := deps.Engine.ExecuteReadStatement(ctx, stmt)
	if err != nil {
		log.Error("error executing query tool", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	response, err := database.RecordsToJSON(records)
	if err != nil {
		log.Error("error formatting query results", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(response), nil
}

// bindStatement resolves every declared parameter from the call arguments or
// its default and coerces it to the declared type. Undeclared arguments are
// ignored.
func bindStatement(config *ToolConfig, args map[string]any) (statement.Statement, error) {
	params := make(statement.Params, len(config.Parameters))

	for _, p := range config.Parameters {
		raw, ok := args[p.Name]
		if !ok || raw == nil {
			if p.Required {
				return statement.Statement{}, fmt.Errorf("parameter '%s' is required", p.Name)
			}
			raw = p.Default
		}

		coerced, err := coerce(p.Type, raw)
		if err != nil {
			return statement.Statement{}, fmt.Errorf("parameter '%s': %w", p.Name, err)
		}

		v, err := statement.Of(coerced)
		if err != nil {
			return statement.Statement{}, fmt.Errorf("parameter '%s': %w", p.Name, err)
		}
		params[p.Name] = v
	}

	return statement.Statement{Text: strings.TrimSpace(config.Cypher), Params: params}, nil
}

func coerce(typ string, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	switch typ {
	case "integer":
		return cast.ToInt64E(raw)
	case "number":
		return cast.ToFloat64E(raw)
	case "boolean":
		return cast.ToBoolE(raw)
	case "string":
		return cast.ToStringE(raw)
	case "array":
		return cast.ToSliceE(raw)
	case "object":
		return cast.ToStringMapE(raw)
	default:
		return raw, nil
	}
}

// buildEnrichedDescription creates the tool description from the semantic fields
func buildEnrichedDescription(config *ToolConfig) string {
	var sb strings.Builder

	sb.WriteString(config.Description)

	if config.Intent != "" {
		sb.WriteString("\n\n## Intent\n")
		sb.WriteString(config.Intent)
	}

	sb.WriteString("\n\n## Cypher\n```cypher\n")
	sb.WriteString(strings.TrimSpace(config.Cypher))
	sb.WriteString("\n```\n")

	if len(config.Parameters) > 0 {
		sb.WriteString("\n## Parameters\n")
		for _, p := range config.Parameters {
			sb.WriteString(fmt.Sprintf("- `$%s` (%s)", p.Name, p.Type))
			if p.Required {
				sb.WriteString(" required")
			}
			if p.Default != nil {
				sb.WriteString(fmt.Sprintf(" [default: %v]", p.Default))
			}
			if p.Description != "" {
				sb.WriteString(fmt.Sprintf(": %s", p.Description))
			}
			sb.WriteString("\n")
		}
	}

	if config.Write {
		sb.WriteString("\nThis query modifies the graph and is never served from the result cache.\n")
	}

	return sb.String()
}
