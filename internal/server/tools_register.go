package server

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/mkd-neo4j/seraph/internal/tools"
	"github.com/mkd-neo4j/seraph/internal/tools/cache"
	"github.com/mkd-neo4j/seraph/internal/tools/cypher/batch"
	"github.com/mkd-neo4j/seraph/internal/tools/cypher/run"
	"github.com/mkd-neo4j/seraph/internal/tools/dynamic"
	"github.com/mkd-neo4j/seraph/internal/tools/graph"
	"github.com/mkd-neo4j/seraph/internal/tools/schema"
)

// registerTools registers all enabled MCP tools and adds them to the provided MCP server.
// Tools are filtered according to the server configuration. When read-only mode is enabled
// (NEO4J_READ_ONLY or Config.ReadOnly) only tools marked readonly are registered.
// Named query tools count as readonly unless their definition sets write: true.
func (s *Neo4jMCPServer) registerTools() error {
	filteredTools, err := s.getEnabledTools()
	if err != nil {
		return err
	}
	s.MCPServer.AddTools(filteredTools...)
	return nil
}

type toolFilter func(tools []ToolDefinition) []ToolDefinition

type toolCategory int

const (
	cypherCategory  toolCategory = 0
	schemaCategory  toolCategory = 1
	graphCategory   toolCategory = 2
	cacheCategory   toolCategory = 3
	dynamicCategory toolCategory = 4 // Named query tools from YAML definitions
)

type ToolDefinition struct {
	category   toolCategory
	definition server.ServerTool
	readonly   bool
}

func (s *Neo4jMCPServer) getEnabledTools() ([]server.ServerTool, error) {
	filters := make([]toolFilter, 0)

	// If read-only mode is enabled, expose only tools annotated as read-only.
	if s.config != nil && s.config.ReadOnly {
		filters = append(filters, filterWriteTools)
	}

	deps := &tools.ToolDependencies{
		Engine: s.engine,
		Logger: s.logger,
	}
	toolDefs, err := s.getAllToolsDefs(deps)
	if err != nil {
		return nil, err
	}

	for _, filter := range filters {
		toolDefs = filter(toolDefs)
	}
	enabledTools := make([]server.ServerTool, 0, len(toolDefs))
	for _, toolDef := range toolDefs {
		enabledTools = append(enabledTools, toolDef.definition)
	}
	return enabledTools, nil
}

func filterWriteTools(tools []ToolDefinition) []ToolDefinition {
	readOnlyTools := make([]ToolDefinition, 0, len(tools))
	for _, t := range tools {
		if t.readonly {
			readOnlyTools = append(readOnlyTools, t)
		}
	}
	return readOnlyTools
}

// getAllToolsDefs returns all available tools with their specs and handlers
func (s *Neo4jMCPServer) getAllToolsDefs(deps *tools.ToolDependencies) ([]ToolDefinition, error) {
	sampleSize := 0
	if s.config != nil {
		sampleSize = s.config.SchemaSampleSize
	}

	toolDefs := []ToolDefinition{
		{
			category: schemaCategory,
			definition: server.ServerTool{
				Tool:    schema.GetSchemaSpec(),
				Handler: schema.GetSchemaHandler(deps, sampleSize),
			},
			readonly: true,
		},
		{
			category: cypherCategory,
			definition: server.ServerTool{
				Tool:    run.RunCypherSpec(),
				Handler: run.RunCypherHandler(deps),
			},
			readonly: true,
		},
		{
			category: cypherCategory,
			definition: server.ServerTool{
				Tool:    batch.RunBatchSpec(),
				Handler: batch.RunBatchHandler(deps),
			},
			readonly: false,
		},
		{
			category: graphCategory,
			definition: server.ServerTool{
				Tool:    graph.CreateNodeSpec(),
				Handler: graph.CreateNodeHandler(deps),
			},
			readonly: false,
		},
		{
			category: cacheCategory,
			definition: server.ServerTool{
				Tool:    cache.ClearCacheSpec(),
				Handler: cache.ClearCacheHandler(deps),
			},
			readonly: true,
		},
	}

	dynamicTools, err := s.loadDynamicTools(deps)
	if err != nil {
		return nil, err
	}
	return append(toolDefs, dynamicTools...), nil
}

// loadDynamicTools loads the named query tools from the embedded definitions
// and the configured queries directory.
func (s *Neo4jMCPServer) loadDynamicTools(deps *tools.ToolDependencies) ([]ToolDefinition, error) {
	configDir := ""
	if s.config != nil {
		configDir = s.config.QueriesDir
	}

	registry := dynamic.NewToolRegistry(s.queries, configDir, s.logger)
	if err := registry.LoadTools(); err != nil {
		return nil, err
	}

	if registry.GetToolCount() == 0 {
		s.logger.Info("no named query tools configured")
		return []ToolDefinition{}, nil
	}

	s.logger.Info("loaded named query tools", "count", registry.GetToolCount(), "categories", registry.ListCategories())

	toolDefs := make([]ToolDefinition, 0, registry.GetToolCount())
	for _, config := range registry.GetTools() {
		toolDefs = append(toolDefs, ToolDefinition{
			category:   dynamicCategory,
			definition: dynamic.BuildServerTool(config, deps),
			readonly:   !config.Write,
		})
	}
	return toolDefs, nil
}
