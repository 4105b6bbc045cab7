package dynamic

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mkd-neo4j/seraph/internal/tools"
)

// EmbeddedRoot is the directory inside the embedded filesystem that holds the
// built-in query definitions.
const EmbeddedRoot = "config"

// ToolRegistry manages the loading and registration of named query tools
type ToolRegistry struct {
	embedded  fs.FS
	configDir string
	configs   []*ToolConfig
	logger    *slog.Logger
}

// NewToolRegistry creates a registry over the built-in definitions in
// embedded (may be nil) and an optional directory on disk (may be empty).
func NewToolRegistry(embedded fs.FS, configDir string, logger *slog.Logger) *ToolRegistry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ToolRegistry{
		embedded:  embedded,
		configDir: configDir,
		configs:   make([]*ToolConfig, 0),
		logger:    logger,
	}
}

// LoadTools loads the embedded definitions followed by those in the config
// directory. Tool names must be unique across both sources.
func (r *ToolRegistry) LoadTools() error {
	var configs []*ToolConfig

	if r.embedded != nil {
		embedded, err := WalkConfigFS(r.embedded, EmbeddedRoot)
		if err != nil {
			return fmt.Errorf("failed to load embedded query tools: %w", err)
		}
		configs = append(configs, embedded...)
	}

	if r.configDir != "" {
		if _, err := os.Stat(r.configDir); err != nil {
			return fmt.Errorf("query config directory %s: %w", r.configDir, err)
		}
		local, err := WalkConfigFS(os.DirFS(r.configDir), ".")
		if err != nil {
			return fmt.Errorf("failed to load query tools from %s: %w", r.configDir, err)
		}
		configs = append(configs, local...)
	}

	seen := make(map[string]bool, len(configs))
	for _, config := range configs {
		if seen[config.Name] {
			return fmt.Errorf("duplicate query tool name '%s'", config.Name)
		}
		seen[config.Name] = true
		r.logger.Debug("loaded query tool", "tool", config.Name, "category", config.Category, "write", config.Write)
	}

	r.configs = configs
	r.logger.Info("loaded query tools", "count", len(configs), "configDir", r.configDir)

	return nil
}

// GetToolCount returns the number of loaded tools
func (r *ToolRegistry) GetToolCount() int {
	return len(r.configs)
}

// GetTools returns all loaded tool configurations
func (r *ToolRegistry) GetTools() []*ToolConfig {
	return r.configs
}

// ListCategories returns all unique categories, sorted
func (r *ToolRegistry) ListCategories() []string {
	categories := make([]string, 0)
	for _, config := range r.configs {
		if !slices.Contains(categories, config.Category) {
			categories = append(categories, config.Category)
		}
	}
	slices.Sort(categories)
	return categories
}

// BuildServerTool creates an MCP server tool from a query definition
func BuildServerTool(config *ToolConfig, deps *tools.ToolDependencies) server.ServerTool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(buildEnrichedDescription(config)),
		mcp.WithTitleAnnotation(config.Name),
		mcp.WithReadOnlyHintAnnotation(!config.Write),
		mcp.WithDestructiveHintAnnotation(config.Write),
		mcp.WithIdempotentHintAnnotation(!config.Write),
		mcp.WithOpenWorldHintAnnotation(true),
	}
	for _, p := range config.Parameters {
		opts = append(opts, parameterOption(p))
	}

	return server.ServerTool{
		Tool:    mcp.NewTool(config.Name, opts...),
		Handler: NewDynamicHandler(config, deps),
	}
}

func parameterOption(p ParameterConfig) mcp.ToolOption {
	propOpts := []mcp.PropertyOption{}
	if p.Description != "" {
		propOpts = append(propOpts, mcp.Description(p.Description))
	}
	if p.Required {
		propOpts = append(propOpts, mcp.Required())
	}

	switch p.Type {
	case "integer", "number":
		return mcp.WithNumber(p.Name, propOpts...)
	case "boolean":
		return mcp.WithBoolean(p.Name, propOpts...)
	case "array":
		return mcp.WithArray(p.Name, propOpts...)
	case "object":
		return mcp.WithObject(p.Name, propOpts...)
	default:
		return mcp.WithString(p.Name, propOpts...)
	}
}
