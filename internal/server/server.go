package server

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"
	"github.com/mkd-neo4j/seraph/docs"
	"github.com/mkd-neo4j/seraph/internal/config"
	"github.com/mkd-neo4j/seraph/internal/engine"
)

const serverName = "seraph"

// Neo4jMCPServer exposes the execution engine as MCP tools.
type Neo4jMCPServer struct {
	MCPServer *server.MCPServer
	config    *config.Config
	engine    engine.Service
	queries   fs.FS
	logger    *slog.Logger
}

// NewNeo4jMCPServer creates the MCP server. queries holds the built-in named
// query definitions and may be nil.
func NewNeo4jMCPServer(version string, cfg *config.Config, eng engine.Service, queries fs.FS, logger *slog.Logger) *Neo4jMCPServer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	mcpServer := server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(true),
		server.WithInstructions(docs.ServerInstructions),
		server.WithRecovery(),
	)

	return &Neo4jMCPServer{
		MCPServer: mcpServer,
		config:    cfg,
		engine:    eng,
		queries:   queries,
		logger:    logger,
	}
}

// Start registers the tools and serves MCP over the given streams until ctx
// is cancelled or the input is closed.
func (s *Neo4jMCPServer) Start(ctx context.Context, in io.Reader, out io.Writer) error {
	if err := s.registerTools(); err != nil {
		return fmt.Errorf("failed to register tools: %w", err)
	}

	s.logger.Info("starting MCP server", "transport", "stdio", "database", s.engine.GetDatabaseName(), "readOnly", s.config.ReadOnly)

	stdio := server.NewStdioServer(s.MCPServer)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))
	return stdio.Listen(ctx, in, out)
}

// Stop releases the engine and its database driver.
func (s *Neo4jMCPServer) Stop(ctx context.Context) error {
	s.logger.Info("stopping MCP server")
	return s.engine.Close(ctx)
}
