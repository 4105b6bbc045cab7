package tools

import (
	"log/slog"

	"github.com/mkd-neo4j/seraph/internal/engine"
)

// ToolDependencies contains all dependencies needed by tools
type ToolDependencies struct {
	Engine engine.Service
	Logger *slog.Logger
}

// Log returns the configured logger, or a discarding one when none was set.
func (d *ToolDependencies) Log() *slog.Logger {
	if d == nil || d.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.Logger
}
