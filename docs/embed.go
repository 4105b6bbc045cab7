package docs

import (
	_ "embed"
)

// ServerInstructions is sent to MCP clients during initialization and tells
// agents how the cache and batch tools behave.
//
//go:embed prompts/server_instructions.md
var ServerInstructions string
