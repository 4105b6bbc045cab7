package tools

import (
	"embed"
)

// ConfigFiles embeds the built-in named query definitions from the config subdirectory
//
//go:embed all:config
var ConfigFiles embed.FS
