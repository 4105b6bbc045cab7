package configs

import (
	_ "embed"
)

// Default is the built-in configuration every other source is layered on.
//
//go:embed default.yaml
var Default []byte
