package dynamic

import (
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var paramRefPattern = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)

// WalkConfigFS loads every YAML query definition below root in fsys. The
// first directory under root becomes the tool category.
func WalkConfigFS(fsys fs.FS, root string) ([]*ToolConfig, error) {
	var configs []*ToolConfig

	if _, err := fs.Stat(fsys, root); err != nil {
		return nil, fmt.Errorf("config root %q not available: %w", root, err)
	}

	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip directories
		if d.IsDir() {
			return nil
		}

		// Only process YAML files
		if !strings.HasSuffix(d.Name(), ".yaml") && !strings.HasSuffix(d.Name(), ".yml") {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}

		config, err := parseToolConfig(data, relativeTo(root, p))
		if err != nil {
			return err
		}

		configs = append(configs, config)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk query configs: %w", err)
	}

	return configs, nil
}

func relativeTo(root, p string) string {
	if root == "." || root == "" {
		return p
	}
	return strings.TrimPrefix(p, strings.TrimSuffix(root, "/")+"/")
}

// parseToolConfig parses and validates a YAML query definition
func parseToolConfig(data []byte, relPath string) (*ToolConfig, error) {
	var config ToolConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML in %s: %w", relPath, err)
	}

	config.Category = deriveCategoryFromPath(relPath)

	if config.Name == "" {
		return nil, fmt.Errorf("tool name is required in config file: %s", relPath)
	}

	if config.Description == "" {
		return nil, fmt.Errorf("tool description is required in config file: %s", relPath)
	}

	if strings.TrimSpace(config.Cypher) == "" {
		return nil, fmt.Errorf("cypher is required in config file: %s", relPath)
	}

	if err := validateParameters(config.Parameters, config.Cypher); err != nil {
		return nil, fmt.Errorf("invalid parameters in %s: %w", relPath, err)
	}

	return &config, nil
}

// validateParameters validates parameter definitions against the query text
func validateParameters(params []ParameterConfig, cypher string) error {
	validTypes := map[string]bool{
		"string": true, "integer": true, "number": true,
		"boolean": true, "array": true, "object": true,
	}
	names := make(map[string]bool)

	for i, param := range params {
		if param.Name == "" {
			return fmt.Errorf("parameter[%d] name is required", i)
		}

		if names[param.Name] {
			return fmt.Errorf("duplicate parameter name '%s'", param.Name)
		}
		names[param.Name] = true

		if param.Type != "" && !validTypes[param.Type] {
			return fmt.Errorf("parameter '%s' has invalid type '%s'", param.Name, param.Type)
		}
	}

	for _, match := range paramRefPattern.FindAllStringSubmatch(cypher, -1) {
		if !names[match[1]] {
			return fmt.Errorf("query references undeclared parameter '$%s'", match[1])
		}
	}

	return nil
}

// deriveCategoryFromPath extracts the category from a path relative to the
// config root. Example: "graph/count-nodes-by-label.yaml" -> "graph"
func deriveCategoryFromPath(relPath string) string {
	dir := path.Dir(path.Clean(strings.ReplaceAll(relPath, "\\", "/")))
	if dir == "." || dir == "/" {
		return "general"
	}
	return strings.SplitN(dir, "/", 2)[0]
}
