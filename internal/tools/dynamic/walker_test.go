package dynamic

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	embedded "github.com/mkd-neo4j/seraph/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkConfigFS_EmbeddedQueries(t *testing.T) {
	configs, err := WalkConfigFS(embedded.ConfigFiles, EmbeddedRoot)
	require.NoError(t, err)

	byName := make(map[string]*ToolConfig)
	for _, config := range configs {
		byName[config.Name] = config
	}

	require.Contains(t, byName, "count-nodes-by-label")
	assert.Equal(t, "graph", byName["count-nodes-by-label"].Category)
	assert.False(t, byName["count-nodes-by-label"].Write)

	require.Contains(t, byName, "delete-orphans")
	assert.Equal(t, "maintenance", byName["delete-orphans"].Category)
	assert.True(t, byName["delete-orphans"].Write)
}

func TestToolsHaveRequiredFields(t *testing.T) {
	configs, err := WalkConfigFS(embedded.ConfigFiles, EmbeddedRoot)
	require.NoError(t, err)

	for _, config := range configs {
		assert.NotEmpty(t, config.Name)
		assert.NotEmpty(t, config.Description, config.Name)
		assert.NotEmpty(t, config.Cypher, config.Name)
		assert.NotEmpty(t, config.Category, config.Name)
	}
}

func TestWalkConfigFS_SkipsNonYAMLAndReportsBadFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"q/README.md":    {Data: []byte("not a query")},
		"q/top.yml":      {Data: []byte("name: top\ndescription: d\ncypher: RETURN 1\n")},
		"q/a/nested.yml": {Data: []byte("name: nested\ndescription: d\ncypher: RETURN 2\n")},
	}

	configs, err := WalkConfigFS(fsys, "q")
	require.NoError(t, err)
	require.Len(t, configs, 2)

	categories := map[string]string{}
	for _, c := range configs {
		categories[c.Name] = c.Category
	}
	assert.Equal(t, "a", categories["nested"])
	assert.Equal(t, "general", categories["top"])

	fsys["q/broken.yaml"] = &fstest.MapFile{Data: []byte("name: broken\n")}
	_, err = WalkConfigFS(fsys, "q")
	assert.ErrorContains(t, err, "description is required")
}

func TestWalkConfigFS_MissingRoot(t *testing.T) {
	_, err := WalkConfigFS(fstest.MapFS{}, "config")
	assert.Error(t, err)
}

func TestValidateParameters(t *testing.T) {
	tests := []struct {
		name    string
		params  []ParameterConfig
		cypher  string
		wantErr bool
	}{
		{
			name:    "empty params is valid",
			params:  []ParameterConfig{},
			cypher:  "RETURN 1",
			wantErr: false,
		},
		{
			name: "valid params",
			params: []ParameterConfig{
				{Name: "limit", Type: "integer", Default: 25},
				{Name: "label", Type: "string"},
			},
			cypher:  "MATCH (n) WHERE $label IN labels(n) RETURN n LIMIT $limit",
			wantErr: false,
		},
		{
			name:    "missing name is invalid",
			params:  []ParameterConfig{{Type: "integer"}},
			cypher:  "RETURN 1",
			wantErr: true,
		},
		{
			name: "duplicate name is invalid",
			params: []ParameterConfig{
				{Name: "foo", Type: "string"},
				{Name: "foo", Type: "integer"},
			},
			cypher:  "RETURN $foo",
			wantErr: true,
		},
		{
			name:    "invalid type is invalid",
			params:  []ParameterConfig{{Name: "foo", Type: "invalid_type"}},
			cypher:  "RETURN $foo",
			wantErr: true,
		},
		{
			name:    "empty type is valid (optional)",
			params:  []ParameterConfig{{Name: "foo"}},
			cypher:  "RETURN $foo",
			wantErr: false,
		},
		{
			name:    "undeclared reference is invalid",
			params:  []ParameterConfig{{Name: "foo"}},
			cypher:  "RETURN $foo, $bar",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateParameters(tt.params, tt.cypher)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateParameters() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDeriveCategoryFromPath(t *testing.T) {
	assert.Equal(t, "graph", deriveCategoryFromPath("graph/count.yaml"))
	assert.Equal(t, "graph", deriveCategoryFromPath("graph/deep/count.yaml"))
	assert.Equal(t, "general", deriveCategoryFromPath("count.yaml"))
}

func TestToolRegistry_LoadsEmbeddedAndLocal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "custom"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom", "recent.yaml"), []byte(`
name: recent-orders
description: Most recent orders
cypher: MATCH (o:Order) RETURN o ORDER BY o.createdAt DESC LIMIT $limit
parameters:
  - name: limit
    type: integer
    default: 10
`), 0o600))

	registry := NewToolRegistry(embedded.ConfigFiles, dir, nil)
	require.NoError(t, registry.LoadTools())

	names := make([]string, 0, registry.GetToolCount())
	for _, config := range registry.GetTools() {
		names = append(names, config.Name)
	}
	assert.Contains(t, names, "recent-orders")
	assert.Contains(t, names, "count-nodes-by-label")
	assert.Equal(t, []string{"custom", "graph", "maintenance"}, registry.ListCategories())
}

func TestToolRegistry_DuplicateNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dup.yaml"),
		[]byte("name: count-nodes-by-label\ndescription: shadow\ncypher: RETURN 1\n"), 0o600))

	registry := NewToolRegistry(embedded.ConfigFiles, dir, nil)
	assert.ErrorContains(t, registry.LoadTools(), "duplicate")
}

func TestToolRegistry_MissingDirectory(t *testing.T) {
	registry := NewToolRegistry(nil, filepath.Join(t.TempDir(), "absent"), nil)
	assert.Error(t, registry.LoadTools())
}
