package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mkd-neo4j/seraph/internal/config"
	"github.com/mkd-neo4j/seraph/internal/database"
	"github.com/mkd-neo4j/seraph/internal/engine"
	"github.com/mkd-neo4j/seraph/internal/tools"
)

type ToolHandler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

// TestContext gives one test its own engine over the shared store and removes
// the nodes it labelled when the test ends.
type TestContext struct {
	T      *testing.T
	Ctx    context.Context
	Store  database.Store
	Engine *engine.Engine
	Deps   *tools.ToolDependencies
	Config *config.Config

	labels []string
}

// NewTestContext builds a fresh engine (and so a fresh cache) on store.
// mutate adjusts the default configuration and may be nil.
func NewTestContext(t *testing.T, store database.Store, mutate func(cfg *config.Config)) *TestContext {
	t.Helper()

	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("failed to load default config: %v", err)
	}
	if mutate != nil {
		mutate(cfg)
	}

	eng, err := engine.New(store, cfg, nil)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	tc := &TestContext{
		T:      t,
		Ctx:    context.Background(),
		Store:  store,
		Engine: eng,
		Deps:   &tools.ToolDependencies{Engine: eng},
		Config: cfg,
	}
	// the store is shared, so only the data is cleaned up
	t.Cleanup(tc.cleanup)
	return tc
}

// GetUniqueLabel returns prefix with a random suffix that is a valid label.
func (tc *TestContext) GetUniqueLabel(prefix string) string {
	label := prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	tc.labels = append(tc.labels, label)
	return label
}

// Exec runs a statement directly on the store, bypassing the engine cache.
func (tc *TestContext) Exec(cypher string, params map[string]any) database.RecordSet {
	tc.T.Helper()

	session, err := tc.Store.OpenSession(tc.Ctx, database.AccessModeWrite)
	if err != nil {
		tc.T.Fatalf("failed to open session: %v", err)
	}
	defer session.Close(tc.Ctx)

	records, err := session.Run(tc.Ctx, cypher, params)
	if err != nil {
		tc.T.Fatalf("failed to run %q: %v", cypher, err)
	}
	return records
}

// SeedNode creates a node with label and props outside the engine.
func (tc *TestContext) SeedNode(label string, props map[string]any) {
	tc.T.Helper()
	tc.Exec(fmt.Sprintf("CREATE (n:%s) SET n = $props", label), map[string]any{"props": props})
}

// CountNodes counts nodes with label outside the engine.
func (tc *TestContext) CountNodes(label string) int64 {
	tc.T.Helper()
	records := tc.Exec(fmt.Sprintf("MATCH (n:%s) RETURN count(n) AS count", label), nil)
	if len(records) != 1 {
		tc.T.Fatalf("expected one count record, got %d", len(records))
	}
	count, ok := records[0]["count"].(int64)
	if !ok {
		tc.T.Fatalf("unexpected count type %T", records[0]["count"])
	}
	return count
}

// CallTool invokes handler and fails the test on an error result.
func (tc *TestContext) CallTool(handler ToolHandler, args map[string]any) *mcp.CallToolResult {
	tc.T.Helper()
	res := tc.CallToolRaw(handler, args)
	if res.IsError {
		tc.T.Fatalf("tool returned error: %s", ResultText(res))
	}
	return res
}

// CallToolRaw invokes handler and returns whatever it produced.
func (tc *TestContext) CallToolRaw(handler ToolHandler, args map[string]any) *mcp.CallToolResult {
	tc.T.Helper()
	res, err := handler(tc.Ctx, mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: args}})
	if err != nil {
		tc.T.Fatalf("tool handler failed: %v", err)
	}
	if res == nil {
		tc.T.Fatal("tool handler returned nil result")
	}
	return res
}

// ParseJSONResponse decodes the text content of res into v.
func (tc *TestContext) ParseJSONResponse(res *mcp.CallToolResult, v any) {
	tc.T.Helper()
	if err := json.Unmarshal([]byte(ResultText(res)), v); err != nil {
		tc.T.Fatalf("failed to parse tool response: %v", err)
	}
}

// ResultText returns the first text content of res.
func ResultText(res *mcp.CallToolResult) string {
	for _, content := range res.Content {
		if text, ok := content.(mcp.TextContent); ok {
			return text.Text
		}
	}
	return ""
}

func (tc *TestContext) cleanup() {
	session, err := tc.Store.OpenSession(tc.Ctx, database.AccessModeWrite)
	if err != nil {
		tc.T.Logf("cleanup: failed to open session: %v", err)
		return
	}
	defer session.Close(tc.Ctx)

	for _, label := range tc.labels {
		if _, err := session.Run(tc.Ctx, fmt.Sprintf("MATCH (n:%s) DETACH DELETE n", label), nil); err != nil {
			tc.T.Logf("cleanup: failed to delete %s nodes: %v", label, err)
		}
	}
}
