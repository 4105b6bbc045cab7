package utils

import (
	"fmt"
	"math"
	"strings"

	"github.com/mkd-neo4j/seraph/internal/statement"
)

// Params holds the raw parameters of a tool call as decoded from JSON.
type Params map[string]any

// ToStatement converts a query and its JSON-decoded parameters into a typed statement.
// Whole-number floats become integers so that values such as LIMIT $n reach the
// database as INTEGER rather than FLOAT.
func ToStatement(query string, params Params) (statement.Statement, error) {
	if strings.TrimSpace(query) == "" {
		return statement.Statement{}, fmt.Errorf("query parameter is required")
	}

	native := make(map[string]any, len(params))
	for k, v := range params {
		native[k] = normalize(v)
	}

	stmt, err := statement.New(query, native)
	if err != nil {
		return statement.Statement{}, fmt.Errorf("invalid params: %w", err)
	}
	return stmt, nil
}

func normalize(v any) any {
	switch x := v.(type) {
	case float64:
		if x == math.Trunc(x) && x >= math.MinInt64 && x < math.MaxInt64 {
			return int64(x)
		}
		return x
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = normalize(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = normalize(item)
		}
		return out
	default:
		return v
	}
}

// ToValue converts a single JSON-decoded value using the same number handling as ToStatement.
func ToValue(v any) (statement.Value, error) {
	return statement.Of(normalize(v))
}
