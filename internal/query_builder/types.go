package query_builder

import (
	"github.com/mkd-neo4j/seraph/internal/statement"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Properties is an insertion-ordered property bag. The order decides the
// order of the key: $key pairs in generated CREATE text.
type Properties = orderedmap.OrderedMap[string, statement.Value]

// Property is one key/value pair used to build Properties.
type Property struct {
	Key   string
	Value statement.Value
}

// P builds a Property from a native Go value. It panics on types that
// statement.Of cannot convert, so use it for literals.
func P(key string, value any) Property {
	return Property{Key: key, Value: statement.MustOf(value)}
}

// Props builds Properties in the given order. A repeated key keeps its first
// position and takes the last value.
func Props(pairs ...Property) *Properties {
	props := orderedmap.New[string, statement.Value]()
	for _, pair := range pairs {
		props.Set(pair.Key, pair.Value)
	}
	return props
}

// NodeSpec describes a node to create.
type NodeSpec struct {
	// Label is the node label (e.g., "Person")
	Label string `json:"label"`

	// Alias is the pattern variable; defaults to "n"
	Alias string `json:"alias,omitempty"`

	// Properties become parameters bound to $key placeholders
	Properties *Properties `json:"-"`
}

// RelationshipSpec describes a relationship between two already bound
// pattern variables. It carries no parameters.
type RelationshipSpec struct {
	// Type is the relationship type (e.g., "KNOWS")
	Type string `json:"type"`

	// From is the alias of the start node
	From string `json:"from"`

	// To is the alias of the end node
	To string `json:"to"`
}

// PathSpecification defines a graph traversal path for finding related nodes.
// Used for multi-hop traversals and relationship pattern matching.
type PathSpecification struct {
	// RelationshipType is the relationship type to traverse (e.g., "TRANSACTION", "KNOWS")
	RelationshipType string `json:"relationshipType"`

	// Direction specifies the relationship direction: "out", "in", or "both"
	Direction string `json:"direction"`

	// TargetLabel is the expected node label at the end of the path
	TargetLabel string `json:"targetLabel"`

	// MinHops is the minimum number of hops (relationships) to traverse. 0 means no minimum.
	MinHops int `json:"minHops,omitempty"`

	// MaxHops is the maximum number of hops to traverse. 0 means unlimited (use with caution).
	MaxHops int `json:"maxHops,omitempty"`
}
