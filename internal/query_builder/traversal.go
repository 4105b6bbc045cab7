package query_builder

import (
	"fmt"
)

// MatchTraversal adds a MATCH clause walking path from sourceVar and binding
// the end node to alias.
//
// Example:
//
//	builder.MatchTraversal("c", "friend", PathSpecification{
//	    RelationshipType: "KNOWS",
//	    Direction: "out",
//	    TargetLabel: "Person",
//	    MinHops: 1,
//	    MaxHops: 3,
//	})
//	// Generates: MATCH (c)-[:KNOWS*1..3]->(friend:Person)
func (b *Builder) MatchTraversal(sourceVar string, alias string, path PathSpecification) *Builder {
	return b.add("MATCH " + traversalPattern(sourceVar, alias, path))
}

// OptionalMatchTraversal is MatchTraversal with OPTIONAL MATCH.
func (b *Builder) OptionalMatchTraversal(sourceVar string, alias string, path PathSpecification) *Builder {
	return b.add("OPTIONAL MATCH " + traversalPattern(sourceVar, alias, path))
}

func traversalPattern(sourceVar string, alias string, path PathSpecification) string {
	rel := path.RelationshipType + hopRange(path.MinHops, path.MaxHops)

	target := alias
	if path.TargetLabel != "" {
		target = alias + ":" + path.TargetLabel
	}

	switch path.Direction {
	case "in":
		return fmt.Sprintf("(%s)<-[:%s]-(%s)", sourceVar, rel, target)
	case "both":
		return fmt.Sprintf("(%s)-[:%s]-(%s)", sourceVar, rel, target)
	default:
		// Default to "out"
		return fmt.Sprintf("(%s)-[:%s]->(%s)", sourceVar, rel, target)
	}
}

// hopRange renders the variable-length suffix: "", "*2", "*1..3", "*..3" or "*2..".
func hopRange(minHops, maxHops int) string {
	switch {
	case minHops <= 0 && maxHops <= 0:
		return ""
	case minHops == maxHops:
		return fmt.Sprintf("*%d", minHops)
	case maxHops > 0 && minHops > 0:
		return fmt.Sprintf("*%d..%d", minHops, maxHops)
	case maxHops > 0:
		return fmt.Sprintf("*..%d", maxHops)
	default:
		return fmt.Sprintf("*%d..", minHops)
	}
}
