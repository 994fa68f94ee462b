package graph

import "fmt"

// Validate checks referential integrity of a graph about to be loaded:
// refs are unique and every edge endpoint references an existing node ref.
func Validate(nodes []*Node, edges []*Edge) error {
	refs := make(map[string]bool, len(nodes))
	for _, node := range nodes {
		if node.Ref == "" {
			return fmt.Errorf("node ref is required")
		}
		if refs[node.Ref] {
			return fmt.Errorf("duplicate node ref: %s", node.Ref)
		}
		refs[node.Ref] = true
	}

	for _, edge := range edges {
		if !refs[edge.Source] {
			return fmt.Errorf("edge references non-existent source node: %s", edge.Source)
		}
		if !refs[edge.Target] {
			return fmt.Errorf("edge references non-existent target node: %s", edge.Target)
		}
	}

	return nil
}
