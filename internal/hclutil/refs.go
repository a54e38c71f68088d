package hclutil

import (
	"maps"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

// TraversalKey returns a canonical string form of t, such as `root.build_dir`.
func TraversalKey(t hcl.Traversal) string {
	return string(hclwrite.TokensForTraversal(t).Bytes())
}

// References returns the unique variable traversals of exprs, sorted by
// TraversalKey, and the sorted names of every function they call.
// Function calls are only found in native syntax expressions.
func References(exprs ...hcl.Expression) ([]hcl.Traversal, []string) {
	traversals := make(map[string]hcl.Traversal)
	functions := make(map[string]struct{})

	for _, expr := range exprs {
		if expr == nil {
			continue
		}
		for _, tr := range expr.Variables() {
			traversals[TraversalKey(tr)] = tr
		}
		if node, ok := expr.(hclsyntax.Node); ok {
			hclsyntax.VisitAll(node, func(n hclsyntax.Node) hcl.Diagnostics {
				if call, ok := n.(*hclsyntax.FunctionCallExpr); ok {
					functions[call.Name] = struct{}{}
				}
				return nil
			})
		}
	}

	sorted := make([]hcl.Traversal, 0, len(traversals))
	for _, key := range slices.Sorted(maps.Keys(traversals)) {
		sorted = append(sorted, traversals[key])
	}
	return sorted, slices.Sorted(maps.Keys(functions))
}
