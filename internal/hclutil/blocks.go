// Package hclutil holds small helpers on top of the HCL library that are
// shared by the configuration loader and the reporters.
package hclutil

import (
	"github.com/hashicorp/hcl/v2"
)

// FindUniqueBlock searches a slice of blocks for all blocks of a given type.
// It returns a diagnostic error if more than one block of that type is found.
// If no block is found, it returns nil.
func FindUniqueBlock(blocks hcl.Blocks, name string) (*hcl.Block, hcl.Diagnostics) {
	var found *hcl.Block
	var diags hcl.Diagnostics

	for _, block := range blocks {
		if block.Type == name {
			if found != nil {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Duplicate \"" + name + "\" block",
					Detail:   "Only one \"" + name + "\" block is allowed; the first was declared at " + found.DefRange.String() + ".",
					Subject:  block.DefRange.Ptr(),
				})
				continue
			}
			found = block
		}
	}

	return found, diags
}

// IsExprDefined reports whether an expression was actually present in the
// source. gohcl populates omitted optional hcl.Expression fields with a
// synthetic expression whose range has no width.
func IsExprDefined(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	r := expr.Range()
	return r.End.Byte > r.Start.Byte
}
