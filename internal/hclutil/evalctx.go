package hclutil

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Functions is the function table available to configuration expressions.
func Functions() map[string]function.Function {
	return map[string]function.Function{
		"concat": stdlib.ConcatFunc,
		"format": stdlib.FormatFunc,
		"join":   stdlib.JoinFunc,
		"lower":  stdlib.LowerFunc,
		"upper":  stdlib.UpperFunc,
	}
}

// NewEvalContext builds the context configuration expressions are evaluated
// in. extra is exposed as `extra` and the root attributes as `root.<name>`.
// A null extra is replaced by an empty object.
func NewEvalContext(extra cty.Value, root map[string]string) *hcl.EvalContext {
	if extra == cty.NilVal || extra.IsNull() {
		extra = cty.EmptyObjectVal
	}
	rootAttrs := make(map[string]cty.Value, len(root))
	for k, v := range root {
		rootAttrs[k] = cty.StringVal(v)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"extra": extra,
			"root":  cty.ObjectVal(rootAttrs),
		},
		Functions: Functions(),
	}
}
