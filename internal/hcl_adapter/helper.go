package hcl_adapter

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/buildcheck/internal/config"
	"github.com/specialistvlad/buildcheck/internal/hclutil"
	"github.com/zclconf/go-cty/cty"
)

// evaluator evaluates attribute expressions in a fixed context and collects
// diagnostics, so a whole block can be translated before errors are checked.
type evaluator struct {
	ctx   *hcl.EvalContext
	diags hcl.Diagnostics
}

func newEvaluator(ctx *hcl.EvalContext) *evaluator {
	return &evaluator{ctx: ctx}
}

// str evaluates a string attribute. Omitted attributes yield a zero value.
func (e *evaluator) str(expr hcl.Expression) config.StringValue {
	if !hclutil.IsExprDefined(expr) {
		return config.StringValue{}
	}
	var s string
	e.diags = append(e.diags, gohcl.DecodeExpression(expr, e.ctx, &s)...)
	return config.StringValue{Value: s, Range: expr.Range()}
}

// int evaluates a whole-number attribute.
func (e *evaluator) int(expr hcl.Expression) config.IntValue {
	if !hclutil.IsExprDefined(expr) {
		return config.IntValue{}
	}
	var n int
	e.diags = append(e.diags, gohcl.DecodeExpression(expr, e.ctx, &n)...)
	return config.IntValue{Value: n, Set: true, Range: expr.Range()}
}

// bool evaluates a boolean attribute, defaulting to false.
func (e *evaluator) bool(expr hcl.Expression) bool {
	if !hclutil.IsExprDefined(expr) {
		return false
	}
	var b bool
	e.diags = append(e.diags, gohcl.DecodeExpression(expr, e.ctx, &b)...)
	return b
}

// strList evaluates a list of strings. When the expression is a static list
// every element keeps its own range; otherwise all elements share the range
// of the whole expression.
func (e *evaluator) strList(expr hcl.Expression) []config.StringValue {
	if !hclutil.IsExprDefined(expr) {
		return nil
	}

	if elems, diags := hcl.ExprList(expr); !diags.HasErrors() {
		out := make([]config.StringValue, 0, len(elems))
		for _, el := range elems {
			out = append(out, e.str(el))
		}
		return out
	}

	var list []string
	e.diags = append(e.diags, gohcl.DecodeExpression(expr, e.ctx, &list)...)
	out := make([]config.StringValue, 0, len(list))
	for _, s := range list {
		out = append(out, config.StringValue{Value: s, Range: expr.Range()})
	}
	return out
}

// strMap evaluates a map of strings.
func (e *evaluator) strMap(expr hcl.Expression) map[string]string {
	if !hclutil.IsExprDefined(expr) {
		return nil
	}
	var m map[string]string
	e.diags = append(e.diags, gohcl.DecodeExpression(expr, e.ctx, &m)...)
	return m
}

// object evaluates an attribute that must be an object or a map.
func (e *evaluator) object(expr hcl.Expression) cty.Value {
	if !hclutil.IsExprDefined(expr) {
		return cty.EmptyObjectVal
	}
	val, diags := expr.Value(e.ctx)
	e.diags = append(e.diags, diags...)
	if diags.HasErrors() {
		return cty.EmptyObjectVal
	}
	if val.IsNull() || !(val.Type().IsObjectType() || val.Type().IsMapType()) {
		e.diags = append(e.diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid extra properties",
			Detail:   "The 'extra' attribute must be an object, e.g. { kotlin_version = \"2.1.21\" }.",
			Subject:  expr.Range().Ptr(),
		})
		return cty.EmptyObjectVal
	}
	return val
}

// bodyAttributes converts a remaining body into a map of raw expressions.
func bodyAttributes(body hcl.Body) (map[string]hcl.Expression, hcl.Diagnostics) {
	if body == nil {
		return nil, nil
	}
	attrs, diags := body.JustAttributes()
	if len(attrs) == 0 {
		return nil, diags
	}
	exprs := make(map[string]hcl.Expression, len(attrs))
	for name, attr := range attrs {
		exprs[name] = attr.Expr
	}
	return exprs, diags
}
