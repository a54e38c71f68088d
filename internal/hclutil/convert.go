package hclutil

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// StringMap converts an object or map of primitive values into Go strings,
// using cty's standard number and bool conversions. Null elements become
// empty strings; a null val yields an empty map.
func StringMap(val cty.Value) (map[string]string, error) {
	out := map[string]string{}
	if val == cty.NilVal || val.IsNull() {
		return out, nil
	}
	ty := val.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("expected an object, got %s", ty.FriendlyName())
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known until evaluation")
	}

	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		key := k.AsString()
		if v.IsNull() {
			out[key] = ""
			continue
		}
		sv, err := convert.Convert(v, cty.String)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", key, err)
		}
		var s string
		if err := gocty.FromCtyValue(sv, &s); err != nil {
			return nil, fmt.Errorf("property %q: %w", key, err)
		}
		out[key] = s
	}
	return out, nil
}
