package ctyconv

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// TypeString renders ty as an HCL type expression such as "list(number)".
// Types holding a capsule anywhere have no such form and render as "".
func TypeString(ty cty.Type) string {
	if ty == cty.NilType || hasCapsule(ty) {
		return ""
	}
	return typeexpr.TypeString(ty)
}

func hasCapsule(ty cty.Type) bool {
	switch {
	case ty.IsCapsuleType():
		return true
	case ty.IsCollectionType():
		return hasCapsule(ty.ElementType())
	case ty.IsObjectType():
		for _, aty := range ty.AttributeTypes() {
			if hasCapsule(aty) {
				return true
			}
		}
	case ty.IsTupleType():
		for _, ety := range ty.TupleElementTypes() {
			if hasCapsule(ety) {
				return true
			}
		}
	}
	return false
}

// ParseType is the inverse of TypeString.
func ParseType(s string) (cty.Type, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(s), "type", hcl.InitialPos)
	if diags.HasErrors() {
		return cty.NilType, fmt.Errorf("invalid type %q: %w", s, diags)
	}
	ty, diags := typeexpr.TypeConstraint(expr)
	if diags.HasErrors() {
		return cty.NilType, fmt.Errorf("invalid type %q: %w", s, diags)
	}
	return ty, nil
}

// Conform converts v to the type written as typeStr. Codecs that only know
// tuples and objects use it to bring lists, sets and maps back. An empty
// typeStr leaves v unchanged.
func Conform(v cty.Value, typeStr string) (cty.Value, error) {
	if typeStr == "" || v == cty.NilVal {
		return v, nil
	}
	ty, err := ParseType(typeStr)
	if err != nil {
		return cty.NilVal, err
	}
	if v.Type().Equals(ty) {
		return v, nil
	}
	out, err := convert.Convert(v, ty)
	if err != nil {
		return cty.NilVal, fmt.Errorf("cannot convert %s to %s: %w", v.Type().FriendlyName(), typeStr, err)
	}
	return out, nil
}
