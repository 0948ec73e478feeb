// This file parses type expressions such as `string`, `list(number)` or
// `instance(Person)` into tags.

package typetag

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// ParseExpr converts an HCL type expression into a Tag. Everything typeexpr
// understands as a type constraint is accepted, plus `instance(Name)` for
// class-typed slots.
func ParseExpr(expr hcl.Expression) (Tag, hcl.Diagnostics) {
	if expr == nil {
		return Any, nil
	}

	if call, callDiags := hcl.ExprCall(expr); !callDiags.HasErrors() && call.Name == "instance" {
		if len(call.Arguments) != 1 {
			return Tag{}, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Invalid instance type",
				Detail:   fmt.Sprintf("The instance() type constructor requires exactly one class name, got %d arguments.", len(call.Arguments)),
				Subject:  call.ArgsRange.Ptr(),
			}}
		}
		name := className(call.Arguments[0])
		if name == "" {
			return Tag{}, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Invalid instance type",
				Detail:   "The argument to instance() must be a class name such as instance(Person).",
				Subject:  call.Arguments[0].Range().Ptr(),
			}}
		}
		return Instance(name), nil
	}

	ty, diags := typeexpr.TypeConstraint(expr)
	if diags.HasErrors() {
		return Tag{}, diags
	}
	return Of(ty), nil
}

// ParseString parses a type expression written in HCL native syntax. It is
// used by manifest formats that carry types as plain strings.
func ParseString(src string) (Tag, hcl.Diagnostics) {
	expr, diags := hclsyntax.ParseExpression([]byte(src), "<type>", hcl.InitialPos)
	if diags.HasErrors() {
		return Tag{}, diags
	}
	return ParseExpr(expr)
}

// className accepts either a bare identifier or a quoted string.
func className(expr hcl.Expression) string {
	if kw := hcl.ExprAsKeyword(expr); kw != "" {
		return kw
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() || val.IsNull() || !val.IsKnown() || !val.Type().Equals(cty.String) {
		return ""
	}
	return val.AsString()
}
