package app

import (
	"github.com/specialistvlad/dispatchgrid/internal/object"
	"github.com/zclconf/go-cty/cty"
)

// render formats a call result for output. Strings are printed as they are,
// objects as <Class id>, and everything else as JSON.
func render(val cty.Value) string {
	switch {
	case val.IsNull():
		return "NULL"
	case !val.IsKnown():
		return "(unknown)"
	case val.Type().Equals(cty.String):
		return val.AsString()
	}
	if inst, ok := object.FromValue(val); ok {
		return inst.String()
	}

	out, err := object.JSON(val)
	if err != nil {
		return val.GoString()
	}
	return out
}
