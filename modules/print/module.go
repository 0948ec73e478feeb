package print

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/dispatchgrid/internal/ctxlog"
	"github.com/specialistvlad/dispatchgrid/internal/generic"
	"github.com/specialistvlad/dispatchgrid/internal/handlers"
	"github.com/specialistvlad/dispatchgrid/internal/object"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the handlers.Module interface for this package.
type Module struct{}

// Print renders the receiver's slots one per line, sorted by name. Strings
// are quoted, nested objects print as <Class id> and other values as JSON.
func Print(ctx context.Context, call *generic.Call) (cty.Value, error) {
	ctxlog.FromContext(ctx).Debug("Printing object.", "object", call.Receiver.String())

	names := call.Receiver.SlotNames()
	if len(names) == 0 {
		return cty.StringVal("(no slots)"), nil
	}

	lines := make([]string, 0, len(names))
	for _, name := range names {
		v, err := call.Receiver.Slot(name)
		if err != nil {
			return cty.NilVal, err
		}
		s, err := format(v)
		if err != nil {
			return cty.NilVal, fmt.Errorf("slot '%s': %w", name, err)
		}
		lines = append(lines, fmt.Sprintf("%s = %s", name, s))
	}
	return cty.StringVal(strings.Join(lines, "\n")), nil
}

func format(v cty.Value) (string, error) {
	switch {
	case v.IsNull():
		return "(null)", nil
	case v.Type().Equals(cty.String):
		return fmt.Sprintf("%q", v.AsString()), nil
	}
	if inst, ok := object.FromValue(v); ok {
		return inst.String(), nil
	}
	return object.JSON(v)
}

// Register registers the handler with the engine.
func (m *Module) Register(h *handlers.Handlers) {
	h.RegisterMethod("Print", &handlers.RegisteredMethod{Fn: Print})
}
