package show

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/specialistvlad/dispatchgrid/internal/ctxlog"
	"github.com/specialistvlad/dispatchgrid/internal/generic"
	"github.com/specialistvlad/dispatchgrid/internal/handlers"
	"github.com/specialistvlad/dispatchgrid/internal/object"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the handlers.Module interface for this package.
type Module struct{}

// Show renders the receiver the way a default show method does: the class
// line followed by every slot.
func Show(ctx context.Context, call *generic.Call) (cty.Value, error) {
	ctxlog.FromContext(ctx).Debug("Rendering object.", "object", call.Receiver.String())

	var b strings.Builder
	if err := render(&b, call.Receiver, map[uuid.UUID]bool{}); err != nil {
		return cty.NilVal, err
	}
	return cty.StringVal(b.String()), nil
}

// ClassOf returns the exact class of the receiver.
func ClassOf(_ context.Context, call *generic.Call) (cty.Value, error) {
	return cty.StringVal(call.Receiver.ClassName()), nil
}

// Lineage lists the dispatch keys of every applicable method, starting with
// the one that was selected.
func Lineage(ctx context.Context, call *generic.Call) (cty.Value, error) {
	if !call.HasNext() {
		return cty.StringVal(call.Target), nil
	}
	rest, err := call.Next(ctx)
	if err != nil {
		return cty.NilVal, err
	}
	if !rest.Type().Equals(cty.String) || rest.IsNull() {
		return cty.StringVal(call.Target), nil
	}
	return cty.StringVal(call.Target + " < " + rest.AsString()), nil
}

// render writes inst and the objects it holds. An object already on the
// current path is written as <Class id> instead of being expanded again.
func render(b *strings.Builder, inst *object.Instance, open map[uuid.UUID]bool) error {
	open[inst.ID()] = true
	defer delete(open, inst.ID())

	fmt.Fprintf(b, "An object of class %q\n", inst.ClassName())
	for _, name := range inst.SlotNames() {
		v, err := inst.Slot(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(b, "Slot %q:\n", name)
		if nested, ok := object.FromValue(v); ok {
			if open[nested.ID()] {
				b.WriteString(nested.String())
				b.WriteString("\n\n")
				continue
			}
			if err := render(b, nested, open); err != nil {
				return err
			}
			continue
		}
		s, err := formatValue(v)
		if err != nil {
			return fmt.Errorf("slot %q: %w", name, err)
		}
		b.WriteString(s)
		b.WriteString("\n\n")
	}
	return nil
}

// formatValue prints primitives and flat sequences as an indexed vector and
// everything else as JSON.
func formatValue(v cty.Value) (string, error) {
	if v.IsNull() {
		return "NULL", nil
	}
	ty := v.Type()
	if ty.IsPrimitiveType() {
		return "[1] " + primitive(v), nil
	}
	if ty.IsListType() || ty.IsSetType() || ty.IsTupleType() {
		if v.LengthInt() == 0 {
			return "list()", nil
		}
		parts := make([]string, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, el := it.Element()
			if el.IsNull() || !el.Type().IsPrimitiveType() {
				return object.JSON(v)
			}
			parts = append(parts, primitive(el))
		}
		return "[1] " + strings.Join(parts, " "), nil
	}
	return object.JSON(v)
}

func primitive(v cty.Value) string {
	switch ty := v.Type(); {
	case ty.Equals(cty.String):
		return fmt.Sprintf("%q", v.AsString())
	case ty.Equals(cty.Bool):
		if v.True() {
			return "TRUE"
		}
		return "FALSE"
	default:
		return v.AsBigFloat().Text('g', -1)
	}
}

// Register registers the handlers with the engine.
func (m *Module) Register(h *handlers.Handlers) {
	h.RegisterMethod("Show", &handlers.RegisteredMethod{Fn: Show})
	h.RegisterMethod("ClassOf", &handlers.RegisteredMethod{Fn: ClassOf})
	h.RegisterMethod("Lineage", &handlers.RegisteredMethod{Fn: Lineage})
}
