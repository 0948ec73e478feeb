package checks

import (
	"fmt"

	"github.com/specialistvlad/dispatchgrid/internal/handlers"
	"github.com/specialistvlad/dispatchgrid/internal/validity"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the handlers.Module interface for this package.
type Module struct{}

// NonEmptyStrings rejects objects with an empty string in any string slot.
func NonEmptyStrings(obj validity.Subject) error {
	return eachSlot(obj, cty.String, func(name string, v cty.Value) error {
		if v.AsString() == "" {
			return fmt.Errorf("slot %q must not be empty", name)
		}
		return nil
	})
}

// NonNegativeNumbers rejects objects with a negative value in any number
// slot.
func NonNegativeNumbers(obj validity.Subject) error {
	return eachSlot(obj, cty.Number, func(name string, v cty.Value) error {
		if v.LessThan(cty.Zero).True() {
			return fmt.Errorf("slot %q must not be negative, got %s", name, v.AsBigFloat().Text('g', -1))
		}
		return nil
	})
}

// NoNullSlots rejects objects with a null value in any slot.
func NoNullSlots(obj validity.Subject) error {
	for _, name := range obj.SlotNames() {
		v, err := obj.Slot(name)
		if err != nil {
			return err
		}
		if v.IsNull() {
			return fmt.Errorf("slot %q must not be null", name)
		}
	}
	return nil
}

// eachSlot calls fn for every non-null slot holding a value of type ty.
func eachSlot(obj validity.Subject, ty cty.Type, fn func(name string, v cty.Value) error) error {
	for _, name := range obj.SlotNames() {
		v, err := obj.Slot(name)
		if err != nil {
			return err
		}
		if v.IsNull() || !v.IsKnown() || !v.Type().Equals(ty) {
			continue
		}
		if err := fn(name, v); err != nil {
			return err
		}
	}
	return nil
}

// Register registers the validators with the engine.
func (m *Module) Register(h *handlers.Handlers) {
	h.RegisterValidator("NonEmptyStrings", NonEmptyStrings)
	h.RegisterValidator("NonNegativeNumbers", NonNegativeNumbers)
	h.RegisterValidator("NoNullSlots", NoNullSlots)
}
