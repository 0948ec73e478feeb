package object

import (
	"fmt"
	"maps"
	"sort"

	"github.com/google/uuid"
	"github.com/specialistvlad/dispatchgrid/internal/errdefs"
	"github.com/specialistvlad/dispatchgrid/internal/typetag"
	"github.com/zclconf/go-cty/cty"
)

// Instance is a constructed object: an immutable class tag plus slot values.
type Instance struct {
	id     uuid.UUID
	class  string
	schema map[string]typetag.Tag
	slots  map[string]cty.Value
}

// ID returns the identifier the store indexes the instance under.
func (i *Instance) ID() uuid.UUID {
	return i.id
}

// ClassName returns the exact class the instance was constructed as.
func (i *Instance) ClassName() string {
	return i.class
}

// Slot returns the current value of a slot.
func (i *Instance) Slot(name string) (cty.Value, error) {
	v, ok := i.slots[name]
	if !ok {
		return cty.NilVal, fmt.Errorf("%w: class %q has no slot %q", errdefs.ErrUnknownSlot, i.class, name)
	}
	return v, nil
}

// SlotNames returns the instance's slot names, sorted.
func (i *Instance) SlotNames() []string {
	names := make([]string, 0, len(i.slots))
	for name := range i.slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Slots returns a copy of the slot map.
func (i *Instance) Slots() map[string]cty.Value {
	return maps.Clone(i.slots)
}

// Value wraps the instance as a cty value so it can be stored in
// class-typed slots of other instances or passed as a generic argument.
func (i *Instance) Value() cty.Value {
	return typetag.ObjectVal(i)
}

func (i *Instance) String() string {
	return fmt.Sprintf("<%s %s>", i.class, i.id)
}

// FromValue unwraps an instance previously wrapped by Value.
func FromValue(v cty.Value) (*Instance, bool) {
	obj, ok := typetag.ObjectFromValue(v)
	if !ok {
		return nil, false
	}
	inst, ok := obj.(*Instance)
	return inst, ok
}
