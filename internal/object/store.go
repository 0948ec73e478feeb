package object

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/specialistvlad/dispatchgrid/internal/classes"
	"github.com/specialistvlad/dispatchgrid/internal/errdefs"
	"github.com/specialistvlad/dispatchgrid/internal/typetag"
	"github.com/specialistvlad/dispatchgrid/internal/validity"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Store constructs instances and indexes the ones that passed construction.
type Store struct {
	classes  *classes.Registry
	validity *validity.Engine
	checker  typetag.Checker
	logger   *slog.Logger

	instances sync.Map // Key: uuid.UUID, Value: *Instance
}

// New creates a store. A nil checker selects typetag.NewChecker(reg); a nil
// logger selects slog.Default().
func New(reg *classes.Registry, engine *validity.Engine, checker typetag.Checker, logger *slog.Logger) *Store {
	if checker == nil {
		checker = typetag.NewChecker(reg)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		classes:  reg,
		validity: engine,
		checker:  checker,
		logger:   logger,
	}
}

// Construct builds an instance of class from slot values. It fails with
// ErrUnknownClass, a *errdefs.SlotSchemaMismatchError or a
// *errdefs.ValidityError; on failure nothing is stored.
func (s *Store) Construct(class string, slots map[string]cty.Value) (*Instance, error) {
	schema, err := s.classes.EffectiveSlots(class)
	if err != nil {
		return nil, err
	}
	if err := s.checkSchema(class, schema, slots, nil); err != nil {
		s.logger.Debug("Construction rejected by slot schema.", "class", class, "error", err)
		return nil, err
	}

	inst := &Instance{
		id:     uuid.New(),
		class:  class,
		schema: schema,
		slots:  maps.Clone(slots),
	}
	if inst.slots == nil {
		inst.slots = map[string]cty.Value{}
	}

	if s.validity != nil {
		if err := s.validity.CheckAll(inst); err != nil {
			return nil, err
		}
	}

	s.instances.Store(inst.id, inst)
	s.logger.Debug("Object constructed.", "class", class, "id", inst.id)
	return inst, nil
}

// ConstructGo is Construct for native Go values. Each value is converted to
// its slot's declared type with gocty; cty.Value and *Instance values pass
// through unchanged.
func (s *Store) ConstructGo(class string, values map[string]any) (*Instance, error) {
	schema, err := s.classes.EffectiveSlots(class)
	if err != nil {
		return nil, err
	}

	converted := make(map[string]cty.Value, len(values))
	convErrs := make(map[string]error)
	for name, raw := range values {
		tag, declared := schema[name]
		if !declared {
			// Reported as an extra slot by checkSchema.
			converted[name] = cty.DynamicVal
			continue
		}
		val, err := toCty(raw, tag)
		if err != nil {
			convErrs[name] = err
			continue
		}
		converted[name] = val
	}

	if len(convErrs) > 0 {
		return nil, s.checkSchema(class, schema, converted, convErrs)
	}
	return s.Construct(class, converted)
}

// GetSlot reads a slot of inst.
func (s *Store) GetSlot(inst *Instance, name string) (cty.Value, error) {
	if inst == nil {
		return cty.NilVal, errors.New("nil instance")
	}
	return inst.Slot(name)
}

// SetSlot replaces a slot value after checking it against the slot's type.
// Validity is not re-checked.
func (s *Store) SetSlot(inst *Instance, name string, val cty.Value) error {
	if inst == nil {
		return errors.New("nil instance")
	}
	tag, ok := inst.schema[name]
	if !ok {
		return fmt.Errorf("%w: class %q has no slot %q", errdefs.ErrUnknownSlot, inst.class, name)
	}
	if err := s.checker.Check(val, tag); err != nil {
		return &errdefs.TypeMismatchError{Class: inst.class, Slot: name, Expected: tag.String(), Reason: err}
	}
	inst.slots[name] = val
	return nil
}

// Validate re-checks an existing instance: slot types first, then the
// applicable validator. It is the explicit counterpart to the check
// Construct performs.
func (s *Store) Validate(inst *Instance) error {
	if inst == nil {
		return errors.New("nil instance")
	}
	if err := s.checkSchema(inst.class, inst.schema, inst.slots, nil); err != nil {
		return err
	}
	if s.validity == nil {
		return nil
	}
	return s.validity.CheckAll(inst)
}

// Get looks up a stored instance.
func (s *Store) Get(id uuid.UUID) (*Instance, bool) {
	v, ok := s.instances.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*Instance), true
}

// Release drops an instance from the index. It reports whether it was there.
func (s *Store) Release(id uuid.UUID) bool {
	_, ok := s.instances.LoadAndDelete(id)
	return ok
}

// Len returns the number of stored instances.
func (s *Store) Len() int {
	n := 0
	s.instances.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// checkSchema compares slots against schema. pre carries per-slot errors
// found earlier, such as failed conversions.
func (s *Store) checkSchema(class string, schema map[string]typetag.Tag, slots map[string]cty.Value, pre map[string]error) error {
	mismatch := &errdefs.SlotSchemaMismatchError{Class: class, Mistyped: make(map[string]error)}
	for name, err := range pre {
		mismatch.Mistyped[name] = err
	}

	for name := range schema {
		if _, ok := slots[name]; !ok {
			if _, failed := pre[name]; !failed {
				mismatch.Missing = append(mismatch.Missing, name)
			}
		}
	}
	for name, val := range slots {
		tag, ok := schema[name]
		if !ok {
			mismatch.Extra = append(mismatch.Extra, name)
			continue
		}
		if err := s.checker.Check(val, tag); err != nil {
			mismatch.Mistyped[name] = err
		}
	}

	if len(mismatch.Missing) == 0 && len(mismatch.Extra) == 0 && len(mismatch.Mistyped) == 0 {
		return nil
	}
	sort.Strings(mismatch.Missing)
	sort.Strings(mismatch.Extra)
	return mismatch
}

func toCty(raw any, tag typetag.Tag) (cty.Value, error) {
	switch v := raw.(type) {
	case cty.Value:
		return v, nil
	case *Instance:
		if v == nil {
			return cty.NullVal(typetag.ObjectType), nil
		}
		return v.Value(), nil
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	}
	if tag.IsClass() {
		return cty.NilVal, fmt.Errorf("expected an object of class %q, got Go value of type %T", tag.Class, raw)
	}

	ty := tag.Type
	if ty.Equals(cty.DynamicPseudoType) {
		implied, err := gocty.ImpliedType(raw)
		if err != nil {
			return cty.NilVal, err
		}
		ty = implied
	}
	return gocty.ToCtyValue(raw, ty)
}
