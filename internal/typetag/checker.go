package typetag

import (
	"errors"
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Ancestry answers whether objects of one class satisfy a class or union
// name. The class registry implements it.
type Ancestry interface {
	Is(class, target string) bool
}

// Checker decides whether a value satisfies a tag. A nil error means it does.
type Checker interface {
	Check(val cty.Value, tag Tag) error
}

// CtyChecker is the default Checker. Plain tags are checked with cty type
// conformance; class tags unwrap the object capsule and consult the
// Ancestry.
type CtyChecker struct {
	ancestry Ancestry
}

// NewChecker returns a CtyChecker resolving class tags through ancestry.
func NewChecker(ancestry Ancestry) *CtyChecker {
	return &CtyChecker{ancestry: ancestry}
}

// Check implements Checker.
func (c *CtyChecker) Check(val cty.Value, tag Tag) error {
	if !tag.IsValid() {
		return errors.New("slot has no type constraint")
	}
	if val.Type() == cty.NilType {
		return errors.New("no value given")
	}
	if !val.IsWhollyKnown() {
		return errors.New("value is not known")
	}

	if tag.IsClass() {
		obj, ok := ObjectFromValue(val)
		if !ok {
			return fmt.Errorf("expected an object of class %q, got %s", tag.Class, describe(val))
		}
		if c.ancestry == nil || !c.ancestry.Is(obj.ClassName(), tag.Class) {
			return fmt.Errorf("object of class %q does not satisfy %q", obj.ClassName(), tag.Class)
		}
		return nil
	}

	if val.IsNull() {
		if tag.Type.Equals(cty.DynamicPseudoType) {
			return nil
		}
		return fmt.Errorf("null value is not a %s", tag)
	}
	if errs := val.Type().TestConformance(tag.Type); len(errs) > 0 {
		return fmt.Errorf("%s is not a %s: %w", describe(val), tag, errors.Join(errs...))
	}
	return nil
}

func describe(val cty.Value) string {
	if obj, ok := ObjectFromValue(val); ok {
		return fmt.Sprintf("object of class %q", obj.ClassName())
	}
	if val.IsNull() {
		return "null"
	}
	return val.Type().FriendlyName()
}
