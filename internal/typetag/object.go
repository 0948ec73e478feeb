package typetag

import (
	"fmt"
	"reflect"

	"github.com/zclconf/go-cty/cty"
)

// Classed is implemented by anything that can be held in a class-typed slot.
type Classed interface {
	ClassName() string
}

// ObjectType is the capsule type wrapping a Classed value.
var ObjectType = cty.CapsuleWithOps("object", reflect.TypeOf((*Classed)(nil)).Elem(), &cty.CapsuleOps{
	GoString: func(v interface{}) string {
		return fmt.Sprintf("typetag.ObjectVal(<%s>)", (*v.(*Classed)).ClassName())
	},
	TypeGoString: func(reflect.Type) string {
		return "typetag.ObjectType"
	},
	RawEquals: func(a, b interface{}) bool {
		return *a.(*Classed) == *b.(*Classed)
	},
})

// ObjectVal wraps obj into a cty value of ObjectType. A nil obj, including a
// nil pointer held in the interface, becomes a null object.
func ObjectVal(obj Classed) cty.Value {
	if isNil(obj) {
		return cty.NullVal(ObjectType)
	}
	return cty.CapsuleVal(ObjectType, &obj)
}

// ObjectFromValue unwraps a value produced by ObjectVal. It reports false for
// values of any other type and for null or unknown objects.
func ObjectFromValue(v cty.Value) (Classed, bool) {
	if v.Type() == cty.NilType || !v.Type().Equals(ObjectType) || !v.IsKnown() || v.IsNull() {
		return nil, false
	}
	ptr, ok := v.EncapsulatedValue().(*Classed)
	if !ok || ptr == nil || isNil(*ptr) {
		return nil, false
	}
	return *ptr, true
}

func isNil(obj Classed) bool {
	if obj == nil {
		return true
	}
	rv := reflect.ValueOf(obj)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
