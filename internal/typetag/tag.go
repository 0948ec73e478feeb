package typetag

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/zclconf/go-cty/cty"
)

// Tag declares what values a slot accepts.
type Tag struct {
	// Type is the cty type constraint for the slot. It is ObjectType for
	// class-typed slots.
	Type cty.Type

	// Class, when set, names the class or union the held object must
	// satisfy.
	Class string
}

// Any accepts every value.
var Any = Tag{Type: cty.DynamicPseudoType}

// Of returns a tag constraining a slot to the given cty type.
func Of(ty cty.Type) Tag {
	return Tag{Type: ty}
}

// Instance returns a tag for slots holding an object of the named class (or
// of a class satisfying the named union).
func Instance(class string) Tag {
	return Tag{Type: ObjectType, Class: class}
}

// IsClass reports whether the tag names a class rather than a cty type.
func (t Tag) IsClass() bool {
	return t.Class != ""
}

// IsValid reports whether the tag carries a constraint at all. The zero Tag
// is not valid.
func (t Tag) IsValid() bool {
	return t.IsClass() || t.Type != cty.NilType
}

// Equals reports whether two tags impose the same constraint.
func (t Tag) Equals(other Tag) bool {
	if t.IsClass() || other.IsClass() {
		return t.Class == other.Class
	}
	return t.Type.Equals(other.Type)
}

// String renders the tag in the same syntax ParseString accepts.
func (t Tag) String() string {
	switch {
	case t.IsClass():
		return fmt.Sprintf("instance(%s)", t.Class)
	case t.Type == cty.NilType:
		return "<invalid>"
	case t.Type.IsCapsuleType():
		return t.Type.FriendlyName()
	default:
		return typeexpr.TypeString(t.Type)
	}
}
