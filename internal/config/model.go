package config

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/dispatchgrid/internal/typetag"
)

// Model is the unified, format-agnostic representation of every manifest
// file that was loaded. Slices keep file order.
type Model struct {
	Classes  []*ClassDefinition
	Unions   []*UnionDefinition
	Generics []*GenericDefinition
	Methods  []*MethodDefinition
	Objects  []*ObjectDefinition
	Calls    []*CallDefinition
}

// Merge appends every definition of other to m.
func (m *Model) Merge(other *Model) {
	if other == nil {
		return
	}
	m.Classes = append(m.Classes, other.Classes...)
	m.Unions = append(m.Unions, other.Unions...)
	m.Generics = append(m.Generics, other.Generics...)
	m.Methods = append(m.Methods, other.Methods...)
	m.Objects = append(m.Objects, other.Objects...)
	m.Calls = append(m.Calls, other.Calls...)
}

// IsEmpty reports whether the model defines nothing.
func (m *Model) IsEmpty() bool {
	return len(m.Classes)+len(m.Unions)+len(m.Generics)+len(m.Methods)+len(m.Objects)+len(m.Calls) == 0
}

// --- Definitions ---

// ClassDefinition is the format-agnostic representation of a `class` block.
type ClassDefinition struct {
	Name        string
	Parent      string
	Description string
	// Validity names a registered validator handler, or is empty.
	Validity string
	Slots    map[string]*SlotDefinition
}

// SlotDefinition declares a single slot of a class.
type SlotDefinition struct {
	Name        string
	Type        typetag.Tag
	Description string
}

// UnionDefinition is the format-agnostic representation of a `union` block.
type UnionDefinition struct {
	Name        string
	Members     []string
	Description string
}

// GenericDefinition is the format-agnostic representation of a `generic`
// block.
type GenericDefinition struct {
	Name        string
	Parameters  []string
	OpenTail    bool
	Description string
}

// MethodDefinition binds a handler to a generic for one dispatch key.
type MethodDefinition struct {
	Generic string
	Key     string
	Handler string
	// Parameters is nil when the manifest does not declare them.
	Parameters []string
}

// ObjectDefinition is an instance the session constructs after applying
// the definitions. Slot expressions may reference other objects as
// `object.<name>`.
type ObjectDefinition struct {
	Name  string
	Class string
	Slots map[string]hcl.Expression
	// DeclRange points at the block that declared the object.
	DeclRange hcl.Range
}

// CallDefinition is a generic invocation the session executes after all
// objects exist.
type CallDefinition struct {
	Generic   string
	Label     string
	Receiver  hcl.Expression
	Args      []hcl.Expression
	DeclRange hcl.Range
}
