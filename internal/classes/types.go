package classes

import (
	"maps"
	"slices"

	"github.com/specialistvlad/dispatchgrid/internal/typetag"
)

// ClassDef is a registered class.
type ClassDef struct {
	Name        string
	Parent      string // empty for root classes
	Slots       map[string]typetag.Tag
	Description string
}

func (c *ClassDef) clone() *ClassDef {
	cp := *c
	cp.Slots = maps.Clone(c.Slots)
	if cp.Slots == nil {
		cp.Slots = map[string]typetag.Tag{}
	}
	return &cp
}

// Union is a named set of otherwise unrelated classes usable as a single
// dispatch target.
type Union struct {
	Name        string
	Members     []string
	Description string
}

func (u *Union) clone() *Union {
	cp := *u
	cp.Members = slices.Clone(u.Members)
	return &cp
}

func (u *Union) has(class string) bool {
	return slices.Contains(u.Members, class)
}

// Handle refers to a registered class.
type Handle struct {
	name string
}

// Name returns the name of the class the handle refers to.
func (h Handle) Name() string {
	return h.name
}
