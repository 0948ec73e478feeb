package classes

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"

	"github.com/specialistvlad/dispatchgrid/internal/errdefs"
	"github.com/specialistvlad/dispatchgrid/internal/typetag"
)

// Registry stores class definitions and class unions. Definitions are
// append-only; readers may run concurrently with each other and with
// registration.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]*ClassDef
	unions  map[string]*Union

	// unionOrder keeps definition order, which breaks ties during dispatch.
	unionOrder []string
	logger     *slog.Logger
}

// New creates an empty registry. A nil logger selects slog.Default().
func New(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		classes: make(map[string]*ClassDef),
		unions:  make(map[string]*Union),
		logger:  logger,
	}
}

// DefineClass registers a class with the given parent (empty for a root
// class) and own slots.
func (r *Registry) DefineClass(name, parent string, slots map[string]typetag.Tag) (Handle, error) {
	return r.Define(ClassDef{Name: name, Parent: parent, Slots: slots})
}

// Define registers a fully described class.
func (r *Registry) Define(def ClassDef) (Handle, error) {
	if def.Name == "" {
		return Handle{}, errors.New("class name must not be empty")
	}
	for slot, tag := range def.Slots {
		if slot == "" {
			return Handle{}, fmt.Errorf("class %q declares a slot with an empty name", def.Name)
		}
		if !tag.IsValid() {
			return Handle{}, fmt.Errorf("class %q: slot %q has no type", def.Name, slot)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTakenLocked(def.Name) {
		return Handle{}, fmt.Errorf("%w: %q is already defined", errdefs.ErrDuplicateClass, def.Name)
	}
	if def.Parent != "" {
		if def.Parent == def.Name {
			return Handle{}, fmt.Errorf("%w: class %q cannot extend itself", errdefs.ErrCyclicInheritance, def.Name)
		}
		if _, ok := r.classes[def.Parent]; !ok {
			return Handle{}, fmt.Errorf("%w: class %q extends %q, which is not defined", errdefs.ErrUnknownParent, def.Name, def.Parent)
		}
		// The parent already exists, so the walk below can only loop if the
		// stored chain is itself corrupt.
		seen := map[string]struct{}{def.Name: {}}
		for cur := def.Parent; cur != ""; cur = r.classes[cur].Parent {
			if _, dup := seen[cur]; dup {
				return Handle{}, fmt.Errorf("%w: class %q reaches %q twice through its parents", errdefs.ErrCyclicInheritance, def.Name, cur)
			}
			seen[cur] = struct{}{}
		}
	}

	stored := def.clone()
	r.classes[def.Name] = stored
	r.logger.Debug("Class defined.", "class", def.Name, "parent", def.Parent, "own_slots", len(stored.Slots))
	return Handle{name: def.Name}, nil
}

// DefineUnion registers a class union over already defined classes.
func (r *Registry) DefineUnion(name string, members []string) error {
	return r.DefineUnionDef(Union{Name: name, Members: members})
}

// DefineUnionDef registers a fully described class union. Repeated members
// are collapsed.
func (r *Registry) DefineUnionDef(u Union) error {
	if u.Name == "" {
		return errors.New("union name must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTakenLocked(u.Name) {
		return fmt.Errorf("%w: %q is already defined", errdefs.ErrDuplicateClass, u.Name)
	}
	if len(u.Members) == 0 {
		return fmt.Errorf("%w: union %q has no members", errdefs.ErrEmptyUnion, u.Name)
	}

	members := make([]string, 0, len(u.Members))
	for _, m := range u.Members {
		if _, ok := r.classes[m]; !ok {
			return fmt.Errorf("%w: union %q lists %q, which is not a defined class", errdefs.ErrUnknownMember, u.Name, m)
		}
		if !slices.Contains(members, m) {
			members = append(members, m)
		}
	}

	stored := u.clone()
	stored.Members = members
	r.unions[u.Name] = stored
	r.unionOrder = append(r.unionOrder, u.Name)
	r.logger.Debug("Class union defined.", "union", u.Name, "members", members)
	return nil
}

// EffectiveSlots returns the slot schema of a class including everything it
// inherits. A slot redeclared by a descendant shadows the ancestor's type.
func (r *Registry) EffectiveSlots(class string) (map[string]typetag.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chain, err := r.chainLocked(class)
	if err != nil {
		return nil, err
	}

	slots := make(map[string]typetag.Tag)
	// Root first, so nearer classes overwrite.
	for i := len(chain) - 1; i >= 0; i-- {
		for name, tag := range r.classes[chain[i]].Slots {
			slots[name] = tag
		}
	}
	return slots, nil
}

// IsAncestorOf reports whether candidate is class itself or appears in its
// parent chain. Unknown classes have no ancestors.
func (r *Registry) IsAncestorOf(candidate, class string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chain, err := r.chainLocked(class)
	if err != nil {
		return false
	}
	return slices.Contains(chain, candidate)
}

// ResolvesToUnion reports whether class is a direct member of the union.
func (r *Registry) ResolvesToUnion(class, union string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.unions[union]
	return ok && u.has(class)
}

// Is reports whether objects of class satisfy target, which may name a class
// (ancestry) or a union (direct membership).
func (r *Registry) Is(class, target string) bool {
	return r.IsAncestorOf(target, class) || r.ResolvesToUnion(class, target)
}

// Ancestors returns the parent chain of class, nearest first, excluding the
// class itself.
func (r *Registry) Ancestors(class string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chain, err := r.chainLocked(class)
	if err != nil {
		return nil, err
	}
	return chain[1:], nil
}

// UnionsOf returns the unions class is a direct member of, in the order the
// unions were defined.
func (r *Registry) UnionsOf(class string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	for _, name := range r.unionOrder {
		if r.unions[name].has(class) {
			out = append(out, name)
		}
	}
	return out
}

// Class returns a copy of a class definition.
func (r *Registry) Class(name string) (*ClassDef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.classes[name]
	if !ok {
		return nil, false
	}
	return c.clone(), true
}

// Union returns a copy of a union definition.
func (r *Registry) Union(name string) (*Union, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.unions[name]
	if !ok {
		return nil, false
	}
	return u.clone(), true
}

// HasClass reports whether a class of that name exists.
func (r *Registry) HasClass(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.classes[name]
	return ok
}

// IsDispatchKey reports whether name is a class or a union.
func (r *Registry) IsDispatchKey(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.nameTakenLocked(name)
}

// Classes returns all class names, sorted.
func (r *Registry) Classes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.classes))
	for name := range r.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unions returns all union names in definition order.
func (r *Registry) Unions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.unionOrder)
}

// Subclasses returns the direct children of class, sorted.
func (r *Registry) Subclasses(class string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var children []string
	for name, c := range r.classes {
		if c.Parent == class {
			children = append(children, name)
		}
	}
	sort.Strings(children)
	return children
}

func (r *Registry) nameTakenLocked(name string) bool {
	if _, ok := r.classes[name]; ok {
		return true
	}
	_, ok := r.unions[name]
	return ok
}

// chainLocked returns class followed by its ancestors, nearest first.
func (r *Registry) chainLocked(class string) ([]string, error) {
	c, ok := r.classes[class]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errdefs.ErrUnknownClass, class)
	}
	chain := []string{class}
	for c.Parent != "" {
		chain = append(chain, c.Parent)
		c = r.classes[c.Parent]
	}
	return chain, nil
}
