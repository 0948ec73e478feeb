package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/dispatchgrid/internal/config"
	"github.com/specialistvlad/dispatchgrid/internal/ctxlog"
	"github.com/specialistvlad/dispatchgrid/internal/dag"
	"github.com/specialistvlad/dispatchgrid/internal/object"
	"github.com/specialistvlad/dispatchgrid/internal/typetag"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// objectRoot is the variable manifests use to reference built objects.
const objectRoot = "object"

// Build constructs the given objects. An object is built after every object
// its slots reference; reference cycles are rejected before anything is
// constructed.
func (s *Session) Build(ctx context.Context, defs []*config.ObjectDefinition) error {
	logger := ctxlog.FromContext(ctx)

	order, err := s.objectOrder(defs)
	if err != nil {
		return err
	}

	for _, def := range order {
		ctx, objLogger := ctxlog.With(ctx, "object", def.Name, "class", def.Class)
		inst, err := s.buildObject(ctx, def)
		if err != nil {
			return err
		}

		s.mu.Lock()
		s.named[def.Name] = inst
		s.order = append(s.order, def.Name)
		s.mu.Unlock()
		objLogger.Debug("Object built.", "id", inst.ID().String())
	}

	logger.Info("Objects built.", "count", len(order))
	return nil
}

func (s *Session) buildObject(ctx context.Context, def *config.ObjectDefinition) (*object.Instance, error) {
	evalCtx := s.EvalContext()

	// Without a schema the store reports the unknown class; values are
	// passed through unconverted.
	schema, _ := s.Classes.EffectiveSlots(def.Class)

	slots := make(map[string]cty.Value, len(def.Slots))
	for name, expr := range def.Slots {
		val, diags := expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, fmt.Errorf("object '%s', slot '%s': %w", def.Name, name, diags)
		}
		if tag, ok := schema[name]; ok {
			val = conform(val, tag)
		}
		slots[name] = val
	}

	inst, err := s.Objects.Construct(def.Class, slots)
	if err != nil {
		ctxlog.FromContext(ctx).Debug("Object construction failed.", "error", err)
		return nil, fmt.Errorf("object '%s': %w", def.Name, err)
	}
	return inst, nil
}

// objectOrder validates object names and references and sorts the
// definitions so referenced objects come first.
func (s *Session) objectOrder(defs []*config.ObjectDefinition) ([]*config.ObjectDefinition, error) {
	g := dag.New()
	byName := make(map[string]*config.ObjectDefinition, len(defs))
	for _, def := range defs {
		if _, dup := byName[def.Name]; dup {
			return nil, fmt.Errorf("%s: object '%s' is declared more than once", def.DeclRange, def.Name)
		}
		if _, built := s.Object(def.Name); built {
			return nil, fmt.Errorf("%s: object '%s' already exists", def.DeclRange, def.Name)
		}
		byName[def.Name] = def
		g.AddNode(def.Name)
	}

	for _, def := range defs {
		for _, name := range sortedSlotNames(def.Slots) {
			for _, ref := range references(def.Slots[name]) {
				if _, pending := byName[ref.name]; pending {
					if err := g.AddEdge(ref.name, def.Name); err != nil {
						return nil, err
					}
					continue
				}
				if _, built := s.Object(ref.name); !built {
					return nil, fmt.Errorf("%s: object '%s', slot '%s' references unknown object '%s'", ref.rng, def.Name, name, ref.name)
				}
			}
		}
	}

	names, err := g.Sort()
	if err != nil {
		var cycle *dag.CycleError
		if errors.As(err, &cycle) {
			return nil, fmt.Errorf("object references form a cycle: %s", strings.Join(cycle.Path, " -> "))
		}
		return nil, err
	}

	out := make([]*config.ObjectDefinition, 0, len(names))
	for _, name := range names {
		out = append(out, byName[name])
	}
	return out, nil
}

type reference struct {
	name string
	rng  hcl.Range
}

// references lists the objects an expression refers to as object.<name>.
// Other variables are left to evaluation to diagnose.
func references(expr hcl.Expression) []reference {
	var refs []reference
	for _, traversal := range expr.Variables() {
		if traversal.RootName() != objectRoot || len(traversal) < 2 {
			continue
		}
		attr, ok := traversal[1].(hcl.TraverseAttr)
		if !ok {
			continue
		}
		refs = append(refs, reference{name: attr.Name, rng: traversal.SourceRange()})
	}
	return refs
}

// EvalContext returns an evaluation context exposing every built object as
// object.<name>.
func (s *Session) EvalContext() *hcl.EvalContext {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objects := make(map[string]cty.Value, len(s.named))
	for name, inst := range s.named {
		objects[name] = inst.Value()
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{objectRoot: cty.ObjectVal(objects)},
	}
}

// conform converts structural literals such as tuples and objects into the
// collection type a slot declares. Only the container shape changes: leaf
// values must already have the declared primitive type, so a number written
// into a list(string) slot still fails the type check.
func conform(val cty.Value, tag typetag.Tag) cty.Value {
	if tag.IsClass() || !tag.IsValid() || !val.IsKnown() {
		return val
	}
	ty := val.Type()
	if !ty.IsTupleType() && !ty.IsObjectType() {
		return val
	}
	if errs := ty.TestConformance(tag.Type); len(errs) == 0 {
		return val
	}
	if !sameLeaves(ty, tag.Type) {
		return val
	}
	converted, err := convert.Convert(val, tag.Type)
	if err != nil {
		return val
	}
	return converted
}

// sameLeaves reports whether from can become to by reshaping containers
// alone.
func sameLeaves(from, to cty.Type) bool {
	switch {
	case to == cty.DynamicPseudoType || from == cty.DynamicPseudoType:
		return true
	case from.IsTupleType():
		elems := from.TupleElementTypes()
		if to.IsTupleType() {
			want := to.TupleElementTypes()
			if len(want) != len(elems) {
				return false
			}
			for i := range elems {
				if !sameLeaves(elems[i], want[i]) {
					return false
				}
			}
			return true
		}
		if !to.IsListType() && !to.IsSetType() {
			return false
		}
		for _, el := range elems {
			if !sameLeaves(el, to.ElementType()) {
				return false
			}
		}
		return true
	case from.IsObjectType():
		attrs := from.AttributeTypes()
		if to.IsObjectType() {
			want := to.AttributeTypes()
			if len(want) != len(attrs) {
				return false
			}
			for name, at := range attrs {
				wt, ok := want[name]
				if !ok || !sameLeaves(at, wt) {
					return false
				}
			}
			return true
		}
		if !to.IsMapType() {
			return false
		}
		for _, at := range attrs {
			if !sameLeaves(at, to.ElementType()) {
				return false
			}
		}
		return true
	case from.IsCollectionType() && to.IsCollectionType():
		return sameLeaves(from.ElementType(), to.ElementType())
	default:
		return from.Equals(to)
	}
}

func sortedSlotNames(slots map[string]hcl.Expression) []string {
	names := make([]string, 0, len(slots))
	for name := range slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
