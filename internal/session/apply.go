package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/specialistvlad/dispatchgrid/internal/classes"
	"github.com/specialistvlad/dispatchgrid/internal/config"
	"github.com/specialistvlad/dispatchgrid/internal/ctxlog"
	"github.com/specialistvlad/dispatchgrid/internal/dag"
	"github.com/specialistvlad/dispatchgrid/internal/errdefs"
	"github.com/specialistvlad/dispatchgrid/internal/generic"
	"github.com/specialistvlad/dispatchgrid/internal/handlers"
	"github.com/specialistvlad/dispatchgrid/internal/typetag"
)

// ErrHandlerParity is returned when a manifest references handlers the Go
// code does not provide.
var ErrHandlerParity = errors.New("handler validation failed")

// Apply registers every definition in model. Handler references are checked
// before anything is registered; the first registry error stops the apply.
func (s *Session) Apply(ctx context.Context, model *config.Model, h *handlers.Handlers) error {
	logger := ctxlog.FromContext(ctx)

	if err := ValidateHandlers(model, h); err != nil {
		return err
	}
	logger.Debug("Handler validation passed.")

	order, err := classOrder(model.Classes)
	if err != nil {
		return err
	}
	for _, def := range order {
		if err := s.defineClass(def, h); err != nil {
			return err
		}
	}

	for _, u := range model.Unions {
		err := s.Classes.DefineUnionDef(classes.Union{Name: u.Name, Members: u.Members, Description: u.Description})
		if err != nil {
			return fmt.Errorf("union '%s': %w", u.Name, err)
		}
	}

	for _, g := range model.Generics {
		err := s.Generics.Define(generic.Generic{
			Name:        g.Name,
			Params:      g.Parameters,
			OpenTail:    g.OpenTail,
			Description: g.Description,
		})
		if err != nil {
			return fmt.Errorf("generic '%s': %w", g.Name, err)
		}
	}

	for _, md := range model.Methods {
		m, _ := h.Method(md.Handler)
		params := md.Parameters
		if params == nil {
			params = m.Params
		}
		if err := s.Generics.DefineMethodWithParams(md.Generic, md.Key, params, m.Fn); err != nil {
			return fmt.Errorf("method '%s' for '%s': %w", md.Generic, md.Key, err)
		}
	}

	logger.Info("Manifests applied.",
		"classes", len(model.Classes),
		"unions", len(model.Unions),
		"generics", len(model.Generics),
		"methods", len(model.Methods),
	)
	return nil
}

func (s *Session) defineClass(def *config.ClassDefinition, h *handlers.Handlers) error {
	slots := make(map[string]typetag.Tag, len(def.Slots))
	for name, slot := range def.Slots {
		slots[name] = slot.Type
	}
	_, err := s.Classes.Define(classes.ClassDef{
		Name:        def.Name,
		Parent:      def.Parent,
		Slots:       slots,
		Description: def.Description,
	})
	if err != nil {
		return fmt.Errorf("class '%s': %w", def.Name, err)
	}
	if def.Validity == "" {
		return nil
	}
	fn, _ := h.Validator(def.Validity)
	if err := s.Validity.SetValidator(def.Name, fn); err != nil {
		return fmt.Errorf("class '%s': %w", def.Name, err)
	}
	return nil
}

// ValidateHandlers performs a strict parity check between a manifest and the
// registered Go handlers. Every problem is reported in one error.
func ValidateHandlers(model *config.Model, h *handlers.Handlers) error {
	var errs []string

	for _, c := range model.Classes {
		if c.Validity == "" {
			continue
		}
		if _, ok := h.Validator(c.Validity); !ok {
			errs = append(errs, fmt.Sprintf("class '%s': validity handler '%s' is not registered", c.Name, c.Validity))
		}
	}

	for _, md := range model.Methods {
		m, ok := h.Method(md.Handler)
		if !ok {
			errs = append(errs, fmt.Sprintf("method '%s' for '%s': handler '%s' is not registered", md.Generic, md.Key, md.Handler))
			continue
		}
		if md.Parameters != nil && m.Params != nil && !slices.Equal(md.Parameters, m.Params) {
			errs = append(errs, fmt.Sprintf("method '%s' for '%s': manifest declares parameters %v but handler '%s' was written for %v",
				md.Generic, md.Key, md.Parameters, md.Handler, m.Params))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n- %s", ErrHandlerParity, strings.Join(errs, "\n- "))
	}
	return nil
}

// classOrder sorts class definitions so every parent declared in the same
// model comes before its children. Classes with the same name keep their
// relative order so the registry reports the duplicate.
func classOrder(defs []*config.ClassDefinition) ([]*config.ClassDefinition, error) {
	g := dag.New()
	byName := make(map[string][]*config.ClassDefinition, len(defs))
	for _, def := range defs {
		g.AddNode(def.Name)
		byName[def.Name] = append(byName[def.Name], def)
	}
	for _, def := range defs {
		if def.Parent == "" || !g.HasNode(def.Parent) {
			continue
		}
		if err := g.AddEdge(def.Parent, def.Name); err != nil {
			return nil, err
		}
	}

	names, err := g.Sort()
	if err != nil {
		var cycle *dag.CycleError
		if errors.As(err, &cycle) {
			return nil, fmt.Errorf("%w: %s", errdefs.ErrCyclicInheritance, strings.Join(cycle.Path, " -> "))
		}
		return nil, err
	}

	out := make([]*config.ClassDefinition, 0, len(defs))
	for _, name := range names {
		out = append(out, byName[name]...)
	}
	return out, nil
}
