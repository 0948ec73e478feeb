package generic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/specialistvlad/dispatchgrid/internal/classes"
	"github.com/specialistvlad/dispatchgrid/internal/ctxlog"
	"github.com/specialistvlad/dispatchgrid/internal/errdefs"
	"github.com/specialistvlad/dispatchgrid/internal/object"
	"github.com/zclconf/go-cty/cty"
)

// Registry stores generics and their method tables.
type Registry struct {
	mu       sync.RWMutex
	classes  *classes.Registry
	generics map[string]*entry
	order    []string
	logger   *slog.Logger
}

// New creates an empty registry whose dispatch keys are resolved against
// reg. A nil logger selects slog.Default().
func New(reg *classes.Registry, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		classes:  reg,
		generics: make(map[string]*entry),
		logger:   logger,
	}
}

// DefineGeneric registers a generic. params names the receiver first; a
// trailing "..." is equivalent to openTail.
func (r *Registry) DefineGeneric(name string, params []string, openTail bool) error {
	return r.Define(Generic{Name: name, Params: params, OpenTail: openTail})
}

// Define registers a fully described generic.
func (r *Registry) Define(g Generic) error {
	if g.Name == "" {
		return errors.New("generic name must not be empty")
	}
	params, open := splitTail(g.Params)
	if err := checkParams(g.Name, params); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.generics[g.Name]; exists {
		return fmt.Errorf("%w: %q is already defined", errdefs.ErrDuplicateGeneric, g.Name)
	}

	def := g.clone()
	def.Params = params
	def.OpenTail = g.OpenTail || open
	r.generics[g.Name] = &entry{def: def, methods: make(map[string]Method)}
	r.order = append(r.order, g.Name)
	r.logger.Debug("Generic defined.", "generic", g.Name, "params", params, "open_tail", def.OpenTail)
	return nil
}

// DefineMethod registers impl for dispatch key (a class or union) on a
// generic. An existing method for the same key is kept and
// ErrDuplicateMethod returned; use ReplaceMethod to overwrite.
func (r *Registry) DefineMethod(generic, key string, impl Method) error {
	return r.DefineMethodWithParams(generic, key, nil, impl)
}

// DefineMethodWithParams is DefineMethod for methods that declare their
// parameter list. The list must repeat the generic's fixed parameters
// exactly; a trailing "..." is allowed when the generic has an open tail.
func (r *Registry) DefineMethodWithParams(generic, key string, params []string, impl Method) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, err := r.methodTargetLocked(generic, key, params, impl)
	if err != nil {
		return err
	}
	if _, exists := e.methods[key]; exists {
		return fmt.Errorf("%w: %q already has a method for %q", errdefs.ErrDuplicateMethod, generic, key)
	}
	e.methods[key] = impl
	e.keys = append(e.keys, key)
	r.logger.Debug("Method defined.", "generic", generic, "key", key)
	return nil
}

// ReplaceMethod installs impl for key whether or not a method exists,
// reporting whether one was replaced.
func (r *Registry) ReplaceMethod(generic, key string, impl Method) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, err := r.methodTargetLocked(generic, key, nil, impl)
	if err != nil {
		return false, err
	}
	_, replaced := e.methods[key]
	e.methods[key] = impl
	if !replaced {
		e.keys = append(e.keys, key)
	}
	r.logger.Debug("Method replaced.", "generic", generic, "key", key, "existed", replaced)
	return replaced, nil
}

// RemoveMethod drops the method for key, reporting whether there was one.
func (r *Registry) RemoveMethod(generic, key string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.generics[generic]
	if !ok {
		return false, fmt.Errorf("%w: %q", errdefs.ErrUnknownGeneric, generic)
	}
	if _, exists := e.methods[key]; !exists {
		return false, nil
	}
	delete(e.methods, key)
	e.keys = slices.DeleteFunc(e.keys, func(k string) bool { return k == key })
	r.logger.Debug("Method removed.", "generic", generic, "key", key)
	return true, nil
}

// ExistsMethod reports whether a method is registered directly for key.
func (r *Registry) ExistsMethod(generic, key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.generics[generic]
	if !ok {
		return false
	}
	_, exists := e.methods[key]
	return exists
}

// HasMethod reports whether dispatching generic on an object of class would
// find a method, directly or through a union or an ancestor.
func (r *Registry) HasMethod(generic, class string) bool {
	key, _, err := r.SelectMethod(generic, class)
	return err == nil && key != ""
}

// SelectMethod resolves the method dispatch would run for class without
// running it, returning its dispatch key.
func (r *Registry) SelectMethod(generic, class string) (string, Method, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.generics[generic]
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", errdefs.ErrUnknownGeneric, generic)
	}
	chain, err := r.resolveLocked(e, class)
	if err != nil {
		return "", nil, err
	}
	if len(chain) == 0 {
		return "", nil, &errdefs.MethodDispatchError{Generic: generic, Class: class}
	}
	return chain[0].key, chain[0].method, nil
}

// Methods returns the dispatch keys with a method on generic, in
// registration order.
func (r *Registry) Methods(generic string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.generics[generic]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errdefs.ErrUnknownGeneric, generic)
	}
	return slices.Clone(e.keys), nil
}

// Generic returns a copy of a generic's definition.
func (r *Registry) Generic(name string) (*Generic, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.generics[name]
	if !ok {
		return nil, false
	}
	return e.def.clone(), true
}

// Generics returns generic names in definition order.
func (r *Registry) Generics() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.order)
}

// Dispatch calls generic on inst. args bind to the parameters after the
// receiver; surplus arguments are accepted only by open-tailed generics.
func (r *Registry) Dispatch(ctx context.Context, generic string, inst *object.Instance, args ...cty.Value) (cty.Value, error) {
	if inst == nil {
		return cty.NilVal, fmt.Errorf("generic %q called without a receiver", generic)
	}

	r.mu.RLock()
	e, ok := r.generics[generic]
	if !ok {
		r.mu.RUnlock()
		return cty.NilVal, fmt.Errorf("%w: %q", errdefs.ErrUnknownGeneric, generic)
	}
	def := e.def
	fixed := len(def.Params) - 1
	if len(args) < fixed || (!def.OpenTail && len(args) > fixed) {
		r.mu.RUnlock()
		return cty.NilVal, &errdefs.ArityError{Generic: generic, Want: fixed, Got: len(args), OpenTail: def.OpenTail}
	}
	chain, err := r.resolveLocked(e, inst.ClassName())
	r.mu.RUnlock()
	if err != nil {
		return cty.NilVal, err
	}

	call := &Call{
		Generic:  generic,
		Receiver: inst,
		Args:     make(map[string]cty.Value, fixed),
		Rest:     slices.Clone(args[fixed:]),
		reg:      r,
		chain:    chain,
		pos:      -1,
	}
	for i, name := range def.Params[1:] {
		call.Args[name] = args[i]
	}
	return r.invoke(ctx, call, 0)
}

// invoke runs the method at pos of call's resolution chain.
func (r *Registry) invoke(ctx context.Context, call *Call, pos int) (cty.Value, error) {
	if pos >= len(call.chain) {
		r.logger.Debug("No applicable method.", "generic", call.Generic, "class", call.Receiver.ClassName(), "position", pos)
		return cty.NilVal, &errdefs.MethodDispatchError{Generic: call.Generic, Class: call.Receiver.ClassName()}
	}

	next := *call
	next.pos = pos
	next.Target = call.chain[pos].key

	ctx, logger := ctxlog.With(ctx, "generic", call.Generic, "class", call.Receiver.ClassName())
	logger.Debug("Dispatching method.", "target", next.Target, "position", pos)
	return call.chain[pos].method(ctx, &next)
}

// resolveLocked lists the applicable methods for class, most specific first.
func (r *Registry) resolveLocked(e *entry, class string) ([]candidate, error) {
	ancestors, err := r.classes.Ancestors(class)
	if err != nil {
		return nil, err
	}

	var chain []candidate
	add := func(key string) {
		if m, ok := e.methods[key]; ok {
			chain = append(chain, candidate{key: key, method: m})
		}
	}

	add(class)
	for _, u := range r.classes.UnionsOf(class) {
		add(u)
	}
	for _, a := range ancestors {
		add(a)
	}
	return chain, nil
}

func (r *Registry) methodTargetLocked(generic, key string, params []string, impl Method) (*entry, error) {
	if impl == nil {
		return nil, fmt.Errorf("method for %q on %q is nil", generic, key)
	}
	e, ok := r.generics[generic]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errdefs.ErrUnknownGeneric, generic)
	}
	if !r.classes.IsDispatchKey(key) {
		return nil, fmt.Errorf("%w: %q is neither a class nor a union (generic %q)", errdefs.ErrUnknownDispatchKey, key, generic)
	}
	if params != nil {
		declared, open := splitTail(params)
		if !slices.Equal(declared, e.def.Params) || (open && !e.def.OpenTail) {
			return nil, &errdefs.SignatureError{Generic: generic, Key: key, Want: e.def.Params, Got: params}
		}
	}
	return e, nil
}

func splitTail(params []string) ([]string, bool) {
	if n := len(params); n > 0 && params[n-1] == OpenTailMarker {
		return slices.Clone(params[:n-1]), true
	}
	return slices.Clone(params), false
}

func checkParams(generic string, params []string) error {
	if len(params) == 0 {
		return fmt.Errorf("generic %q needs at least a receiver parameter", generic)
	}
	seen := make(map[string]struct{}, len(params))
	for _, p := range params {
		if p == "" || p == OpenTailMarker {
			return fmt.Errorf("generic %q: invalid parameter name %q", generic, p)
		}
		if _, dup := seen[p]; dup {
			return fmt.Errorf("generic %q: parameter %q repeated", generic, p)
		}
		seen[p] = struct{}{}
	}
	return nil
}
