// Package handlers maps the names used in manifests to the Go functions that
// implement validators and methods.
//
// Modules register their functions here at startup. The session later
// resolves every name a manifest references and refuses to apply the
// manifest if any is missing, so a typo in a manifest fails before anything
// is defined.
package handlers

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"github.com/specialistvlad/dispatchgrid/internal/generic"
	"github.com/specialistvlad/dispatchgrid/internal/validity"
)

// Module is the interface every handler module implements to be registered.
type Module interface {
	Register(h *Handlers)
}

// RegisteredMethod holds a method implementation and, optionally, the
// parameter list the Go code was written against.
type RegisteredMethod struct {
	// Params, when non-nil, is checked against the generic's parameters when
	// the method is bound.
	Params []string
	Fn     generic.Method
}

// Handlers holds all registered validators and methods.
type Handlers struct {
	validators map[string]validity.Validator
	methods    map[string]*RegisteredMethod
}

// New creates an empty handler set.
func New() *Handlers {
	return &Handlers{
		validators: make(map[string]validity.Validator),
		methods:    make(map[string]*RegisteredMethod),
	}
}

// Load registers every module in order.
func (h *Handlers) Load(modules ...Module) *Handlers {
	for _, m := range modules {
		m.Register(h)
	}
	return h
}

// RegisterValidator registers a validator under name.
func (h *Handlers) RegisterValidator(name string, fn validity.Validator) {
	if fn == nil {
		panic(fmt.Sprintf("validator handler '%s' is nil", name))
	}
	if _, exists := h.validators[name]; exists {
		panic(fmt.Sprintf("validator handler with name '%s' already registered", name))
	}
	slog.Debug("Registering validator handler.", "name", name)
	h.validators[name] = fn
}

// RegisterMethod registers a method implementation under name.
func (h *Handlers) RegisterMethod(name string, m *RegisteredMethod) {
	if m == nil || m.Fn == nil {
		panic(fmt.Sprintf("method handler '%s' is nil", name))
	}
	if _, exists := h.methods[name]; exists {
		panic(fmt.Sprintf("method handler with name '%s' already registered", name))
	}
	slog.Debug("Registering method handler.", "name", name)
	h.methods[name] = &RegisteredMethod{Params: slices.Clone(m.Params), Fn: m.Fn}
}

// Validator looks up a validator by name.
func (h *Handlers) Validator(name string) (validity.Validator, bool) {
	fn, ok := h.validators[name]
	return fn, ok
}

// Method looks up a method by name.
func (h *Handlers) Method(name string) (*RegisteredMethod, bool) {
	m, ok := h.methods[name]
	return m, ok
}

// ValidatorNames returns the registered validator names, sorted.
func (h *Handlers) ValidatorNames() []string {
	return sortedNames(h.validators)
}

// MethodNames returns the registered method names, sorted.
func (h *Handlers) MethodNames() []string {
	return sortedNames(h.methods)
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
