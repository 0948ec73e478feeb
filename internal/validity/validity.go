// Package validity holds one optional validator per class and runs the
// applicable one when an object is constructed.
//
// A class without its own validator inherits the nearest ancestor's. Only a
// single validator runs per check; validators do not stack along the chain.
// Validity is a construction-time checkpoint: later slot writes are not
// re-checked unless a caller asks for it.
package validity

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/specialistvlad/dispatchgrid/internal/classes"
	"github.com/specialistvlad/dispatchgrid/internal/errdefs"
	"github.com/zclconf/go-cty/cty"
)

// Subject is the read-only view of an object a validator receives.
type Subject interface {
	ClassName() string
	SlotNames() []string
	Slot(name string) (cty.Value, error)
}

// Validator inspects an object and returns nil if it is valid. The text of
// a returned error becomes the diagnostic of the resulting ValidityError.
type Validator func(obj Subject) error

// Engine maps classes to validators.
type Engine struct {
	mu         sync.RWMutex
	classes    *classes.Registry
	validators map[string]Validator
	logger     *slog.Logger
}

// New creates an engine resolving inheritance through reg. A nil logger
// selects slog.Default().
func New(reg *classes.Registry, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		classes:    reg,
		validators: make(map[string]Validator),
		logger:     logger,
	}
}

// SetValidator installs fn as the validator of class, replacing any previous
// one. A nil fn removes the class's own validator so it inherits again.
func (e *Engine) SetValidator(class string, fn Validator) error {
	if !e.classes.HasClass(class) {
		return fmt.Errorf("%w: cannot set validity for %q", errdefs.ErrUnknownClass, class)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if fn == nil {
		delete(e.validators, class)
		e.logger.Debug("Validator removed.", "class", class)
		return nil
	}
	_, replaced := e.validators[class]
	e.validators[class] = fn
	e.logger.Debug("Validator set.", "class", class, "replaced", replaced)
	return nil
}

// Validator returns the validator defined directly on class, if any.
func (e *Engine) Validator(class string) (Validator, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	fn, ok := e.validators[class]
	return fn, ok
}

// Resolve finds the validator that applies to class: its own, or else the
// nearest ancestor's. owner is empty and fn nil when none applies.
func (e *Engine) Resolve(class string) (owner string, fn Validator, err error) {
	ancestors, err := e.classes.Ancestors(class)
	if err != nil {
		return "", nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, c := range append([]string{class}, ancestors...) {
		if v, ok := e.validators[c]; ok {
			return c, v, nil
		}
	}
	return "", nil, nil
}

// CheckAll runs the validator applicable to obj's class. It returns nil when
// the object passes or no validator applies, and a *errdefs.ValidityError
// otherwise.
func (e *Engine) CheckAll(obj Subject) error {
	class := obj.ClassName()
	owner, fn, err := e.Resolve(class)
	if err != nil {
		return err
	}
	if fn == nil {
		return nil
	}

	if verr := fn(obj); verr != nil {
		e.logger.Debug("Validity check failed.", "class", class, "rule_owner", owner, "error", verr)
		return &errdefs.ValidityError{Class: class, Owner: owner, Message: verr.Error()}
	}
	return nil
}
