// Package session bundles the class registry, validity engine, object store
// and generic registry that share one type checker, and applies
// format-agnostic manifests to them.
//
// A session is populated in three steps: Apply registers definitions, Build
// constructs the declared objects, and Execute runs calls against them.
package session

import (
	"log/slog"
	"sync"

	"github.com/specialistvlad/dispatchgrid/internal/classes"
	"github.com/specialistvlad/dispatchgrid/internal/generic"
	"github.com/specialistvlad/dispatchgrid/internal/object"
	"github.com/specialistvlad/dispatchgrid/internal/typetag"
	"github.com/specialistvlad/dispatchgrid/internal/validity"
)

// Session wires the four components together.
type Session struct {
	Classes  *classes.Registry
	Validity *validity.Engine
	Objects  *object.Store
	Generics *generic.Registry
	Checker  typetag.Checker

	logger *slog.Logger

	mu    sync.RWMutex
	named map[string]*object.Instance
	order []string
}

// New creates an empty session. A nil logger selects slog.Default().
func New(logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	reg := classes.New(logger)
	engine := validity.New(reg, logger)
	checker := typetag.NewChecker(reg)

	return &Session{
		Classes:  reg,
		Validity: engine,
		Objects:  object.New(reg, engine, checker, logger),
		Generics: generic.New(reg, logger),
		Checker:  checker,
		logger:   logger,
		named:    make(map[string]*object.Instance),
	}
}

// Object returns an object built from a manifest by name.
func (s *Session) Object(name string) (*object.Instance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inst, ok := s.named[name]
	return inst, ok
}

// ObjectNames returns the names of built objects in construction order.
func (s *Session) ObjectNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]string(nil), s.order...)
}
