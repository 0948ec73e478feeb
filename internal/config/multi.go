package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/specialistvlad/dispatchgrid/internal/ctxlog"
	"github.com/specialistvlad/dispatchgrid/internal/fsutil"
)

// ErrNoManifests is returned when none of the given paths holds a file any
// loader understands.
var ErrNoManifests = errors.New("no manifest files found")

// MultiLoader discovers manifest files under a set of paths and hands each
// one to the loader registered for its extension.
type MultiLoader struct {
	byExt map[string]Loader
	exts  []string
}

// NewMultiLoader creates a MultiLoader. It panics if two loaders claim the
// same extension.
func NewMultiLoader(loaders ...Loader) *MultiLoader {
	m := &MultiLoader{byExt: make(map[string]Loader)}
	for _, l := range loaders {
		for _, ext := range l.Extensions() {
			if _, exists := m.byExt[ext]; exists {
				panic(fmt.Sprintf("loader for extension '%s' already registered", ext))
			}
			m.byExt[ext] = l
			m.exts = append(m.exts, ext)
		}
	}
	return m
}

// Extensions implements Loader.
func (m *MultiLoader) Extensions() []string {
	return append([]string(nil), m.exts...)
}

// Load implements Loader. Paths may be files or directories; directories
// are searched recursively. Files are loaded in the order they are found.
func (m *MultiLoader) Load(ctx context.Context, paths ...string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFiles(paths, m.exts...)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %v (extensions %v)", ErrNoManifests, paths, m.exts)
	}
	logger.Debug("Discovered manifest files.", "count", len(files))

	model := &Model{}
	for _, file := range files {
		l := m.byExt[filepath.Ext(file)]
		part, err := l.Load(ctx, file)
		if err != nil {
			return nil, err
		}
		model.Merge(part)
	}

	logger.Debug("Manifest loading complete.",
		"classes", len(model.Classes),
		"unions", len(model.Unions),
		"generics", len(model.Generics),
		"methods", len(model.Methods),
		"objects", len(model.Objects),
		"calls", len(model.Calls),
	)
	return model, nil
}
