package config

import (
	"context"
)

// Loader is the interface for a format-specific manifest loader.
type Loader interface {
	// Extensions lists the file suffixes the loader understands, with the
	// leading dot.
	Extensions() []string

	// Load reads the given files and translates them into the
	// format-agnostic model.
	Load(ctx context.Context, files ...string) (*Model, error)
}
