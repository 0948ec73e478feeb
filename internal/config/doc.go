// Package config defines the format-agnostic manifest model and the Loader
// interface format adapters implement.
//
// The `config.Model` is the single source of truth for the session package.
// Concrete loaders for HCL and YAML live in separate packages; MultiLoader
// fans a set of paths out to them by file extension.
package config
