// Package schema holds the gohcl decoding targets for manifest files.
package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// --- Type definitions ---

// SlotBlock declares a single slot inside a `class` block.
type SlotBlock struct {
	Name        string         `hcl:"name,label"`
	Type        hcl.Expression `hcl:"type"`
	Description string         `hcl:"description,optional"`
}

// ClassBlock represents a `class` block.
type ClassBlock struct {
	Name        string       `hcl:"name,label"`
	Parent      string       `hcl:"parent,optional"`
	Description string       `hcl:"description,optional"`
	Validity    string       `hcl:"validity,optional"`
	Slots       []*SlotBlock `hcl:"slot,block"`
	DeclRange   hcl.Range    `hcl:",def_range"`
}

// UnionBlock represents a `union` block.
type UnionBlock struct {
	Name        string   `hcl:"name,label"`
	Members     []string `hcl:"members"`
	Description string   `hcl:"description,optional"`
}

// --- Generic functions ---

// GenericBlock represents a `generic` block.
type GenericBlock struct {
	Name        string   `hcl:"name,label"`
	Parameters  []string `hcl:"parameters"`
	OpenTail    bool     `hcl:"open_tail,optional"`
	Description string   `hcl:"description,optional"`
}

// MethodBlock binds a Go handler to a generic for one class or union.
type MethodBlock struct {
	Generic    string   `hcl:"generic,label"`
	Key        string   `hcl:"key,label"`
	Handler    string   `hcl:"handler"`
	Parameters []string `hcl:"parameters,optional"`
}

// --- Instances and calls ---

// ObjectBlock represents an `object` block.
type ObjectBlock struct {
	Name      string         `hcl:"name,label"`
	Class     string         `hcl:"class"`
	Slots     hcl.Expression `hcl:"slots,optional"`
	DeclRange hcl.Range      `hcl:",def_range"`
}

// CallBlock represents a `call` block.
type CallBlock struct {
	Generic   string         `hcl:"generic,label"`
	Label     string         `hcl:"label,label"`
	Receiver  hcl.Expression `hcl:"receiver"`
	Args      hcl.Expression `hcl:"args,optional"`
	DeclRange hcl.Range      `hcl:",def_range"`
}

// File is the top-level structure of a manifest file. Every block kind may
// appear in any file.
type File struct {
	Classes  []*ClassBlock   `hcl:"class,block"`
	Unions   []*UnionBlock   `hcl:"union,block"`
	Generics []*GenericBlock `hcl:"generic,block"`
	Methods  []*MethodBlock  `hcl:"method,block"`
	Objects  []*ObjectBlock  `hcl:"object,block"`
	Calls    []*CallBlock    `hcl:"call,block"`
}
