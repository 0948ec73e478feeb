// Package yaml_adapter loads YAML manifest files into the config model.
//
// YAML manifests carry the same definitions as HCL ones. Slot types are
// written in the HCL type syntax ("list(string)", "instance(Person)") and
// object references use the `!ref name` tag.
package yaml_adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/dispatchgrid/internal/config"
	"github.com/specialistvlad/dispatchgrid/internal/ctxlog"
	"github.com/specialistvlad/dispatchgrid/internal/typetag"
	"gopkg.in/yaml.v3"
)

// Loader is the YAML-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new YAML configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Extensions implements config.Loader.
func (l *Loader) Extensions() []string {
	return []string{".yaml", ".yml"}
}

// Load implements config.Loader.
func (l *Loader) Load(ctx context.Context, files ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "file_count", len(files))

	model := &config.Model{}
	for _, file := range files {
		doc, err := decodeFile(file)
		if err != nil {
			return nil, err
		}
		part, err := translate(doc, file)
		if err != nil {
			return nil, fmt.Errorf("in YAML file %s: %w", file, err)
		}
		model.Merge(part)
		logger.Debug("Successfully loaded definitions from YAML file.", "file", file)
	}
	return model, nil
}

func decodeFile(path string) (*document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading YAML file %s: %w", path, err)
	}
	defer f.Close()

	var doc document
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML file %s: %w", path, err)
	}
	return &doc, nil
}

func translate(doc *document, filename string) (*config.Model, error) {
	m := &config.Model{}

	for _, c := range doc.Classes {
		def := &config.ClassDefinition{
			Name:        c.Name,
			Parent:      c.Parent,
			Description: c.Description,
			Validity:    c.Validity,
			Slots:       make(map[string]*config.SlotDefinition, len(c.Slots)),
		}
		for name, s := range c.Slots {
			tag, diags := typetag.ParseString(s.Type)
			if diags.HasErrors() {
				return nil, fmt.Errorf("in class '%s', slot '%s': %w", c.Name, name, diags)
			}
			def.Slots[name] = &config.SlotDefinition{Name: name, Type: tag, Description: s.Description}
		}
		m.Classes = append(m.Classes, def)
	}

	for _, u := range doc.Unions {
		m.Unions = append(m.Unions, &config.UnionDefinition{Name: u.Name, Members: u.Members, Description: u.Description})
	}
	for _, g := range doc.Generics {
		m.Generics = append(m.Generics, &config.GenericDefinition{
			Name:        g.Name,
			Parameters:  g.Parameters,
			OpenTail:    g.OpenTail,
			Description: g.Description,
		})
	}
	for _, md := range doc.Methods {
		m.Methods = append(m.Methods, &config.MethodDefinition{
			Generic:    md.Generic,
			Key:        md.Key,
			Handler:    md.Handler,
			Parameters: md.Parameters,
		})
	}

	for _, o := range doc.Objects {
		def := &config.ObjectDefinition{
			Name:      o.Name,
			Class:     o.Class,
			Slots:     make(map[string]hcl.Expression, len(o.Slots)),
			DeclRange: hcl.Range{Filename: filename},
		}
		for name, node := range o.Slots {
			node := node
			expr, err := toExpr(&node, filename)
			if err != nil {
				return nil, fmt.Errorf("in object '%s', slot '%s': %w", o.Name, name, err)
			}
			def.Slots[name] = expr
		}
		m.Objects = append(m.Objects, def)
	}

	for _, c := range doc.Calls {
		if c.Receiver.Kind == 0 {
			return nil, fmt.Errorf("call '%s.%s' has no receiver", c.Generic, c.Label)
		}
		receiver, err := toExpr(&c.Receiver, filename)
		if err != nil {
			return nil, fmt.Errorf("in call '%s.%s': %w", c.Generic, c.Label, err)
		}
		def := &config.CallDefinition{
			Generic:   c.Generic,
			Label:     c.Label,
			Receiver:  receiver,
			DeclRange: receiver.Range(),
		}
		for i := range c.Args {
			arg, err := toExpr(&c.Args[i], filename)
			if err != nil {
				return nil, fmt.Errorf("in call '%s.%s', argument %d: %w", c.Generic, c.Label, i+1, err)
			}
			def.Args = append(def.Args, arg)
		}
		m.Calls = append(m.Calls, def)
	}
	return m, nil
}
