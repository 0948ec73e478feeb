// This file contains the logic for translating HCL schema structs into the
// format-agnostic configuration model defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/dispatchgrid/internal/config"
	"github.com/specialistvlad/dispatchgrid/internal/ctxlog"
	"github.com/specialistvlad/dispatchgrid/internal/schema"
	"github.com/specialistvlad/dispatchgrid/internal/typetag"
	"github.com/zclconf/go-cty/cty"
)

func (l *Loader) translateFile(ctx context.Context, f *schema.File) (*config.Model, error) {
	m := &config.Model{}
	for _, c := range f.Classes {
		def, err := l.translateClass(ctx, c)
		if err != nil {
			return nil, err
		}
		m.Classes = append(m.Classes, def)
	}
	for _, u := range f.Unions {
		m.Unions = append(m.Unions, &config.UnionDefinition{
			Name:        u.Name,
			Members:     u.Members,
			Description: u.Description,
		})
	}
	for _, g := range f.Generics {
		m.Generics = append(m.Generics, &config.GenericDefinition{
			Name:        g.Name,
			Parameters:  g.Parameters,
			OpenTail:    g.OpenTail,
			Description: g.Description,
		})
	}
	for _, md := range f.Methods {
		m.Methods = append(m.Methods, &config.MethodDefinition{
			Generic:    md.Generic,
			Key:        md.Key,
			Handler:    md.Handler,
			Parameters: md.Parameters,
		})
	}
	for _, o := range f.Objects {
		def, err := l.translateObject(ctx, o)
		if err != nil {
			return nil, err
		}
		m.Objects = append(m.Objects, def)
	}
	for _, c := range f.Calls {
		def, err := l.translateCall(ctx, c)
		if err != nil {
			return nil, err
		}
		m.Calls = append(m.Calls, def)
	}
	return m, nil
}

// translateClass converts a class block, parsing every slot's type.
func (l *Loader) translateClass(ctx context.Context, c *schema.ClassBlock) (*config.ClassDefinition, error) {
	logger := ctxlog.FromContext(ctx).With("class", c.Name)
	logger.Debug("Translating HCL class to internal config model.")

	def := &config.ClassDefinition{
		Name:        c.Name,
		Parent:      c.Parent,
		Description: c.Description,
		Validity:    c.Validity,
		Slots:       make(map[string]*config.SlotDefinition, len(c.Slots)),
	}
	for _, s := range c.Slots {
		if _, dup := def.Slots[s.Name]; dup {
			return nil, fmt.Errorf("%s: class '%s' declares slot '%s' twice", c.DeclRange, c.Name, s.Name)
		}
		tag, diags := typetag.ParseExpr(s.Type)
		if diags.HasErrors() {
			return nil, fmt.Errorf("in class '%s', slot '%s': %w", c.Name, s.Name, diags)
		}
		logger.Debug("Parsed slot type.", "slot", s.Name, "type", tag.String())
		def.Slots[s.Name] = &config.SlotDefinition{
			Name:        s.Name,
			Type:        tag,
			Description: s.Description,
		}
	}
	return def, nil
}

// translateObject splits the `slots` object expression into one expression
// per slot so each can be evaluated and type-checked on its own.
func (l *Loader) translateObject(ctx context.Context, o *schema.ObjectBlock) (*config.ObjectDefinition, error) {
	def := &config.ObjectDefinition{
		Name:      o.Name,
		Class:     o.Class,
		Slots:     make(map[string]hcl.Expression),
		DeclRange: o.DeclRange,
	}
	if !isExprDefined(ctx, o.Slots, "slots") {
		return def, nil
	}

	pairs, diags := hcl.ExprMap(o.Slots)
	if diags.HasErrors() {
		return nil, fmt.Errorf("in object '%s': slots must be an object literal: %w", o.Name, diags)
	}
	for _, pair := range pairs {
		key, diags := pair.Key.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("in object '%s': %w", o.Name, diags)
		}
		if key.IsNull() || !key.Type().Equals(cty.String) {
			return nil, fmt.Errorf("%s: object '%s' has a slot name that is not a string", pair.Key.Range(), o.Name)
		}
		name := key.AsString()
		if _, dup := def.Slots[name]; dup {
			return nil, fmt.Errorf("%s: object '%s' sets slot '%s' twice", pair.Key.Range(), o.Name, name)
		}
		def.Slots[name] = pair.Value
	}
	return def, nil
}

func (l *Loader) translateCall(ctx context.Context, c *schema.CallBlock) (*config.CallDefinition, error) {
	def := &config.CallDefinition{
		Generic:   c.Generic,
		Label:     c.Label,
		Receiver:  c.Receiver,
		DeclRange: c.DeclRange,
	}
	if !isExprDefined(ctx, c.Args, "args") {
		return def, nil
	}
	args, diags := hcl.ExprList(c.Args)
	if diags.HasErrors() {
		return nil, fmt.Errorf("in call '%s.%s': args must be a list literal: %w", c.Generic, c.Label, diags)
	}
	def.Args = args
	return def, nil
}
