// Package typetag declares the type tags attached to class slots and checks
// values against them.
//
// A tag is either a cty type constraint (string, number, list(string),
// object({...}), any) or the name of a class or class union. Values are
// always cty.Value; objects travel inside class-typed slots as values of the
// ObjectType capsule, so slot maps stay uniformly typed.
package typetag
