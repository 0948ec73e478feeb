package yaml_adapter

import (
	"fmt"
	"math"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// RefTag marks a scalar as a reference to a named object.
const RefTag = "!ref"

// toExpr lowers a YAML value into the same expression tree the HCL parser
// would produce, so both formats evaluate identically. A `!ref name` scalar
// becomes the traversal object.name.
func toExpr(node *yaml.Node, filename string) (hclsyntax.Expression, error) {
	rng := nodeRange(node, filename)

	switch node.Kind {
	case yaml.AliasNode:
		return toExpr(node.Alias, filename)

	case yaml.ScalarNode:
		if node.Tag == RefTag {
			if node.Value == "" {
				return nil, fmt.Errorf("%s: %s needs an object name", rng, RefTag)
			}
			return &hclsyntax.ScopeTraversalExpr{
				Traversal: hcl.Traversal{
					hcl.TraverseRoot{Name: "object", SrcRange: rng},
					hcl.TraverseAttr{Name: node.Value, SrcRange: rng},
				},
				SrcRange: rng,
			}, nil
		}
		val, err := scalarValue(node)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", rng, err)
		}
		return &hclsyntax.LiteralValueExpr{Val: val, SrcRange: rng}, nil

	case yaml.SequenceNode:
		exprs := make([]hclsyntax.Expression, 0, len(node.Content))
		for _, child := range node.Content {
			e, err := toExpr(child, filename)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, e)
		}
		return &hclsyntax.TupleConsExpr{Exprs: exprs, SrcRange: rng, OpenRange: rng}, nil

	case yaml.MappingNode:
		items := make([]hclsyntax.ObjectConsItem, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("%s: mapping keys must be scalars", nodeRange(key, filename))
			}
			val, err := toExpr(node.Content[i+1], filename)
			if err != nil {
				return nil, err
			}
			items = append(items, hclsyntax.ObjectConsItem{
				KeyExpr:   &hclsyntax.LiteralValueExpr{Val: cty.StringVal(key.Value), SrcRange: nodeRange(key, filename)},
				ValueExpr: val,
			})
		}
		return &hclsyntax.ObjectConsExpr{Items: items, SrcRange: rng, OpenRange: rng}, nil

	default:
		return nil, fmt.Errorf("%s: unsupported YAML node", rng)
	}
}

func scalarValue(node *yaml.Node) (cty.Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return cty.NullVal(cty.DynamicPseudoType), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return cty.NilVal, err
		}
		return cty.BoolVal(b), nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			return cty.ParseNumberVal(node.Value)
		}
		return cty.NumberIntVal(i), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return cty.NilVal, err
		}
		if math.IsNaN(f) {
			return cty.NilVal, fmt.Errorf("NaN is not a valid number")
		}
		return cty.NumberFloatVal(f), nil
	case "!!str", "!!timestamp", "!!binary":
		// Timestamps and binary stay as the text written in the file.
		return cty.StringVal(node.Value), nil
	default:
		return cty.NilVal, fmt.Errorf("unsupported scalar tag %s", node.Tag)
	}
}

func nodeRange(node *yaml.Node, filename string) hcl.Range {
	pos := hcl.Pos{Line: node.Line, Column: node.Column}
	return hcl.Range{Filename: filename, Start: pos, End: pos}
}
