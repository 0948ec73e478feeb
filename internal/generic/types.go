package generic

import (
	"context"
	"slices"

	"github.com/specialistvlad/dispatchgrid/internal/object"
	"github.com/zclconf/go-cty/cty"
)

// OpenTailMarker may end a parameter list to mark the generic as accepting
// extra unnamed arguments.
const OpenTailMarker = "..."

// Method is the implementation of a generic for one dispatch key.
type Method func(ctx context.Context, call *Call) (cty.Value, error)

// Generic describes a generic function. Params starts with the receiver;
// the list is frozen once the generic is defined.
type Generic struct {
	Name        string
	Params      []string
	OpenTail    bool
	Description string
}

func (g *Generic) clone() *Generic {
	cp := *g
	cp.Params = slices.Clone(g.Params)
	return &cp
}

// Call is what a method receives for one invocation.
type Call struct {
	Generic  string
	Receiver *object.Instance
	// Args holds the fixed arguments after the receiver, by parameter name.
	Args map[string]cty.Value
	// Rest holds surplus arguments of open-tailed generics.
	Rest []cty.Value
	// Target is the dispatch key of the method currently running.
	Target string

	reg   *Registry
	chain []candidate
	pos   int
}

// Arg returns a named fixed argument, or cty.NilVal.
func (c *Call) Arg(name string) cty.Value {
	v, ok := c.Args[name]
	if !ok {
		return cty.NilVal
	}
	return v
}

// HasNext reports whether Next would find another method.
func (c *Call) HasNext() bool {
	return c.pos+1 < len(c.chain)
}

// Next runs the next applicable method in resolution order with the same
// arguments.
func (c *Call) Next(ctx context.Context) (cty.Value, error) {
	return c.reg.invoke(ctx, c, c.pos+1)
}

type candidate struct {
	key    string
	method Method
}

// entry is a generic plus its method table.
type entry struct {
	def     *Generic
	methods map[string]Method
	keys    []string // registration order
}
