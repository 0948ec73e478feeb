package env_vars

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/specialistvlad/dispatchgrid/internal/ctxlog"
	"github.com/specialistvlad/dispatchgrid/internal/generic"
	"github.com/specialistvlad/dispatchgrid/internal/handlers"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the handlers.Module interface for this package.
type Module struct{}

// Environ returns every environment variable as a map(string). The receiver
// only selects the method.
func Environ(ctx context.Context, _ *generic.Call) (cty.Value, error) {
	envMap := make(map[string]cty.Value)
	for _, e := range os.Environ() {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) == 2 {
			envMap[pair[0]] = cty.StringVal(pair[1])
		}
	}
	ctxlog.FromContext(ctx).Debug("Environment collected.", "count", len(envMap))

	if len(envMap) == 0 {
		return cty.MapValEmpty(cty.String), nil
	}
	return cty.MapVal(envMap), nil
}

// Getenv returns the variable named by the "name" argument, or null when it
// is unset.
func Getenv(_ context.Context, call *generic.Call) (cty.Value, error) {
	name := call.Arg("name")
	if name.Type() == cty.NilType {
		return cty.NilVal, fmt.Errorf("generic %q has no 'name' parameter", call.Generic)
	}
	if name.IsNull() || !name.Type().Equals(cty.String) {
		return cty.NilVal, fmt.Errorf("argument 'name' must be a string, got %s", name.Type().FriendlyName())
	}
	v, ok := os.LookupEnv(name.AsString())
	if !ok {
		return cty.NullVal(cty.String), nil
	}
	return cty.StringVal(v), nil
}

// Register registers the handlers with the engine.
func (m *Module) Register(h *handlers.Handlers) {
	h.RegisterMethod("Environ", &handlers.RegisteredMethod{Fn: Environ})
	h.RegisterMethod("Getenv", &handlers.RegisteredMethod{
		Params: []string{"x", "name"},
		Fn:     Getenv,
	})
}
