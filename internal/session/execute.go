package session

import (
	"context"
	"fmt"

	"github.com/specialistvlad/dispatchgrid/internal/config"
	"github.com/specialistvlad/dispatchgrid/internal/ctxlog"
	"github.com/specialistvlad/dispatchgrid/internal/object"
	"github.com/zclconf/go-cty/cty"
)

// Execute evaluates a call's receiver and arguments against the built
// objects and dispatches it.
func (s *Session) Execute(ctx context.Context, call *config.CallDefinition) (cty.Value, error) {
	ctx, logger := ctxlog.With(ctx, "call", call.Generic+"."+call.Label)
	evalCtx := s.EvalContext()

	recv, diags := call.Receiver.Value(evalCtx)
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("call '%s.%s': receiver: %w", call.Generic, call.Label, diags)
	}
	inst, ok := object.FromValue(recv)
	if !ok {
		return cty.NilVal, fmt.Errorf("%s: call '%s.%s': receiver must be an object, got %s",
			call.DeclRange, call.Generic, call.Label, recv.Type().FriendlyName())
	}

	args := make([]cty.Value, 0, len(call.Args))
	for i, expr := range call.Args {
		v, diags := expr.Value(evalCtx)
		if diags.HasErrors() {
			return cty.NilVal, fmt.Errorf("call '%s.%s': argument %d: %w", call.Generic, call.Label, i+1, diags)
		}
		args = append(args, v)
	}

	logger.Debug("Executing call.", "receiver", inst.String(), "args", len(args))
	result, err := s.Generics.Dispatch(ctx, call.Generic, inst, args...)
	if err != nil {
		return cty.NilVal, fmt.Errorf("call '%s.%s': %w", call.Generic, call.Label, err)
	}
	return result, nil
}
