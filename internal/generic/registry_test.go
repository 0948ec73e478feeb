package generic

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/specialistvlad/dispatchgrid/internal/classes"
	"github.com/specialistvlad/dispatchgrid/internal/errdefs"
	"github.com/specialistvlad/dispatchgrid/internal/object"
	"github.com/specialistvlad/dispatchgrid/internal/typetag"
	"github.com/specialistvlad/dispatchgrid/internal/validity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

type fixture struct {
	classes  *classes.Registry
	store    *object.Store
	generics *Registry
}

// newFixture builds Base{id} <- Mid <- Leaf, an unrelated Loner, and the
// unions Tagged{Leaf, Loner} and Marked{Leaf}, defined in that order.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	reg := classes.New(nil)
	_, err := reg.DefineClass("Base", "", map[string]typetag.Tag{"id": typetag.Of(cty.Number)})
	require.NoError(t, err)
	_, err = reg.DefineClass("Mid", "Base", nil)
	require.NoError(t, err)
	_, err = reg.DefineClass("Leaf", "Mid", nil)
	require.NoError(t, err)
	_, err = reg.DefineClass("Loner", "", nil)
	require.NoError(t, err)
	require.NoError(t, reg.DefineUnion("Tagged", []string{"Leaf", "Loner"}))
	require.NoError(t, reg.DefineUnion("Marked", []string{"Leaf"}))

	return &fixture{
		classes:  reg,
		store:    object.New(reg, validity.New(reg, nil), nil, nil),
		generics: New(reg, nil),
	}
}

func (f *fixture) instance(t *testing.T, class string) *object.Instance {
	t.Helper()
	slots := map[string]cty.Value{}
	if f.classes.IsAncestorOf("Base", class) {
		slots["id"] = cty.NumberIntVal(1)
	}
	inst, err := f.store.Construct(class, slots)
	require.NoError(t, err)
	return inst
}

// answer returns a method that reports the key it was registered under.
func answer(key string) Method {
	return func(context.Context, *Call) (cty.Value, error) {
		return cty.StringVal(key), nil
	}
}

func TestDefineGeneric(t *testing.T) {
	t.Parallel()

	t.Run("rejects duplicates", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		require.NoError(t, f.generics.DefineGeneric("describe", []string{"x"}, false))
		err := f.generics.DefineGeneric("describe", []string{"y"}, false)
		require.ErrorIs(t, err, errdefs.ErrDuplicateGeneric)
	})

	t.Run("rejects bad parameter lists", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		assert.Error(t, f.generics.DefineGeneric("empty", nil, false))
		assert.Error(t, f.generics.DefineGeneric("repeated", []string{"x", "x"}, false))
		assert.Error(t, f.generics.DefineGeneric("blank", []string{"x", ""}, false))
		assert.Empty(t, f.generics.Generics())
	})

	t.Run("trailing marker opens the tail", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		require.NoError(t, f.generics.DefineGeneric("format", []string{"x", "width", OpenTailMarker}, false))
		g, ok := f.generics.Generic("format")
		require.True(t, ok)
		assert.Equal(t, []string{"x", "width"}, g.Params)
		assert.True(t, g.OpenTail)
	})

	t.Run("definition is a copy", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		params := []string{"x", "y"}
		require.NoError(t, f.generics.DefineGeneric("pair", params, false))
		params[1] = "changed"
		g, _ := f.generics.Generic("pair")
		g.Params[0] = "changed"
		again, _ := f.generics.Generic("pair")
		assert.Equal(t, []string{"x", "y"}, again.Params)
	})
}

func TestDefineMethod(t *testing.T) {
	t.Parallel()

	t.Run("unknown generic", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		err := f.generics.DefineMethod("ghost", "Base", answer("Base"))
		require.ErrorIs(t, err, errdefs.ErrUnknownGeneric)
	})

	t.Run("unknown dispatch key", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		require.NoError(t, f.generics.DefineGeneric("describe", []string{"x"}, false))
		err := f.generics.DefineMethod("describe", "Nowhere", answer("Nowhere"))
		require.ErrorIs(t, err, errdefs.ErrUnknownDispatchKey)
	})

	t.Run("unions are valid keys", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		require.NoError(t, f.generics.DefineGeneric("describe", []string{"x"}, false))
		require.NoError(t, f.generics.DefineMethod("describe", "Tagged", answer("Tagged")))
		assert.True(t, f.generics.ExistsMethod("describe", "Tagged"))
	})

	t.Run("duplicate keeps the original", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		ctx := context.Background()
		require.NoError(t, f.generics.DefineGeneric("describe", []string{"x"}, false))
		require.NoError(t, f.generics.DefineMethod("describe", "Base", answer("first")))

		err := f.generics.DefineMethod("describe", "Base", answer("second"))
		require.ErrorIs(t, err, errdefs.ErrDuplicateMethod)

		got, err := f.generics.Dispatch(ctx, "describe", f.instance(t, "Base"))
		require.NoError(t, err)
		assert.Equal(t, cty.StringVal("first"), got)
	})

	t.Run("nil implementation", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		require.NoError(t, f.generics.DefineGeneric("describe", []string{"x"}, false))
		assert.Error(t, f.generics.DefineMethod("describe", "Base", nil))
	})
}

func TestDefineMethodWithParams(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		openTail bool
		params   []string
		wantErr  bool
	}{
		{name: "exact match", params: []string{"x", "n"}},
		{name: "renamed parameter", params: []string{"x", "count"}, wantErr: true},
		{name: "missing parameter", params: []string{"x"}, wantErr: true},
		{name: "tail on closed generic", params: []string{"x", "n", OpenTailMarker}, wantErr: true},
		{name: "tail on open generic", openTail: true, params: []string{"x", "n", OpenTailMarker}},
		{name: "open generic without tail", openTail: true, params: []string{"x", "n"}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			require.NoError(t, f.generics.DefineGeneric("repeat", []string{"x", "n"}, tc.openTail))

			err := f.generics.DefineMethodWithParams("repeat", "Base", tc.params, answer("Base"))
			if !tc.wantErr {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, errdefs.ErrSignatureMismatch)
			var sig *errdefs.SignatureError
			require.ErrorAs(t, err, &sig)
			assert.Equal(t, []string{"x", "n"}, sig.Want)
			assert.False(t, f.generics.ExistsMethod("repeat", "Base"))
		})
	}
}

func TestDispatch_Inheritance(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.generics.DefineGeneric("describe", []string{"x"}, false))
	require.NoError(t, f.generics.DefineMethod("describe", "Base", func(_ context.Context, call *Call) (cty.Value, error) {
		return cty.StringVal("base of " + call.Receiver.ClassName()), nil
	}))

	got, err := f.generics.Dispatch(ctx, "describe", f.instance(t, "Mid"))
	require.NoError(t, err)
	assert.Equal(t, cty.StringVal("base of Mid"), got)
}

func TestDispatch_ResolutionOrder(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	leaf := f.instance(t, "Leaf")

	require.NoError(t, f.generics.DefineGeneric("describe", []string{"x"}, false))
	// Registered least specific first so table order cannot explain the result.
	for _, key := range []string{"Base", "Mid", "Marked", "Tagged", "Leaf"} {
		require.NoError(t, f.generics.DefineMethod("describe", key, answer(key)))
	}

	// Exact class, then unions in definition order, then ancestors nearest first.
	for _, want := range []string{"Leaf", "Tagged", "Marked", "Mid", "Base"} {
		got, err := f.generics.Dispatch(ctx, "describe", leaf)
		require.NoError(t, err)
		assert.Equal(t, cty.StringVal(want), got)

		key, _, err := f.generics.SelectMethod("describe", "Leaf")
		require.NoError(t, err)
		assert.Equal(t, want, key)

		removed, err := f.generics.RemoveMethod("describe", want)
		require.NoError(t, err)
		require.True(t, removed)
	}

	_, err := f.generics.Dispatch(ctx, "describe", leaf)
	var dispatchErr *errdefs.MethodDispatchError
	require.ErrorAs(t, err, &dispatchErr)
	assert.Equal(t, "describe", dispatchErr.Generic)
	assert.Equal(t, "Leaf", dispatchErr.Class)
	assert.ErrorIs(t, err, errdefs.ErrMethodDispatch)
}

func TestDispatch_UnionsAreNotInherited(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.generics.DefineGeneric("describe", []string{"x"}, false))
	require.NoError(t, f.generics.DefineMethod("describe", "Marked", answer("Marked")))

	// Mid is Leaf's parent but not a member of Marked.
	_, err := f.generics.Dispatch(ctx, "describe", f.instance(t, "Mid"))
	require.ErrorIs(t, err, errdefs.ErrMethodDispatch)
	assert.False(t, f.generics.HasMethod("describe", "Mid"))
	assert.True(t, f.generics.HasMethod("describe", "Leaf"))
}

func TestDispatch_NoMethod(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	require.NoError(t, f.generics.DefineGeneric("describe", []string{"x"}, false))
	require.NoError(t, f.generics.DefineMethod("describe", "Mid", answer("Mid")))

	_, err := f.generics.Dispatch(context.Background(), "describe", f.instance(t, "Base"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unable to find an inherited method for function "describe"`)
}

func TestDispatch_Arity(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		openTail bool
		args     []cty.Value
		wantErr  bool
		wantRest int
	}{
		{name: "closed exact", args: []cty.Value{cty.NumberIntVal(2)}},
		{name: "closed too many", args: []cty.Value{cty.NumberIntVal(2), cty.True}, wantErr: true},
		{name: "closed too few", wantErr: true},
		{name: "open surplus", openTail: true, args: []cty.Value{cty.NumberIntVal(2), cty.True, cty.False}, wantRest: 2},
		{name: "open too few", openTail: true, wantErr: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			require.NoError(t, f.generics.DefineGeneric("repeat", []string{"x", "n"}, tc.openTail))

			var seen *Call
			require.NoError(t, f.generics.DefineMethod("repeat", "Base", func(_ context.Context, call *Call) (cty.Value, error) {
				seen = call
				return call.Arg("n"), nil
			}))

			got, err := f.generics.Dispatch(context.Background(), "repeat", f.instance(t, "Base"), tc.args...)
			if tc.wantErr {
				var arity *errdefs.ArityError
				require.ErrorAs(t, err, &arity)
				assert.Equal(t, 1, arity.Want)
				assert.Equal(t, len(tc.args), arity.Got)
				assert.Nil(t, seen)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, cty.NumberIntVal(2), got)
			assert.Len(t, seen.Rest, tc.wantRest)
		})
	}
}

func TestDispatch_UnknownGeneric(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	_, err := f.generics.Dispatch(context.Background(), "ghost", f.instance(t, "Base"))
	require.ErrorIs(t, err, errdefs.ErrUnknownGeneric)
}

func TestCall_Next(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.generics.DefineGeneric("describe", []string{"x"}, false))
	chained := func(ctx context.Context, call *Call) (cty.Value, error) {
		if !call.HasNext() {
			return cty.StringVal(call.Target), nil
		}
		rest, err := call.Next(ctx)
		if err != nil {
			return cty.NilVal, err
		}
		return cty.StringVal(call.Target + ">" + rest.AsString()), nil
	}
	for _, key := range []string{"Base", "Tagged", "Leaf"} {
		require.NoError(t, f.generics.DefineMethod("describe", key, chained))
	}

	got, err := f.generics.Dispatch(ctx, "describe", f.instance(t, "Leaf"))
	require.NoError(t, err)
	assert.Equal(t, cty.StringVal("Leaf>Tagged>Base"), got)

	t.Run("past the end", func(t *testing.T) {
		require.NoError(t, f.generics.DefineGeneric("last", []string{"x"}, false))
		require.NoError(t, f.generics.DefineMethod("last", "Base", func(ctx context.Context, call *Call) (cty.Value, error) {
			return call.Next(ctx)
		}))
		_, err := f.generics.Dispatch(ctx, "last", f.instance(t, "Base"))
		require.ErrorIs(t, err, errdefs.ErrMethodDispatch)
	})
}

func TestReplaceMethod(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	base := f.instance(t, "Base")

	require.NoError(t, f.generics.DefineGeneric("describe", []string{"x"}, false))

	replaced, err := f.generics.ReplaceMethod("describe", "Base", answer("first"))
	require.NoError(t, err)
	assert.False(t, replaced)

	replaced, err = f.generics.ReplaceMethod("describe", "Base", answer("second"))
	require.NoError(t, err)
	assert.True(t, replaced)

	got, err := f.generics.Dispatch(ctx, "describe", base)
	require.NoError(t, err)
	assert.Equal(t, cty.StringVal("second"), got)

	keys, err := f.generics.Methods("describe")
	require.NoError(t, err)
	assert.Equal(t, []string{"Base"}, keys)
}

func TestRemoveMethod(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	require.NoError(t, f.generics.DefineGeneric("describe", []string{"x"}, false))
	require.NoError(t, f.generics.DefineMethod("describe", "Base", answer("Base")))
	require.NoError(t, f.generics.DefineMethod("describe", "Loner", answer("Loner")))

	removed, err := f.generics.RemoveMethod("describe", "Base")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = f.generics.RemoveMethod("describe", "Base")
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = f.generics.RemoveMethod("ghost", "Base")
	require.ErrorIs(t, err, errdefs.ErrUnknownGeneric)

	keys, err := f.generics.Methods("describe")
	require.NoError(t, err)
	assert.Equal(t, []string{"Loner"}, keys)
}

func TestDispatch_Concurrent(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	leaf := f.instance(t, "Leaf")

	require.NoError(t, f.generics.DefineGeneric("describe", []string{"x"}, false))
	require.NoError(t, f.generics.DefineMethod("describe", "Base", answer("Base")))

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 32; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			got, err := f.generics.Dispatch(ctx, "describe", leaf)
			if err != nil {
				errs <- err
				return
			}
			if got.AsString() != "Base" {
				errs <- fmt.Errorf("unexpected result %#v", got)
			}
		}()
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("extra%d", i)
			if err := f.generics.DefineGeneric(name, []string{"x"}, false); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
	assert.Len(t, f.generics.Generics(), 33)
}
