package env_vars

import (
	"context"
	"testing"

	"github.com/specialistvlad/dispatchgrid/internal/classes"
	"github.com/specialistvlad/dispatchgrid/internal/generic"
	"github.com/specialistvlad/dispatchgrid/internal/handlers"
	"github.com/specialistvlad/dispatchgrid/internal/object"
	"github.com/specialistvlad/dispatchgrid/internal/validity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestEnvMethods(t *testing.T) {
	t.Setenv("DG_ENV_VARS_TEST", "present")
	ctx := context.Background()

	reg := classes.New(nil)
	_, err := reg.DefineClass("Host", "", nil)
	require.NoError(t, err)
	store := object.New(reg, validity.New(reg, nil), nil, nil)
	host, err := store.Construct("Host", nil)
	require.NoError(t, err)

	h := handlers.New().Load(&Module{})
	gens := generic.New(reg, nil)
	for _, name := range []string{"Environ", "Getenv"} {
		m, ok := h.Method(name)
		require.True(t, ok)
		params := m.Params
		if params == nil {
			params = []string{"x"}
		}
		require.NoError(t, gens.DefineGeneric(name, params, false))
		require.NoError(t, gens.DefineMethodWithParams(name, "Host", params, m.Fn))
	}

	env, err := gens.Dispatch(ctx, "Environ", host)
	require.NoError(t, err)
	assert.Equal(t, cty.StringVal("present"), env.Index(cty.StringVal("DG_ENV_VARS_TEST")))

	got, err := gens.Dispatch(ctx, "Getenv", host, cty.StringVal("DG_ENV_VARS_TEST"))
	require.NoError(t, err)
	assert.Equal(t, cty.StringVal("present"), got)

	got, err = gens.Dispatch(ctx, "Getenv", host, cty.StringVal("DG_ENV_VARS_TEST_UNSET"))
	require.NoError(t, err)
	assert.True(t, got.IsNull())

	_, err = gens.Dispatch(ctx, "Getenv", host, cty.NumberIntVal(1))
	assert.ErrorContains(t, err, "argument 'name' must be a string")
}

func TestGetenv_WithoutNameParameter(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	reg := classes.New(nil)
	_, err := reg.DefineClass("Host", "", nil)
	require.NoError(t, err)
	store := object.New(reg, validity.New(reg, nil), nil, nil)
	host, err := store.Construct("Host", nil)
	require.NoError(t, err)

	gens := generic.New(reg, nil)
	require.NoError(t, gens.DefineGeneric("lookup", []string{"x", "key"}, false))
	require.NoError(t, gens.DefineMethod("lookup", "Host", Getenv))

	_, err = gens.Dispatch(ctx, "lookup", host, cty.StringVal("HOME"))
	assert.ErrorContains(t, err, `generic "lookup" has no 'name' parameter`)
}
