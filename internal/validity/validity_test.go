package validity

import (
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/specialistvlad/dispatchgrid/internal/classes"
	"github.com/specialistvlad/dispatchgrid/internal/errdefs"
	"github.com/specialistvlad/dispatchgrid/internal/typetag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

// subject is a minimal Subject backed by a map.
type subject struct {
	class string
	slots map[string]cty.Value
}

func (s subject) ClassName() string { return s.class }

func (s subject) SlotNames() []string {
	names := make([]string, 0, len(s.slots))
	for name := range s.slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s subject) Slot(name string) (cty.Value, error) {
	v, ok := s.slots[name]
	if !ok {
		return cty.NilVal, fmt.Errorf("no slot %q", name)
	}
	return v, nil
}

func positiveID(obj Subject) error {
	id, err := obj.Slot("id")
	if err != nil {
		return err
	}
	if id.LessThanOrEqualTo(cty.Zero).True() {
		return errors.New("id must be positive")
	}
	return nil
}

func setup(t *testing.T) (*classes.Registry, *Engine) {
	t.Helper()
	reg := classes.New(nil)
	_, err := reg.DefineClass("Base", "", map[string]typetag.Tag{"id": typetag.Of(cty.Number)})
	require.NoError(t, err)
	_, err = reg.DefineClass("Derived", "Base", map[string]typetag.Tag{"label": typetag.Of(cty.String)})
	require.NoError(t, err)
	_, err = reg.DefineClass("Leaf", "Derived", nil)
	require.NoError(t, err)
	return reg, New(reg, nil)
}

func withID(class string, id int64) subject {
	return subject{class: class, slots: map[string]cty.Value{"id": cty.NumberIntVal(id)}}
}

func TestSetValidator_UnknownClass(t *testing.T) {
	t.Parallel()
	_, e := setup(t)
	err := e.SetValidator("Ghost", positiveID)
	require.ErrorIs(t, err, errdefs.ErrUnknownClass)
}

func TestCheckAll_NoValidatorPasses(t *testing.T) {
	t.Parallel()
	_, e := setup(t)
	assert.NoError(t, e.CheckAll(withID("Leaf", -5)))
}

func TestCheckAll_OwnValidator(t *testing.T) {
	t.Parallel()
	_, e := setup(t)
	require.NoError(t, e.SetValidator("Base", positiveID))

	assert.NoError(t, e.CheckAll(withID("Base", 1)))

	err := e.CheckAll(withID("Base", -1))
	var verr *errdefs.ValidityError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, errdefs.ErrValidity)
	assert.Equal(t, "Base", verr.Class)
	assert.Equal(t, "Base", verr.Owner)
	assert.Equal(t, "id must be positive", verr.Message)
}

func TestCheckAll_InheritsNearestAncestor(t *testing.T) {
	t.Parallel()
	_, e := setup(t)
	require.NoError(t, e.SetValidator("Base", positiveID))

	err := e.CheckAll(withID("Leaf", -1))
	var verr *errdefs.ValidityError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Leaf", verr.Class)
	assert.Equal(t, "Base", verr.Owner)
	assert.Contains(t, err.Error(), `inherited from "Base"`)

	// A closer validator takes over and the Base rule no longer runs.
	require.NoError(t, e.SetValidator("Derived", func(Subject) error { return nil }))
	assert.NoError(t, e.CheckAll(withID("Leaf", -1)))

	owner, _, err := e.Resolve("Leaf")
	require.NoError(t, err)
	assert.Equal(t, "Derived", owner)
}

func TestSetValidator_OverwritesAndRemoves(t *testing.T) {
	t.Parallel()
	_, e := setup(t)

	require.NoError(t, e.SetValidator("Base", func(Subject) error { return errors.New("first") }))
	require.NoError(t, e.SetValidator("Base", func(Subject) error { return errors.New("second") }))

	err := e.CheckAll(withID("Base", 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "second")
	assert.NotContains(t, err.Error(), "first")

	require.NoError(t, e.SetValidator("Base", nil))
	_, ok := e.Validator("Base")
	assert.False(t, ok)
	assert.NoError(t, e.CheckAll(withID("Base", 1)))
}

func TestCheckAll_UnknownClass(t *testing.T) {
	t.Parallel()
	_, e := setup(t)
	require.ErrorIs(t, e.CheckAll(withID("Ghost", 1)), errdefs.ErrUnknownClass)
}
