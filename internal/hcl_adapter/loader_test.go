package hcl_adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/dispatchgrid/internal/typetag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

const manifest = `
class "Person" {
  description = "Someone."
  validity    = "NonEmptyStrings"

  slot "name" {
    type = string
  }
  slot "tags" {
    type        = list(string)
    description = "Free-form labels."
  }
}

class "Employee" {
  parent = "Person"
  slot "boss" {
    type = instance(Person)
  }
}

union "Named" {
  members = ["Person"]
}

generic "greet" {
  parameters = ["who", "greeting"]
  open_tail  = true
}

method "greet" "Person" {
  handler = "Greet"
}

object "alice" {
  class = "Person"
  slots = {
    name = "Alice"
    tags = ["a", "b"]
  }
}

object "bob" {
  class = "Employee"
  slots = {
    name = "Bob"
    tags = []
    boss = object.alice
  }
}

object "empty" {
  class = "Nothing"
}

call "greet" "bob" {
  receiver = object.bob
  args     = ["hi", 3]
}

call "greet" "alice" {
  receiver = object.alice
}
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_Load(t *testing.T) {
	t.Parallel()
	model, err := NewLoader().Load(context.Background(), writeManifest(t, manifest))
	require.NoError(t, err)

	require.Len(t, model.Classes, 2)
	person := model.Classes[0]
	assert.Equal(t, "Someone.", person.Description)
	assert.Equal(t, "NonEmptyStrings", person.Validity)
	assert.True(t, person.Slots["tags"].Type.Equals(typetag.Of(cty.List(cty.String))))
	assert.True(t, model.Classes[1].Slots["boss"].Type.Equals(typetag.Instance("Person")))

	require.Len(t, model.Unions, 1)
	require.Len(t, model.Generics, 1)
	assert.Equal(t, []string{"who", "greeting"}, model.Generics[0].Parameters)
	assert.True(t, model.Generics[0].OpenTail)

	require.Len(t, model.Methods, 1)
	assert.Equal(t, "Greet", model.Methods[0].Handler)
	assert.Nil(t, model.Methods[0].Parameters)

	require.Len(t, model.Objects, 3)
	assert.Len(t, model.Objects[0].Slots, 2)
	assert.Empty(t, model.Objects[2].Slots)

	boss := model.Objects[1].Slots["boss"]
	vars := boss.Variables()
	require.Len(t, vars, 1)
	assert.Equal(t, "object", vars[0].RootName())

	require.Len(t, model.Calls, 2)
	assert.Len(t, model.Calls[0].Args, 2)
	assert.Empty(t, model.Calls[1].Args)

	v, diags := model.Calls[0].Args[1].Value(&hcl.EvalContext{})
	require.False(t, diags.HasErrors())
	assert.True(t, v.RawEquals(cty.NumberIntVal(3)))
}

func TestLoader_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "syntax", content: `class "A" {`, wantErr: "failed to parse HCL file"},
		{name: "unknown block", content: `klass "A" {}`, wantErr: "failed to decode HCL file"},
		{name: "bad type", content: `class "A" {
  slot "x" {
    type = decimal
  }
}`, wantErr: "slot 'x'"},
		{name: "duplicate slot", content: `class "A" {
  slot "x" { type = string }
  slot "x" { type = number }
}`, wantErr: "declares slot 'x' twice"},
		{name: "slots not an object", content: `object "a" {
  class = "A"
  slots = "nope"
}`, wantErr: "slots must be an object literal"},
		{name: "args not a list", content: `call "g" "l" {
  receiver = object.a
  args     = "nope"
}`, wantErr: "args must be a list literal"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewLoader().Load(context.Background(), writeManifest(t, tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
