package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnindent(t *testing.T) {
	t.Parallel()
	in := `
		a:
		  - b

		c
	`
	assert.Equal(t, "a:\n  - b\n\nc\n", unindent(in))
	assert.Equal(t, "", unindent("\n   \n"))
}
