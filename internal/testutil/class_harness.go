package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/specialistvlad/dispatchgrid/internal/classes"
	"github.com/stretchr/testify/require"
)

// ClassTestCase defines a single scenario for loading a `class` block.
type ClassTestCase struct {
	Name string
	// HCL holds only the body of the `class "Test" { ... }` block. It can be
	// written as a readable, indented multi-line string.
	HCL string
	// Prelude is prepended to the manifest, for parent classes and the like.
	Prelude     string
	ExpectErr   bool
	ErrContains string
	// Validate runs against the registered class when loading succeeds.
	Validate func(t *testing.T, c *classes.ClassDef)
}

// RunClassDefinitionTests loads each case through the full application and
// hands the registered "Test" class to the case's Validate function.
func RunClassDefinitionTests(t *testing.T, cases []ClassTestCase) {
	t.Helper()

	for _, tc := range cases {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			t.Parallel()
			manifest := fmt.Sprintf("%s\nclass \"Test\" {\n%s\n}\n", unindent(tc.Prelude), unindent(tc.HCL))

			result := RunApp(t, map[string]string{"main.hcl": manifest}, Options{Describe: true})

			if tc.ExpectErr {
				require.Error(t, result.Err, "expected a loading error, but got none")
				if tc.ErrContains != "" {
					require.Contains(t, result.Err.Error(), tc.ErrContains)
				}
				return
			}

			require.NoError(t, result.Err)
			def, ok := result.App.Session().Classes.Class("Test")
			require.True(t, ok, "class 'Test' was not registered")
			if tc.Validate != nil {
				tc.Validate(t, def)
			}
		})
	}
}

// unindent removes common leading whitespace from a multi-line string, so
// manifests can be written as indented literals in Go tests.
func unindent(s string) string {
	lines := strings.Split(s, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return ""
	}

	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}

	for i, line := range lines {
		if len(line) >= minIndent {
			lines[i] = line[minIndent:]
		} else {
			lines[i] = strings.TrimSpace(line)
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
