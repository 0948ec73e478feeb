package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/specialistvlad/dispatchgrid/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		args       []string
		want       *app.Config
		shouldExit bool
		wantErr    string
	}{
		{
			name: "paths with defaults",
			args: []string{"classes.hcl", "objects"},
			want: &app.Config{ManifestPaths: []string{"classes.hcl", "objects"}, LogFormat: "auto", LogLevel: "info"},
		},
		{
			name: "all flags",
			args: []string{"-log-format", "JSON", "-log-level", "debug", "-describe", "m.yaml"},
			want: &app.Config{ManifestPaths: []string{"m.yaml"}, LogFormat: "json", LogLevel: "debug", Describe: true},
		},
		{
			name:       "no paths",
			args:       nil,
			shouldExit: true,
		},
		{
			name:       "help",
			args:       []string{"-h"},
			shouldExit: true,
		},
		{
			name:    "unknown flag",
			args:    []string{"-workers", "3"},
			wantErr: "flag provided but not defined: -workers",
		},
		{
			name:    "bad log level",
			args:    []string{"-log-level", "loud", "m.hcl"},
			wantErr: "invalid log level 'loud'",
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			cfg, shouldExit, err := Parse(tc.args, &out)
			if tc.wantErr != "" {
				var exitErr *ExitError
				require.True(t, errors.As(err, &exitErr))
				assert.Equal(t, 2, exitErr.Code)
				assert.Contains(t, exitErr.Message, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.shouldExit, shouldExit)
			assert.Equal(t, tc.want, cfg)
			if tc.shouldExit {
				assert.Contains(t, out.String(), "Usage:")
			}
		})
	}
}
