package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		in      Config
		want    *Config
		wantErr string
	}{
		{
			name: "defaults",
			in:   Config{ManifestPaths: []string{"m.hcl"}},
			want: &Config{ManifestPaths: []string{"m.hcl"}, LogFormat: "auto", LogLevel: "info"},
		},
		{
			name: "explicit",
			in:   Config{ManifestPaths: []string{"a", "b"}, LogFormat: "json", LogLevel: "debug", Describe: true},
			want: &Config{ManifestPaths: []string{"a", "b"}, LogFormat: "json", LogLevel: "debug", Describe: true},
		},
		{
			name:    "no manifests",
			in:      Config{},
			wantErr: "ManifestPaths is a required configuration field",
		},
		{
			name:    "bad format",
			in:      Config{ManifestPaths: []string{"m.hcl"}, LogFormat: "xml"},
			wantErr: "invalid log format 'xml'",
		},
		{
			name:    "bad level",
			in:      Config{ManifestPaths: []string{"m.hcl"}, LogLevel: "trace"},
			wantErr: "invalid log level 'trace'",
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := NewConfig(tc.in)
			if tc.wantErr != "" {
				require.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
