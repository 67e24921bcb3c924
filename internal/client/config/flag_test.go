package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd", "-a", "http://localhost:3000/api/v1", "-t", "10", "-db", "/tmp/x.db", "-v", "debug"},
			expected: &Config{ServerURL: "http://localhost:3000/api/v1", RequestTimeout: 10 * time.Second, DBPath: "/tmp/x.db", LogLevel: "debug"}},
		{name: "unknown flags are ignored", args: []string{"cmd", "-x", "1", "-t", "5"},
			expected: &Config{RequestTimeout: 5 * time.Second}},
		{name: "incorrect timeout", args: []string{"cmd", "-t", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
