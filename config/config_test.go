package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "native", cfg.Parser)
	assert.Equal(t, "text", cfg.Format)
	assert.Contains(t, cfg.SkipDirs, "target")
	assert.Zero(t, cfg.Jobs)
}

func TestParse(t *testing.T) {
	cfg, err := Parse(strings.NewReader(`
parser: treesitter
format: table
sourceRoots: [app/src, lib/src]
includeTests: true
failOnUnguarded: true
jobs: 4
`))
	require.NoError(t, err)
	assert.Equal(t, "treesitter", cfg.Parser)
	assert.Equal(t, "table", cfg.Format)
	assert.Equal(t, []string{"app/src", "lib/src"}, cfg.SourceRoots)
	assert.True(t, cfg.IncludeTests)
	assert.True(t, cfg.FailOnUnguarded)
	assert.False(t, cfg.UnguardedOnly)
	assert.Equal(t, 4, cfg.Jobs)
	assert.Contains(t, cfg.SkipDirs, ".git", "unset keys keep their defaults")

	opts := cfg.ProjectOptions()
	assert.Equal(t, cfg.SourceRoots, opts.SourceRoots)
	assert.True(t, opts.IncludeTests)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "parsr: native\n"},
		{"unknown parser", "parser: javac\n"},
		{"unknown format", "format: xml\n"},
		{"negative jobs", "jobs: -1\n"},
		{"wrong type", "jobs: many\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.yaml))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestFind(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Find(dir, "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("format: json\n"), 0o644))
	cfg, err = Find(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)

	explicit := filepath.Join(dir, "other.yaml")
	require.NoError(t, os.WriteFile(explicit, []byte("format: yaml\n"), 0o644))
	cfg, err = Find(dir, explicit)
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Format)

	_, err = Find(dir, filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
