package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "catalog.json", cfg.Catalog.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Search.ConfirmContains)
	assert.Equal(t, 3, cfg.Search.Suggestions)
}

func TestFromYAMLKeepsDefaults(t *testing.T) {
	cfg, err := FromYAML([]byte("log:\n  level: debug\n"))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "catalog.json", cfg.Catalog.Path)
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]string{
		"level":       "log:\n  level: loud\n",
		"format":      "log:\n  format: xml\n",
		"suggestions": "search:\n  suggestions: -1\n",
		"catalog":     "catalog:\n  path: \"\"\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FromYAML([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadOptional(t *testing.T) {
	dir := t.TempDir()
	cfg, found, err := LoadOptional(dir)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, Default(), cfg)

	require.NoError(t, os.WriteFile(Path(dir), []byte("catalog:\n  path: data/tarkov.json.zst\n"), 0o644))
	cfg, found, err = LoadOptional(dir)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, filepath.Join(dir, "data", "tarkov.json.zst"), cfg.CatalogPath(dir))
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.yml")
	require.NoError(t, os.WriteFile(path, []byte("search:\n  confirm_contains: false\n"), 0o644))
	cfg, err := FromFile(path)
	require.NoError(t, err)
	assert.False(t, cfg.Search.ConfirmContains)

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: loud\n"), 0o644))
	_, err = FromFile(path)
	assert.Error(t, err)

	_, err = FromFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
