package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stashline/internal/config"
	"stashline/internal/domain"
	"stashline/internal/migrate"
)

func TestOpenWithoutCatalog(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(Options{Workspace: dir})
	require.NoError(t, err)
	defer c.Close()

	assert.False(t, c.ConfigFound)
	assert.True(t, c.Catalog.IsEmpty())
	snap, err := c.Engine.LoadSnapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Quests)
}

func TestOpenWithCatalogOverride(t *testing.T) {
	dir := t.TempDir()
	raw, err := os.ReadFile(filepath.Join("..", "catalog", "testdata", "catalog.json"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tarkov.json"), raw, 0o644))
	require.NoError(t, os.WriteFile(config.Path(dir), []byte("log:\n  level: warn\n"), 0o644))

	c, err := Open(Options{Workspace: dir, CatalogPath: "tarkov.json"})
	require.NoError(t, err)
	defer c.Close()

	assert.True(t, c.ConfigFound)
	assert.Equal(t, "warn", c.Config.Log.Level)
	assert.Equal(t, "test-1", c.Catalog.Version)

	rep, err := c.Engine.Refresh(context.Background(), domain.ScopeAll)
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Quests)
}

func TestOpenRejectsBadLevel(t *testing.T) {
	_, err := Open(Options{Workspace: t.TempDir(), LogLevel: "loud"})
	assert.Error(t, err)
}

func TestOpenRejectsNewerSchema(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(Options{Workspace: dir})
	require.NoError(t, err)
	latest, err := migrate.Latest()
	require.NoError(t, err)
	_, err = c.DB.Exec(`UPDATE schema_version SET version=?`, latest+1)
	require.NoError(t, err)
	require.NoError(t, c.Close())

	_, err = Open(Options{Workspace: dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than this build")
}
