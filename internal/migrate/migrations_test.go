package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stashline/internal/db"
)

func TestMigrateIsRepeatable(t *testing.T) {
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	require.NoError(t, err)
	defer conn.Close()

	latest, err := Latest()
	require.NoError(t, err)
	require.Positive(t, latest)

	v, err := Migrate(conn)
	require.NoError(t, err)
	assert.Equal(t, latest, v)

	v, err = Migrate(conn)
	require.NoError(t, err)
	assert.Equal(t, latest, v)

	var n int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM snapshots`).Scan(&n))
	assert.Zero(t, n)
}
