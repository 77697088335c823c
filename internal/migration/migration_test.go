package migration

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ynmsafety/ynmops/pkg/db/dbtest"
)

func TestEmbeddedMigrationsPaired(t *testing.T) {
	entries, err := fs.ReadDir(embeddedMigrations, migrationsDir)
	require.NoError(t, err)

	ups, downs := 0, 0
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			downs++
		}
	}
	assert.Equal(t, ups, downs)
	assert.NotZero(t, ups)
}

func TestMigrateSqlite(t *testing.T) {
	conn := dbtest.New(t)
	require.NoError(t, Migrate(conn, "sqlite"))
	for _, table := range []string{"products", "manufacturers", "orders", "tasks", "partners"} {
		assert.True(t, conn.Migrator().HasTable(table), table)
	}
	assert.True(t, conn.Migrator().HasIndex("orders", "ux_orders_fingerprint"))
}
