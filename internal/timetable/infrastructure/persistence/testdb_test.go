package persistence

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/schedgen/internal/shared/infrastructure/database"
	sqliteconn "github.com/felixgeelhaar/schedgen/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/schedgen/internal/shared/infrastructure/migrations"
	"github.com/stretchr/testify/require"
)

// newTestDB opens a fresh SQLite database under a temp directory with the
// full schema applied, ready for repositories under test.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	tmpDir, err := os.MkdirTemp("", "schedgen-persistence-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	conn, err := sqliteconn.NewConnection(ctx, database.Config{
		SQLitePath: filepath.Join(tmpDir, "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	sqliteConn, ok := conn.(*sqliteconn.Connection)
	require.True(t, ok)

	require.NoError(t, migrations.RunSQLiteMigrations(ctx, sqliteConn.DB()))
	return sqliteConn.DB()
}
