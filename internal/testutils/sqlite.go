package testutils

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-tabletop/internal/storage/sqlite"
)

// CreateTestDB opens a migrated SQLite database in a per-test temp dir
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "tabletop.db"))
	require.NoError(t, err, "failed to open sqlite")
	t.Cleanup(func() { _ = db.Close() })

	return db
}
