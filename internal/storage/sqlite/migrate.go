package sqlite

import (
	"context"
	"database/sql"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/KirkDiggler/rpg-tabletop/internal/errors"
)

const (
	migrationTable = "schema_migrations"
	upMarker       = "-- +migrate Up"
	downMarker     = "-- +migrate Down"
)

// ApplyMigrations runs every *.sql file under root in name order, each at most once
func ApplyMigrations(db *sql.DB, migrationFS fs.FS, root string) error {
	if db == nil {
		return errors.InvalidArgument("sql db is required")
	}
	if strings.TrimSpace(root) == "" {
		root = "."
	}

	entries, err := fs.ReadDir(migrationFS, root)
	if err != nil {
		return errors.Wrap(err, "failed to read migrations dir")
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS ` + migrationTable + ` (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
)`); err != nil {
		return errors.Wrap(err, "failed to ensure migration table")
	}

	for _, name := range files {
		applied, err := isApplied(db, name)
		if err != nil {
			return errors.Wrapf(err, "failed to check migration %s", name)
		}
		if applied {
			continue
		}

		content, err := fs.ReadFile(migrationFS, path.Join(root, name))
		if err != nil {
			return errors.Wrapf(err, "failed to read migration %s", name)
		}

		upSQL := ExtractUpMigration(string(content))
		if strings.TrimSpace(upSQL) == "" {
			continue
		}

		err = WithTx(context.Background(), db, func(tx *sql.Tx) error {
			if _, err := tx.Exec(upSQL); err != nil {
				return errors.Wrapf(err, "failed to exec migration %s", name)
			}
			if _, err := tx.Exec(
				"INSERT OR IGNORE INTO "+migrationTable+" (name, applied_at) VALUES (?, ?)",
				name, time.Now().UTC().UnixMilli(),
			); err != nil {
				return errors.Wrapf(err, "failed to record migration %s", name)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// ExtractUpMigration returns the SQL between the Up and Down markers. Files
// without markers are used whole.
func ExtractUpMigration(content string) string {
	upIdx := strings.Index(content, upMarker)
	if upIdx == -1 {
		return content
	}
	body := content[upIdx+len(upMarker):]
	if downIdx := strings.Index(body, downMarker); downIdx != -1 {
		return body[:downIdx]
	}
	return body
}

func isApplied(db *sql.DB, name string) (bool, error) {
	var found int
	err := db.QueryRow("SELECT 1 FROM "+migrationTable+" WHERE name = ?", name).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
