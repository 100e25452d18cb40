package sqlite

import (
	"context"
	"database/sql"

	"github.com/KirkDiggler/rpg-tabletop/internal/errors"
)

// WithTx runs fn inside a transaction, committing when fn returns nil and
// rolling back otherwise
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	committed = true
	return nil
}
