package stores

import (
	"context"
	"database/sql"

	"github.com/KirkDiggler/rpg-tabletop/internal/entities"
	"github.com/KirkDiggler/rpg-tabletop/internal/errors"
	"github.com/KirkDiggler/rpg-tabletop/internal/storage/sqlite"
)

// Config holds the dependencies for the SQLite repository
type Config struct {
	DB *sql.DB
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.DB == nil {
		vb.RequiredField("db")
	}
	return vb.Build()
}

type sqliteRepository struct {
	db *sql.DB
}

// NewSQLite creates a store repository backed by the stores table
func NewSQLite(cfg *Config) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &sqliteRepository{db: cfg.DB}, nil
}

var _ Repository = (*sqliteRepository)(nil)

// List loads every store
func (r *sqliteRepository) List(ctx context.Context, _ ListInput) (*ListOutput, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, active FROM stores ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list stores")
	}
	defer func() { _ = rows.Close() }()

	var out []*entities.Store
	for rows.Next() {
		store, err := scanStore(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan store")
		}
		out = append(out, store)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate stores")
	}

	return &ListOutput{Stores: out}, nil
}

// GetActive loads the active store
func (r *sqliteRepository) GetActive(ctx context.Context, _ GetActiveInput) (*GetActiveOutput, error) {
	store, err := scanStore(r.db.QueryRowContext(ctx,
		`SELECT id, name, active FROM stores WHERE active = 1 ORDER BY id LIMIT 1`))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("no active store")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get active store")
	}

	return &GetActiveOutput{Store: store}, nil
}

// SetActive flips every row so only the chosen store is active
func (r *sqliteRepository) SetActive(ctx context.Context, input SetActiveInput) (*SetActiveOutput, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE stores SET active = CASE WHEN id = ? THEN 1 ELSE 0 END
WHERE EXISTS (SELECT 1 FROM stores WHERE id = ?)`,
		input.StoreID, input.StoreID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to set active store").WithMeta("store_id", input.StoreID)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, errors.NotFound("store not found").WithMeta("store_id", input.StoreID)
	}

	return &SetActiveOutput{}, nil
}

// Create inserts a store
func (r *sqliteRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	store := input.Store
	if store == nil {
		return nil, errors.InvalidArgument("store is required")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("name", store.Name, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO stores (id, name, active) VALUES (?, ?, ?)`,
		store.ID, store.Name, sqlite.Int(store.Active),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create store").WithMeta("store_id", store.ID)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, errors.AlreadyExists("store already exists").WithMeta("store_id", store.ID)
	}

	return &CreateOutput{}, nil
}

func scanStore(row sqlite.Scanner) (*entities.Store, error) {
	var (
		store  entities.Store
		active int
	)
	if err := row.Scan(&store.ID, &store.Name, &active); err != nil {
		return nil, err
	}
	store.Active = sqlite.Bool(active)
	return &store, nil
}
