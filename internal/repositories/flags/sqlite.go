package flags

import (
	"context"
	"database/sql"

	"github.com/KirkDiggler/rpg-tabletop/internal/entities"
	"github.com/KirkDiggler/rpg-tabletop/internal/errors"
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

// NewSQLite creates a flag repository backed by the flags table
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

// Get reads one flag
func (r *sqliteRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	flag := entities.Flag{Name: input.Name}
	err := r.db.QueryRowContext(ctx, `SELECT value FROM flags WHERE name = ?`, input.Name).Scan(&flag.Value)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("flag not found").WithMeta("flag", input.Name)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get flag").WithMeta("flag", input.Name)
	}

	return &GetOutput{Flag: &flag}, nil
}

// Set upserts one flag
func (r *sqliteRepository) Set(ctx context.Context, input SetInput) (*SetOutput, error) {
	if input.Name == "" {
		return nil, errors.InvalidArgument("flag name is required")
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO flags (name, value) VALUES (?, ?)
ON CONFLICT(name) DO UPDATE SET value = excluded.value`,
		input.Name, input.Value,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to set flag").WithMeta("flag", input.Name)
	}

	return &SetOutput{}, nil
}
