package items

import (
	"context"
	"database/sql"
	"strings"

	"github.com/KirkDiggler/rpg-tabletop/internal/entities"
	"github.com/KirkDiggler/rpg-tabletop/internal/errors"
	"github.com/KirkDiggler/rpg-tabletop/internal/rules"
	"github.com/KirkDiggler/rpg-tabletop/internal/storage/sqlite"
)

const selectColumns = `SELECT id, name, type, damage, armor, bonus, cost, store_id, hidden FROM items`

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

// NewSQLite creates an item repository backed by the items table
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

// Get loads one item
func (r *sqliteRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	item, err := scanItem(r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, input.ID))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("item not found").WithMeta("item_id", input.ID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get item").WithMeta("item_id", input.ID)
	}

	return &GetOutput{Item: item}, nil
}

// ListByIDs loads the items in an id set
func (r *sqliteRepository) ListByIDs(ctx context.Context, input ListByIDsInput) (*ListByIDsOutput, error) {
	if len(input.IDs) == 0 {
		return &ListByIDsOutput{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(input.IDs)), ",")
	query := selectColumns + ` WHERE id IN (` + placeholders + `)`
	args := make([]any, 0, len(input.IDs)+1)
	for _, id := range input.IDs {
		args = append(args, id)
	}
	if input.Type != "" {
		query += ` AND type = ?`
		args = append(args, input.Type.String())
	}
	query += ` ORDER BY id`

	found, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list items by id")
	}

	return &ListByIDsOutput{Items: found}, nil
}

// ListByStore loads the goods of one store
func (r *sqliteRepository) ListByStore(ctx context.Context, input ListByStoreInput) (*ListByStoreOutput, error) {
	query := selectColumns + ` WHERE store_id = ?`
	if !input.IncludeHidden {
		query += ` AND hidden = 0`
	}
	query += ` ORDER BY id`

	found, err := r.query(ctx, query, input.StoreID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list store items").WithMeta("store_id", input.StoreID)
	}

	return &ListByStoreOutput{Items: found}, nil
}

// Create inserts a catalog entry
func (r *sqliteRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	item := input.Item
	if item == nil {
		return nil, errors.InvalidArgument("item is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("name", item.Name, vb)
	if !item.Type.IsValid() {
		vb.InvalidField("type", item.Type.String())
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	bonus, err := sqlite.EncodeJSON(item.Bonus.Normalized())
	if err != nil {
		return nil, err
	}

	res, err := r.db.ExecContext(ctx, `
INSERT OR IGNORE INTO items (id, name, type, damage, armor, bonus, cost, store_id, hidden)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Name, item.Type.String(), item.Damage, item.Armor, bonus,
		item.Cost, item.StoreID, sqlite.Int(item.Hidden),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create item").WithMeta("item_id", item.ID)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, errors.AlreadyExists("item already exists").WithMeta("item_id", item.ID)
	}

	return &CreateOutput{}, nil
}

func (r *sqliteRepository) query(ctx context.Context, query string, args ...any) ([]*entities.Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*entities.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func scanItem(row sqlite.Scanner) (*entities.Item, error) {
	var (
		item     entities.Item
		itemType string
		bonus    string
		hidden   int
	)
	if err := row.Scan(&item.ID, &item.Name, &itemType, &item.Damage, &item.Armor, &bonus,
		&item.Cost, &item.StoreID, &hidden); err != nil {
		return nil, err
	}

	item.Type = rules.ItemType(itemType)
	item.Hidden = sqlite.Bool(hidden)
	item.Bonus = rules.AttributeSet{}
	if err := sqlite.DecodeJSON(bonus, &item.Bonus); err != nil {
		return nil, err
	}
	item.Bonus = item.Bonus.Normalized()

	return &item, nil
}
