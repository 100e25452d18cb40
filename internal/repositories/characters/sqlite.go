package characters

import (
	"context"
	"database/sql"

	"github.com/KirkDiggler/rpg-tabletop/internal/entities"
	"github.com/KirkDiggler/rpg-tabletop/internal/errors"
	"github.com/KirkDiggler/rpg-tabletop/internal/rules"
	"github.com/KirkDiggler/rpg-tabletop/internal/storage/sqlite"
)

const selectColumns = `SELECT user_id, username, race, class, attrs, inventory, weapon_id, armor_id, gold, hp FROM characters`

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

// NewSQLite creates a character repository backed by the characters table
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

// Get loads one character
func (r *sqliteRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE user_id = ?`, input.UserID)

	character, err := scanCharacter(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("character not found").WithMeta("user_id", input.UserID)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get character").WithMeta("user_id", input.UserID)
	}

	return &GetOutput{Character: character}, nil
}

// List loads every character
func (r *sqliteRepository) List(ctx context.Context, _ ListInput) (*ListOutput, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+` ORDER BY user_id`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list characters")
	}
	defer func() { _ = rows.Close() }()

	var out []*entities.Character
	for rows.Next() {
		character, err := scanCharacter(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan character")
		}
		out = append(out, character)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate characters")
	}

	return &ListOutput{Characters: out}, nil
}

// Upsert writes the whole character row
func (r *sqliteRepository) Upsert(ctx context.Context, input UpsertInput) (*UpsertOutput, error) {
	c := input.Character
	if c == nil {
		return nil, errors.InvalidArgument("character is required")
	}
	if c.Gold < 0 {
		return nil, errors.InvalidArgumentf("gold cannot be negative: %d", c.Gold).WithMeta("user_id", c.UserID)
	}

	attrs, err := sqlite.EncodeJSON(c.Attributes.Normalized())
	if err != nil {
		return nil, err
	}
	inventory := c.Inventory
	if inventory == nil {
		inventory = []int64{}
	}
	inventoryJSON, err := sqlite.EncodeJSON(inventory)
	if err != nil {
		return nil, err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO characters (user_id, username, race, class, attrs, inventory, weapon_id, armor_id, gold, hp)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
    username = excluded.username,
    race = excluded.race,
    class = excluded.class,
    attrs = excluded.attrs,
    inventory = excluded.inventory,
    weapon_id = excluded.weapon_id,
    armor_id = excluded.armor_id,
    gold = excluded.gold,
    hp = excluded.hp`,
		c.UserID, c.Username, c.Race.String(), c.Class.String(), attrs, inventoryJSON,
		sqlite.NullID(c.WeaponID), sqlite.NullID(c.ArmorID), c.Gold, c.HP,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to upsert character").WithMeta("user_id", c.UserID)
	}

	return &UpsertOutput{}, nil
}

func scanCharacter(row sqlite.Scanner) (*entities.Character, error) {
	var (
		c              entities.Character
		race, class    string
		attrs, invJSON string
		weapon, armor  sql.NullInt64
	)
	if err := row.Scan(&c.UserID, &c.Username, &race, &class, &attrs, &invJSON, &weapon, &armor, &c.Gold, &c.HP); err != nil {
		return nil, err
	}

	c.Race = rules.Race(race)
	c.Class = rules.Class(class)
	c.WeaponID = sqlite.IDPtr(weapon)
	c.ArmorID = sqlite.IDPtr(armor)

	c.Attributes = rules.AttributeSet{}
	if err := sqlite.DecodeJSON(attrs, &c.Attributes); err != nil {
		return nil, err
	}
	c.Attributes = c.Attributes.Normalized()

	c.Inventory = []int64{}
	if err := sqlite.DecodeJSON(invJSON, &c.Inventory); err != nil {
		return nil, err
	}

	return &c, nil
}
