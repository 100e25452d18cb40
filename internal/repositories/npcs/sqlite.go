package npcs

import (
	"context"
	"database/sql"

	"github.com/KirkDiggler/rpg-tabletop/internal/entities"
	"github.com/KirkDiggler/rpg-tabletop/internal/errors"
	"github.com/KirkDiggler/rpg-tabletop/internal/rules"
	"github.com/KirkDiggler/rpg-tabletop/internal/storage/sqlite"
)

const selectColumns = `SELECT id, name, attrs, weapon_id, armor_id, hp, damage, in_combat FROM npc`

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

// NewSQLite creates an NPC repository backed by the npc table
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

// Get loads one NPC
func (r *sqliteRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	npc, err := scanNPC(r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, input.ID))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("npc not found").WithMeta("npc_id", input.ID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get npc").WithMeta("npc_id", input.ID)
	}

	return &GetOutput{NPC: npc}, nil
}

// List loads the roster
func (r *sqliteRepository) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	query := selectColumns
	if input.InCombatOnly {
		query += ` WHERE in_combat = 1`
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list npcs")
	}
	defer func() { _ = rows.Close() }()

	var out []*entities.NPC
	for rows.Next() {
		npc, err := scanNPC(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan npc")
		}
		out = append(out, npc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate npcs")
	}

	return &ListOutput{NPCs: out}, nil
}

// Create inserts an NPC and reports its id
func (r *sqliteRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	npc := input.NPC
	if err := validate(npc); err != nil {
		return nil, err
	}

	attrs, err := sqlite.EncodeJSON(npc.Attributes.Normalized())
	if err != nil {
		return nil, err
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO npc (name, attrs, weapon_id, armor_id, hp, damage, in_combat)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		npc.Name, attrs, sqlite.NullID(npc.WeaponID), sqlite.NullID(npc.ArmorID),
		npc.HP, npc.Damage, sqlite.Int(npc.InCombat),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create npc").WithMeta("name", npc.Name)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read npc id")
	}

	return &CreateOutput{ID: id}, nil
}

// Update writes the whole NPC row
func (r *sqliteRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	npc := input.NPC
	if err := validate(npc); err != nil {
		return nil, err
	}

	attrs, err := sqlite.EncodeJSON(npc.Attributes.Normalized())
	if err != nil {
		return nil, err
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE npc SET name = ?, attrs = ?, weapon_id = ?, armor_id = ?, hp = ?, damage = ?, in_combat = ?
WHERE id = ?`,
		npc.Name, attrs, sqlite.NullID(npc.WeaponID), sqlite.NullID(npc.ArmorID),
		npc.HP, npc.Damage, sqlite.Int(npc.InCombat), npc.ID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update npc").WithMeta("npc_id", npc.ID)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, errors.NotFound("npc not found").WithMeta("npc_id", npc.ID)
	}

	return &UpdateOutput{}, nil
}

func validate(npc *entities.NPC) error {
	if npc == nil {
		return errors.InvalidArgument("npc is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("name", npc.Name, vb)
	errors.ValidateNonNegative("hp", npc.HP, vb)
	errors.ValidateNonNegative("damage", npc.Damage, vb)
	return vb.Build()
}

func scanNPC(row sqlite.Scanner) (*entities.NPC, error) {
	var (
		npc           entities.NPC
		attrs         string
		weapon, armor sql.NullInt64
		inCombat      int
	)
	if err := row.Scan(&npc.ID, &npc.Name, &attrs, &weapon, &armor, &npc.HP, &npc.Damage, &inCombat); err != nil {
		return nil, err
	}

	npc.WeaponID = sqlite.IDPtr(weapon)
	npc.ArmorID = sqlite.IDPtr(armor)
	npc.InCombat = sqlite.Bool(inCombat)
	npc.Attributes = rules.AttributeSet{}
	if err := sqlite.DecodeJSON(attrs, &npc.Attributes); err != nil {
		return nil, err
	}
	npc.Attributes = npc.Attributes.Normalized()

	return &npc, nil
}
