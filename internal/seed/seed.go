// Package seed fills an empty database with the default stores, the item
// catalog and the shop display flag.
package seed

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-tabletop/internal/entities"
	"github.com/KirkDiggler/rpg-tabletop/internal/errors"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/flags"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/items"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/stores"
	"github.com/KirkDiggler/rpg-tabletop/internal/rules"
)

// Store ids of the default shop fronts
const (
	WeaponsmithID int64 = 1
	ArmorerID     int64 = 2
)

// Stores returns the default shop fronts. The weaponsmith starts active.
func Stores() []*entities.Store {
	return []*entities.Store{
		{ID: WeaponsmithID, Name: "Weaponsmith", Active: true},
		{ID: ArmorerID, Name: "Armorer"},
	}
}

// Catalog returns the default items. Ids 1 and 9 are the starter kit.
func Catalog() []*entities.Item {
	return []*entities.Item{
		weapon(1, "Iron Short Sword", 1, 12, nil),
		weapon(2, "Heavy Battle Axe", 2, 20, rules.AttributeSet{rules.Dexterity: -1, rules.Stealth: -1}),
		weapon(3, "Light Dagger", 0, 8, nil),
		weapon(4, "Paired Knives", 1, 14, nil),
		weapon(5, "Oak Staff", 0, 10, nil),
		weapon(6, "Focusing Wand", 1, 18, rules.AttributeSet{rules.Intellect: 1}),
		weapon(7, "Hunting Bow", 1, 15, nil),
		weapon(8, "Composite Bow", 2, 22, nil),

		wearable(9, "Chainmail Shirt", rules.ItemTypeArmor, 4, 15, nil),
		wearable(10, "Belt of Fury", rules.ItemTypeAccessory, 0, 18, rules.AttributeSet{rules.Strength: 1}),
		wearable(11, "Shadow Jacket", rules.ItemTypeArmor, 1, 12, rules.AttributeSet{rules.Stealth: 1}),
		wearable(12, "Trickster Gloves", rules.ItemTypeAccessory, 1, 18, rules.AttributeSet{rules.Dexterity: 1}),
		wearable(13, "Novice Robe", rules.ItemTypeArmor, 1, 12, rules.AttributeSet{rules.Perception: 1}),
		wearable(14, "Amulet of Suppression", rules.ItemTypeAccessory, 0, 20, nil),
		wearable(15, "Leather Cuirass", rules.ItemTypeArmor, 1, 12, rules.AttributeSet{rules.Charisma: 1}),
		wearable(16, "Bracers of Stability", rules.ItemTypeAccessory, 0, 18, rules.AttributeSet{rules.Perception: 1}),
	}
}

func weapon(id int64, name string, damage, cost int, bonus rules.AttributeSet) *entities.Item {
	return &entities.Item{
		ID:      id,
		Name:    name,
		Type:    rules.ItemTypeWeapon,
		Damage:  damage,
		Bonus:   bonus.Normalized(),
		Cost:    cost,
		StoreID: WeaponsmithID,
	}
}

func wearable(id int64, name string, typ rules.ItemType, armor, cost int, bonus rules.AttributeSet) *entities.Item {
	return &entities.Item{
		ID:      id,
		Name:    name,
		Type:    typ,
		Armor:   armor,
		Bonus:   bonus.Normalized(),
		Cost:    cost,
		StoreID: ArmorerID,
	}
}

// Config holds the repositories the seeder writes to
type Config struct {
	Items  items.Repository
	Stores stores.Repository
	Flags  flags.Repository
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Items == nil {
		vb.RequiredField("items")
	}
	if c.Stores == nil {
		vb.RequiredField("stores")
	}
	if c.Flags == nil {
		vb.RequiredField("flags")
	}
	return vb.Build()
}

// Seeder writes the default data
type Seeder struct {
	items  items.Repository
	stores stores.Repository
	flags  flags.Repository
}

// New creates a seeder
func New(cfg *Config) (*Seeder, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Seeder{
		items:  cfg.Items,
		stores: cfg.Stores,
		flags:  cfg.Flags,
	}, nil
}

// Result reports what a run wrote
type Result struct {
	Stores int
	Items  int
	// ShopFlag is true when the shop display flag was created
	ShopFlag bool
}

// Run seeds every empty table. Tables that already hold rows are left alone,
// so running it on every start is safe.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	res := &Result{}

	existing, err := s.stores.List(ctx, stores.ListInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list stores")
	}
	if len(existing.Stores) == 0 {
		for _, store := range Stores() {
			if _, err := s.stores.Create(ctx, stores.CreateInput{Store: store}); err != nil {
				return nil, errors.Wrapf(err, "failed to seed store %d", store.ID)
			}
			res.Stores++
		}
		slog.InfoContext(ctx, "seeded stores", "count", res.Stores)
	}

	catalog := Catalog()
	ids := make([]int64, 0, len(catalog))
	for _, item := range catalog {
		ids = append(ids, item.ID)
	}
	found, err := s.items.ListByIDs(ctx, items.ListByIDsInput{IDs: ids})
	if err != nil {
		return nil, errors.Wrap(err, "failed to check catalog")
	}
	if len(found.Items) == 0 {
		for _, item := range catalog {
			if _, err := s.items.Create(ctx, items.CreateInput{Item: item}); err != nil {
				return nil, errors.Wrapf(err, "failed to seed item %d", item.ID)
			}
			res.Items++
		}
		slog.InfoContext(ctx, "seeded items", "count", res.Items)
	}

	_, err = s.flags.Get(ctx, flags.GetInput{Name: rules.ShopEnabledFlag})
	switch {
	case errors.IsNotFound(err):
		if _, err := s.flags.Set(ctx, flags.SetInput{Name: rules.ShopEnabledFlag, Value: 1}); err != nil {
			return nil, errors.Wrap(err, "failed to seed shop flag")
		}
		res.ShopFlag = true
	case err != nil:
		return nil, errors.Wrap(err, "failed to read shop flag")
	}

	return res, nil
}
