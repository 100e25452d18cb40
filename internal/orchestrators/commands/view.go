package commands

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/rpg-tabletop/internal/entities"
	"github.com/KirkDiggler/rpg-tabletop/internal/errors"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/items"
)

// EquippedView is a character with its slots and inventory resolved
type EquippedView struct {
	Character *entities.Character
	Weapon    *entities.Item
	Armor     *entities.Item
	// InventoryNames follows inventory order, duplicates included
	InventoryNames []string
}

// WeaponDamage is 0 when unarmed
func (v *EquippedView) WeaponDamage() int {
	return entities.WeaponDamage(v.Weapon)
}

// ArmorValue is 0 when unarmored
func (v *EquippedView) ArmorValue() int {
	return entities.ArmorValue(v.Armor)
}

// resolveView loads every item the character references in one query
func (c *Commands) resolveView(ctx context.Context, character *entities.Character) (*EquippedView, error) {
	ids := append([]int64(nil), character.Inventory...)
	if character.WeaponID != nil {
		ids = append(ids, *character.WeaponID)
	}
	if character.ArmorID != nil {
		ids = append(ids, *character.ArmorID)
	}

	byID := make(map[int64]*entities.Item, len(ids))
	if len(ids) > 0 {
		out, err := c.items.ListByIDs(ctx, items.ListByIDsInput{IDs: ids})
		if err != nil {
			return nil, errors.Wrap(err, "failed to resolve items")
		}
		for _, item := range out.Items {
			byID[item.ID] = item
		}
	}

	view := &EquippedView{
		Character:      character,
		InventoryNames: make([]string, 0, len(character.Inventory)),
	}
	if character.WeaponID != nil {
		view.Weapon = byID[*character.WeaponID]
	}
	if character.ArmorID != nil {
		view.Armor = byID[*character.ArmorID]
	}
	for _, id := range character.Inventory {
		if item, ok := byID[id]; ok {
			view.InventoryNames = append(view.InventoryNames, item.Name)
			continue
		}
		view.InventoryNames = append(view.InventoryNames, fmt.Sprintf("<missing id:%d>", id))
	}

	return view, nil
}
