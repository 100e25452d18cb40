package testutils

import (
	"github.com/KirkDiggler/rpg-tabletop/internal/entities"
	"github.com/KirkDiggler/rpg-tabletop/internal/rules"
)

// Fixture identities
const (
	AdminID  int64 = 1000
	PlayerID int64 = 42
)

// Int64Ptr returns a pointer to v
func Int64Ptr(v int64) *int64 {
	return &v
}

// NewCharacter returns a human warrior with strength 5, the starter kit in
// the inventory and max HP 14
func NewCharacter(userID int64, username string) *entities.Character {
	return &entities.Character{
		UserID:   userID,
		Username: username,
		Race:     rules.Human,
		Class:    rules.Warrior,
		Attributes: rules.AttributeSet{
			rules.Strength:   5,
			rules.Dexterity:  2,
			rules.Intellect:  1,
			rules.Perception: 1,
			rules.Stealth:    1,
			rules.Charisma:   0,
		},
		Inventory: rules.StarterInventory(),
		Gold:      rules.DefaultStartingGold,
		HP:        14,
	}
}

// NewNPC returns an in-combat NPC with no equipment
func NewNPC(name string, hp int) *entities.NPC {
	return &entities.NPC{
		Name: name,
		Attributes: rules.AttributeSet{
			rules.Strength:  3,
			rules.Dexterity: 2,
		}.Normalized(),
		HP:       hp,
		InCombat: true,
	}
}

// NewWeapon returns a weapon catalog entry
func NewWeapon(id int64, name string, damage, cost int) *entities.Item {
	return &entities.Item{
		ID:      id,
		Name:    name,
		Type:    rules.ItemTypeWeapon,
		Damage:  damage,
		Bonus:   rules.NewAttributeSet(),
		Cost:    cost,
		StoreID: 1,
	}
}

// NewArmor returns an armor catalog entry
func NewArmor(id int64, name string, armor, cost int) *entities.Item {
	return &entities.Item{
		ID:      id,
		Name:    name,
		Type:    rules.ItemTypeArmor,
		Armor:   armor,
		Bonus:   rules.NewAttributeSet(),
		Cost:    cost,
		StoreID: 2,
	}
}
