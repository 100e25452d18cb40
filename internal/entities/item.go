package entities

import (
	"github.com/KirkDiggler/rpg-tabletop/internal/rules"
)

// Item is a catalog entry. Items are seeded once and read-only afterwards.
type Item struct {
	ID      int64              `json:"id"`
	Name    string             `json:"name"`
	Type    rules.ItemType     `json:"type"`
	Damage  int                `json:"damage"`
	Armor   int                `json:"armor"`
	Bonus   rules.AttributeSet `json:"bonus"`
	Cost    int                `json:"cost"`
	StoreID int64              `json:"store_id"`
	Hidden  bool               `json:"hidden"`
}

// WeaponDamage returns the flat damage of an optional weapon
func WeaponDamage(weapon *Item) int {
	if weapon == nil {
		return 0
	}
	return weapon.Damage
}

// ArmorValue returns the armor value of an optional armor piece
func ArmorValue(armor *Item) int {
	if armor == nil {
		return 0
	}
	return armor.Armor
}

// ItemBonus returns an optional item's bonus to a
func ItemBonus(item *Item, a rules.Attribute) int {
	if item == nil {
		return 0
	}
	return item.Bonus.Get(a)
}

// ItemName returns the item name, or "none" when nothing is equipped
func ItemName(item *Item) string {
	if item == nil {
		return "none"
	}
	return item.Name
}
