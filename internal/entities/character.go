// Package entities provides the core data structures for rpg-tabletop.
package entities

import (
	"github.com/KirkDiggler/rpg-tabletop/internal/rules"
)

// Character is a player's persisted character, keyed by chat user id
type Character struct {
	UserID     int64              `json:"user_id"`
	Username   string             `json:"username"`
	Race       rules.Race         `json:"race"`
	Class      rules.Class        `json:"class"`
	Attributes rules.AttributeSet `json:"attributes"`
	WeaponID   *int64             `json:"weapon_id,omitempty"`
	ArmorID    *int64             `json:"armor_id,omitempty"`
	Inventory  []int64            `json:"inventory"`
	Gold       int                `json:"gold"`
	HP         int                `json:"hp"`
}

// Slot returns the equipped item id for an equippable type
func (c *Character) Slot(t rules.ItemType) *int64 {
	switch t {
	case rules.ItemTypeWeapon:
		return c.WeaponID
	case rules.ItemTypeArmor:
		return c.ArmorID
	default:
		return nil
	}
}

// SetSlot points the slot for t at id. Non-equippable types are ignored.
func (c *Character) SetSlot(t rules.ItemType, id *int64) {
	switch t {
	case rules.ItemTypeWeapon:
		c.WeaponID = id
	case rules.ItemTypeArmor:
		c.ArmorID = id
	}
}

// HasItem reports whether id is in the inventory
func (c *Character) HasItem(id int64) bool {
	for _, held := range c.Inventory {
		if held == id {
			return true
		}
	}
	return false
}

// RemoveItem drops the first occurrence of id from the inventory
func (c *Character) RemoveItem(id int64) bool {
	for i, held := range c.Inventory {
		if held == id {
			c.Inventory = append(c.Inventory[:i:i], c.Inventory[i+1:]...)
			return true
		}
	}
	return false
}

// AddItem appends id to the inventory; duplicates are allowed
func (c *Character) AddItem(id int64) {
	c.Inventory = append(c.Inventory, id)
}

// Equip moves item id from the inventory into the slot for t, returning the
// previously equipped item to the inventory. It fails when id is not held.
func (c *Character) Equip(t rules.ItemType, id int64) bool {
	if !t.Equippable() || !c.RemoveItem(id) {
		return false
	}
	if previous := c.Slot(t); previous != nil {
		c.AddItem(*previous)
	}
	equipped := id
	c.SetSlot(t, &equipped)
	return true
}
