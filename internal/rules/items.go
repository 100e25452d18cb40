package rules

import "strings"

// ItemType is the catalog category of an item
type ItemType string

// Item types
const (
	ItemTypeWeapon    ItemType = "weapon"
	ItemTypeArmor     ItemType = "armor"
	ItemTypeAccessory ItemType = "accessory"
)

// String returns the string representation of the item type
func (t ItemType) String() string {
	return string(t)
}

// IsValid checks if the item type is known
func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeWeapon, ItemTypeArmor, ItemTypeAccessory:
		return true
	default:
		return false
	}
}

// Equippable reports whether the type occupies an equipment slot
func (t ItemType) Equippable() bool {
	return t == ItemTypeWeapon || t == ItemTypeArmor
}

// ParseEquipSlot matches the slot names accepted by the equip flow
func ParseEquipSlot(input string) (ItemType, bool) {
	t := ItemType(strings.ToLower(strings.TrimSpace(input)))
	if !t.Equippable() {
		return "", false
	}
	return t, true
}

// ParseItemType matches any item type case-insensitively
func ParseItemType(input string) (ItemType, bool) {
	t := ItemType(strings.ToLower(strings.TrimSpace(input)))
	if !t.IsValid() {
		return "", false
	}
	return t, true
}
