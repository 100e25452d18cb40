package rules

// Character creation constants
const (
	// AllocationPoints must be spent exactly across the six attributes
	AllocationPoints = 10

	// DefaultStartingGold is the purse of a freshly created character
	DefaultStartingGold = 30

	// MinimumHP is the floor applied at creation and on a full heal
	MinimumHP = 10
)

// Catalog item ids every new character starts with
const (
	StarterWeaponID int64 = 1
	StarterArmorID  int64 = 9
)

// StarterInventory returns a fresh copy of the starting kit
func StarterInventory() []int64 {
	return []int64{StarterWeaponID, StarterArmorID}
}

// ShopEnabledFlag names the flag gating the shop listing
const ShopEnabledFlag = "shop_enabled"
