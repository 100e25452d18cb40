package entities

import (
	"github.com/KirkDiggler/rpg-tabletop/internal/rules"
)

// NPC is a game-master controlled combatant. Dead NPCs keep their record
// with HP 0 and InCombat cleared.
type NPC struct {
	ID         int64              `json:"id"`
	Name       string             `json:"name"`
	Attributes rules.AttributeSet `json:"attributes"`
	WeaponID   *int64             `json:"weapon_id,omitempty"`
	ArmorID    *int64             `json:"armor_id,omitempty"`
	HP         int                `json:"hp"`
	Damage     int                `json:"damage"`
	InCombat   bool               `json:"in_combat"`
}
