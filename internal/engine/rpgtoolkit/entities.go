package rpgtoolkit

import (
	"strconv"

	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/rpg-tabletop/internal/engine"
)

// CombatantEntity wraps engine.Combatant to implement core.Entity interface
type CombatantEntity struct {
	*engine.Combatant
}

var _ core.Entity = (*CombatantEntity)(nil)

// GetID returns the character user id or NPC id
func (c *CombatantEntity) GetID() string {
	return strconv.FormatInt(c.ID, 10)
}

// GetType returns "character" or "npc"
func (c *CombatantEntity) GetType() string {
	return string(c.Kind)
}

// wrapCombatant returns a nil interface for a nil combatant so events can
// carry an absent source or target
func wrapCombatant(c *engine.Combatant) core.Entity {
	if c == nil {
		return nil
	}
	return &CombatantEntity{Combatant: c}
}
