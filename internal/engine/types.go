package engine

import (
	"strconv"

	"github.com/KirkDiggler/rpg-tabletop/internal/entities"
	"github.com/KirkDiggler/rpg-tabletop/internal/rules"
)

// CombatantKind tells characters and NPCs apart
type CombatantKind string

// Combatant kinds
const (
	KindCharacter CombatantKind = "character"
	KindNPC       CombatantKind = "npc"
)

// Combatant is a snapshot of anything that can roll or take damage. Items
// are resolved by the caller; a nil weapon or armor counts as zero.
type Combatant struct {
	Kind       CombatantKind
	ID         int64
	Name       string
	Race       rules.Race
	Attributes rules.AttributeSet
	Weapon     *entities.Item
	Armor      *entities.Item
	HP         int
	// DamageBonus is the NPC flat damage added to every attack
	DamageBonus int
}

// CharacterCombatant snapshots a character with its equipped items
func CharacterCombatant(c *entities.Character, weapon, armor *entities.Item) *Combatant {
	return &Combatant{
		Kind:       KindCharacter,
		ID:         c.UserID,
		Name:       c.Username,
		Race:       c.Race,
		Attributes: c.Attributes,
		Weapon:     weapon,
		Armor:      armor,
		HP:         c.HP,
	}
}

// NPCCombatant snapshots an NPC. NPCs never carry a race bonus.
func NPCCombatant(n *entities.NPC, weapon, armor *entities.Item) *Combatant {
	return &Combatant{
		Kind:        KindNPC,
		ID:          n.ID,
		Name:        n.Name,
		Attributes:  n.Attributes,
		Weapon:      weapon,
		Armor:       armor,
		HP:          n.HP,
		DamageBonus: n.Damage,
	}
}

// Key returns a stable identifier such as "npc:3"
func (c *Combatant) Key() string {
	return string(c.Kind) + ":" + strconv.FormatInt(c.ID, 10)
}

// CalculateMaxHPInput contains the character to measure
type CalculateMaxHPInput struct {
	Character  *entities.Character
	ApplyFloor bool
}

// CalculateMaxHPOutput contains the derived max HP
type CalculateMaxHPOutput struct {
	MaxHP int
}

// RollCheckInput names who rolls and for which attribute
type RollCheckInput struct {
	Subject   *Combatant
	Attribute rules.Attribute
}

// RollCheckOutput is the full breakdown of a check
type RollCheckOutput struct {
	Roll      int
	Base      int
	RaceBonus int
	ItemBonus int
	Total     int
}

// ResolveAttackInput contains both sides of an exchange
type ResolveAttackInput struct {
	Attacker *Combatant
	Defender *Combatant
}

// ResolveAttackOutput contains the roll breakdown and the defender's new HP
type ResolveAttackOutput struct {
	Roll         int
	WeaponDamage int
	DamageBonus  int
	Raw          int
	Armor        int
	Effective    int
	HPBefore     int
	HPAfter      int
	Killed       bool
}

// ApplyDamageInput contains a fixed damage amount for a target
type ApplyDamageInput struct {
	Target *Combatant
	Amount int
}

// ApplyDamageOutput contains the mitigated result
type ApplyDamageOutput struct {
	Armor     int
	Effective int
	HPAfter   int
	Killed    bool
}

// ApplyHealInput contains a heal request. ToFull ignores Amount and restores
// the floored max HP.
type ApplyHealInput struct {
	Character *entities.Character
	Amount    int
	ToFull    bool
}

// ApplyHealOutput contains the new HP and the cap that was used
type ApplyHealOutput struct {
	MaxHP   int
	HPAfter int
}
