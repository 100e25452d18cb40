package engine

import (
	"github.com/KirkDiggler/rpg-tabletop/internal/entities"
	"github.com/KirkDiggler/rpg-tabletop/internal/rules"
)

// Die sizes used by the tabletop
const (
	CheckDie  = 20
	AttackDie = 10
)

// MaxHP returns ceil((strength + race strength bonus) * 2.2) without a floor.
// Integer math keeps 6 * 2.2 at exactly 14.
func MaxHP(c *entities.Character) int {
	strength := c.Attributes.Get(rules.Strength) + c.Race.Bonus(rules.Strength)
	return ceilDiv(strength*22, 10)
}

// FlooredMaxHP applies the minimum HP to MaxHP
func FlooredMaxHP(c *entities.Character) int {
	return max(MaxHP(c), rules.MinimumHP)
}

// EffectiveDamage is raw damage minus armor, never below zero
func EffectiveDamage(raw, armor int) int {
	return max(0, raw-armor)
}

// RemainingHP subtracts effective damage, never below zero
func RemainingHP(hp, effective int) int {
	return max(0, hp-effective)
}

// HealedHP adds amount to hp and clamps to [0, maxHP]. maxHP is negative for
// very weak characters; HP still never drops below zero.
func HealedHP(hp, amount, maxHP int) int {
	return max(0, min(maxHP, hp+amount))
}

// CheckBonuses returns the race bonus and the combined item bonus for a
func CheckBonuses(subject *Combatant, a rules.Attribute) (race, items int) {
	if subject.Kind == KindCharacter {
		race = subject.Race.Bonus(a)
	}
	items = entities.ItemBonus(subject.Weapon, a) + entities.ItemBonus(subject.Armor, a)
	return race, items
}

func ceilDiv(a, b int) int {
	if a >= 0 {
		return (a + b - 1) / b
	}
	return a / b
}
