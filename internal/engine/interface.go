// Package engine resolves checks, attacks and HP changes for the tabletop
package engine

import (
	"context"
)

// Engine provides game mechanics and rules calculations
type Engine interface {
	// CalculateMaxHP derives max HP from strength and race. The floor of 10
	// is only applied when requested (creation and full heals).
	CalculateMaxHP(ctx context.Context, input *CalculateMaxHPInput) (*CalculateMaxHPOutput, error)

	// RollCheck rolls a d20 attribute check. No target number is compared.
	RollCheck(ctx context.Context, input *RollCheckInput) (*RollCheckOutput, error)

	// ResolveAttack rolls a d10 attack and mitigates it with the defender's armor
	ResolveAttack(ctx context.Context, input *ResolveAttackInput) (*ResolveAttackOutput, error)

	// ApplyDamage mitigates a fixed amount of damage (game-master input)
	ApplyDamage(ctx context.Context, input *ApplyDamageInput) (*ApplyDamageOutput, error)

	// ApplyHeal restores HP, clamped to the current max HP
	ApplyHeal(ctx context.Context, input *ApplyHealInput) (*ApplyHealOutput, error)
}
