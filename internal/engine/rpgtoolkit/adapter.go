// Package rpgtoolkit provides the concrete implementation of the engine interface using rpg-toolkit modules.
package rpgtoolkit

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-tabletop/internal/engine"
	"github.com/KirkDiggler/rpg-tabletop/internal/errors"
)

// Event types published on the bus
const (
	EventCheckRolled   = "tabletop.check.rolled"
	EventDamageApplied = "tabletop.damage.applied"
	EventNPCDefeated   = "tabletop.npc.defeated"
)

// EventTypes lists every event the adapter publishes
var EventTypes = []string{EventCheckRolled, EventDamageApplied, EventNPCDefeated}

// Event context keys
const (
	KeyAttribute = "attribute"
	KeyRoll      = "roll"
	KeyTotal     = "total"
	KeyRaw       = "raw"
	KeyArmor     = "armor"
	KeyEffective = "effective"
	KeyHP        = "hp"
)

// Adapter implements the engine.Engine interface using rpg-toolkit
type Adapter struct {
	eventBus   events.EventBus
	diceRoller dice.Roller
}

// AdapterConfig contains configuration for creating a new Adapter
type AdapterConfig struct {
	EventBus   events.EventBus
	DiceRoller dice.Roller
}

// Validate checks that all required dependencies are provided
func (c *AdapterConfig) Validate() error {
	if c.EventBus == nil {
		return errors.InvalidArgument("event bus is required")
	}
	if c.DiceRoller == nil {
		return errors.InvalidArgument("dice roller is required")
	}
	return nil
}

// NewAdapter creates a new rpg-toolkit engine adapter
func NewAdapter(cfg *AdapterConfig) (*Adapter, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Adapter{
		eventBus:   cfg.EventBus,
		diceRoller: cfg.DiceRoller,
	}, nil
}

// Verify that Adapter implements engine.Engine interface
var _ engine.Engine = (*Adapter)(nil)

// CalculateMaxHP derives max HP for a character
func (a *Adapter) CalculateMaxHP(
	_ context.Context,
	input *engine.CalculateMaxHPInput,
) (*engine.CalculateMaxHPOutput, error) {
	if input == nil || input.Character == nil {
		return nil, errors.InvalidArgument("character is required")
	}

	if input.ApplyFloor {
		return &engine.CalculateMaxHPOutput{MaxHP: engine.FlooredMaxHP(input.Character)}, nil
	}
	return &engine.CalculateMaxHPOutput{MaxHP: engine.MaxHP(input.Character)}, nil
}

// RollCheck rolls d20 plus base attribute, race bonus and item bonuses
func (a *Adapter) RollCheck(ctx context.Context, input *engine.RollCheckInput) (*engine.RollCheckOutput, error) {
	if input == nil || input.Subject == nil {
		return nil, errors.InvalidArgument("subject is required")
	}
	if !input.Attribute.IsValid() {
		return nil, errors.InvalidArgumentf("unknown attribute %q", input.Attribute)
	}

	roll, err := a.diceRoller.Roll(engine.CheckDie)
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll check")
	}

	raceBonus, itemBonus := engine.CheckBonuses(input.Subject, input.Attribute)
	out := &engine.RollCheckOutput{
		Roll:      roll,
		Base:      input.Subject.Attributes.Get(input.Attribute),
		RaceBonus: raceBonus,
		ItemBonus: itemBonus,
	}
	out.Total = out.Roll + out.Base + out.RaceBonus + out.ItemBonus

	a.publish(ctx, EventCheckRolled, input.Subject, nil, map[string]any{
		KeyAttribute: string(input.Attribute),
		KeyRoll:      out.Roll,
		KeyTotal:     out.Total,
	})

	return out, nil
}

// ResolveAttack rolls d10 plus weapon damage and the attacker's flat bonus,
// then mitigates with the defender's armor
func (a *Adapter) ResolveAttack(
	ctx context.Context,
	input *engine.ResolveAttackInput,
) (*engine.ResolveAttackOutput, error) {
	if input == nil || input.Attacker == nil || input.Defender == nil {
		return nil, errors.InvalidArgument("attacker and defender are required")
	}

	roll, err := a.diceRoller.Roll(engine.AttackDie)
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll damage")
	}

	out := &engine.ResolveAttackOutput{
		Roll:         roll,
		WeaponDamage: weaponDamage(input.Attacker),
		DamageBonus:  input.Attacker.DamageBonus,
		Armor:        armorValue(input.Defender),
		HPBefore:     input.Defender.HP,
	}
	out.Raw = out.Roll + out.WeaponDamage + out.DamageBonus
	out.Effective = engine.EffectiveDamage(out.Raw, out.Armor)
	out.HPAfter = engine.RemainingHP(out.HPBefore, out.Effective)
	out.Killed = out.HPAfter == 0

	a.publishDamage(ctx, input.Attacker, input.Defender, out.Raw, out.Armor, out.Effective, out.HPAfter)

	return out, nil
}

// ApplyDamage mitigates a fixed damage amount with the target's armor
func (a *Adapter) ApplyDamage(ctx context.Context, input *engine.ApplyDamageInput) (*engine.ApplyDamageOutput, error) {
	if input == nil || input.Target == nil {
		return nil, errors.InvalidArgument("target is required")
	}
	if input.Amount < 0 {
		return nil, errors.InvalidArgument("damage must not be negative")
	}

	out := &engine.ApplyDamageOutput{Armor: armorValue(input.Target)}
	out.Effective = engine.EffectiveDamage(input.Amount, out.Armor)
	out.HPAfter = engine.RemainingHP(input.Target.HP, out.Effective)
	out.Killed = out.HPAfter == 0

	a.publishDamage(ctx, nil, input.Target, input.Amount, out.Armor, out.Effective, out.HPAfter)

	return out, nil
}

// ApplyHeal adds HP up to the unfloored max, or restores the floored max
func (a *Adapter) ApplyHeal(_ context.Context, input *engine.ApplyHealInput) (*engine.ApplyHealOutput, error) {
	if input == nil || input.Character == nil {
		return nil, errors.InvalidArgument("character is required")
	}

	if input.ToFull {
		maxHP := engine.FlooredMaxHP(input.Character)
		return &engine.ApplyHealOutput{MaxHP: maxHP, HPAfter: maxHP}, nil
	}

	if input.Amount < 0 {
		return nil, errors.InvalidArgument("heal must not be negative")
	}

	maxHP := engine.MaxHP(input.Character)
	return &engine.ApplyHealOutput{
		MaxHP:   maxHP,
		HPAfter: engine.HealedHP(input.Character.HP, input.Amount, maxHP),
	}, nil
}

func (a *Adapter) publishDamage(ctx context.Context, attacker, defender *engine.Combatant, raw, armor, effective, hp int) {
	a.publish(ctx, EventDamageApplied, attacker, defender, map[string]any{
		KeyRaw:       raw,
		KeyArmor:     armor,
		KeyEffective: effective,
		KeyHP:        hp,
	})

	if hp == 0 && defender.Kind == engine.KindNPC {
		a.publish(ctx, EventNPCDefeated, attacker, defender, nil)
	}
}

// publish never fails the caller; the roll has already happened
func (a *Adapter) publish(ctx context.Context, eventType string, source, target *engine.Combatant, data map[string]any) {
	event := events.NewGameEvent(eventType, wrapCombatant(source), wrapCombatant(target))
	for key, value := range data {
		event.Context().Set(key, value)
	}

	if err := a.eventBus.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish event",
			"event", eventType,
			"error", err)
	}
}

func weaponDamage(c *engine.Combatant) int {
	if c.Weapon == nil {
		return 0
	}
	return c.Weapon.Damage
}

func armorValue(c *engine.Combatant) int {
	if c.Armor == nil {
		return 0
	}
	return c.Armor.Armor
}
