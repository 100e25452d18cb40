package flows

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/rpg-tabletop/internal/engine"
	"github.com/KirkDiggler/rpg-tabletop/internal/entities"
	"github.com/KirkDiggler/rpg-tabletop/internal/errors"
	"github.com/KirkDiggler/rpg-tabletop/internal/orchestrators/menu"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/npcs"
	"github.com/KirkDiggler/rpg-tabletop/internal/sessions"
)

// Player combat replies
const (
	MsgNoMobsInCombat = "No mobs are in combat right now."
	MsgChooseTarget   = "Choose a mob to attack:"
	MsgMobGone        = "That mob is no longer in combat."
)

// StartAttack lists the NPCs in combat for the sender to attack
func (o *Orchestrator) StartAttack(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	msg := input.Message

	_, err := o.loadCharacter(ctx, msg.SenderID)
	if errors.IsNotFound(err) {
		return o.done(ctx, msg, MsgNoCharacter)
	}
	if err != nil {
		return nil, err
	}

	targets, err := o.npcOptions(ctx)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return o.done(ctx, msg, MsgNoMobsInCombat)
	}

	next := sessions.CombatChooseNPC{Targets: targets}
	return o.prompt(ctx, msg, next, MsgChooseTarget, menu.Choices(sessions.Labels(targets)))
}

func (o *Orchestrator) attackNPC(ctx context.Context, msg entities.Message, st sessions.CombatChooseNPC) (*Output, error) {
	if err := o.clear(ctx, msg.SenderID, sessions.CategoryCombat); err != nil {
		return nil, err
	}

	target, ok := sessions.FindOption(st.Targets, msg.Input())
	if !ok {
		return o.done(ctx, msg, MsgInvalid)
	}

	got, err := o.npcs.Get(ctx, npcs.GetInput{ID: target.ID})
	if errors.IsNotFound(err) {
		return o.done(ctx, msg, MsgMobGone)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load npc")
	}
	npc := got.NPC
	if !npc.InCombat {
		return o.done(ctx, msg, MsgMobGone)
	}

	character, err := o.loadCharacter(ctx, msg.SenderID)
	if errors.IsNotFound(err) {
		return o.done(ctx, msg, MsgNoCharacter)
	}
	if err != nil {
		return nil, err
	}

	weapon, err := o.loadItem(ctx, character.WeaponID)
	if err != nil {
		return nil, err
	}
	armor, err := o.loadItem(ctx, npc.ArmorID)
	if err != nil {
		return nil, err
	}

	result, err := o.engine.ResolveAttack(ctx, &engine.ResolveAttackInput{
		Attacker: engine.CharacterCombatant(character, weapon, nil),
		Defender: engine.NPCCombatant(npc, nil, armor),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve attack")
	}

	npc.HP = result.HPAfter
	if result.Killed {
		npc.InCombat = false
	}
	if _, err := o.npcs.Update(ctx, npcs.UpdateInput{NPC: npc}); err != nil {
		return nil, errors.Wrap(err, "failed to save npc")
	}

	slog.InfoContext(ctx, "player attacked npc",
		"user_id", character.UserID,
		"npc_id", npc.ID,
		"raw", result.Raw,
		"effective", result.Effective,
		"hp", result.HPAfter)

	text := fmt.Sprintf("d10: %d + weapon %d = %d\nMob armor: %d -> effective damage %d. HP left: %d",
		result.Roll, result.WeaponDamage, result.Raw, result.Armor, result.Effective, result.HPAfter)
	if result.Killed {
		text += fmt.Sprintf("\n%s has fallen.", npc.Name)
	}
	return o.done(ctx, msg, text)
}
