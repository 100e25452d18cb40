package flows

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/rpg-tabletop/internal/engine"
	"github.com/KirkDiggler/rpg-tabletop/internal/entities"
	"github.com/KirkDiggler/rpg-tabletop/internal/errors"
	"github.com/KirkDiggler/rpg-tabletop/internal/orchestrators/menu"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/characters"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/npcs"
	"github.com/KirkDiggler/rpg-tabletop/internal/rules"
	"github.com/KirkDiggler/rpg-tabletop/internal/sessions"
)

// Game-master combat replies
const (
	MsgNoMobs          = "No mobs."
	MsgChooseMob       = "Choose a mob:"
	MsgChooseAttribute = "Choose an attribute:"
	MsgChooseVictim    = "Choose a player to attack:"
	MsgNoPlayers       = "No players yet."
	MsgInvalidPlayer   = "Invalid player."
	MsgMobNotFound     = "Mob not found."
)

// StartGMCombat lets the game master act for an NPC in combat
func (o *Orchestrator) StartGMCombat(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	msg := input.Message

	if !o.menu.IsAdmin(msg.SenderID) {
		return &Output{Handled: true}, nil
	}

	targets, err := o.npcOptions(ctx)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return o.done(ctx, msg, MsgNoMobs)
	}

	next := sessions.GMCombatChooseNPC{Targets: targets}
	return o.prompt(ctx, msg, next, MsgChooseMob, menu.Choices(withCancel(sessions.Labels(targets))))
}

func (o *Orchestrator) gmChooseNPC(ctx context.Context, msg entities.Message, st sessions.GMCombatChooseNPC) (*Output, error) {
	if msg.Input() == LabelCancel {
		return o.finish(ctx, msg, sessions.CategoryGMCombat, MsgCancelled)
	}

	target, ok := sessions.FindOption(st.Targets, msg.Input())
	if !ok {
		return o.finish(ctx, msg, sessions.CategoryGMCombat, MsgInvalid)
	}

	next := sessions.GMCombatActions{NPCID: target.ID}
	return o.prompt(ctx, msg, next, fmt.Sprintf("%s: choose an action.", target.Label),
		menu.Choices([]string{LabelCheck, LabelDamage, LabelCancel}))
}

func (o *Orchestrator) gmNPCAction(ctx context.Context, msg entities.Message, st sessions.GMCombatActions) (*Output, error) {
	switch msg.Input() {
	case LabelCancel:
		return o.finish(ctx, msg, sessions.CategoryGMCombat, MsgCancelled)

	case LabelCheck:
		next := sessions.GMCombatChooseAttribute{NPCID: st.NPCID}
		return o.prompt(ctx, msg, next, MsgChooseAttribute, attributeKeyboard())

	case LabelDamage:
		players, err := o.playerOptions(ctx)
		if err != nil {
			return nil, err
		}
		if len(players) == 0 {
			return o.finish(ctx, msg, sessions.CategoryGMCombat, MsgNoPlayers)
		}
		next := sessions.GMCombatChoosePlayer{NPCID: st.NPCID, Players: players}
		return o.prompt(ctx, msg, next, MsgChooseVictim, menu.Choices(withCancel(sessions.Labels(players))))

	default:
		return o.finish(ctx, msg, sessions.CategoryGMCombat, MsgInvalid)
	}
}

func (o *Orchestrator) gmNPCCheck(ctx context.Context, msg entities.Message, st sessions.GMCombatChooseAttribute) (*Output, error) {
	if msg.Input() == LabelCancel {
		return o.finish(ctx, msg, sessions.CategoryGMCombat, MsgCancelled)
	}

	attr, ok := rules.ParseAttribute(msg.Input())
	if !ok {
		return o.finish(ctx, msg, sessions.CategoryGMCombat, MsgInvalid)
	}

	if err := o.clear(ctx, msg.SenderID, sessions.CategoryGMCombat); err != nil {
		return nil, err
	}

	npc, weapon, armor, err := o.loadNPC(ctx, st.NPCID)
	if errors.IsNotFound(err) {
		return o.done(ctx, msg, MsgMobNotFound)
	}
	if err != nil {
		return nil, err
	}

	result, err := o.engine.RollCheck(ctx, &engine.RollCheckInput{
		Subject:   engine.NPCCombatant(npc, weapon, armor),
		Attribute: attr,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll check")
	}

	return o.done(ctx, msg, fmt.Sprintf("NPC %s d20: %d\nAttribute %s: %d\nTotal: %d",
		npc.Name, result.Roll, attr, result.Base, result.Total))
}

func (o *Orchestrator) gmNPCAttack(ctx context.Context, msg entities.Message, st sessions.GMCombatChoosePlayer) (*Output, error) {
	if msg.Input() == LabelCancel {
		return o.finish(ctx, msg, sessions.CategoryGMCombat, MsgCancelled)
	}

	victim, ok := sessions.FindOption(st.Players, msg.Input())
	if !ok {
		return o.finish(ctx, msg, sessions.CategoryGMCombat, MsgInvalidPlayer)
	}

	if err := o.clear(ctx, msg.SenderID, sessions.CategoryGMCombat); err != nil {
		return nil, err
	}

	npc, weapon, _, err := o.loadNPC(ctx, st.NPCID)
	if errors.IsNotFound(err) {
		return o.done(ctx, msg, MsgMobNotFound)
	}
	if err != nil {
		return nil, err
	}

	character, err := o.loadCharacter(ctx, victim.ID)
	if errors.IsNotFound(err) {
		return o.done(ctx, msg, MsgInvalidPlayer)
	}
	if err != nil {
		return nil, err
	}
	armor, err := o.loadItem(ctx, character.ArmorID)
	if err != nil {
		return nil, err
	}

	result, err := o.engine.ResolveAttack(ctx, &engine.ResolveAttackInput{
		Attacker: engine.NPCCombatant(npc, weapon, nil),
		Defender: engine.CharacterCombatant(character, nil, armor),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve attack")
	}

	character.HP = result.HPAfter
	if _, err := o.characters.Upsert(ctx, characters.UpsertInput{Character: character}); err != nil {
		return nil, errors.Wrap(err, "failed to save character")
	}

	slog.InfoContext(ctx, "npc attacked player",
		"npc_id", npc.ID,
		"user_id", character.UserID,
		"raw", result.Raw,
		"effective", result.Effective,
		"hp", result.HPAfter)

	return o.done(ctx, msg, fmt.Sprintf(
		"NPC %s attacked %s: d10 %d -> raw damage %d. Target armor %d -> effective damage %d. Target HP: %d",
		npc.Name, character.Username, result.Roll, result.Raw, result.Armor, result.Effective, result.HPAfter))
}

// loadNPC returns the NPC with its resolved weapon and armor
func (o *Orchestrator) loadNPC(ctx context.Context, id int64) (*entities.NPC, *entities.Item, *entities.Item, error) {
	got, err := o.npcs.Get(ctx, npcs.GetInput{ID: id})
	if err != nil {
		return nil, nil, nil, err
	}

	weapon, err := o.loadItem(ctx, got.NPC.WeaponID)
	if err != nil {
		return nil, nil, nil, err
	}
	armor, err := o.loadItem(ctx, got.NPC.ArmorID)
	if err != nil {
		return nil, nil, nil, err
	}
	return got.NPC, weapon, armor, nil
}
