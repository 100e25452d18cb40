package flows

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/rpg-tabletop/internal/entities"
	"github.com/KirkDiggler/rpg-tabletop/internal/errors"
	"github.com/KirkDiggler/rpg-tabletop/internal/orchestrators/menu"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/characters"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/items"
	"github.com/KirkDiggler/rpg-tabletop/internal/rules"
	"github.com/KirkDiggler/rpg-tabletop/internal/sessions"
)

// Equip replies
const (
	MsgChooseSlot     = "What do you want to equip?"
	MsgUnknownSlot    = "Unknown equipment type. Cancelled."
	MsgEmptyInventory = "Your inventory is empty."
	MsgChooseItem     = "Choose an item:"
	MsgInvalidItem    = "Invalid choice. Cancelled."
)

// StartEquip asks which slot to fill. Group chats are ignored.
func (o *Orchestrator) StartEquip(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	msg := input.Message

	if msg.ChatKind != entities.ChatDirect {
		return &Output{Handled: true}, nil
	}

	_, err := o.loadCharacter(ctx, msg.SenderID)
	if errors.IsNotFound(err) {
		return o.done(ctx, msg, MsgNoCharacter)
	}
	if err != nil {
		return nil, err
	}

	return o.prompt(ctx, msg, sessions.EquipChooseType{}, MsgChooseSlot, menu.Choices([]string{LabelWeapon, LabelArmor}))
}

func (o *Orchestrator) chooseEquipType(ctx context.Context, msg entities.Message) (*Output, error) {
	slot, ok := rules.ParseEquipSlot(msg.Input())
	if !ok {
		return o.finish(ctx, msg, sessions.CategoryEquip, MsgUnknownSlot)
	}

	character, err := o.loadCharacter(ctx, msg.SenderID)
	if errors.IsNotFound(err) {
		return o.finish(ctx, msg, sessions.CategoryEquip, MsgNoCharacter)
	}
	if err != nil {
		return nil, err
	}

	if len(character.Inventory) == 0 {
		return o.finish(ctx, msg, sessions.CategoryEquip, MsgEmptyInventory)
	}

	held, err := o.items.ListByIDs(ctx, items.ListByIDsInput{IDs: character.Inventory, Type: slot})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list inventory")
	}
	if len(held.Items) == 0 {
		return o.finish(ctx, msg, sessions.CategoryEquip, fmt.Sprintf("You have no %s items.", slot))
	}

	candidates := make([]sessions.Option, 0, len(held.Items))
	for _, item := range held.Items {
		candidates = append(candidates, sessions.Option{Label: item.Name, ID: item.ID})
	}

	next := sessions.EquipChooseItem{Slot: slot, Candidates: candidates}
	return o.prompt(ctx, msg, next, MsgChooseItem, menu.Choices(sessions.Labels(candidates)))
}

func (o *Orchestrator) chooseEquipItem(ctx context.Context, msg entities.Message, st sessions.EquipChooseItem) (*Output, error) {
	choice, ok := sessions.FindOption(st.Candidates, msg.Input())
	if !ok {
		return o.finish(ctx, msg, sessions.CategoryEquip, MsgInvalidItem)
	}

	if err := o.clear(ctx, msg.SenderID, sessions.CategoryEquip); err != nil {
		return nil, err
	}

	character, err := o.loadCharacter(ctx, msg.SenderID)
	if errors.IsNotFound(err) {
		return o.done(ctx, msg, MsgNoCharacter)
	}
	if err != nil {
		return nil, err
	}

	// The inventory may have changed since the candidates were listed
	if !character.Equip(st.Slot, choice.ID) {
		return o.done(ctx, msg, fmt.Sprintf("You no longer have %s.", choice.Label))
	}

	if _, err := o.characters.Upsert(ctx, characters.UpsertInput{Character: character}); err != nil {
		return nil, errors.Wrap(err, "failed to save equipment")
	}

	slog.InfoContext(ctx, "item equipped",
		"user_id", character.UserID,
		"slot", st.Slot,
		"item_id", choice.ID)

	return o.done(ctx, msg, fmt.Sprintf("%s equipped.", choice.Label))
}
