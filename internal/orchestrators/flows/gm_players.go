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
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/items"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/stores"
	"github.com/KirkDiggler/rpg-tabletop/internal/sessions"
)

// Game-master administration replies
const (
	MsgChoosePlayer  = "Choose a player:"
	MsgEnterDamage   = "Enter the damage amount:"
	MsgEnterHeal     = "Enter the heal amount:"
	MsgBadDamage     = "Enter a whole number of damage."
	MsgBadHeal       = "Enter a whole number of HP to heal."
	MsgNoActiveStore = "No active store selected."
	MsgEmptyStore    = "The store has no items."
	MsgChooseOffer   = "Choose an item to sell:"
	MsgChooseStore   = "Choose a store (the active one will switch):"
	MsgNoStores      = "No stores."
	MsgStoreSwitched = "Store switched."
	MsgStoreNotFound = "Store not found."
)

// StartPlayerAdmin lets the game master pick a player to manage
func (o *Orchestrator) StartPlayerAdmin(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	msg := input.Message

	if !o.gmDirect(msg) {
		return &Output{Handled: true}, nil
	}

	players, err := o.playerOptions(ctx)
	if err != nil {
		return nil, err
	}
	if len(players) == 0 {
		return o.done(ctx, msg, MsgNoPlayers)
	}

	next := sessions.GMChoosePlayer{Players: players}
	return o.prompt(ctx, msg, next, MsgChoosePlayer, menu.Choices(withCancel(sessions.Labels(players))))
}

// StartStoreSwitch lets the game master choose the active store
func (o *Orchestrator) StartStoreSwitch(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	msg := input.Message

	if !o.gmDirect(msg) {
		return &Output{Handled: true}, nil
	}

	all, err := o.stores.List(ctx, stores.ListInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list stores")
	}
	if len(all.Stores) == 0 {
		return o.done(ctx, msg, MsgNoStores)
	}

	options := make([]sessions.Option, 0, len(all.Stores))
	for _, s := range all.Stores {
		label := s.Name
		if s.Active {
			label += " (active)"
		}
		options = append(options, sessions.Option{Label: label, ID: s.ID})
	}

	next := sessions.GMChooseStore{Stores: options}
	return o.prompt(ctx, msg, next, MsgChooseStore,
		entities.NewKeyboard(withCancel(sessions.Labels(options)), 1, true))
}

func (o *Orchestrator) gmDirect(msg entities.Message) bool {
	return msg.ChatKind == entities.ChatDirect && o.menu.IsAdmin(msg.SenderID)
}

func (o *Orchestrator) gmChoosePlayer(ctx context.Context, msg entities.Message, st sessions.GMChoosePlayer) (*Output, error) {
	if msg.Input() == LabelCancel {
		return o.finish(ctx, msg, sessions.CategoryGameMaster, MsgCancelled)
	}

	player, ok := sessions.FindOption(st.Players, msg.Input())
	if !ok {
		return o.finish(ctx, msg, sessions.CategoryGameMaster, MsgInvalidPlayer)
	}

	next := sessions.GMChosenPlayer{TargetID: player.ID}
	return o.prompt(ctx, msg, next, fmt.Sprintf("%s: choose an action.", player.Label),
		menu.Choices([]string{LabelDamage, LabelTrade, LabelHeal, LabelHealth, LabelCancel}))
}

func (o *Orchestrator) gmPlayerAction(ctx context.Context, msg entities.Message, st sessions.GMChosenPlayer) (*Output, error) {
	cancelOnly := menu.Choices([]string{LabelCancel})

	switch msg.Input() {
	case LabelCancel:
		return o.finish(ctx, msg, sessions.CategoryGameMaster, MsgCancelled)
	case LabelDamage:
		return o.prompt(ctx, msg, sessions.GMInputDamage{TargetID: st.TargetID}, MsgEnterDamage, cancelOnly)
	case LabelHeal:
		return o.prompt(ctx, msg, sessions.GMInputHeal{TargetID: st.TargetID}, MsgEnterHeal, cancelOnly)
	case LabelHealth:
		return o.gmFullHeal(ctx, msg, st.TargetID)
	case LabelTrade:
		return o.gmOffer(ctx, msg, st.TargetID)
	default:
		return o.finish(ctx, msg, sessions.CategoryGameMaster, MsgInvalid)
	}
}

func (o *Orchestrator) gmFullHeal(ctx context.Context, msg entities.Message, targetID int64) (*Output, error) {
	if err := o.clear(ctx, msg.SenderID, sessions.CategoryGameMaster); err != nil {
		return nil, err
	}

	target, err := o.loadCharacter(ctx, targetID)
	if errors.IsNotFound(err) {
		return o.done(ctx, msg, MsgInvalidPlayer)
	}
	if err != nil {
		return nil, err
	}

	healed, err := o.engine.ApplyHeal(ctx, &engine.ApplyHealInput{Character: target, ToFull: true})
	if err != nil {
		return nil, errors.Wrap(err, "failed to heal")
	}

	target.HP = healed.HPAfter
	if err := o.saveTarget(ctx, target); err != nil {
		return nil, err
	}

	return o.done(ctx, msg, fmt.Sprintf("Player %s fully healed (%d HP).", target.Username, target.HP))
}

func (o *Orchestrator) gmOffer(ctx context.Context, msg entities.Message, targetID int64) (*Output, error) {
	active, err := o.stores.GetActive(ctx, stores.GetActiveInput{})
	if errors.IsNotFound(err) {
		return o.finish(ctx, msg, sessions.CategoryGameMaster, MsgNoActiveStore)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load active store")
	}

	goods, err := o.items.ListByStore(ctx, items.ListByStoreInput{StoreID: active.Store.ID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list store items")
	}
	if len(goods.Items) == 0 {
		return o.finish(ctx, msg, sessions.CategoryGameMaster, MsgEmptyStore)
	}

	offers := make([]sessions.Option, 0, len(goods.Items))
	for _, item := range goods.Items {
		offers = append(offers, sessions.Option{
			Label: fmt.Sprintf("%s (%dg)", item.Name, item.Cost),
			ID:    item.ID,
		})
	}

	next := sessions.GMTradeChoose{TargetID: targetID, Offers: offers}
	return o.prompt(ctx, msg, next, MsgChooseOffer, menu.Choices(withCancel(sessions.Labels(offers))))
}

func (o *Orchestrator) gmDamagePlayer(ctx context.Context, msg entities.Message, st sessions.GMInputDamage) (*Output, error) {
	if msg.Input() == LabelCancel {
		return o.finish(ctx, msg, sessions.CategoryGameMaster, MsgCancelled)
	}

	amount, ok := parseAmount(msg.Input())
	if !ok {
		return reply(MsgBadDamage, menu.Choices([]string{LabelCancel})), nil
	}

	if err := o.clear(ctx, msg.SenderID, sessions.CategoryGameMaster); err != nil {
		return nil, err
	}

	target, err := o.loadCharacter(ctx, st.TargetID)
	if errors.IsNotFound(err) {
		return o.done(ctx, msg, MsgInvalidPlayer)
	}
	if err != nil {
		return nil, err
	}
	armor, err := o.loadItem(ctx, target.ArmorID)
	if err != nil {
		return nil, err
	}

	result, err := o.engine.ApplyDamage(ctx, &engine.ApplyDamageInput{
		Target: engine.CharacterCombatant(target, nil, armor),
		Amount: amount,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to apply damage")
	}

	target.HP = result.HPAfter
	if err := o.saveTarget(ctx, target); err != nil {
		return nil, err
	}

	return o.done(ctx, msg, fmt.Sprintf("Player %s took %d damage (armor %d reduced it to %d). Current HP: %d",
		target.Username, amount, result.Armor, result.Effective, target.HP))
}

func (o *Orchestrator) gmHealPlayer(ctx context.Context, msg entities.Message, st sessions.GMInputHeal) (*Output, error) {
	if msg.Input() == LabelCancel {
		return o.finish(ctx, msg, sessions.CategoryGameMaster, MsgCancelled)
	}

	amount, ok := parseAmount(msg.Input())
	if !ok {
		return reply(MsgBadHeal, menu.Choices([]string{LabelCancel})), nil
	}

	if err := o.clear(ctx, msg.SenderID, sessions.CategoryGameMaster); err != nil {
		return nil, err
	}

	target, err := o.loadCharacter(ctx, st.TargetID)
	if errors.IsNotFound(err) {
		return o.done(ctx, msg, MsgInvalidPlayer)
	}
	if err != nil {
		return nil, err
	}

	healed, err := o.engine.ApplyHeal(ctx, &engine.ApplyHealInput{Character: target, Amount: amount})
	if err != nil {
		return nil, errors.Wrap(err, "failed to heal")
	}

	target.HP = healed.HPAfter
	if err := o.saveTarget(ctx, target); err != nil {
		return nil, err
	}

	return o.done(ctx, msg, fmt.Sprintf("Player %s recovered %d HP. Current HP: %d",
		target.Username, amount, target.HP))
}

func (o *Orchestrator) gmTrade(ctx context.Context, msg entities.Message, st sessions.GMTradeChoose) (*Output, error) {
	if msg.Input() == LabelCancel {
		return o.finish(ctx, msg, sessions.CategoryGameMaster, MsgCancelled)
	}

	offer, ok := sessions.FindOption(st.Offers, msg.Input())
	if !ok {
		return o.finish(ctx, msg, sessions.CategoryGameMaster, MsgInvalid)
	}

	if err := o.clear(ctx, msg.SenderID, sessions.CategoryGameMaster); err != nil {
		return nil, err
	}

	got, err := o.items.Get(ctx, items.GetInput{ID: offer.ID})
	if errors.IsNotFound(err) {
		return o.done(ctx, msg, MsgInvalid)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load item")
	}
	item := got.Item

	buyer, err := o.loadCharacter(ctx, st.TargetID)
	if errors.IsNotFound(err) {
		return o.done(ctx, msg, MsgInvalidPlayer)
	}
	if err != nil {
		return nil, err
	}

	if buyer.Gold < item.Cost {
		return o.done(ctx, msg, fmt.Sprintf("The player does not have enough gold (%dg). The item costs %dg.",
			buyer.Gold, item.Cost))
	}

	buyer.Gold -= item.Cost
	buyer.AddItem(item.ID)
	if err := o.saveTarget(ctx, buyer); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "item sold",
		"user_id", buyer.UserID,
		"item_id", item.ID,
		"cost", item.Cost,
		"gold", buyer.Gold)

	return o.done(ctx, msg, fmt.Sprintf("%s sold to %s. Gold left: %d", item.Name, buyer.Username, buyer.Gold))
}

func (o *Orchestrator) gmChooseStore(ctx context.Context, msg entities.Message, st sessions.GMChooseStore) (*Output, error) {
	if msg.Input() == LabelCancel {
		return o.finish(ctx, msg, sessions.CategoryGameMaster, MsgCancelled)
	}

	choice, ok := sessions.FindOption(st.Stores, msg.Input())
	if !ok {
		return o.finish(ctx, msg, sessions.CategoryGameMaster, MsgInvalid)
	}

	if err := o.clear(ctx, msg.SenderID, sessions.CategoryGameMaster); err != nil {
		return nil, err
	}

	_, err := o.stores.SetActive(ctx, stores.SetActiveInput{StoreID: choice.ID})
	if errors.IsNotFound(err) {
		return o.done(ctx, msg, MsgStoreNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to switch store")
	}

	slog.InfoContext(ctx, "active store switched", "store_id", choice.ID)

	return o.done(ctx, msg, MsgStoreSwitched)
}

func (o *Orchestrator) saveTarget(ctx context.Context, c *entities.Character) error {
	if _, err := o.characters.Upsert(ctx, characters.UpsertInput{Character: c}); err != nil {
		return errors.Wrap(err, "failed to save character")
	}
	return nil
}
