// Package flows runs the multi-step chat conversations: character creation,
// equipment, player combat, game-master NPC combat, game-master player
// administration and the store switch. Each pending step is persisted in the
// session store so a flow survives between messages.
package flows

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/KirkDiggler/rpg-tabletop/internal/engine"
	"github.com/KirkDiggler/rpg-tabletop/internal/entities"
	"github.com/KirkDiggler/rpg-tabletop/internal/errors"
	"github.com/KirkDiggler/rpg-tabletop/internal/orchestrators/menu"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/characters"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/items"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/npcs"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/stores"
	"github.com/KirkDiggler/rpg-tabletop/internal/rules"
	"github.com/KirkDiggler/rpg-tabletop/internal/sessions"
)

// Flow button labels
const (
	LabelCancel = "Cancel"
	LabelDamage = "Damage"
	LabelHeal   = "Heal"
	LabelHealth = "Health"
	LabelTrade  = "Trade"
	LabelCheck  = "Check"
	LabelWeapon = "Weapon"
	LabelArmor  = "Armor"
)

// Shared replies
const (
	MsgNoCharacter = "Character not found. Create one: /create"
	MsgCancelled   = "Cancelled."
	MsgInvalid     = "Invalid choice."
)

// Config holds the dependencies for the flow orchestrator
type Config struct {
	Characters characters.Repository
	Items      items.Repository
	NPCs       npcs.Repository
	Stores     stores.Repository
	Sessions   sessions.Store
	Engine     engine.Engine
	Menu       *menu.Builder
	// StartGold is the purse of a newly created character
	StartGold int
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Characters == nil {
		vb.RequiredField("characters")
	}
	if c.Items == nil {
		vb.RequiredField("items")
	}
	if c.NPCs == nil {
		vb.RequiredField("npcs")
	}
	if c.Stores == nil {
		vb.RequiredField("stores")
	}
	if c.Sessions == nil {
		vb.RequiredField("sessions")
	}
	if c.Engine == nil {
		vb.RequiredField("engine")
	}
	if c.Menu == nil {
		vb.RequiredField("menu")
	}
	errors.ValidateNonNegative("start_gold", c.StartGold, vb)
	return vb.Build()
}

// Orchestrator drives every multi-step flow
type Orchestrator struct {
	characters characters.Repository
	items      items.Repository
	npcs       npcs.Repository
	stores     stores.Repository
	sessions   sessions.Store
	engine     engine.Engine
	menu       *menu.Builder
	startGold  int
}

// New creates a flow orchestrator
func New(cfg *Config) (*Orchestrator, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Orchestrator{
		characters: cfg.Characters,
		items:      cfg.Items,
		npcs:       cfg.NPCs,
		stores:     cfg.Stores,
		sessions:   cfg.Sessions,
		engine:     cfg.Engine,
		menu:       cfg.Menu,
		startGold:  cfg.StartGold,
	}, nil
}

// Input is one inbound message for a flow
type Input struct {
	Message entities.Message
}

// ResumeInput feeds a message to the pending session of one category
type ResumeInput struct {
	Message  entities.Message
	Category sessions.Category
}

// Output is the outcome of a flow step. Handled is false when no session of
// the requested category was pending.
type Output struct {
	Handled bool
	Replies []entities.Reply
}

// Resume advances the sender's pending session in the given category
func (o *Orchestrator) Resume(ctx context.Context, input *ResumeInput) (*Output, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	msg := input.Message

	got, err := o.sessions.Get(ctx, sessions.GetInput{UserID: msg.SenderID, Category: input.Category})
	if errors.IsNotFound(err) {
		return &Output{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load session")
	}

	slog.DebugContext(ctx, "resuming flow",
		"user_id", msg.SenderID,
		"category", input.Category,
		"step", got.Session.State.Step())

	switch st := got.Session.State.(type) {
	case sessions.CreationRace:
		return o.chooseRace(ctx, msg)
	case sessions.CreationClass:
		return o.chooseClass(ctx, msg, st)
	case sessions.CreationAllocate:
		return o.allocate(ctx, msg, st)
	case sessions.EquipChooseType:
		return o.chooseEquipType(ctx, msg)
	case sessions.EquipChooseItem:
		return o.chooseEquipItem(ctx, msg, st)
	case sessions.CombatChooseNPC:
		return o.attackNPC(ctx, msg, st)
	case sessions.GMCombatChooseNPC:
		return o.gmChooseNPC(ctx, msg, st)
	case sessions.GMCombatActions:
		return o.gmNPCAction(ctx, msg, st)
	case sessions.GMCombatChooseAttribute:
		return o.gmNPCCheck(ctx, msg, st)
	case sessions.GMCombatChoosePlayer:
		return o.gmNPCAttack(ctx, msg, st)
	case sessions.GMChoosePlayer:
		return o.gmChoosePlayer(ctx, msg, st)
	case sessions.GMChosenPlayer:
		return o.gmPlayerAction(ctx, msg, st)
	case sessions.GMInputDamage:
		return o.gmDamagePlayer(ctx, msg, st)
	case sessions.GMInputHeal:
		return o.gmHealPlayer(ctx, msg, st)
	case sessions.GMTradeChoose:
		return o.gmTrade(ctx, msg, st)
	case sessions.GMChooseStore:
		return o.gmChooseStore(ctx, msg, st)
	default:
		return nil, errors.Internalf("unhandled step %q", got.Session.State.Step())
	}
}

// prompt stores the next state and asks the user for input
func (o *Orchestrator) prompt(
	ctx context.Context,
	msg entities.Message,
	next sessions.State,
	text string,
	kb *entities.Keyboard,
) (*Output, error) {
	if _, err := o.sessions.Put(ctx, sessions.PutInput{UserID: msg.SenderID, State: next}); err != nil {
		return nil, errors.Wrapf(err, "failed to store %s step", next.Step())
	}
	return reply(text, kb), nil
}

// clear discards the pending session of a category
func (o *Orchestrator) clear(ctx context.Context, userID int64, category sessions.Category) error {
	if _, err := o.sessions.Delete(ctx, sessions.DeleteInput{UserID: userID, Category: category}); err != nil {
		return errors.Wrapf(err, "failed to clear %s session", category)
	}
	return nil
}

// done replies with text and the sender's main menu
func (o *Orchestrator) done(ctx context.Context, msg entities.Message, text string) (*Output, error) {
	r, err := o.menu.Reply(ctx, msg, text)
	if err != nil {
		return nil, err
	}
	return &Output{Handled: true, Replies: []entities.Reply{r}}, nil
}

// finish clears the session and ends the flow with text
func (o *Orchestrator) finish(
	ctx context.Context,
	msg entities.Message,
	category sessions.Category,
	text string,
) (*Output, error) {
	if err := o.clear(ctx, msg.SenderID, category); err != nil {
		return nil, err
	}
	return o.done(ctx, msg, text)
}

func reply(text string, kb *entities.Keyboard) *Output {
	return &Output{Handled: true, Replies: []entities.Reply{{Text: text, Keyboard: kb}}}
}

// loadCharacter passes NotFound through so callers can reply
func (o *Orchestrator) loadCharacter(ctx context.Context, userID int64) (*entities.Character, error) {
	out, err := o.characters.Get(ctx, characters.GetInput{UserID: userID})
	if err != nil {
		return nil, err
	}
	return out.Character, nil
}

// loadItem resolves an optional slot. Unknown ids count as unequipped.
func (o *Orchestrator) loadItem(ctx context.Context, id *int64) (*entities.Item, error) {
	if id == nil {
		return nil, nil
	}
	out, err := o.items.Get(ctx, items.GetInput{ID: *id})
	if errors.IsNotFound(err) {
		slog.WarnContext(ctx, "equipped item missing from catalog", "item_id", *id)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return out.Item, nil
}

// playerOptions labels every character as "username (id)"
func (o *Orchestrator) playerOptions(ctx context.Context) ([]sessions.Option, error) {
	out, err := o.characters.List(ctx, characters.ListInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list characters")
	}

	options := make([]sessions.Option, 0, len(out.Characters))
	for _, c := range out.Characters {
		options = append(options, sessions.Option{
			Label: fmt.Sprintf("%s (%d)", c.Username, c.UserID),
			ID:    c.UserID,
		})
	}
	return options, nil
}

// npcOptions labels the NPCs in combat by name, suffixing duplicates with
// their id so every label stays unique
func (o *Orchestrator) npcOptions(ctx context.Context) ([]sessions.Option, error) {
	out, err := o.npcs.List(ctx, npcs.ListInput{InCombatOnly: true})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list npcs")
	}

	seen := make(map[string]bool, len(out.NPCs))
	options := make([]sessions.Option, 0, len(out.NPCs))
	for _, n := range out.NPCs {
		label := n.Name
		for seen[label] {
			label = fmt.Sprintf("%s #%d", label, n.ID)
		}
		seen[label] = true
		options = append(options, sessions.Option{Label: label, ID: n.ID})
	}
	return options, nil
}

func withCancel(labels []string) []string {
	return append(labels, LabelCancel)
}

// parseAmount accepts a non-negative whole number
func parseAmount(input string) (int, bool) {
	n, err := strconv.Atoi(input)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func attributeKeyboard() *entities.Keyboard {
	return entities.NewKeyboard(withCancel(rules.AttributeNames()), 3, true)
}
