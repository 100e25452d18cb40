// Package commands implements the one-shot chat commands that need no
// session: greeting, character sheet, shop listing, the admin roster, the
// shop display toggle and group attribute checks.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KirkDiggler/rpg-tabletop/internal/engine"
	"github.com/KirkDiggler/rpg-tabletop/internal/entities"
	"github.com/KirkDiggler/rpg-tabletop/internal/errors"
	"github.com/KirkDiggler/rpg-tabletop/internal/orchestrators/menu"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/characters"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/flags"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/items"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/stores"
	"github.com/KirkDiggler/rpg-tabletop/internal/rules"
)

// Command replies
const (
	MsgGreetingDirect   = "Hi! Tabletop bot.\nCreate a character: /create\nShow character: /show\nEquipment: /equip"
	MsgGreetingGroup    = "Hi! Tabletop bot.\nShow character: /show\nGoods: /shop\nAttack: /attack"
	MsgNoCharacter      = "Character not found. Create one: /create"
	MsgNoCharacterGroup = "Character not found. Create one in a direct chat: /create"
	MsgShopClosed       = "The shop is closed right now."
	MsgShopInactive     = "The shop is not active. Ask the game master."
	MsgNotAllowed       = "You do not have permission to run this command."
	MsgNoCharacters     = "No characters."
	MsgChooseAttribute  = "Choose an attribute to check:"
	MsgShopShown        = "Shop display enabled."
	MsgShopHidden       = "Shop display disabled."
)

// ListChunkSize caps the lines of one /list reply
const ListChunkSize = 40

// Config holds the dependencies for the command set
type Config struct {
	Characters characters.Repository
	Items      items.Repository
	Stores     stores.Repository
	Flags      flags.Repository
	Engine     engine.Engine
	Menu       *menu.Builder
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
	if c.Stores == nil {
		vb.RequiredField("stores")
	}
	if c.Flags == nil {
		vb.RequiredField("flags")
	}
	if c.Engine == nil {
		vb.RequiredField("engine")
	}
	if c.Menu == nil {
		vb.RequiredField("menu")
	}
	return vb.Build()
}

// Commands runs the stateless commands
type Commands struct {
	characters characters.Repository
	items      items.Repository
	stores     stores.Repository
	flags      flags.Repository
	engine     engine.Engine
	menu       *menu.Builder
}

// New creates the command set
func New(cfg *Config) (*Commands, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Commands{
		characters: cfg.Characters,
		items:      cfg.Items,
		stores:     cfg.Stores,
		flags:      cfg.Flags,
		engine:     cfg.Engine,
		menu:       cfg.Menu,
	}, nil
}

// Input is the message that triggered a command
type Input struct {
	Message entities.Message
}

// Output contains the replies to send, in order
type Output struct {
	Replies []entities.Reply
}

// Start greets the user with help for the chat kind
func (c *Commands) Start(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	text := MsgGreetingGroup
	if input.Message.ChatKind == entities.ChatDirect {
		text = MsgGreetingDirect
	}
	return c.say(ctx, input.Message, text)
}

// ShowCharacter renders the sender's character sheet
func (c *Commands) ShowCharacter(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	msg := input.Message

	got, err := c.characters.Get(ctx, characters.GetInput{UserID: msg.SenderID})
	if errors.IsNotFound(err) {
		return c.say(ctx, msg, MsgNoCharacter)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load character")
	}

	view, err := c.resolveView(ctx, got.Character)
	if err != nil {
		return nil, err
	}

	return c.say(ctx, msg, characterSheet(view))
}

func characterSheet(v *EquippedView) string {
	ch := v.Character

	var b strings.Builder
	fmt.Fprintf(&b, "Character @%s (id %d)\n", ch.Username, ch.UserID)
	fmt.Fprintf(&b, "Race: %s, Class: %s\n", ch.Race, ch.Class)
	b.WriteString("Attributes (without race bonuses):\n")
	for _, a := range rules.Attributes {
		if bonus := ch.Race.Bonus(a); bonus != 0 {
			fmt.Fprintf(&b, "  %s: %d (%+d)\n", a, ch.Attributes.Get(a), bonus)
			continue
		}
		fmt.Fprintf(&b, "  %s: %d\n", a, ch.Attributes.Get(a))
	}
	fmt.Fprintf(&b, "HP: %d\n", ch.HP)
	fmt.Fprintf(&b, "Gold: %d\n", ch.Gold)

	var equipped []string
	if v.Weapon != nil {
		equipped = append(equipped, fmt.Sprintf("Weapon - %s (%d damage)", v.Weapon.Name, v.WeaponDamage()))
	}
	if v.Armor != nil {
		equipped = append(equipped, fmt.Sprintf("Armor - %s (%d armor)", v.Armor.Name, v.ArmorValue()))
	}
	if len(equipped) == 0 {
		b.WriteString("Equipped: nothing\n")
	} else {
		b.WriteString("Equipped: " + strings.Join(equipped, ", ") + "\n")
	}

	if len(v.InventoryNames) == 0 {
		b.WriteString("Inventory: -")
	} else {
		b.WriteString("Inventory: " + strings.Join(v.InventoryNames, ", "))
	}
	return b.String()
}

// ListShop shows the goods of the active store when the shop is enabled
func (c *Commands) ListShop(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	msg := input.Message

	enabled, err := c.menu.ShopEnabled(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read shop flag")
	}
	if !enabled {
		return c.say(ctx, msg, MsgShopClosed)
	}

	active, err := c.stores.GetActive(ctx, stores.GetActiveInput{})
	if errors.IsNotFound(err) {
		return c.say(ctx, msg, MsgShopInactive)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load active store")
	}

	goods, err := c.items.ListByStore(ctx, items.ListByStoreInput{StoreID: active.Store.ID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list store items")
	}

	var weapons, wearables []string
	for _, item := range goods.Items {
		switch item.Type {
		case rules.ItemTypeWeapon:
			weapons = append(weapons, "• "+item.Name)
		case rules.ItemTypeArmor, rules.ItemTypeAccessory:
			wearables = append(wearables, "• "+item.Name)
		}
	}

	lines := []string{fmt.Sprintf("Shop: %s\n", active.Store.Name)}
	if len(weapons) > 0 {
		lines = append(lines, "Weapons:")
		lines = append(lines, weapons...)
	}
	if len(wearables) > 0 {
		lines = append(lines, "\nArmor/Accessories:")
		lines = append(lines, wearables...)
	}

	return c.say(ctx, msg, strings.Join(lines, "\n"))
}

// ListCharacters is the admin roster, split into chunks of ListChunkSize lines
func (c *Commands) ListCharacters(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	msg := input.Message

	if !c.menu.IsAdmin(msg.SenderID) {
		return c.say(ctx, msg, MsgNotAllowed)
	}

	all, err := c.characters.List(ctx, characters.ListInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list characters")
	}
	if len(all.Characters) == 0 {
		return c.say(ctx, msg, MsgNoCharacters)
	}

	lines := make([]string, 0, len(all.Characters))
	for _, ch := range all.Characters {
		view, err := c.resolveView(ctx, ch)
		if err != nil {
			return nil, err
		}
		lines = append(lines, fmt.Sprintf("@%s: %s / %s - weapon damage: %d, armor: %d",
			ch.Username, ch.Race, ch.Class, view.WeaponDamage(), view.ArmorValue()))
	}

	out := &Output{}
	for start := 0; start < len(lines); start += ListChunkSize {
		end := min(start+ListChunkSize, len(lines))
		r, err := c.menu.Reply(ctx, msg, strings.Join(lines[start:end], "\n"))
		if err != nil {
			return nil, err
		}
		out.Replies = append(out.Replies, r)
	}
	return out, nil
}

// ToggleShop flips the shop display flag. Admin only, direct chat only.
func (c *Commands) ToggleShop(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	msg := input.Message

	if msg.ChatKind != entities.ChatDirect || !c.menu.IsAdmin(msg.SenderID) {
		return &Output{}, nil
	}

	enabled, err := c.menu.ShopEnabled(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read shop flag")
	}

	value := 1
	if enabled {
		value = 0
	}
	if _, err := c.flags.Set(ctx, flags.SetInput{Name: rules.ShopEnabledFlag, Value: value}); err != nil {
		return nil, errors.Wrap(err, "failed to toggle shop")
	}

	slog.InfoContext(ctx, "shop display toggled", "enabled", value == 1)

	if value == 1 {
		return c.say(ctx, msg, MsgShopShown)
	}
	return c.say(ctx, msg, MsgShopHidden)
}

// CheckMenu offers the attributes for a group check
func (c *Commands) CheckMenu(_ context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Message.ChatKind != entities.ChatGroup {
		return &Output{}, nil
	}

	kb := entities.NewKeyboard(rules.AttributeNames(), 3, true)
	return &Output{Replies: []entities.Reply{{Text: MsgChooseAttribute, Keyboard: kb}}}, nil
}

// RollCheckInput is a group check for one attribute
type RollCheckInput struct {
	Message   entities.Message
	Attribute rules.Attribute
}

// RollCheck rolls a d20 check for the sender's character
func (c *Commands) RollCheck(ctx context.Context, input *RollCheckInput) (*Output, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	msg := input.Message

	got, err := c.characters.Get(ctx, characters.GetInput{UserID: msg.SenderID})
	if errors.IsNotFound(err) {
		return c.say(ctx, msg, MsgNoCharacterGroup)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load character")
	}

	view, err := c.resolveView(ctx, got.Character)
	if err != nil {
		return nil, err
	}

	result, err := c.engine.RollCheck(ctx, &engine.RollCheckInput{
		Subject:   engine.CharacterCombatant(got.Character, view.Weapon, view.Armor),
		Attribute: input.Attribute,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll check")
	}

	name := msg.DisplayName
	if name == "" {
		name = got.Character.Username
	}

	return c.say(ctx, msg, fmt.Sprintf("%s d20: %d\nAttribute %s: %d (bonus %+d)\nTotal: %d",
		name, result.Roll, input.Attribute, result.Base, result.RaceBonus, result.Total))
}

func (c *Commands) say(ctx context.Context, msg entities.Message, text string) (*Output, error) {
	r, err := c.menu.Reply(ctx, msg, text)
	if err != nil {
		return nil, err
	}
	return &Output{Replies: []entities.Reply{r}}, nil
}
