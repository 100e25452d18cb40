package flows

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-tabletop/internal/engine"
	"github.com/KirkDiggler/rpg-tabletop/internal/entities"
	"github.com/KirkDiggler/rpg-tabletop/internal/errors"
	"github.com/KirkDiggler/rpg-tabletop/internal/orchestrators/menu"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/characters"
	"github.com/KirkDiggler/rpg-tabletop/internal/rules"
	"github.com/KirkDiggler/rpg-tabletop/internal/sessions"
)

// Creation replies
const (
	MsgCreateInDirect = "Create your character in a direct chat."
	MsgChooseRace     = "Choose your race:"
	MsgUnknownRace    = "Unknown race. Choose again."
	MsgChooseClass    = "Choose your class:"
	MsgUnknownClass   = "Unknown class. Choose one of the buttons."
	MsgSaved          = "Character saved."
)

// StartCreation begins (or restarts) character creation. A character that
// already exists is replaced once the flow completes.
func (o *Orchestrator) StartCreation(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	msg := input.Message

	if msg.ChatKind != entities.ChatDirect {
		return reply(MsgCreateInDirect, nil), nil
	}

	return o.prompt(ctx, msg, sessions.CreationRace{}, MsgChooseRace, raceKeyboard())
}

func (o *Orchestrator) chooseRace(ctx context.Context, msg entities.Message) (*Output, error) {
	race, ok := rules.ParseRace(msg.Input())
	if !ok {
		return reply(MsgUnknownRace, raceKeyboard()), nil
	}

	return o.prompt(ctx, msg, sessions.CreationClass{Race: race}, MsgChooseClass, classKeyboard())
}

func (o *Orchestrator) chooseClass(ctx context.Context, msg entities.Message, st sessions.CreationClass) (*Output, error) {
	class, ok := rules.ParseClass(msg.Input())
	if !ok {
		return reply(MsgUnknownClass, classKeyboard()), nil
	}

	next := sessions.CreationAllocate{
		Race:      st.Race,
		Class:     class,
		Remaining: rules.AllocationPoints,
	}
	text := fmt.Sprintf("You have %d points to spread over %s.\n%s",
		rules.AllocationPoints,
		strings.Join(rules.AttributeNames(), ", "),
		allocationPrompt(next))
	return o.prompt(ctx, msg, next, text, menu.Numbers(next.Remaining))
}

func (o *Orchestrator) allocate(ctx context.Context, msg entities.Message, st sessions.CreationAllocate) (*Output, error) {
	if st.Index < 0 || st.Index >= len(rules.Attributes) || len(st.Allocations) != st.Index {
		return nil, errors.Internalf("corrupt allocation step at index %d", st.Index)
	}
	current := rules.Attributes[st.Index]

	points, err := strconv.Atoi(msg.Input())
	if err != nil {
		return reply(fmt.Sprintf("Pick a number with the buttons. How many into %s?", current),
			menu.Numbers(st.Remaining)), nil
	}
	if points < 0 || points > st.Remaining {
		return reply(fmt.Sprintf("Invalid. Choose 0..%d for %s.", st.Remaining, current),
			menu.Numbers(st.Remaining)), nil
	}

	next := st
	next.Allocations = append(append([]int(nil), st.Allocations...), points)
	next.Remaining -= points
	next.Index++

	if next.Index < len(rules.Attributes) {
		return o.prompt(ctx, msg, next, allocationPrompt(next), menu.Numbers(next.Remaining))
	}

	if next.Remaining > 0 {
		restart := sessions.CreationAllocate{
			Race:      st.Race,
			Class:     st.Class,
			Remaining: rules.AllocationPoints,
		}
		text := fmt.Sprintf("You did not spend all points (%d left). Starting over. How many into %s?",
			next.Remaining, rules.Attributes[0])
		return o.prompt(ctx, msg, restart, text, menu.Numbers(restart.Remaining))
	}

	return o.saveCharacter(ctx, msg, next)
}

func (o *Orchestrator) saveCharacter(
	ctx context.Context,
	msg entities.Message,
	st sessions.CreationAllocate,
) (*Output, error) {
	if err := o.clear(ctx, msg.SenderID, sessions.CategoryCreation); err != nil {
		return nil, err
	}

	attributes := rules.NewAttributeSet()
	for i, a := range rules.Attributes {
		attributes[a] = st.Allocations[i]
	}

	username := strings.TrimSpace(msg.DisplayName)
	if username == "" {
		username = strconv.FormatInt(msg.SenderID, 10)
	}

	character := &entities.Character{
		UserID:     msg.SenderID,
		Username:   username,
		Race:       st.Race,
		Class:      st.Class,
		Attributes: attributes,
		Inventory:  rules.StarterInventory(),
		Gold:       o.startGold,
	}

	hp, err := o.engine.CalculateMaxHP(ctx, &engine.CalculateMaxHPInput{Character: character, ApplyFloor: true})
	if err != nil {
		return nil, errors.Wrap(err, "failed to calculate max hp")
	}
	character.HP = hp.MaxHP

	if _, err := o.characters.Upsert(ctx, characters.UpsertInput{Character: character}); err != nil {
		return nil, errors.Wrap(err, "failed to save character")
	}

	slog.InfoContext(ctx, "character created",
		"user_id", character.UserID,
		"race", character.Race,
		"class", character.Class,
		"hp", character.HP)

	return o.done(ctx, msg, MsgSaved)
}

func allocationPrompt(st sessions.CreationAllocate) string {
	return fmt.Sprintf("%d points left. How many into %s?", st.Remaining, rules.Attributes[st.Index])
}

func raceKeyboard() *entities.Keyboard {
	labels, _ := rules.RaceLabels()
	return entities.NewKeyboard(labels, 1, true)
}

func classKeyboard() *entities.Keyboard {
	return menu.Choices(rules.ClassNames())
}
