// Package chat is the transport-neutral entry point: it routes every inbound
// message to a command, a pending session or a menu button.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/KirkDiggler/rpg-tabletop/internal/entities"
	"github.com/KirkDiggler/rpg-tabletop/internal/errors"
	"github.com/KirkDiggler/rpg-tabletop/internal/orchestrators/commands"
	"github.com/KirkDiggler/rpg-tabletop/internal/orchestrators/flows"
	"github.com/KirkDiggler/rpg-tabletop/internal/orchestrators/menu"
	"github.com/KirkDiggler/rpg-tabletop/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-tabletop/internal/rules"
	"github.com/KirkDiggler/rpg-tabletop/internal/sessions"
)

// MsgInternalError is the only reply a user sees for an unexpected failure
const MsgInternalError = "Internal error. Check the logs."

// Command tokens, without the leading slash
const (
	CommandStart  = "start"
	CommandCreate = "create"
	CommandShow   = "show"
	CommandShop   = "shop"
	CommandEquip  = "equip"
	CommandAttack = "attack"
	CommandList   = "list"
)

// HandlerConfig holds dependencies for the handler
type HandlerConfig struct {
	Flows    *flows.Orchestrator
	Commands *commands.Commands
	Menu     *menu.Builder
	// IDs generates the turn id attached to every log line of one message
	IDs idgen.Generator
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Flows == nil {
		vb.RequiredField("flows")
	}
	if c.Commands == nil {
		vb.RequiredField("commands")
	}
	if c.Menu == nil {
		vb.RequiredField("menu")
	}
	if c.IDs == nil {
		vb.RequiredField("ids")
	}
	return vb.Build()
}

// Handler dispatches chat messages
type Handler struct {
	flows    *flows.Orchestrator
	commands *commands.Commands
	menu     *menu.Builder
	ids      idgen.Generator
}

// NewHandler creates a new handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Handler{
		flows:    cfg.Flows,
		commands: cfg.Commands,
		menu:     cfg.Menu,
		ids:      cfg.IDs,
	}, nil
}

// Handle processes one message and returns the replies to send, in order.
// It never panics and never returns an error: failures are logged and turned
// into a single generic reply.
func (h *Handler) Handle(ctx context.Context, msg entities.Message) (replies []entities.Reply) {
	turnID := h.ids.Generate()
	logger := slog.With("turn_id", turnID, "user_id", msg.SenderID, "chat", msg.ChatKind)

	defer func() {
		if r := recover(); r != nil {
			logger.ErrorContext(ctx, "panic while handling message",
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()))
			replies = []entities.Reply{{Text: MsgInternalError}}
		}
	}()

	logger.InfoContext(ctx, "message received", "command", msg.Command, "text", msg.Input())

	replies, err := h.dispatch(ctx, msg)
	if err != nil {
		logger.ErrorContext(ctx, "failed to handle message",
			"error", err,
			"code", errors.GetCode(err).String(),
			"meta", errors.GetMeta(err))
		return []entities.Reply{{Text: MsgInternalError}}
	}

	logger.DebugContext(ctx, "message handled", "replies", len(replies))
	return replies
}

func (h *Handler) dispatch(ctx context.Context, msg entities.Message) ([]entities.Reply, error) {
	if msg.Command != "" {
		return h.command(ctx, msg)
	}

	// Combat sessions win over every button so a target label is never
	// mistaken for a menu entry.
	for _, category := range []sessions.Category{sessions.CategoryCombat, sessions.CategoryGMCombat} {
		replies, handled, err := h.resume(ctx, msg, category)
		if err != nil || handled {
			return replies, err
		}
	}

	if replies, handled, err := h.button(ctx, msg); err != nil || handled {
		return replies, err
	}

	if msg.ChatKind == entities.ChatDirect {
		replies, handled, err := h.resume(ctx, msg, sessions.CategoryCreation)
		if err != nil || handled {
			return replies, err
		}
	}

	replies, handled, err := h.resume(ctx, msg, sessions.CategoryEquip)
	if err != nil || handled {
		return replies, err
	}

	if msg.ChatKind == entities.ChatDirect && h.menu.IsAdmin(msg.SenderID) {
		switch msg.Input() {
		case menu.LabelPlayers:
			return fromFlow(h.flows.StartPlayerAdmin(ctx, &flows.Input{Message: msg}))
		case menu.LabelStores:
			return fromFlow(h.flows.StartStoreSwitch(ctx, &flows.Input{Message: msg}))
		}
		replies, _, err := h.resume(ctx, msg, sessions.CategoryGameMaster)
		return replies, err
	}

	return nil, nil
}

func (h *Handler) command(ctx context.Context, msg entities.Message) ([]entities.Reply, error) {
	in := &commands.Input{Message: msg}
	flowIn := &flows.Input{Message: msg}

	switch msg.Command {
	case CommandStart:
		return fromCommand(h.commands.Start(ctx, in))
	case CommandCreate:
		return fromFlow(h.flows.StartCreation(ctx, flowIn))
	case CommandShow:
		return fromCommand(h.commands.ShowCharacter(ctx, in))
	case CommandShop:
		return fromCommand(h.commands.ListShop(ctx, in))
	case CommandEquip:
		return fromFlow(h.flows.StartEquip(ctx, flowIn))
	case CommandAttack:
		return fromFlow(h.flows.StartAttack(ctx, flowIn))
	case CommandList:
		return fromCommand(h.commands.ListCharacters(ctx, in))
	default:
		slog.DebugContext(ctx, "ignoring unknown command", "command", msg.Command)
		return nil, nil
	}
}

// button matches the menu labels that act outside of any session
func (h *Handler) button(ctx context.Context, msg entities.Message) ([]entities.Reply, bool, error) {
	text := msg.Input()
	in := &commands.Input{Message: msg}
	flowIn := &flows.Input{Message: msg}

	if msg.ChatKind == entities.ChatDirect && h.menu.IsAdmin(msg.SenderID) && menu.IsShopToggle(text) {
		return handled(fromCommand(h.commands.ToggleShop(ctx, in)))
	}

	if msg.ChatKind == entities.ChatGroup {
		switch text {
		case menu.LabelAttack:
			return handled(fromFlow(h.flows.StartAttack(ctx, flowIn)))
		case menu.LabelCheck:
			return handled(fromCommand(h.commands.CheckMenu(ctx, in)))
		case menu.LabelMobs:
			if h.menu.IsAdmin(msg.SenderID) {
				return handled(fromFlow(h.flows.StartGMCombat(ctx, flowIn)))
			}
		}
		if attr, ok := rules.ParseAttribute(text); ok {
			return handled(fromCommand(h.commands.RollCheck(ctx, &commands.RollCheckInput{
				Message:   msg,
				Attribute: attr,
			})))
		}
	}

	switch text {
	case menu.LabelCreate, menu.LabelRecreate:
		return handled(fromFlow(h.flows.StartCreation(ctx, flowIn)))
	case menu.LabelShow:
		return handled(fromCommand(h.commands.ShowCharacter(ctx, in)))
	case menu.LabelEquip:
		return handled(fromFlow(h.flows.StartEquip(ctx, flowIn)))
	case menu.LabelGoods:
		return handled(fromCommand(h.commands.ListShop(ctx, in)))
	case menu.LabelCharacters:
		return handled(fromCommand(h.commands.ListCharacters(ctx, in)))
	}

	return nil, false, nil
}

func (h *Handler) resume(ctx context.Context, msg entities.Message, category sessions.Category) ([]entities.Reply, bool, error) {
	out, err := h.flows.Resume(ctx, &flows.ResumeInput{Message: msg, Category: category})
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to resume %s session", category)
	}
	return out.Replies, out.Handled, nil
}

func fromFlow(out *flows.Output, err error) ([]entities.Reply, error) {
	if err != nil {
		return nil, err
	}
	return out.Replies, nil
}

func fromCommand(out *commands.Output, err error) ([]entities.Reply, error) {
	if err != nil {
		return nil, err
	}
	return out.Replies, nil
}

func handled(replies []entities.Reply, err error) ([]entities.Reply, bool, error) {
	return replies, true, err
}
