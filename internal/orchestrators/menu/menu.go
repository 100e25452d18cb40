// Package menu builds the main-menu keyboard and owns the button labels the
// dispatcher matches on
package menu

import (
	"context"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-tabletop/internal/entities"
	"github.com/KirkDiggler/rpg-tabletop/internal/errors"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/characters"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/flags"
	"github.com/KirkDiggler/rpg-tabletop/internal/rules"
)

// Main menu labels. Pressing a button sends its label as text.
const (
	LabelCreate     = "Create character"
	LabelRecreate   = "Recreate character"
	LabelShow       = "Show character"
	LabelEquip      = "Equipment"
	LabelCharacters = "Characters"
	LabelPlayers    = "Players"
	LabelStores     = "Stores"
	LabelGoods      = "Goods"
	LabelCheck      = "Check"
	LabelAttack     = "Attack"
	LabelMobs       = "Mobs"

	// ShopTogglePrefix starts the admin shop display label, e.g. "Shop display: On"
	ShopTogglePrefix = "Shop display:"
)

// Columns is the default keyboard width
const Columns = 2

// Config holds the dependencies for the menu builder
type Config struct {
	Characters characters.Repository
	Flags      flags.Repository
	AdminID    int64
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Characters == nil {
		vb.RequiredField("characters")
	}
	if c.Flags == nil {
		vb.RequiredField("flags")
	}
	if c.AdminID == 0 {
		vb.RequiredField("admin_id")
	}
	return vb.Build()
}

// Builder renders the main menu for a user
type Builder struct {
	characters characters.Repository
	flags      flags.Repository
	adminID    int64
}

// New creates a menu builder
func New(cfg *Config) (*Builder, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Builder{
		characters: cfg.Characters,
		flags:      cfg.Flags,
		adminID:    cfg.AdminID,
	}, nil
}

// IsAdmin reports whether userID is the game master
func (b *Builder) IsAdmin(userID int64) bool {
	return userID == b.adminID
}

// ShopEnabled reads the shop flag. The shop is on until the flag says
// otherwise, so an unseeded database shows it.
func (b *Builder) ShopEnabled(ctx context.Context) (bool, error) {
	out, err := b.flags.Get(ctx, flags.GetInput{Name: rules.ShopEnabledFlag})
	if errors.IsNotFound(err) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return out.Flag.Enabled(), nil
}

// Keyboard returns the persistent main menu for the chat kind
func (b *Builder) Keyboard(ctx context.Context, userID int64, kind entities.ChatKind) (*entities.Keyboard, error) {
	if kind != entities.ChatDirect {
		return entities.NewKeyboard([]string{LabelShow, LabelGoods, LabelCheck, LabelAttack, LabelMobs}, Columns, false), nil
	}

	create := LabelCreate
	_, err := b.characters.Get(ctx, characters.GetInput{UserID: userID})
	switch {
	case err == nil:
		create = LabelRecreate
	case !errors.IsNotFound(err):
		return nil, err
	}

	labels := []string{create, LabelShow, LabelEquip}
	if b.IsAdmin(userID) {
		enabled, err := b.ShopEnabled(ctx)
		if err != nil {
			return nil, err
		}
		labels = append(labels, LabelCharacters, LabelPlayers, LabelStores, ShopToggleLabel(enabled))
	}

	return entities.NewKeyboard(labels, Columns, false), nil
}

// Reply wraps text with the sender's main menu
func (b *Builder) Reply(ctx context.Context, msg entities.Message, text string) (entities.Reply, error) {
	kb, err := b.Keyboard(ctx, msg.SenderID, msg.ChatKind)
	if err != nil {
		return entities.Reply{}, err
	}
	return entities.Reply{Text: text, Keyboard: kb}, nil
}

// ShopToggleLabel renders the admin toggle for the current shop state
func ShopToggleLabel(enabled bool) string {
	if enabled {
		return ShopTogglePrefix + " On"
	}
	return ShopTogglePrefix + " Off"
}

// IsShopToggle reports whether text is a shop toggle press
func IsShopToggle(text string) bool {
	return strings.HasPrefix(text, ShopTogglePrefix)
}

// Choices lays out flow options, one-time, two per row
func Choices(options []string) *entities.Keyboard {
	return entities.NewKeyboard(options, Columns, true)
}

// Numbers lays out 0..maxN split over two rows
func Numbers(maxN int) *entities.Keyboard {
	nums := make([]string, 0, maxN+1)
	for i := 0; i <= maxN; i++ {
		nums = append(nums, strconv.Itoa(i))
	}
	if len(nums) == 0 {
		nums = []string{"0"}
	}
	cols := max(1, (len(nums)+1)/2)
	return entities.NewKeyboard(nums, cols, true)
}
