// Package sessions holds per-user flow state. Each step of each flow is its
// own type so a step can only carry the data it needs.
package sessions

import (
	"github.com/KirkDiggler/rpg-tabletop/internal/rules"
)

// Category groups steps into a flow family. A user has at most one session
// per category.
type Category string

// Flow categories
const (
	CategoryCreation   Category = "creation"
	CategoryEquip      Category = "equip"
	CategoryCombat     Category = "combat"
	CategoryGameMaster Category = "gamemaster"
	CategoryGMCombat   Category = "gm_combat"
)

// Categories lists every flow family
var Categories = []Category{CategoryCreation, CategoryEquip, CategoryCombat, CategoryGameMaster, CategoryGMCombat}

// IsValid checks if the category is known
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// State is one step of a flow. The set of implementations is closed.
type State interface {
	Category() Category
	Step() string
	sealed()
}

// Option is a labelled button bound to an entity id
type Option struct {
	Label string `json:"label"`
	ID    int64  `json:"id"`
}

// FindOption returns the option whose label matches exactly
func FindOption(options []Option, label string) (Option, bool) {
	for _, o := range options {
		if o.Label == label {
			return o, true
		}
	}
	return Option{}, false
}

// Labels returns the option labels in order
func Labels(options []Option) []string {
	out := make([]string, len(options))
	for i, o := range options {
		out[i] = o.Label
	}
	return out
}

// CreationRace waits for a race label or key
type CreationRace struct{}

// CreationClass waits for a class name
type CreationClass struct {
	Race rules.Race `json:"race"`
}

// CreationAllocate waits for the points to put into Attributes[Index]
type CreationAllocate struct {
	Race        rules.Race  `json:"race"`
	Class       rules.Class `json:"class"`
	Index       int         `json:"index"`
	Remaining   int         `json:"remaining"`
	Allocations []int       `json:"allocations"`
}

// EquipChooseType waits for "weapon" or "armor"
type EquipChooseType struct{}

// EquipChooseItem waits for one of the candidate item names
type EquipChooseItem struct {
	Slot       rules.ItemType `json:"slot"`
	Candidates []Option       `json:"candidates"`
}

// CombatChooseNPC waits for the NPC a player attacks
type CombatChooseNPC struct {
	Targets []Option `json:"targets"`
}

// GMCombatChooseNPC waits for the NPC the game master controls
type GMCombatChooseNPC struct {
	Targets []Option `json:"targets"`
}

// GMCombatActions waits for check, damage or cancel
type GMCombatActions struct {
	NPCID int64 `json:"npc_id"`
}

// GMCombatChooseAttribute waits for the attribute of an NPC check
type GMCombatChooseAttribute struct {
	NPCID int64 `json:"npc_id"`
}

// GMCombatChoosePlayer waits for the player an NPC attacks
type GMCombatChoosePlayer struct {
	NPCID   int64    `json:"npc_id"`
	Players []Option `json:"players"`
}

// GMChoosePlayer waits for the player the game master manages
type GMChoosePlayer struct {
	Players []Option `json:"players"`
}

// GMChosenPlayer waits for damage, trade, heal, health or cancel
type GMChosenPlayer struct {
	TargetID int64 `json:"target_id"`
}

// GMInputDamage waits for a non-negative damage amount
type GMInputDamage struct {
	TargetID int64 `json:"target_id"`
}

// GMInputHeal waits for a non-negative heal amount
type GMInputHeal struct {
	TargetID int64 `json:"target_id"`
}

// GMTradeChoose waits for an item from the active store
type GMTradeChoose struct {
	TargetID int64    `json:"target_id"`
	Offers   []Option `json:"offers"`
}

// GMChooseStore waits for the store to activate
type GMChooseStore struct {
	Stores []Option `json:"stores"`
}

func (CreationRace) Category() Category            { return CategoryCreation }
func (CreationClass) Category() Category           { return CategoryCreation }
func (CreationAllocate) Category() Category        { return CategoryCreation }
func (EquipChooseType) Category() Category         { return CategoryEquip }
func (EquipChooseItem) Category() Category         { return CategoryEquip }
func (CombatChooseNPC) Category() Category         { return CategoryCombat }
func (GMCombatChooseNPC) Category() Category       { return CategoryGMCombat }
func (GMCombatActions) Category() Category         { return CategoryGMCombat }
func (GMCombatChooseAttribute) Category() Category { return CategoryGMCombat }
func (GMCombatChoosePlayer) Category() Category    { return CategoryGMCombat }
func (GMChoosePlayer) Category() Category          { return CategoryGameMaster }
func (GMChosenPlayer) Category() Category          { return CategoryGameMaster }
func (GMInputDamage) Category() Category           { return CategoryGameMaster }
func (GMInputHeal) Category() Category             { return CategoryGameMaster }
func (GMTradeChoose) Category() Category           { return CategoryGameMaster }
func (GMChooseStore) Category() Category           { return CategoryGameMaster }

func (CreationRace) Step() string            { return "race" }
func (CreationClass) Step() string           { return "class" }
func (CreationAllocate) Step() string        { return "alloc" }
func (EquipChooseType) Step() string         { return "choose_type" }
func (EquipChooseItem) Step() string         { return "choose_item" }
func (CombatChooseNPC) Step() string         { return "player_choose_npc" }
func (GMCombatChooseNPC) Step() string       { return "admin_choose_npc" }
func (GMCombatActions) Step() string         { return "admin_npc_actions" }
func (GMCombatChooseAttribute) Step() string { return "admin_npc_choose_attr" }
func (GMCombatChoosePlayer) Step() string    { return "admin_npc_choose_player" }
func (GMChoosePlayer) Step() string          { return "choose_player" }
func (GMChosenPlayer) Step() string          { return "chosen_player" }
func (GMInputDamage) Step() string           { return "gm_input_damage" }
func (GMInputHeal) Step() string             { return "gm_input_heal" }
func (GMTradeChoose) Step() string           { return "gm_trade_choose" }
func (GMChooseStore) Step() string           { return "choose_store" }

func (CreationRace) sealed()            {}
func (CreationClass) sealed()           {}
func (CreationAllocate) sealed()        {}
func (EquipChooseType) sealed()         {}
func (EquipChooseItem) sealed()         {}
func (CombatChooseNPC) sealed()         {}
func (GMCombatChooseNPC) sealed()       {}
func (GMCombatActions) sealed()         {}
func (GMCombatChooseAttribute) sealed() {}
func (GMCombatChoosePlayer) sealed()    {}
func (GMChoosePlayer) sealed()          {}
func (GMChosenPlayer) sealed()          {}
func (GMInputDamage) sealed()           {}
func (GMInputHeal) sealed()             {}
func (GMTradeChoose) sealed()           {}
func (GMChooseStore) sealed()           {}
