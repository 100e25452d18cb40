package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-tabletop/internal/entities"
	"github.com/KirkDiggler/rpg-tabletop/internal/errors"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/items"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/npcs"
	"github.com/KirkDiggler/rpg-tabletop/internal/rules"
)

var (
	npcName     string
	npcHP       int
	npcDamage   int
	npcWeapon   int64
	npcArmor    int64
	npcAttrs    map[string]int
	npcInCombat bool

	listInCombat bool
)

var npcCmd = &cobra.Command{
	Use:   "npc",
	Short: "Manage the game-master NPC roster",
}

var npcCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an NPC",
	RunE: withRepos(func(ctx context.Context, r *repos, out io.Writer, _ []string) error {
		spec := npcSpec{
			Name:     npcName,
			HP:       npcHP,
			Damage:   npcDamage,
			WeaponID: npcWeapon,
			ArmorID:  npcArmor,
			Attrs:    npcAttrs,
			InCombat: npcInCombat,
		}
		npc, err := spec.build(ctx, r.items)
		if err != nil {
			return err
		}

		created, err := r.npcs.Create(ctx, npcs.CreateInput{NPC: npc})
		if err != nil {
			return err
		}
		slog.InfoContext(ctx, "npc created", "npc_id", created.ID, "name", npc.Name)
		fmt.Fprintf(out, "created npc %d (%s)\n", created.ID, npc.Name)
		return nil
	}),
}

var npcListCmd = &cobra.Command{
	Use:   "list",
	Short: "List NPCs",
	RunE: withRepos(func(ctx context.Context, r *repos, out io.Writer, _ []string) error {
		list, err := r.npcs.List(ctx, npcs.ListInput{InCombatOnly: listInCombat})
		if err != nil {
			return err
		}
		writeNPCs(out, list.NPCs)
		return nil
	}),
}

var npcEngageCmd = &cobra.Command{
	Use:   "engage <id>",
	Short: "Put an NPC into the current encounter",
	Args:  cobra.ExactArgs(1),
	RunE: withRepos(func(ctx context.Context, r *repos, out io.Writer, args []string) error {
		return setInCombat(ctx, r, out, args[0], true)
	}),
}

var npcDisengageCmd = &cobra.Command{
	Use:   "disengage <id>",
	Short: "Take an NPC out of the current encounter",
	Args:  cobra.ExactArgs(1),
	RunE: withRepos(func(ctx context.Context, r *repos, out io.Writer, args []string) error {
		return setInCombat(ctx, r, out, args[0], false)
	}),
}

func init() {
	npcCreateCmd.Flags().StringVar(&npcName, "name", "", "NPC name")
	npcCreateCmd.Flags().IntVar(&npcHP, "hp", 10, "starting hit points")
	npcCreateCmd.Flags().IntVar(&npcDamage, "damage", 0, "flat damage added to every attack")
	npcCreateCmd.Flags().Int64Var(&npcWeapon, "weapon", 0, "catalog id of the weapon (0 for none)")
	npcCreateCmd.Flags().Int64Var(&npcArmor, "armor", 0, "catalog id of the armor (0 for none)")
	npcCreateCmd.Flags().StringToIntVar(&npcAttrs, "attr", nil, "attribute scores, e.g. strength=3,dexterity=2")
	npcCreateCmd.Flags().BoolVar(&npcInCombat, "in-combat", false, "add the NPC to the current encounter")
	_ = npcCreateCmd.MarkFlagRequired("name")

	npcListCmd.Flags().BoolVar(&listInCombat, "in-combat", false, "only NPCs in the current encounter")

	npcCmd.AddCommand(npcCreateCmd, npcListCmd, npcEngageCmd, npcDisengageCmd)
}

// withRepos opens the entity store around a subcommand
func withRepos(fn func(ctx context.Context, r *repos, out io.Writer, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		slog.SetDefault(newLogger(cfg, os.Stderr))

		r, err := openRepos(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = r.Close() }()

		return fn(cmd.Context(), r, cmd.OutOrStdout(), args)
	}
}

// npcSpec is the raw input of npc create
type npcSpec struct {
	Name     string
	HP       int
	Damage   int
	WeaponID int64
	ArmorID  int64
	Attrs    map[string]int
	InCombat bool
}

// build validates the flag values against the rules and the catalog
func (s npcSpec) build(ctx context.Context, catalog items.Repository) (*entities.NPC, error) {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("name", s.Name, vb)
	if s.HP <= 0 {
		vb.InvalidField("hp", "must be positive")
	}
	errors.ValidateNonNegative("damage", s.Damage, vb)

	attrs := rules.NewAttributeSet()
	for key, value := range s.Attrs {
		attr, ok := rules.ParseAttribute(key)
		if !ok {
			vb.InvalidField("attr", fmt.Sprintf("unknown attribute %q", key))
			continue
		}
		attrs[attr] = value
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	npc := &entities.NPC{
		Name:       s.Name,
		Attributes: attrs,
		HP:         s.HP,
		Damage:     s.Damage,
		InCombat:   s.InCombat,
	}

	var err error
	if npc.WeaponID, err = slotItem(ctx, catalog, s.WeaponID, rules.ItemTypeWeapon); err != nil {
		return nil, err
	}
	if npc.ArmorID, err = slotItem(ctx, catalog, s.ArmorID, rules.ItemTypeArmor); err != nil {
		return nil, err
	}
	return npc, nil
}

// slotItem checks that id names a catalog item of the slot type; 0 means empty
func slotItem(ctx context.Context, catalog items.Repository, id int64, slot rules.ItemType) (*int64, error) {
	if id == 0 {
		return nil, nil
	}
	got, err := catalog.Get(ctx, items.GetInput{ID: id})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s %d", slot, id)
	}
	if got.Item.Type != slot {
		return nil, errors.InvalidArgumentf("item %d is a %s, not a %s", id, got.Item.Type, slot)
	}
	return &id, nil
}

func setInCombat(ctx context.Context, r *repos, out io.Writer, rawID string, inCombat bool) error {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return errors.InvalidArgumentf("invalid npc id %q", rawID)
	}

	got, err := r.npcs.Get(ctx, npcs.GetInput{ID: id})
	if err != nil {
		return err
	}
	npc := got.NPC
	if inCombat && npc.HP <= 0 {
		return errors.FailedPreconditionf("npc %d (%s) is dead", npc.ID, npc.Name)
	}
	npc.InCombat = inCombat
	if _, err := r.npcs.Update(ctx, npcs.UpdateInput{NPC: npc}); err != nil {
		return err
	}

	slog.InfoContext(ctx, "npc combat state changed", "npc_id", npc.ID, "in_combat", inCombat)
	writeNPCs(out, []*entities.NPC{npc})
	return nil
}

func writeNPCs(out io.Writer, list []*entities.NPC) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tHP\tIN COMBAT\tWEAPON\tARMOR\tATTRIBUTES")
	for _, npc := range list {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%t\t%s\t%s\t%s\n",
			npc.ID, npc.Name, npc.HP, npc.InCombat,
			optionalID(npc.WeaponID), optionalID(npc.ArmorID),
			rules.FormatBonuses(npc.Attributes))
	}
	_ = tw.Flush()
}

func optionalID(id *int64) string {
	if id == nil {
		return "-"
	}
	return strconv.FormatInt(*id, 10)
}
