package flows_test

import (
	"fmt"

	"github.com/KirkDiggler/rpg-tabletop/internal/entities"
	"github.com/KirkDiggler/rpg-tabletop/internal/orchestrators/flows"
	"github.com/KirkDiggler/rpg-tabletop/internal/sessions"
	"github.com/KirkDiggler/rpg-tabletop/internal/testutils"
)

func (s *FlowsTestSuite) armedPlayer(weaponID int64) {
	c := testutils.NewCharacter(testutils.PlayerID, "brom")
	c.WeaponID = testutils.Int64Ptr(weaponID)
	s.saveCharacter(c)
}

func (s *FlowsTestSuite) armoredGoblin(hp int, armorID int64) int64 {
	goblin := testutils.NewNPC("Goblin", hp)
	goblin.ArmorID = testutils.Int64Ptr(armorID)
	return s.createNPC(goblin)
}

func (s *FlowsTestSuite) attack(target string) entities.Reply {
	r := s.single(s.flows.StartAttack(s.ctx, &flows.Input{Message: group(testutils.PlayerID, "Attack")}))
	s.Equal(flows.MsgChooseTarget, r.Text)
	return s.resume(group(testutils.PlayerID, target), sessions.CategoryCombat)
}

func (s *FlowsTestSuite) TestAttackWoundsNPC() {
	s.armedPlayer(battleAxeID)
	id := s.armoredGoblin(10, chainmailID)
	s.roller.Rolls = []int{5}

	r := s.attack("Goblin")
	s.Equal("d10: 5 + weapon 2 = 7\nMob armor: 4 -> effective damage 3. HP left: 7", r.Text)
	s.Equal([]int{10}, s.roller.Sizes)

	goblin := s.npc(id)
	s.Equal(7, goblin.HP)
	s.True(goblin.InCombat)
	s.Nil(s.pending(testutils.PlayerID, sessions.CategoryCombat))
}

func (s *FlowsTestSuite) TestAttackFullyAbsorbedByArmor() {
	s.armedPlayer(shortSwordID)
	id := s.armoredGoblin(10, plateID)
	s.roller.Rolls = []int{3}

	r := s.attack("Goblin")
	s.Equal("d10: 3 + weapon 1 = 4\nMob armor: 6 -> effective damage 0. HP left: 10", r.Text)
	s.Equal(10, s.npc(id).HP)
}

func (s *FlowsTestSuite) TestAttackKillsNPC() {
	s.armedPlayer(battleAxeID)
	id := s.createNPC(testutils.NewNPC("Goblin", 2))
	s.roller.Rolls = []int{10}

	r := s.attack("Goblin")
	s.Contains(r.Text, "HP left: 0")
	s.Contains(r.Text, "Goblin has fallen.")

	goblin := s.npc(id)
	s.Equal(0, goblin.HP)
	s.False(goblin.InCombat)

	r = s.single(s.flows.StartAttack(s.ctx, &flows.Input{Message: group(testutils.PlayerID, "Attack")}))
	s.Equal(flows.MsgNoMobsInCombat, r.Text)
}

func (s *FlowsTestSuite) TestAttackUnarmed() {
	s.saveCharacter(testutils.NewCharacter(testutils.PlayerID, "brom"))
	s.createNPC(testutils.NewNPC("Goblin", 10))
	s.roller.Rolls = []int{4}

	r := s.attack("Goblin")
	s.Equal("d10: 4 + weapon 0 = 4\nMob armor: 0 -> effective damage 4. HP left: 6", r.Text)
}

func (s *FlowsTestSuite) TestAttackDuplicateNamesAreDistinct() {
	s.armedPlayer(shortSwordID)
	s.createNPC(testutils.NewNPC("Goblin", 10))
	second := s.createNPC(testutils.NewNPC("Goblin", 10))
	s.roller.Rolls = []int{9}

	r := s.single(s.flows.StartAttack(s.ctx, &flows.Input{Message: group(testutils.PlayerID, "Attack")}))
	s.Len(r.Keyboard.Buttons(), 2)

	r = s.resume(group(testutils.PlayerID, r.Keyboard.Buttons()[1]), sessions.CategoryCombat)
	s.Contains(r.Text, "HP left: 0")
	s.Equal(0, s.npc(second).HP)
}

func (s *FlowsTestSuite) TestAttackLabelsStayUniqueWhenNamesLookSuffixed() {
	s.armedPlayer(shortSwordID)
	first := s.createNPC(testutils.NewNPC("Goblin", 10))
	suffixed := s.createNPC(testutils.NewNPC("Goblin", 10))
	renamed := s.npc(suffixed)
	renamed.Name = fmt.Sprintf("Goblin #%d", suffixed+1)
	s.updateNPC(renamed)
	third := s.createNPC(testutils.NewNPC("Goblin", 10))
	s.Require().Equal(suffixed+1, third)
	s.roller.Rolls = []int{9}

	r := s.single(s.flows.StartAttack(s.ctx, &flows.Input{Message: group(testutils.PlayerID, "Attack")}))
	buttons := r.Keyboard.Buttons()
	s.Len(buttons, 3)
	seen := make(map[string]bool, len(buttons))
	for _, label := range buttons {
		s.False(seen[label], "duplicate label %q", label)
		seen[label] = true
	}

	r = s.resume(group(testutils.PlayerID, buttons[2]), sessions.CategoryCombat)
	s.Contains(r.Text, "HP left: 0")
	s.Equal(0, s.npc(third).HP)
	s.Equal(10, s.npc(first).HP)
	s.Equal(10, s.npc(suffixed).HP)
}

func (s *FlowsTestSuite) TestAttackTargetLeftCombat() {
	s.armedPlayer(shortSwordID)
	id := s.createNPC(testutils.NewNPC("Goblin", 10))

	s.single(s.flows.StartAttack(s.ctx, &flows.Input{Message: group(testutils.PlayerID, "Attack")}))

	goblin := s.npc(id)
	goblin.InCombat = false
	s.updateNPC(goblin)

	r := s.resume(group(testutils.PlayerID, "Goblin"), sessions.CategoryCombat)
	s.Equal(flows.MsgMobGone, r.Text)
	s.Empty(s.roller.Sizes)
}

func (s *FlowsTestSuite) TestAttackInvalidTarget() {
	s.armedPlayer(shortSwordID)
	s.createNPC(testutils.NewNPC("Goblin", 10))

	r := s.attack("Dragon")
	s.Equal(flows.MsgInvalid, r.Text)
	s.Empty(s.roller.Sizes)
	s.Nil(s.pending(testutils.PlayerID, sessions.CategoryCombat))
}

func (s *FlowsTestSuite) TestAttackWithoutCharacter() {
	s.createNPC(testutils.NewNPC("Goblin", 10))

	r := s.single(s.flows.StartAttack(s.ctx, &flows.Input{Message: group(testutils.PlayerID, "Attack")}))
	s.Equal(flows.MsgNoCharacter, r.Text)
}
