package flows_test

import (
	"github.com/KirkDiggler/rpg-tabletop/internal/orchestrators/flows"
	"github.com/KirkDiggler/rpg-tabletop/internal/sessions"
	"github.com/KirkDiggler/rpg-tabletop/internal/testutils"
)

func (s *FlowsTestSuite) startEquip() {
	r := s.single(s.flows.StartEquip(s.ctx, &flows.Input{Message: direct(testutils.PlayerID, "Equipment")}))
	s.Equal(flows.MsgChooseSlot, r.Text)
	s.Equal([]string{flows.LabelWeapon, flows.LabelArmor}, r.Keyboard.Buttons())
}

func (s *FlowsTestSuite) TestEquipSwapsWeapon() {
	c := testutils.NewCharacter(testutils.PlayerID, "brom")
	c.WeaponID = testutils.Int64Ptr(shortSwordID)
	c.Inventory = []int64{battleAxeID, chainmailID}
	s.saveCharacter(c)

	s.startEquip()

	r := s.resume(direct(testutils.PlayerID, "Weapon"), sessions.CategoryEquip)
	s.Equal(flows.MsgChooseItem, r.Text)
	s.Equal([]string{"Heavy Battle Axe"}, r.Keyboard.Buttons())

	r = s.resume(direct(testutils.PlayerID, "Heavy Battle Axe"), sessions.CategoryEquip)
	s.Equal("Heavy Battle Axe equipped.", r.Text)

	got := s.character(testutils.PlayerID)
	s.Require().NotNil(got.WeaponID)
	s.Equal(battleAxeID, *got.WeaponID)
	s.Equal([]int64{chainmailID, shortSwordID}, got.Inventory)
	s.Nil(s.pending(testutils.PlayerID, sessions.CategoryEquip))
}

func (s *FlowsTestSuite) TestEquipArmorIntoEmptySlot() {
	s.saveCharacter(testutils.NewCharacter(testutils.PlayerID, "brom"))

	s.startEquip()
	s.resume(direct(testutils.PlayerID, "armor"), sessions.CategoryEquip)
	r := s.resume(direct(testutils.PlayerID, "Chainmail Shirt"), sessions.CategoryEquip)
	s.Equal("Chainmail Shirt equipped.", r.Text)

	got := s.character(testutils.PlayerID)
	s.Equal(chainmailID, *got.ArmorID)
	s.Equal([]int64{shortSwordID}, got.Inventory)
}

func (s *FlowsTestSuite) TestEquipAborts() {
	testCases := []struct {
		name      string
		inventory []int64
		inputs    []string
		expected  string
	}{
		{"unknown slot", []int64{1}, []string{"ring"}, flows.MsgUnknownSlot},
		{"empty inventory", nil, []string{"weapon"}, flows.MsgEmptyInventory},
		{"nothing of that type", []int64{chainmailID}, []string{"weapon"}, "You have no weapon items."},
		{"unknown item", []int64{shortSwordID}, []string{"weapon", "Excalibur"}, flows.MsgInvalidItem},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			c := testutils.NewCharacter(testutils.PlayerID, "brom")
			c.Inventory = tc.inventory
			s.saveCharacter(c)

			s.startEquip()
			var text string
			for _, in := range tc.inputs {
				text = s.resume(direct(testutils.PlayerID, in), sessions.CategoryEquip).Text
			}
			s.Equal(tc.expected, text)
			s.Nil(s.pending(testutils.PlayerID, sessions.CategoryEquip))
			s.Nil(s.character(testutils.PlayerID).WeaponID)
		})
	}
}

func (s *FlowsTestSuite) TestEquipItemSoldMeanwhile() {
	c := testutils.NewCharacter(testutils.PlayerID, "brom")
	s.saveCharacter(c)

	s.startEquip()
	s.resume(direct(testutils.PlayerID, "weapon"), sessions.CategoryEquip)

	c.Inventory = []int64{chainmailID}
	s.saveCharacter(c)

	r := s.resume(direct(testutils.PlayerID, "Iron Short Sword"), sessions.CategoryEquip)
	s.Equal("You no longer have Iron Short Sword.", r.Text)
	s.Nil(s.character(testutils.PlayerID).WeaponID)
}

func (s *FlowsTestSuite) TestEquipWithoutCharacter() {
	r := s.single(s.flows.StartEquip(s.ctx, &flows.Input{Message: direct(testutils.PlayerID, "Equipment")}))
	s.Equal(flows.MsgNoCharacter, r.Text)
	s.Nil(s.pending(testutils.PlayerID, sessions.CategoryEquip))
}

func (s *FlowsTestSuite) TestEquipIgnoredInGroupChat() {
	s.saveCharacter(testutils.NewCharacter(testutils.PlayerID, "brom"))

	out, err := s.flows.StartEquip(s.ctx, &flows.Input{Message: group(testutils.PlayerID, "/equip")})
	s.Require().NoError(err)
	s.True(out.Handled)
	s.Empty(out.Replies)
	s.Nil(s.pending(testutils.PlayerID, sessions.CategoryEquip))
}
