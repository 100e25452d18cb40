package flows_test

import (
	"github.com/KirkDiggler/rpg-tabletop/internal/entities"
	"github.com/KirkDiggler/rpg-tabletop/internal/orchestrators/flows"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/items"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/stores"
	"github.com/KirkDiggler/rpg-tabletop/internal/rules"
	"github.com/KirkDiggler/rpg-tabletop/internal/sessions"
	"github.com/KirkDiggler/rpg-tabletop/internal/testutils"
)

const playerLabel = "brom (42)"

func (s *FlowsTestSuite) gm(text string) entities.Reply {
	return s.resume(direct(testutils.AdminID, text), sessions.CategoryGameMaster)
}

func (s *FlowsTestSuite) gmCombat(text string) entities.Reply {
	return s.resume(group(testutils.AdminID, text), sessions.CategoryGMCombat)
}

// choosePlayer opens player administration on the fixture player
func (s *FlowsTestSuite) choosePlayer() {
	r := s.single(s.flows.StartPlayerAdmin(s.ctx, &flows.Input{Message: direct(testutils.AdminID, "Players")}))
	s.Equal(flows.MsgChoosePlayer, r.Text)
	s.Equal([]string{playerLabel, flows.LabelCancel}, r.Keyboard.Buttons())

	r = s.gm(playerLabel)
	s.Equal("brom (42): choose an action.", r.Text)
	s.Equal([]string{flows.LabelDamage, flows.LabelTrade, flows.LabelHeal, flows.LabelHealth, flows.LabelCancel},
		r.Keyboard.Buttons())
}

func (s *FlowsTestSuite) activateArmorer() {
	_, err := s.stores.SetActive(s.ctx, stores.SetActiveInput{StoreID: 2})
	s.Require().NoError(err)
}

func (s *FlowsTestSuite) TestTradeRejectedWithoutGold() {
	c := testutils.NewCharacter(testutils.PlayerID, "brom")
	c.Gold = 15
	s.saveCharacter(c)
	s.activateArmorer()

	s.choosePlayer()
	r := s.gm(flows.LabelTrade)
	s.Equal(flows.MsgChooseOffer, r.Text)
	s.Equal([]string{"Chainmail Shirt (15g)", "Belt of Fury (18g)", "Plate Armor (40g)", flows.LabelCancel},
		r.Keyboard.Buttons())

	r = s.gm("Belt of Fury (18g)")
	s.Equal("The player does not have enough gold (15g). The item costs 18g.", r.Text)

	got := s.character(testutils.PlayerID)
	s.Equal(15, got.Gold)
	s.Equal([]int64{1, 9}, got.Inventory)
	s.Nil(s.pending(testutils.AdminID, sessions.CategoryGameMaster))
}

func (s *FlowsTestSuite) TestTradeSells() {
	s.saveCharacter(testutils.NewCharacter(testutils.PlayerID, "brom"))
	s.activateArmorer()

	s.choosePlayer()
	s.gm(flows.LabelTrade)
	r := s.gm("Belt of Fury (18g)")
	s.Equal("Belt of Fury sold to brom. Gold left: 12", r.Text)

	got := s.character(testutils.PlayerID)
	s.Equal(12, got.Gold)
	s.Equal([]int64{1, 9, beltID}, got.Inventory)
}

func (s *FlowsTestSuite) TestTradeHidesHiddenItems() {
	s.saveCharacter(testutils.NewCharacter(testutils.PlayerID, "brom"))
	secret := testutils.NewArmor(20, "Shadow Mail", 8, 5)
	secret.Hidden = true
	_, err := s.items.Create(s.ctx, items.CreateInput{Item: secret})
	s.Require().NoError(err)
	s.activateArmorer()

	s.choosePlayer()
	r := s.gm(flows.LabelTrade)
	s.NotContains(r.Keyboard.Buttons(), "Shadow Mail (5g)")

	r = s.gm("Shadow Mail (5g)")
	s.Equal(flows.MsgInvalid, r.Text)
	s.Equal([]int64{1, 9}, s.character(testutils.PlayerID).Inventory)
}

func (s *FlowsTestSuite) TestTradeFromEmptyStore() {
	s.saveCharacter(testutils.NewCharacter(testutils.PlayerID, "brom"))
	s.choosePlayer()

	_, err := s.stores.Create(s.ctx, stores.CreateInput{Store: &entities.Store{ID: 3, Name: "Empty"}})
	s.Require().NoError(err)
	_, err = s.stores.SetActive(s.ctx, stores.SetActiveInput{StoreID: 3})
	s.Require().NoError(err)

	r := s.gm(flows.LabelTrade)
	s.Equal(flows.MsgEmptyStore, r.Text)
	s.Nil(s.pending(testutils.AdminID, sessions.CategoryGameMaster))
}

func (s *FlowsTestSuite) TestDamagePlayerThroughArmor() {
	c := testutils.NewCharacter(testutils.PlayerID, "brom")
	c.ArmorID = testutils.Int64Ptr(chainmailID)
	s.saveCharacter(c)

	s.choosePlayer()
	r := s.gm(flows.LabelDamage)
	s.Equal(flows.MsgEnterDamage, r.Text)

	r = s.gm("lots")
	s.Equal(flows.MsgBadDamage, r.Text)
	s.Equal(sessions.GMInputDamage{TargetID: testutils.PlayerID}, s.pending(testutils.AdminID, sessions.CategoryGameMaster))

	r = s.gm("10")
	s.Equal("Player brom took 10 damage (armor 4 reduced it to 6). Current HP: 8", r.Text)
	s.Equal(8, s.character(testutils.PlayerID).HP)
	s.Nil(s.pending(testutils.AdminID, sessions.CategoryGameMaster))
}

func (s *FlowsTestSuite) TestHealClampsToMaxHP() {
	c := testutils.NewCharacter(testutils.PlayerID, "brom")
	c.Race = rules.Orc
	c.Attributes[rules.Strength] = 7
	c.HP = 5
	s.saveCharacter(c)

	s.choosePlayer()
	s.gm(flows.LabelHeal)

	r := s.gm("-3")
	s.Equal(flows.MsgBadHeal, r.Text)

	r = s.gm("50")
	s.Equal("Player brom recovered 50 HP. Current HP: 22", r.Text)
	s.Equal(22, s.character(testutils.PlayerID).HP)
}

func (s *FlowsTestSuite) TestHealthRestoresFlooredMax() {
	c := testutils.NewCharacter(testutils.PlayerID, "brom")
	c.Race = rules.Elf
	c.Attributes[rules.Strength] = 0
	c.HP = 1
	s.saveCharacter(c)

	s.choosePlayer()
	r := s.gm(flows.LabelHealth)
	s.Equal("Player brom fully healed (10 HP).", r.Text)
	s.Equal(10, s.character(testutils.PlayerID).HP)
}

func (s *FlowsTestSuite) TestPlayerAdminCancel() {
	s.saveCharacter(testutils.NewCharacter(testutils.PlayerID, "brom"))

	for _, steps := range [][]string{
		{flows.LabelCancel},
		{flows.LabelDamage, flows.LabelCancel},
		{flows.LabelHeal, flows.LabelCancel},
		{flows.LabelTrade, flows.LabelCancel},
	} {
		s.choosePlayer()
		var text string
		for _, step := range steps {
			text = s.gm(step).Text
		}
		s.Equal(flows.MsgCancelled, text)
		s.Nil(s.pending(testutils.AdminID, sessions.CategoryGameMaster))
	}
	s.Equal(14, s.character(testutils.PlayerID).HP)
}

func (s *FlowsTestSuite) TestPlayerAdminRequiresAdminInDirectChat() {
	s.saveCharacter(testutils.NewCharacter(testutils.PlayerID, "brom"))

	for _, msg := range []entities.Message{
		direct(testutils.PlayerID, "Players"),
		group(testutils.AdminID, "Players"),
	} {
		out, err := s.flows.StartPlayerAdmin(s.ctx, &flows.Input{Message: msg})
		s.Require().NoError(err)
		s.True(out.Handled)
		s.Empty(out.Replies)
		s.Nil(s.pending(msg.SenderID, sessions.CategoryGameMaster))
	}
}

func (s *FlowsTestSuite) TestStoreSwitch() {
	r := s.single(s.flows.StartStoreSwitch(s.ctx, &flows.Input{Message: direct(testutils.AdminID, "Stores")}))
	s.Equal(flows.MsgChooseStore, r.Text)
	s.Equal([][]string{{"Weaponsmith (active)"}, {"Armorer"}, {flows.LabelCancel}}, r.Keyboard.Rows)

	r = s.gm("Armorer")
	s.Equal(flows.MsgStoreSwitched, r.Text)

	active, err := s.stores.GetActive(s.ctx, stores.GetActiveInput{})
	s.Require().NoError(err)
	s.Equal(int64(2), active.Store.ID)
}

func (s *FlowsTestSuite) TestStartingFlowReplacesPendingSession() {
	s.saveCharacter(testutils.NewCharacter(testutils.PlayerID, "brom"))
	s.choosePlayer()

	s.single(s.flows.StartStoreSwitch(s.ctx, &flows.Input{Message: direct(testutils.AdminID, "Stores")}))
	_, ok := s.pending(testutils.AdminID, sessions.CategoryGameMaster).(sessions.GMChooseStore)
	s.True(ok)

	r := s.gm(flows.LabelDamage)
	s.Equal(flows.MsgInvalid, r.Text)
}

func (s *FlowsTestSuite) TestGMCombatCheck() {
	s.createNPC(testutils.NewNPC("Goblin", 10))
	s.roller.Rolls = []int{12}

	r := s.single(s.flows.StartGMCombat(s.ctx, &flows.Input{Message: group(testutils.AdminID, "Mobs")}))
	s.Equal(flows.MsgChooseMob, r.Text)
	s.Equal([]string{"Goblin", flows.LabelCancel}, r.Keyboard.Buttons())

	r = s.gmCombat("Goblin")
	s.Equal([]string{flows.LabelCheck, flows.LabelDamage, flows.LabelCancel}, r.Keyboard.Buttons())

	r = s.gmCombat(flows.LabelCheck)
	s.Equal(flows.MsgChooseAttribute, r.Text)
	s.Equal(append(rules.AttributeNames(), flows.LabelCancel), r.Keyboard.Buttons())

	r = s.gmCombat("strength")
	s.Equal("NPC Goblin d20: 12\nAttribute strength: 3\nTotal: 15", r.Text)
	s.Equal([]int{20}, s.roller.Sizes)
	s.Nil(s.pending(testutils.AdminID, sessions.CategoryGMCombat))
}

func (s *FlowsTestSuite) TestGMCombatAttack() {
	c := testutils.NewCharacter(testutils.PlayerID, "brom")
	c.ArmorID = testutils.Int64Ptr(chainmailID)
	s.saveCharacter(c)

	goblin := testutils.NewNPC("Goblin", 10)
	goblin.WeaponID = testutils.Int64Ptr(shortSwordID)
	goblin.Damage = 2
	s.createNPC(goblin)
	s.roller.Rolls = []int{6}

	s.single(s.flows.StartGMCombat(s.ctx, &flows.Input{Message: group(testutils.AdminID, "Mobs")}))
	s.gmCombat("Goblin")
	r := s.gmCombat(flows.LabelDamage)
	s.Equal(flows.MsgChooseVictim, r.Text)
	s.Equal([]string{playerLabel, flows.LabelCancel}, r.Keyboard.Buttons())

	r = s.gmCombat(playerLabel)
	s.Equal("NPC Goblin attacked brom: d10 6 -> raw damage 9. Target armor 4 -> effective damage 5. Target HP: 9", r.Text)
	s.Equal(9, s.character(testutils.PlayerID).HP)
}

func (s *FlowsTestSuite) TestGMCombatInvalidInputAborts() {
	s.saveCharacter(testutils.NewCharacter(testutils.PlayerID, "brom"))
	s.createNPC(testutils.NewNPC("Goblin", 10))

	testCases := []struct {
		name     string
		inputs   []string
		expected string
	}{
		{"unknown mob", []string{"Dragon"}, flows.MsgInvalid},
		{"unknown action", []string{"Goblin", "Dance"}, flows.MsgInvalid},
		{"unknown attribute", []string{"Goblin", flows.LabelCheck, "luck"}, flows.MsgInvalid},
		{"unknown player", []string{"Goblin", flows.LabelDamage, "nobody (1)"}, flows.MsgInvalidPlayer},
		{"cancel at mob", []string{flows.LabelCancel}, flows.MsgCancelled},
		{"cancel at action", []string{"Goblin", flows.LabelCancel}, flows.MsgCancelled},
		{"cancel at attribute", []string{"Goblin", flows.LabelCheck, flows.LabelCancel}, flows.MsgCancelled},
		{"cancel at player", []string{"Goblin", flows.LabelDamage, flows.LabelCancel}, flows.MsgCancelled},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.single(s.flows.StartGMCombat(s.ctx, &flows.Input{Message: group(testutils.AdminID, "Mobs")}))
			var text string
			for _, in := range tc.inputs {
				text = s.gmCombat(in).Text
			}
			s.Equal(tc.expected, text)
			s.Nil(s.pending(testutils.AdminID, sessions.CategoryGMCombat))
		})
	}
	s.Empty(s.roller.Sizes)
	s.Equal(14, s.character(testutils.PlayerID).HP)
}

func (s *FlowsTestSuite) TestGMCombatWithoutMobs() {
	r := s.single(s.flows.StartGMCombat(s.ctx, &flows.Input{Message: group(testutils.AdminID, "Mobs")}))
	s.Equal(flows.MsgNoMobs, r.Text)
	s.Nil(s.pending(testutils.AdminID, sessions.CategoryGMCombat))
}
