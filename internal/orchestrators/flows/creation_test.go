package flows_test

import (
	"github.com/KirkDiggler/rpg-tabletop/internal/orchestrators/flows"
	"github.com/KirkDiggler/rpg-tabletop/internal/rules"
	"github.com/KirkDiggler/rpg-tabletop/internal/sessions"
	"github.com/KirkDiggler/rpg-tabletop/internal/testutils"
)

func (s *FlowsTestSuite) startCreation() {
	r := s.single(s.flows.StartCreation(s.ctx, &flows.Input{Message: direct(testutils.PlayerID, "/create")}))
	s.Equal(flows.MsgChooseRace, r.Text)
	labels, _ := rules.RaceLabels()
	s.Equal(labels, r.Keyboard.Buttons())
}

func (s *FlowsTestSuite) allocate(points ...string) string {
	var last string
	for _, p := range points {
		last = s.resume(direct(testutils.PlayerID, p), sessions.CategoryCreation).Text
	}
	return last
}

func (s *FlowsTestSuite) TestCreationHappyPath() {
	s.startCreation()

	r := s.resume(direct(testutils.PlayerID, "human (strength+1, dexterity+1, intellect+1)"), sessions.CategoryCreation)
	s.Equal(flows.MsgChooseClass, r.Text)
	s.Equal(rules.ClassNames(), r.Keyboard.Buttons())

	r = s.resume(direct(testutils.PlayerID, "Warrior"), sessions.CategoryCreation)
	s.Contains(r.Text, "10 points left. How many into strength?")
	s.Equal([]string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}, r.Keyboard.Buttons())

	s.Equal(flows.MsgSaved, s.allocate("5", "2", "1", "1", "1", "0"))

	c := s.character(testutils.PlayerID)
	s.Equal("brom", c.Username)
	s.Equal(rules.Human, c.Race)
	s.Equal(rules.Warrior, c.Class)
	s.Equal(5, c.Attributes.Get(rules.Strength))
	s.Equal(0, c.Attributes.Get(rules.Charisma))
	s.Equal(14, c.HP, "ceil((5+1) * 2.2)")
	s.Equal(rules.DefaultStartingGold, c.Gold)
	s.Equal([]int64{1, 9}, c.Inventory)
	s.Nil(c.WeaponID)
	s.Nil(c.ArmorID)

	s.Nil(s.pending(testutils.PlayerID, sessions.CategoryCreation))
}

func (s *FlowsTestSuite) TestCreationAcceptsRaceKey() {
	s.startCreation()

	r := s.resume(direct(testutils.PlayerID, "ORC"), sessions.CategoryCreation)
	s.Equal(flows.MsgChooseClass, r.Text)
	s.Equal(sessions.CreationClass{Race: rules.Orc}, s.pending(testutils.PlayerID, sessions.CategoryCreation))
}

func (s *FlowsTestSuite) TestCreationFloorsLowHP() {
	s.startCreation()
	s.resume(direct(testutils.PlayerID, "elf"), sessions.CategoryCreation)
	s.resume(direct(testutils.PlayerID, "thief"), sessions.CategoryCreation)

	s.Equal(flows.MsgSaved, s.allocate("0", "10", "0", "0", "0", "0"))
	s.Equal(rules.MinimumHP, s.character(testutils.PlayerID).HP)
}

func (s *FlowsTestSuite) TestCreationRejectsInvalidInput() {
	s.startCreation()

	r := s.resume(direct(testutils.PlayerID, "gnome"), sessions.CategoryCreation)
	s.Equal(flows.MsgUnknownRace, r.Text)
	s.Equal(sessions.CreationRace{}, s.pending(testutils.PlayerID, sessions.CategoryCreation))

	s.resume(direct(testutils.PlayerID, "dwarf"), sessions.CategoryCreation)
	r = s.resume(direct(testutils.PlayerID, "bard"), sessions.CategoryCreation)
	s.Equal(flows.MsgUnknownClass, r.Text)

	s.resume(direct(testutils.PlayerID, "archer"), sessions.CategoryCreation)

	r = s.resume(direct(testutils.PlayerID, "lots"), sessions.CategoryCreation)
	s.Equal("Pick a number with the buttons. How many into strength?", r.Text)

	r = s.resume(direct(testutils.PlayerID, "11"), sessions.CategoryCreation)
	s.Equal("Invalid. Choose 0..10 for strength.", r.Text)

	r = s.resume(direct(testutils.PlayerID, "-1"), sessions.CategoryCreation)
	s.Equal("Invalid. Choose 0..10 for strength.", r.Text)

	st, ok := s.pending(testutils.PlayerID, sessions.CategoryCreation).(sessions.CreationAllocate)
	s.Require().True(ok)
	s.Equal(0, st.Index)
	s.Equal(10, st.Remaining)
}

func (s *FlowsTestSuite) TestCreationRestartsWhenPointsAreLeft() {
	s.startCreation()
	s.resume(direct(testutils.PlayerID, "dwarf"), sessions.CategoryCreation)
	s.resume(direct(testutils.PlayerID, "wizard"), sessions.CategoryCreation)

	text := s.allocate("1", "1", "1", "1", "1", "1")
	s.Equal("You did not spend all points (4 left). Starting over. How many into strength?", text)

	st, ok := s.pending(testutils.PlayerID, sessions.CategoryCreation).(sessions.CreationAllocate)
	s.Require().True(ok)
	s.Equal(sessions.CreationAllocate{
		Race:      rules.Dwarf,
		Class:     rules.Wizard,
		Remaining: rules.AllocationPoints,
	}, st)

	s.Equal(flows.MsgSaved, s.allocate("4", "1", "1", "1", "2", "1"))
	c := s.character(testutils.PlayerID)
	s.Equal(rules.Dwarf, c.Race)
	s.Equal(11, c.HP, "ceil((4+1) * 2.2)")
}

func (s *FlowsTestSuite) TestCreationSpentPointsShrinkTheKeyboard() {
	s.startCreation()
	s.resume(direct(testutils.PlayerID, "human"), sessions.CategoryCreation)
	s.resume(direct(testutils.PlayerID, "warrior"), sessions.CategoryCreation)

	r := s.resume(direct(testutils.PlayerID, "8"), sessions.CategoryCreation)
	s.Equal("2 points left. How many into dexterity?", r.Text)
	s.Equal([]string{"0", "1", "2"}, r.Keyboard.Buttons())

	r = s.resume(direct(testutils.PlayerID, "3"), sessions.CategoryCreation)
	s.Equal("Invalid. Choose 0..2 for dexterity.", r.Text)
}

func (s *FlowsTestSuite) TestCreationRequiresDirectChat() {
	r := s.single(s.flows.StartCreation(s.ctx, &flows.Input{Message: group(testutils.PlayerID, "/create")}))
	s.Equal(flows.MsgCreateInDirect, r.Text)
	s.Nil(s.pending(testutils.PlayerID, sessions.CategoryCreation))
}

func (s *FlowsTestSuite) TestRecreateReplacesCharacter() {
	existing := testutils.NewCharacter(testutils.PlayerID, "old")
	existing.Gold = 3
	s.saveCharacter(existing)

	s.startCreation()
	s.resume(direct(testutils.PlayerID, "orc"), sessions.CategoryCreation)
	s.resume(direct(testutils.PlayerID, "warrior"), sessions.CategoryCreation)
	s.allocate("7", "0", "0", "0", "3", "0")

	c := s.character(testutils.PlayerID)
	s.Equal(rules.Orc, c.Race)
	s.Equal(22, c.HP)
	s.Equal(rules.DefaultStartingGold, c.Gold)
}
