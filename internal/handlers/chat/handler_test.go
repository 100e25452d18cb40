package chat_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-tabletop/internal/engine/rpgtoolkit"
	"github.com/KirkDiggler/rpg-tabletop/internal/entities"
	"github.com/KirkDiggler/rpg-tabletop/internal/errors"
	"github.com/KirkDiggler/rpg-tabletop/internal/handlers/chat"
	"github.com/KirkDiggler/rpg-tabletop/internal/orchestrators/commands"
	"github.com/KirkDiggler/rpg-tabletop/internal/orchestrators/flows"
	"github.com/KirkDiggler/rpg-tabletop/internal/orchestrators/menu"
	"github.com/KirkDiggler/rpg-tabletop/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-tabletop/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/characters"
	charactersmock "github.com/KirkDiggler/rpg-tabletop/internal/repositories/characters/mock"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/flags"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/items"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/npcs"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/stores"
	"github.com/KirkDiggler/rpg-tabletop/internal/rules"
	"github.com/KirkDiggler/rpg-tabletop/internal/sessions"
	"github.com/KirkDiggler/rpg-tabletop/internal/testutils"
)

type HandlerTestSuite struct {
	suite.Suite
	ctx      context.Context
	roller   *testutils.QueuedRoller
	chars    characters.Repository
	items    items.Repository
	npcs     npcs.Repository
	stores   stores.Repository
	flags    flags.Repository
	sessions sessions.Store
	handler  *chat.Handler
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.roller = testutils.NewQueuedRoller()

	db := testutils.CreateTestDB(s.T())

	var err error
	s.chars, err = characters.NewSQLite(&characters.Config{DB: db})
	s.Require().NoError(err)
	s.items, err = items.NewSQLite(&items.Config{DB: db})
	s.Require().NoError(err)
	s.npcs, err = npcs.NewSQLite(&npcs.Config{DB: db})
	s.Require().NoError(err)
	s.stores, err = stores.NewSQLite(&stores.Config{DB: db})
	s.Require().NoError(err)
	s.flags, err = flags.NewSQLite(&flags.Config{DB: db})
	s.Require().NoError(err)
	s.sessions, err = sessions.NewMemory(&sessions.MemoryConfig{
		Clock: clock.NewFixed(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)),
	})
	s.Require().NoError(err)

	s.handler = s.build(s.chars)
}

// build wires the full stack around the given character repository
func (s *HandlerTestSuite) build(chars characters.Repository) *chat.Handler {
	eng, err := rpgtoolkit.NewAdapter(&rpgtoolkit.AdapterConfig{
		EventBus:   events.NewBus(),
		DiceRoller: s.roller,
	})
	s.Require().NoError(err)

	builder, err := menu.New(&menu.Config{
		Characters: chars,
		Flags:      s.flags,
		AdminID:    testutils.AdminID,
	})
	s.Require().NoError(err)

	orchestrator, err := flows.New(&flows.Config{
		Characters: chars,
		Items:      s.items,
		NPCs:       s.npcs,
		Stores:     s.stores,
		Sessions:   s.sessions,
		Engine:     eng,
		Menu:       builder,
		StartGold:  rules.DefaultStartingGold,
	})
	s.Require().NoError(err)

	cmds, err := commands.New(&commands.Config{
		Characters: chars,
		Items:      s.items,
		Stores:     s.stores,
		Flags:      s.flags,
		Engine:     eng,
		Menu:       builder,
	})
	s.Require().NoError(err)

	handler, err := chat.NewHandler(&chat.HandlerConfig{
		Flows:    orchestrator,
		Commands: cmds,
		Menu:     builder,
		IDs:      idgen.NewSequential("turn"),
	})
	s.Require().NoError(err)
	return handler
}

func direct(sender int64, text string) entities.Message {
	return entities.Message{SenderID: sender, ChatKind: entities.ChatDirect, DisplayName: "brom", Text: text}
}

func group(sender int64, text string) entities.Message {
	return entities.Message{SenderID: sender, ChatKind: entities.ChatGroup, DisplayName: "brom", Text: text}
}

func command(kind entities.ChatKind, sender int64, token string) entities.Message {
	return entities.Message{SenderID: sender, ChatKind: kind, DisplayName: "brom", Text: "/" + token, Command: token}
}

func (s *HandlerTestSuite) single(msg entities.Message) entities.Reply {
	replies := s.handler.Handle(s.ctx, msg)
	s.Require().Len(replies, 1)
	return replies[0]
}

func (s *HandlerTestSuite) pending(userID int64, category sessions.Category) sessions.State {
	out, err := s.sessions.Get(s.ctx, sessions.GetInput{UserID: userID, Category: category})
	if errors.IsNotFound(err) {
		return nil
	}
	s.Require().NoError(err)
	return out.Session.State
}

func (s *HandlerTestSuite) saveCharacter(c *entities.Character) {
	_, err := s.chars.Upsert(s.ctx, characters.UpsertInput{Character: c})
	s.Require().NoError(err)
}

func (s *HandlerTestSuite) TestNewHandlerValidatesConfig() {
	_, err := chat.NewHandler(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = chat.NewHandler(&chat.HandlerConfig{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *HandlerTestSuite) TestStartCommand() {
	s.Equal(commands.MsgGreetingDirect, s.single(command(entities.ChatDirect, testutils.PlayerID, chat.CommandStart)).Text)
	s.Equal(commands.MsgGreetingGroup, s.single(command(entities.ChatGroup, testutils.PlayerID, chat.CommandStart)).Text)
}

func (s *HandlerTestSuite) TestUnknownCommandAndTextAreIgnored() {
	s.Empty(s.handler.Handle(s.ctx, command(entities.ChatDirect, testutils.PlayerID, "dance")))
	s.Empty(s.handler.Handle(s.ctx, direct(testutils.PlayerID, "hello there")))
	s.Empty(s.handler.Handle(s.ctx, group(testutils.PlayerID, "hello there")))
}

func (s *HandlerTestSuite) TestCreationThroughHandler() {
	r := s.single(command(entities.ChatDirect, testutils.PlayerID, chat.CommandCreate))
	s.Equal(flows.MsgChooseRace, r.Text)

	s.Equal(flows.MsgChooseClass, s.single(direct(testutils.PlayerID, "human")).Text)
	s.single(direct(testutils.PlayerID, "warrior"))
	for _, points := range []string{"5", "2", "1", "1", "1"} {
		s.single(direct(testutils.PlayerID, points))
	}
	r = s.single(direct(testutils.PlayerID, "0"))
	s.Equal(flows.MsgSaved, r.Text)
	s.Contains(r.Keyboard.Buttons(), menu.LabelRecreate)

	got, err := s.chars.Get(s.ctx, characters.GetInput{UserID: testutils.PlayerID})
	s.Require().NoError(err)
	s.Equal(14, got.Character.HP)
}

func (s *HandlerTestSuite) TestCreationIgnoresGroupMessages() {
	s.single(direct(testutils.PlayerID, menu.LabelCreate))

	s.Empty(s.handler.Handle(s.ctx, group(testutils.PlayerID, "human")))
	s.Equal(sessions.CreationRace{}, s.pending(testutils.PlayerID, sessions.CategoryCreation))
}

func (s *HandlerTestSuite) TestMenuLabelWinsOverCreationSession() {
	s.single(direct(testutils.PlayerID, menu.LabelCreate))

	r := s.single(direct(testutils.PlayerID, menu.LabelShow))
	s.Equal(commands.MsgNoCharacter, r.Text)
	s.Equal(sessions.CreationRace{}, s.pending(testutils.PlayerID, sessions.CategoryCreation))
}

func (s *HandlerTestSuite) TestGroupAttack() {
	s.saveCharacter(testutils.NewCharacter(testutils.PlayerID, "brom"))
	_, err := s.npcs.Create(s.ctx, npcs.CreateInput{NPC: testutils.NewNPC("Goblin", 10)})
	s.Require().NoError(err)
	s.roller.Rolls = []int{5}

	r := s.single(group(testutils.PlayerID, menu.LabelAttack))
	s.Equal(flows.MsgChooseTarget, r.Text)
	s.Equal([]string{"Goblin"}, r.Keyboard.Buttons())

	r = s.single(group(testutils.PlayerID, "Goblin"))
	s.Equal("d10: 5 + weapon 0 = 5\nMob armor: 0 -> effective damage 5. HP left: 5", r.Text)
}

func (s *HandlerTestSuite) TestCombatSessionWinsOverMenuLabels() {
	s.saveCharacter(testutils.NewCharacter(testutils.PlayerID, "brom"))
	_, err := s.npcs.Create(s.ctx, npcs.CreateInput{NPC: testutils.NewNPC("Goblin", 10)})
	s.Require().NoError(err)

	s.single(command(entities.ChatGroup, testutils.PlayerID, chat.CommandAttack))

	r := s.single(group(testutils.PlayerID, menu.LabelShow))
	s.Equal(flows.MsgInvalid, r.Text)
	s.Nil(s.pending(testutils.PlayerID, sessions.CategoryCombat))
}

func (s *HandlerTestSuite) TestGroupCheck() {
	s.saveCharacter(testutils.NewCharacter(testutils.PlayerID, "brom"))

	r := s.single(group(testutils.PlayerID, menu.LabelCheck))
	s.Equal(commands.MsgChooseAttribute, r.Text)
	s.Equal(rules.AttributeNames(), r.Keyboard.Buttons())

	s.roller.Rolls = []int{12}
	r = s.single(group(testutils.PlayerID, "strength"))
	s.Equal("brom d20: 12\nAttribute strength: 5 (bonus +1)\nTotal: 18", r.Text)
}

func (s *HandlerTestSuite) TestAttributeNamesOnlyRollInGroups() {
	s.saveCharacter(testutils.NewCharacter(testutils.PlayerID, "brom"))

	s.Empty(s.handler.Handle(s.ctx, direct(testutils.PlayerID, "strength")))
}

func (s *HandlerTestSuite) TestMobsRequiresAdmin() {
	s.Empty(s.handler.Handle(s.ctx, group(testutils.PlayerID, menu.LabelMobs)))

	r := s.single(group(testutils.AdminID, menu.LabelMobs))
	s.Equal(flows.MsgNoMobs, r.Text)
}

func (s *HandlerTestSuite) TestAdminPlayersAndStores() {
	s.saveCharacter(testutils.NewCharacter(testutils.PlayerID, "brom"))
	_, err := s.stores.Create(s.ctx, stores.CreateInput{Store: &entities.Store{ID: 1, Name: "Weaponsmith", Active: true}})
	s.Require().NoError(err)

	s.Empty(s.handler.Handle(s.ctx, direct(testutils.PlayerID, menu.LabelPlayers)))
	s.Empty(s.handler.Handle(s.ctx, group(testutils.AdminID, menu.LabelPlayers)))

	r := s.single(direct(testutils.AdminID, menu.LabelPlayers))
	s.Equal(flows.MsgChoosePlayer, r.Text)

	r = s.single(direct(testutils.AdminID, "brom (42)"))
	s.Contains(r.Keyboard.Buttons(), flows.LabelHeal)

	r = s.single(direct(testutils.AdminID, menu.LabelStores))
	s.Equal(flows.MsgChooseStore, r.Text)
	s.Equal(sessions.CategoryGameMaster, s.pending(testutils.AdminID, sessions.CategoryGameMaster).Category())

	r = s.single(direct(testutils.AdminID, "Weaponsmith (active)"))
	s.Equal(flows.MsgStoreSwitched, r.Text)
}

func (s *HandlerTestSuite) TestAdminShopToggle() {
	r := s.single(command(entities.ChatDirect, testutils.AdminID, chat.CommandStart))
	s.Contains(r.Keyboard.Buttons(), menu.ShopToggleLabel(true), "an unseeded shop flag reads as on")

	r = s.single(direct(testutils.AdminID, menu.ShopToggleLabel(true)))
	s.Equal(commands.MsgShopHidden, r.Text)
	s.Contains(r.Keyboard.Buttons(), menu.ShopToggleLabel(false))

	r = s.single(direct(testutils.AdminID, menu.ShopToggleLabel(false)))
	s.Equal(commands.MsgShopShown, r.Text)
	s.Contains(r.Keyboard.Buttons(), menu.ShopToggleLabel(true))

	s.Empty(s.handler.Handle(s.ctx, direct(testutils.PlayerID, menu.ShopToggleLabel(true))))
}

func (s *HandlerTestSuite) TestRepositoryErrorBecomesGenericReply() {
	ctrl := gomock.NewController(s.T())
	mockChars := charactersmock.NewMockRepository(ctrl)
	mockChars.EXPECT().
		Get(gomock.Any(), characters.GetInput{UserID: testutils.PlayerID}).
		Return(nil, errors.Internal("database is locked"))

	replies := s.build(mockChars).Handle(s.ctx, command(entities.ChatDirect, testutils.PlayerID, chat.CommandShow))
	s.Equal([]entities.Reply{{Text: chat.MsgInternalError}}, replies)
}

func (s *HandlerTestSuite) TestPanicBecomesGenericReply() {
	ctrl := gomock.NewController(s.T())
	mockChars := charactersmock.NewMockRepository(ctrl)
	mockChars.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, characters.GetInput) (*characters.GetOutput, error) {
			panic("corrupted row")
		})

	var replies []entities.Reply
	s.NotPanics(func() {
		replies = s.build(mockChars).Handle(s.ctx, command(entities.ChatGroup, testutils.PlayerID, chat.CommandShow))
	})
	s.Equal([]entities.Reply{{Text: chat.MsgInternalError}}, replies)
}
