package flows_test

import (
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-tabletop/internal/errors"
	"github.com/KirkDiggler/rpg-tabletop/internal/orchestrators/flows"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/npcs"
	npcsmock "github.com/KirkDiggler/rpg-tabletop/internal/repositories/npcs/mock"
	"github.com/KirkDiggler/rpg-tabletop/internal/rules"
	"github.com/KirkDiggler/rpg-tabletop/internal/sessions"
	sessionsmock "github.com/KirkDiggler/rpg-tabletop/internal/sessions/mock"
	"github.com/KirkDiggler/rpg-tabletop/internal/testutils"
)

func (s *FlowsTestSuite) newWith(roster npcs.Repository, store sessions.Store) *flows.Orchestrator {
	o, err := flows.New(&flows.Config{
		Characters: s.characters,
		Items:      s.items,
		NPCs:       roster,
		Stores:     s.stores,
		Sessions:   store,
		Engine:     s.engine,
		Menu:       s.menu,
		StartGold:  rules.DefaultStartingGold,
	})
	s.Require().NoError(err)
	return o
}

func (s *FlowsTestSuite) TestResumePropagatesStoreErrors() {
	ctrl := gomock.NewController(s.T())
	store := sessionsmock.NewMockStore(ctrl)
	store.EXPECT().
		Get(gomock.Any(), sessions.GetInput{UserID: testutils.PlayerID, Category: sessions.CategoryCombat}).
		Return(nil, errors.Internal("connection reset"))

	_, err := s.newWith(s.npcs, store).Resume(s.ctx, &flows.ResumeInput{
		Message:  group(testutils.PlayerID, "Goblin"),
		Category: sessions.CategoryCombat,
	})
	s.Require().Error(err)
	s.True(errors.IsInternal(err))
}

func (s *FlowsTestSuite) TestStartAttackDoesNotStoreSessionWhenRosterFails() {
	s.saveCharacter(testutils.NewCharacter(testutils.PlayerID, "brom"))

	ctrl := gomock.NewController(s.T())
	roster := npcsmock.NewMockRepository(ctrl)
	roster.EXPECT().
		List(gomock.Any(), npcs.ListInput{InCombatOnly: true}).
		Return(nil, errors.Internal("database is locked"))
	store := sessionsmock.NewMockStore(ctrl)

	_, err := s.newWith(roster, store).StartAttack(s.ctx, &flows.Input{Message: group(testutils.PlayerID, "Attack")})
	s.Require().Error(err)
	s.True(errors.IsInternal(err))
}
