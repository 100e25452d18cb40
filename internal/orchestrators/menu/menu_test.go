package menu_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-tabletop/internal/entities"
	"github.com/KirkDiggler/rpg-tabletop/internal/errors"
	"github.com/KirkDiggler/rpg-tabletop/internal/orchestrators/menu"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/characters"
	charactersmock "github.com/KirkDiggler/rpg-tabletop/internal/repositories/characters/mock"
	"github.com/KirkDiggler/rpg-tabletop/internal/repositories/flags"
	flagsmock "github.com/KirkDiggler/rpg-tabletop/internal/repositories/flags/mock"
	"github.com/KirkDiggler/rpg-tabletop/internal/rules"
	"github.com/KirkDiggler/rpg-tabletop/internal/testutils"
)

type MenuTestSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	ctx        context.Context
	characters *charactersmock.MockRepository
	flags      *flagsmock.MockRepository
	builder    *menu.Builder
}

func TestMenuSuite(t *testing.T) {
	suite.Run(t, new(MenuTestSuite))
}

func (s *MenuTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.ctx = context.Background()
	s.characters = charactersmock.NewMockRepository(s.ctrl)
	s.flags = flagsmock.NewMockRepository(s.ctrl)

	builder, err := menu.New(&menu.Config{
		Characters: s.characters,
		Flags:      s.flags,
		AdminID:    testutils.AdminID,
	})
	s.Require().NoError(err)
	s.builder = builder
}

func (s *MenuTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *MenuTestSuite) TestNewValidatesConfig() {
	_, err := menu.New(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = menu.New(&menu.Config{Characters: s.characters, Flags: s.flags})
	s.True(errors.IsInvalidArgument(err))
}

func (s *MenuTestSuite) TestDirectMenuWithoutCharacter() {
	s.characters.EXPECT().
		Get(s.ctx, characters.GetInput{UserID: testutils.PlayerID}).
		Return(nil, errors.NotFound("character not found"))

	kb, err := s.builder.Keyboard(s.ctx, testutils.PlayerID, entities.ChatDirect)
	s.Require().NoError(err)
	s.Equal([][]string{{menu.LabelCreate, menu.LabelShow}, {menu.LabelEquip}}, kb.Rows)
	s.False(kb.OneTime)
}

func (s *MenuTestSuite) TestDirectMenuForAdmin() {
	s.characters.EXPECT().
		Get(s.ctx, characters.GetInput{UserID: testutils.AdminID}).
		Return(&characters.GetOutput{Character: testutils.NewCharacter(testutils.AdminID, "gm")}, nil)
	s.flags.EXPECT().
		Get(s.ctx, flags.GetInput{Name: rules.ShopEnabledFlag}).
		Return(&flags.GetOutput{Flag: &entities.Flag{Name: rules.ShopEnabledFlag, Value: 1}}, nil)

	kb, err := s.builder.Keyboard(s.ctx, testutils.AdminID, entities.ChatDirect)
	s.Require().NoError(err)
	s.Equal([]string{
		menu.LabelRecreate, menu.LabelShow, menu.LabelEquip,
		menu.LabelCharacters, menu.LabelPlayers, menu.LabelStores, "Shop display: On",
	}, kb.Buttons())
}

func (s *MenuTestSuite) TestGroupMenu() {
	kb, err := s.builder.Keyboard(s.ctx, testutils.PlayerID, entities.ChatGroup)
	s.Require().NoError(err)
	s.Equal([][]string{
		{menu.LabelShow, menu.LabelGoods},
		{menu.LabelCheck, menu.LabelAttack},
		{menu.LabelMobs},
	}, kb.Rows)
}

func (s *MenuTestSuite) TestKeyboardPropagatesStoreErrors() {
	s.characters.EXPECT().
		Get(s.ctx, gomock.Any()).
		Return(nil, errors.Internal("disk gone"))

	_, err := s.builder.Keyboard(s.ctx, testutils.PlayerID, entities.ChatDirect)
	s.True(errors.IsInternal(err))
}

func (s *MenuTestSuite) TestShopEnabledDefaultsToOn() {
	s.flags.EXPECT().Get(s.ctx, gomock.Any()).Return(nil, errors.NotFound("flag not found"))

	enabled, err := s.builder.ShopEnabled(s.ctx)
	s.Require().NoError(err)
	s.True(enabled)
}

func (s *MenuTestSuite) TestShopEnabledFlagOff() {
	s.flags.EXPECT().
		Get(s.ctx, flags.GetInput{Name: rules.ShopEnabledFlag}).
		Return(&flags.GetOutput{Flag: &entities.Flag{Name: rules.ShopEnabledFlag, Value: 0}}, nil)

	enabled, err := s.builder.ShopEnabled(s.ctx)
	s.Require().NoError(err)
	s.False(enabled)
}

func (s *MenuTestSuite) TestShopEnabledPropagatesStoreErrors() {
	s.flags.EXPECT().Get(s.ctx, gomock.Any()).Return(nil, errors.Internal("database is locked"))

	_, err := s.builder.ShopEnabled(s.ctx)
	s.True(errors.IsInternal(err))
}

func (s *MenuTestSuite) TestShopToggleLabel() {
	s.Equal("Shop display: Off", menu.ShopToggleLabel(false))
	s.True(menu.IsShopToggle(menu.ShopToggleLabel(true)))
	s.False(menu.IsShopToggle("Shop"))
}

func (s *MenuTestSuite) TestNumbers() {
	s.Equal([][]string{{"0", "1", "2"}, {"3", "4"}}, menu.Numbers(4).Rows)
	s.Equal([][]string{{"0"}}, menu.Numbers(0).Rows)
	s.Len(menu.Numbers(10).Rows, 2)
	s.True(menu.Numbers(3).OneTime)
}
