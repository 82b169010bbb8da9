package directory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/broadside/internal/dependencies/mocks"
	"github.com/mcoot/broadside/internal/model"
	"github.com/mcoot/broadside/internal/notify"
	"github.com/mcoot/broadside/internal/storage/memory"
	"github.com/mcoot/broadside/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	logger := testutil.NopLogger()
	notifier := notify.New(s.storage, time.Hour, logger)
	s.controller = NewController(s.storage, notifier, s.clock, logger)
	s.ctx = context.Background()
}

func (s *ControllerSuite) TestCreateGameSucceeds() {
	game, err := s.controller.CreateGame(s.ctx, 2)
	s.Require().NoError(err)

	s.Equal(model.GameID(0), game.ID)
	s.Equal(2, game.Capacity)
	s.Equal(model.GameStateFilling, game.State)
	s.Empty(game.Players)
	s.Empty(game.Fleets)
	s.Equal(model.FiredEmpty, game.Board.StateAt(0, 0, 0).State)
}

func (s *ControllerSuite) TestCreateGameIdsAreSequential() {
	first, err := s.controller.CreateGame(s.ctx, 2)
	s.Require().NoError(err)
	second, err := s.controller.CreateGame(s.ctx, 3)
	s.Require().NoError(err)

	s.Equal(model.GameID(0), first.ID)
	s.Equal(model.GameID(1), second.ID)
}

func (s *ControllerSuite) TestCreateGameIsPersisted() {
	game, err := s.controller.CreateGame(s.ctx, 2)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(game.Capacity, retrieved.Capacity)
}

func (s *ControllerSuite) TestCreateGameRejectsCapacityTooSmall() {
	_, err := s.controller.CreateGame(s.ctx, 1)
	s.ErrorIs(err, model.ErrInvalidCapacity)
}

func (s *ControllerSuite) TestCreateGameRejectsCapacityTooLarge() {
	_, err := s.controller.CreateGame(s.ctx, model.MaxCapacity+1)
	s.ErrorIs(err, model.ErrInvalidCapacity)
}

func (s *ControllerSuite) TestCreateGameAppendsToCatalog() {
	_, err := s.controller.CreateGame(s.ctx, 2)
	s.Require().NoError(err)
	_, err = s.controller.CreateGame(s.ctx, 4)
	s.Require().NoError(err)

	games, err := s.controller.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Len(games, 2)
	s.Equal(model.GameID(0), games[0].GameID)
	s.Equal(4, games[1].Capacity)
}

func (s *ControllerSuite) TestCreateGameSignalsDirectoryChannel() {
	_, err := s.controller.CreateGame(s.ctx, 2)
	s.Require().NoError(err)

	set, err := s.storage.ConsumeFlag(s.ctx, notify.DirectoryChannel)
	s.Require().NoError(err)
	s.True(set)
}

func (s *ControllerSuite) TestListGamesEmptyCatalog() {
	games, err := s.controller.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Empty(games)
}

func (s *ControllerSuite) TestUpdateDescriptorRewritesEntry() {
	game, err := s.controller.CreateGame(s.ctx, 2)
	s.Require().NoError(err)

	game.Players = []model.Handle{"player_0", "player_1"}
	game.State = model.GameStateActive
	s.Require().NoError(s.controller.UpdateDescriptor(s.ctx, game))

	games, err := s.controller.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Equal(game.Players, games[0].Players)
	s.Equal(model.GameStateActive, games[0].State)
}

func (s *ControllerSuite) TestUpdateDescriptorUnknownGame() {
	game := &model.Game{ID: 99, Capacity: 2}
	err := s.controller.UpdateDescriptor(s.ctx, game)
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ControllerSuite) TestFinishedGamesStayInCatalog() {
	game, err := s.controller.CreateGame(s.ctx, 2)
	s.Require().NoError(err)

	game.State = model.GameStateFinished
	s.Require().NoError(s.controller.UpdateDescriptor(s.ctx, game))

	games, err := s.controller.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Equal(model.GameStateFinished, games[0].State)
}
