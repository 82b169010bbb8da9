package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/broadside/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{
		Handle:     "player_0",
		PublicKey:  []byte{0x01, 0x02},
		PrivateKey: []byte{0x03, 0x04},
		CreatedAt:  time.Now().UTC(),
	}

	err := s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayer(s.ctx, "player_0")
	s.Require().NoError(err)
	s.Equal(player.Handle, retrieved.Handle)
	s.Equal(player.PublicKey, retrieved.PublicKey)
	s.Equal(player.PrivateKey, retrieved.PrivateKey)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestNextPlayerSeqStartsAtZero() {
	seq, err := s.storage.NextPlayerSeq(s.ctx)
	s.Require().NoError(err)
	s.Equal(uint64(0), seq)
}

func (s *StorageSuite) TestNextPlayerSeqIncrements() {
	for want := uint64(0); want < 3; want++ {
		seq, err := s.storage.NextPlayerSeq(s.ctx)
		s.Require().NoError(err)
		s.Equal(want, seq)
	}
}

// Game tests

func (s *StorageSuite) TestSaveAndGetGame() {
	game := &model.Game{
		ID:        1,
		Capacity:  2,
		Players:   []model.Handle{"player_0", "player_1"},
		Board:     model.NewBoard(2, model.FiredUntouched),
		Fleets:    model.NewFleets(2),
		State:     model.GameStateActive,
		Challenge: "deadbeef",
		ShotMask:  0b01,
	}

	err := s.storage.SaveGame(s.ctx, game)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetGame(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(game.Players, retrieved.Players)
	s.Equal(game.Challenge, retrieved.Challenge)
	s.Equal(game.ShotMask, retrieved.ShotMask)
	s.Len(retrieved.Fleets, 2)
	s.Equal(model.FiredUntouched, retrieved.Board.StateAt(9, 9, 1).State)
}

func (s *StorageSuite) TestGetGameNotFound() {
	_, err := s.storage.GetGame(s.ctx, 42)
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestNextGameSeqIncrements() {
	for want := uint64(0); want < 3; want++ {
		seq, err := s.storage.NextGameSeq(s.ctx)
		s.Require().NoError(err)
		s.Equal(want, seq)
	}
}

func (s *StorageSuite) TestGameAndPlayerSeqsAreIndependent() {
	_, err := s.storage.NextGameSeq(s.ctx)
	s.Require().NoError(err)
	_, err = s.storage.NextGameSeq(s.ctx)
	s.Require().NoError(err)

	seq, err := s.storage.NextPlayerSeq(s.ctx)
	s.Require().NoError(err)
	s.Equal(uint64(0), seq)
}

// Directory tests

func (s *StorageSuite) TestGetDirectoryEmptyWhenUnset() {
	dir, err := s.storage.GetDirectory(s.ctx)
	s.Require().NoError(err)
	s.Empty(dir.Games)
}

func (s *StorageSuite) TestSaveAndGetDirectory() {
	dir := &model.Directory{
		Games: []model.GameDescriptor{
			{GameID: 0, Capacity: 2, Players: []model.Handle{"player_0"}, State: model.GameStateFilling},
			{GameID: 1, Capacity: 4, Players: []model.Handle{}, State: model.GameStateActive},
		},
	}
	s.Require().NoError(s.storage.SaveDirectory(s.ctx, dir))

	retrieved, err := s.storage.GetDirectory(s.ctx)
	s.Require().NoError(err)
	s.Len(retrieved.Games, 2)
	s.Equal(model.GameID(1), retrieved.Games[1].GameID)
	s.Equal(model.GameStateActive, retrieved.Games[1].State)
}

// Flag tests

func (s *StorageSuite) TestConsumeFlagUnset() {
	set, err := s.storage.ConsumeFlag(s.ctx, "lobby_update")
	s.Require().NoError(err)
	s.False(set)
}

func (s *StorageSuite) TestSetAndConsumeFlag() {
	s.Require().NoError(s.storage.SetFlag(s.ctx, "lobby_update"))

	set, err := s.storage.ConsumeFlag(s.ctx, "lobby_update")
	s.Require().NoError(err)
	s.True(set)

	// Consuming clears the flag
	set, err = s.storage.ConsumeFlag(s.ctx, "lobby_update")
	s.Require().NoError(err)
	s.False(set)
}

func (s *StorageSuite) TestRepeatedSetsCoalesce() {
	s.Require().NoError(s.storage.SetFlag(s.ctx, "game_update_1"))
	s.Require().NoError(s.storage.SetFlag(s.ctx, "game_update_1"))

	set, err := s.storage.ConsumeFlag(s.ctx, "game_update_1")
	s.Require().NoError(err)
	s.True(set)

	set, err = s.storage.ConsumeFlag(s.ctx, "game_update_1")
	s.Require().NoError(err)
	s.False(set)
}
