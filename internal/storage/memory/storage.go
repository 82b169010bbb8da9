package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/mcoot/broadside/internal/model"
	"github.com/mcoot/broadside/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Documents are copied on save and load so callers never share mutable
// state with the store, matching the Redis implementation's semantics.
type Storage struct {
	mu sync.RWMutex

	players   map[model.Handle]*model.Player
	games     map[model.GameID]*model.Game
	directory *model.Directory
	flags     map[string]bool

	playerSeq uint64
	gameSeq   uint64
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players: make(map[model.Handle]*model.Player),
		games:   make(map[model.GameID]*model.Game),
		flags:   make(map[string]bool),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *player
	s.players[player.Handle] = &p
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, handle model.Handle) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[handle]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	p := *player
	return &p, nil
}

func (s *Storage) NextPlayerSeq(ctx context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seq := s.playerSeq
	s.playerSeq++
	return seq, nil
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	copied, err := copyGame(game)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID] = copied
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	game, ok := s.games[id]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return copyGame(game)
}

func (s *Storage) NextGameSeq(ctx context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seq := s.gameSeq
	s.gameSeq++
	return seq, nil
}

// Directory operations

func (s *Storage) SaveDirectory(ctx context.Context, dir *model.Directory) error {
	copied := &model.Directory{Games: make([]model.GameDescriptor, len(dir.Games))}
	for i, d := range dir.Games {
		d.Players = append([]model.Handle(nil), d.Players...)
		copied.Games[i] = d
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.directory = copied
	return nil
}

func (s *Storage) GetDirectory(ctx context.Context) (*model.Directory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.directory == nil {
		return &model.Directory{}, nil
	}
	copied := &model.Directory{Games: make([]model.GameDescriptor, len(s.directory.Games))}
	for i, d := range s.directory.Games {
		d.Players = append([]model.Handle(nil), d.Players...)
		copied.Games[i] = d
	}
	return copied, nil
}

// Change flags

func (s *Storage) SetFlag(ctx context.Context, channel string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags[channel] = true
	return nil
}

func (s *Storage) ConsumeFlag(ctx context.Context, channel string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.flags[channel]
	delete(s.flags, channel)
	return set, nil
}

// copyGame deep-copies a game document via its JSON form; the board and
// fleet slices are nested deeply enough that this beats hand-written copies
func copyGame(game *model.Game) (*model.Game, error) {
	data, err := json.Marshal(game)
	if err != nil {
		return nil, err
	}
	var copied model.Game
	if err := json.Unmarshal(data, &copied); err != nil {
		return nil, err
	}
	return &copied, nil
}
