package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/broadside/internal/model"
	"github.com/mcoot/broadside/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Documents are stored whole as JSON; counters use INCR so id allocation
// is atomic under concurrent creation.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, playerKey(player.Handle), data, 0).Err()
}

func (s *Storage) GetPlayer(ctx context.Context, handle model.Handle) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(handle)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) NextPlayerSeq(ctx context.Context) (uint64, error) {
	n, err := s.client.Incr(ctx, playerSeqKey()).Result()
	if err != nil {
		return 0, err
	}
	// INCR yields 1 on first call; sequences are 0-based
	return uint64(n - 1), nil
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, gameKey(game.ID), data, 0).Err()
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	data, err := s.client.Get(ctx, gameKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	var game model.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Storage) NextGameSeq(ctx context.Context) (uint64, error) {
	n, err := s.client.Incr(ctx, gameSeqKey()).Result()
	if err != nil {
		return 0, err
	}
	return uint64(n - 1), nil
}

// Directory operations

func (s *Storage) SaveDirectory(ctx context.Context, dir *model.Directory) error {
	data, err := json.Marshal(dir)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, directoryKey(), data, 0).Err()
}

func (s *Storage) GetDirectory(ctx context.Context) (*model.Directory, error) {
	data, err := s.client.Get(ctx, directoryKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &model.Directory{}, nil
		}
		return nil, err
	}

	var dir model.Directory
	if err := json.Unmarshal(data, &dir); err != nil {
		return nil, err
	}
	return &dir, nil
}

// Change flags

func (s *Storage) SetFlag(ctx context.Context, channel string) error {
	return s.client.Set(ctx, flagKey(channel), "true", 0).Err()
}

func (s *Storage) ConsumeFlag(ctx context.Context, channel string) (bool, error) {
	// GETDEL makes read-and-clear atomic, so concurrent consumers observe
	// at most one wake per raise
	val, err := s.client.GetDel(ctx, flagKey(channel)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return val == "true", nil
}
