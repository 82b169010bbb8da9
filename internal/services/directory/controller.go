package directory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mcoot/broadside/internal/dependencies/clock"
	"github.com/mcoot/broadside/internal/model"
	"github.com/mcoot/broadside/internal/notify"
	"github.com/mcoot/broadside/internal/storage"
)

// Controller maintains the catalog of open and active games
type Controller struct {
	storage  storage.Storage
	notifier *notify.Notifier
	clock    clock.Clock
	logger   *slog.Logger

	// catalogMu serialises read-modify-write cycles on the single catalog
	// document; creates and descriptor updates race without it
	catalogMu sync.Mutex
}

// NewController creates a new directory controller
func NewController(
	storage storage.Storage,
	notifier *notify.Notifier,
	clock clock.Clock,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:  storage,
		notifier: notifier,
		clock:    clock,
		logger:   logger.With(slog.String("component", "directory")),
	}
}

// CreateGame allocates the next sequential game id, persists an empty
// filling-state game of the given capacity, appends its descriptor to the
// catalog and signals the directory channel
func (c *Controller) CreateGame(ctx context.Context, capacity int) (*model.Game, error) {
	if capacity < model.MinCapacity || capacity > model.MaxCapacity {
		return nil, model.ErrInvalidCapacity
	}

	seq, err := c.storage.NextGameSeq(ctx)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	game := &model.Game{
		ID:        model.GameID(seq),
		Capacity:  capacity,
		Players:   []model.Handle{},
		Board:     model.NewBoard(capacity, model.FiredEmpty),
		Fleets:    [][]model.Ship{},
		State:     model.GameStateFilling,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	if err := c.appendDescriptor(ctx, game); err != nil {
		return nil, err
	}

	c.notifier.Signal(ctx, notify.DirectoryChannel)

	c.logger.Info("game created",
		slog.Uint64("game_id", uint64(game.ID)),
		slog.Int("capacity", capacity),
	)
	return game, nil
}

// ListGames returns the full catalog; it is never paginated
func (c *Controller) ListGames(ctx context.Context) ([]model.GameDescriptor, error) {
	dir, err := c.storage.GetDirectory(ctx)
	if err != nil {
		return nil, err
	}
	return dir.Games, nil
}

// UpdateDescriptor rewrites a game's catalog entry from its current
// session state and signals the directory channel. Called after joins and
// game completion.
func (c *Controller) UpdateDescriptor(ctx context.Context, game *model.Game) error {
	c.catalogMu.Lock()
	defer c.catalogMu.Unlock()

	dir, err := c.storage.GetDirectory(ctx)
	if err != nil {
		return err
	}

	entry := dir.Find(game.ID)
	if entry == nil {
		return model.ErrGameNotFound
	}
	entry.Players = append([]model.Handle(nil), game.Players...)
	entry.State = game.State

	if err := c.storage.SaveDirectory(ctx, dir); err != nil {
		return err
	}

	c.notifier.Signal(ctx, notify.DirectoryChannel)
	return nil
}

func (c *Controller) appendDescriptor(ctx context.Context, game *model.Game) error {
	c.catalogMu.Lock()
	defer c.catalogMu.Unlock()

	dir, err := c.storage.GetDirectory(ctx)
	if err != nil {
		return err
	}
	dir.Games = append(dir.Games, model.GameDescriptor{
		GameID:   game.ID,
		Capacity: game.Capacity,
		Players:  []model.Handle{},
		State:    game.State,
	})
	return c.storage.SaveDirectory(ctx, dir)
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateGame(ctx context.Context, capacity int) (*model.Game, error)
	ListGames(ctx context.Context) ([]model.GameDescriptor, error)
	UpdateDescriptor(ctx context.Context, game *model.Game) error
}

var _ ControllerInterface = (*Controller)(nil)
