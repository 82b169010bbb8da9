package storage

import (
	"context"

	"github.com/mcoot/broadside/internal/model"
)

// Storage defines the interface for data persistence.
//
// The store offers no multi-document transactions; callers serialise
// read-modify-write sequences on game documents themselves (the session
// layer holds a per-game lock). Counter allocation and flag consumption
// are atomic within a single call.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, handle model.Handle) (*model.Player, error)

	// NextPlayerSeq atomically allocates the next player sequence number,
	// starting from 0
	NextPlayerSeq(ctx context.Context) (uint64, error)

	// Game operations
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)

	// NextGameSeq atomically allocates the next game sequence number,
	// starting from 0
	NextGameSeq(ctx context.Context) (uint64, error)

	// Directory catalog. GetDirectory returns an empty catalog when none
	// has been written yet.
	SaveDirectory(ctx context.Context, dir *model.Directory) error
	GetDirectory(ctx context.Context) (*model.Directory, error)

	// Change flags. SetFlag raises a level-triggered flag on a channel;
	// ConsumeFlag atomically reads and clears it, reporting whether it
	// was set. Multiple raises between consumes coalesce.
	SetFlag(ctx context.Context, channel string) error
	ConsumeFlag(ctx context.Context, channel string) (bool, error)
}
