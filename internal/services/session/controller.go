package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/broadside/internal/dependencies/clock"
	"github.com/mcoot/broadside/internal/dependencies/random"
	"github.com/mcoot/broadside/internal/locks"
	"github.com/mcoot/broadside/internal/model"
	"github.com/mcoot/broadside/internal/notify"
	"github.com/mcoot/broadside/internal/services/directory"
	"github.com/mcoot/broadside/internal/services/identity"
	"github.com/mcoot/broadside/internal/storage"
)

// ChallengeBytes is the byte length of generated round challenges
const ChallengeBytes = 16

// JoinOutcome describes how a join request resolved
type JoinOutcome string

const (
	JoinOutcomeJoined    JoinOutcome = "joined"
	JoinOutcomeRejoined  JoinOutcome = "rejoined"  // handle already on the roster
	JoinOutcomeSpectator JoinOutcome = "spectator" // roster full, read-only access
)

// Controller manages the per-game join state machine and state views
type Controller struct {
	storage   storage.Storage
	identity  *identity.Service
	directory *directory.Controller
	notifier  *notify.Notifier
	locks     *locks.Table
	clock     clock.Clock
	random    random.Random
	logger    *slog.Logger
}

// NewController creates a new session controller
func NewController(
	storage storage.Storage,
	identityService *identity.Service,
	directoryController *directory.Controller,
	notifier *notify.Notifier,
	lockTable *locks.Table,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:   storage,
		identity:  identityService,
		directory: directoryController,
		notifier:  notifier,
		locks:     lockTable,
		clock:     clock,
		random:    random,
		logger:    logger.With(slog.String("component", "session")),
	}
}

// GetGame retrieves a game by id
func (c *Controller) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, id)
}

// Join runs the roster state machine for one handle:
//
//   - handle already on the roster: idempotent, current state unchanged
//   - roster full and handle absent: spectator downgrade, state unchanged
//   - otherwise the handle is appended; if the roster just filled, fleets
//     are placed, the board resets to untouched, a fresh challenge is
//     generated and the game goes active
//
// The whole sequence holds the per-game lock so two concurrent joins
// cannot both claim the last roster slot.
func (c *Controller) Join(ctx context.Context, gameID model.GameID, handle model.Handle) (*model.Game, JoinOutcome, error) {
	if _, err := c.storage.GetPlayer(ctx, handle); err != nil {
		return nil, "", err
	}

	unlock := c.locks.Lock(gameID)
	defer unlock()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, "", err
	}

	if _, ok := game.SlotOf(handle); ok {
		return game, JoinOutcomeRejoined, nil
	}
	if game.IsFull() {
		return game, JoinOutcomeSpectator, nil
	}

	game.Players = append(game.Players, handle)
	game.UpdatedAt = c.clock.Now()

	if game.IsFull() {
		c.startGame(game)
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, "", err
	}
	if err := c.directory.UpdateDescriptor(ctx, game); err != nil {
		return nil, "", err
	}

	if game.State == model.GameStateActive {
		c.notifier.Signal(ctx, notify.GameChannel(game.ID))
		c.logger.Info("game started",
			slog.Uint64("game_id", uint64(game.ID)),
			slog.Int("players", len(game.Players)),
		)
	}

	return game, JoinOutcomeJoined, nil
}

// startGame transitions a just-filled game to active: fleets placed, every
// cell reset to untouched for all slots, fresh round challenge, empty shot
// mask
func (c *Controller) startGame(game *model.Game) {
	game.Fleets = model.NewFleets(game.Capacity)
	game.Board = model.NewBoard(game.Capacity, model.FiredUntouched)
	game.Challenge = c.random.Token(ChallengeBytes)
	game.ShotMask = 0
	game.State = model.GameStateActive
}

// Access is the authorization outcome of a view request
type Access string

const (
	AccessPlayer          Access = "player"
	AccessSpectator       Access = "spectator"
	AccessUnauthenticated Access = "unauthenticated"
)

// View is one requester's picture of a game. Fleet is populated only for
// an authenticated roster member, and the board only ever carries ship
// overlays for that member's own un-hit cells.
type View struct {
	Access    Access
	GameID    model.GameID
	Capacity  int
	State     model.GameState
	Challenge string
	Roster    []model.Handle
	Fleet     []model.Ship
	Board     model.Board
	ShotMask  uint32
	Winner    model.Handle
}

// GetView builds the session state visible to a requester. A roster member
// presenting a proof that decrypts to the read plaintext sees the live
// challenge, their own fleet and their own un-hit ship cells overlaid;
// everyone else sees the hidden board. Opponents' ship positions are never
// revealed through any view.
func (c *Controller) GetView(ctx context.Context, gameID model.GameID, handle model.Handle, proof string) (*View, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	view := &View{
		GameID:   game.ID,
		Capacity: game.Capacity,
		State:    game.State,
		Roster:   game.Players,
		Board:    game.Board,
		ShotMask: game.ShotMask,
		Winner:   game.Winner,
	}

	slot, member := game.SlotOf(handle)
	if !member {
		// Spectator: no challenge, no ship data for anyone
		view.Access = AccessSpectator
		return view, nil
	}

	if game.State == model.GameStateFilling {
		view.Access = AccessUnauthenticated
		return view, nil
	}

	if err := c.identity.VerifyProof(ctx, handle, proof, identity.ReadProofPlaintext); err != nil {
		if errors.Is(err, model.ErrAuthenticationFailed) {
			// Pending view: the challenge is still disclosed so the
			// client can build its next proof, but no ship data
			view.Access = AccessUnauthenticated
			view.Challenge = game.Challenge
			return view, nil
		}
		return nil, err
	}

	view.Access = AccessPlayer
	view.Challenge = game.Challenge
	view.Fleet = game.Fleets[slot]
	view.Board = overlayOwnShips(game, slot)
	return view, nil
}

// overlayOwnShips marks the slot's own un-hit ship cells on a copy of the
// board; hit cells stay hits
func overlayOwnShips(game *model.Game, slot int) model.Board {
	board := game.Board.Clone()
	for _, ship := range game.Fleets[slot] {
		for _, cell := range ship.Cells {
			if board.StateAt(cell.X, cell.Y, slot).State != model.FiredHit {
				board.SetState(cell.X, cell.Y, slot, model.CellState{
					State:    model.FiredShip,
					ShipKind: ship.Kind,
				})
			}
		}
	}
	return board
}

// Interface for dependency injection
type ControllerInterface interface {
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	Join(ctx context.Context, gameID model.GameID, handle model.Handle) (*model.Game, JoinOutcome, error)
	GetView(ctx context.Context, gameID model.GameID, handle model.Handle, proof string) (*View, error)
}

var _ ControllerInterface = (*Controller)(nil)
