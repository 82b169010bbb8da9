package fire

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
	"github.com/mcoot/broadside/internal/services/session"
	"github.com/mcoot/broadside/internal/storage"
)

// Controller validates and applies fire commands
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

// NewController creates a new fire controller
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
		logger:    logger.With(slog.String("component", "fire")),
	}
}

// Command is one fire request: slot From shoots at cell (X, Y) of slot
// Target's board, proving identity with Proof (the current round challenge
// encrypted against From's public key)
type Command struct {
	GameID model.GameID
	From   int
	Target int
	X      int
	Y      int
	Proof  string
}

// Result reports an accepted shot
type Result struct {
	Outcome       model.FiredState // FiredHit or FiredMiss
	RoundComplete bool
	Finished      bool
	Winner        model.Handle
}

// Fire applies a single fire command under the game's lock:
//
//  1. reject if the firing slot's bit is already set this round
//  2. reject unless the proof decrypts to the current round challenge
//     (a fresh challenge per round invalidates prior rounds' proofs)
//  3. set the firing slot's bit
//  4. resolve hit or miss against the target's fleet
//  5. on a full mask, clear it, regenerate the challenge and signal the
//     game channel
//
// Rejections (already fired, bad proof, out of range) are expected client
// behavior and come back as typed errors, not panics.
func (c *Controller) Fire(ctx context.Context, cmd Command) (*Result, error) {
	unlock := c.locks.Lock(cmd.GameID)
	defer unlock()

	game, err := c.storage.GetGame(ctx, cmd.GameID)
	if err != nil {
		return nil, err
	}

	switch game.State {
	case model.GameStateFilling:
		return nil, model.ErrGameNotActive
	case model.GameStateFinished:
		return nil, model.ErrGameFinished
	}

	if !game.ValidSlot(cmd.From) || !game.ValidSlot(cmd.Target) {
		return nil, model.ErrOutOfRange
	}
	if !game.Board.InBounds(cmd.X, cmd.Y) {
		return nil, model.ErrOutOfRange
	}

	if game.HasFired(cmd.From) {
		return nil, model.ErrAlreadyFired
	}

	if err := c.identity.VerifyProof(ctx, game.Players[cmd.From], cmd.Proof, game.Challenge); err != nil {
		if errors.Is(err, model.ErrAuthenticationFailed) {
			return nil, model.ErrAuthenticationFailed
		}
		return nil, err
	}

	game.MarkFired(cmd.From)

	result := &Result{Outcome: c.resolveShot(game, cmd)}

	if result.Outcome == model.FiredHit {
		c.checkCompletion(game, result)
	}

	if !result.Finished && game.RoundComplete() {
		// Round boundary: the only point at which clients are told to
		// re-fetch board state
		game.ShotMask = 0
		game.Challenge = c.random.Token(session.ChallengeBytes)
		result.RoundComplete = true
	}

	game.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	if result.Finished {
		if err := c.directory.UpdateDescriptor(ctx, game); err != nil {
			return nil, err
		}
	}
	if result.Finished || result.RoundComplete {
		c.notifier.Signal(ctx, notify.GameChannel(game.ID))
	}

	c.logger.Info("shot resolved",
		slog.Uint64("game_id", uint64(game.ID)),
		slog.Int("from", cmd.From),
		slog.Int("target", cmd.Target),
		slog.String("outcome", string(result.Outcome)),
		slog.Bool("round_complete", result.RoundComplete),
	)
	return result, nil
}

// resolveShot writes the cell's new state for the target slot and returns
// the outcome. An already-hit cell stays hit; the shot still consumed the
// firer's turn bit.
func (c *Controller) resolveShot(game *model.Game, cmd Command) model.FiredState {
	current := game.Board.StateAt(cmd.X, cmd.Y, cmd.Target)
	if current.State == model.FiredHit {
		return model.FiredHit
	}

	outcome := model.FiredMiss
	if model.ShipAt(game.Fleets[cmd.Target], cmd.X, cmd.Y) != nil {
		outcome = model.FiredHit
	}
	game.Board.SetState(cmd.X, cmd.Y, cmd.Target, model.CellState{State: outcome})
	return outcome
}

// checkCompletion finishes the game once all fleets but one are sunk; the
// surviving slot wins
func (c *Controller) checkCompletion(game *model.Game, result *Result) {
	survivor := -1
	for slot := range game.Players {
		if !game.FleetSunk(slot) {
			if survivor >= 0 {
				return // more than one fleet afloat
			}
			survivor = slot
		}
	}
	if survivor < 0 {
		return
	}

	game.State = model.GameStateFinished
	game.Winner = game.Players[survivor]
	result.Finished = true
	result.Winner = game.Winner

	c.logger.Info("game finished",
		slog.Uint64("game_id", uint64(game.ID)),
		slog.String("winner", string(game.Winner)),
	)
}

// Interface for dependency injection
type ControllerInterface interface {
	Fire(ctx context.Context, cmd Command) (*Result, error)
}

var _ ControllerInterface = (*Controller)(nil)
