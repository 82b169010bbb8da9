package model

import "time"

// GameID uniquely identifies a game. Ids are sequential, allocated from a
// counter in the store.
type GameID uint64

// GameState represents the current phase of a game
type GameState string

const (
	GameStateFilling  GameState = "filling"  // roster below capacity
	GameStateActive   GameState = "active"   // ships placed, rounds in play
	GameStateFinished GameState = "finished" // a fleet has been sunk
)

// Capacity bounds. ShotMask is a uint32 but capacity is capped well below
// the bit width; a 16-player free-for-all is already generous.
const (
	MinCapacity = 2
	MaxCapacity = 16
)

// Game is the per-game aggregate: board, fleets, roster, round challenge
// and shot bitmask. It is persisted as a single document and mutated via
// read-modify-write under a per-game lock.
type Game struct {
	ID       GameID    `json:"id"`
	Capacity int       `json:"capacity"`
	Players  []Handle  `json:"players"`
	Board    Board     `json:"board"`
	Fleets   [][]Ship  `json:"fleets"` // one fleet per roster slot
	State    GameState `json:"state"`

	// Round state. Challenge is regenerated whenever ShotMask resets;
	// bit i of ShotMask means slot i has fired this round.
	Challenge string `json:"challenge"`
	ShotMask  uint32 `json:"shot_mask"`

	Winner    Handle    `json:"winner,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SlotOf returns the roster slot for a handle
func (g *Game) SlotOf(handle Handle) (int, bool) {
	for i, h := range g.Players {
		if h == handle {
			return i, true
		}
	}
	return 0, false
}

// IsFull reports whether the roster has reached capacity
func (g *Game) IsFull() bool {
	return len(g.Players) >= g.Capacity
}

// ValidSlot reports whether the slot is a valid roster index
func (g *Game) ValidSlot(slot int) bool {
	return slot >= 0 && slot < len(g.Players)
}

// HasFired reports whether the slot has fired this round
func (g *Game) HasFired(slot int) bool {
	return g.ShotMask&(1<<uint(slot)) != 0
}

// MarkFired sets the slot's bit in the shot mask
func (g *Game) MarkFired(slot int) {
	g.ShotMask |= 1 << uint(slot)
}

// RoundComplete reports whether every roster slot has fired this round
func (g *Game) RoundComplete() bool {
	return g.ShotMask == (uint32(1)<<uint(g.Capacity))-1
}

// FleetSunk reports whether every cell of the slot's fleet has been hit
func (g *Game) FleetSunk(slot int) bool {
	for _, ship := range g.Fleets[slot] {
		for _, c := range ship.Cells {
			if g.Board.StateAt(c.X, c.Y, slot).State != FiredHit {
				return false
			}
		}
	}
	return true
}
