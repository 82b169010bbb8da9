package response

import (
	"github.com/mcoot/broadside/internal/model"
	"github.com/mcoot/broadside/internal/services/fire"
	"github.com/mcoot/broadside/internal/services/identity"
	"github.com/mcoot/broadside/internal/services/session"
)

// Identity is the response for identity issuance. The private half stays
// server-side; the client persists these two fields locally.
type Identity struct {
	Handle    string `json:"handle"`
	PublicKey string `json:"public_key"`
}

// IdentityFromModel converts an issued identity
func IdentityFromModel(id *identity.Identity) Identity {
	return Identity{
		Handle:    string(id.Handle),
		PublicKey: id.PublicKey,
	}
}

// GameDescriptor represents a catalog entry
type GameDescriptor struct {
	GameID   uint64   `json:"game_id"`
	Capacity int      `json:"capacity"`
	Players  []string `json:"players"`
	State    string   `json:"state"`
}

// GameDescriptorFromModel converts model.GameDescriptor
func GameDescriptorFromModel(d model.GameDescriptor) GameDescriptor {
	return GameDescriptor{
		GameID:   uint64(d.GameID),
		Capacity: d.Capacity,
		Players:  handles(d.Players),
		State:    string(d.State),
	}
}

// DirectoryResponse is the full game catalog
type DirectoryResponse struct {
	Games []GameDescriptor `json:"games"`
}

// DirectoryFromModel converts the catalog
func DirectoryFromModel(games []model.GameDescriptor) DirectoryResponse {
	out := make([]GameDescriptor, len(games))
	for i, d := range games {
		out[i] = GameDescriptorFromModel(d)
	}
	return DirectoryResponse{Games: out}
}

// CreateGameResponse is the response after creating a game
type CreateGameResponse struct {
	GameID   uint64 `json:"game_id"`
	Capacity int    `json:"capacity"`
	State    string `json:"state"`
}

// JoinGameResponse is the response after a join request
type JoinGameResponse struct {
	Outcome string   `json:"outcome"`
	GameID  uint64   `json:"game_id"`
	State   string   `json:"state"`
	Roster  []string `json:"roster"`
}

// Cell is one board cell's per-slot states
type Cell struct {
	Fired []CellState `json:"fired"`
}

// CellState is one slot's state of a cell
type CellState struct {
	State    string `json:"state"`
	ShipKind string `json:"ship_kind,omitempty"`
}

// Board represents a board view
type Board struct {
	Cells [][]Cell `json:"cells"`
}

// BoardFromModel converts a board view
func BoardFromModel(b model.Board) Board {
	cells := make([][]Cell, len(b.Cells))
	for y, row := range b.Cells {
		cells[y] = make([]Cell, len(row))
		for x, cell := range row {
			fired := make([]CellState, len(cell.Fired))
			for i, cs := range cell.Fired {
				fired[i] = CellState{State: string(cs.State), ShipKind: cs.ShipKind}
			}
			cells[y][x] = Cell{Fired: fired}
		}
	}
	return Board{Cells: cells}
}

// Ship represents a placed ship in the requester's own fleet
type Ship struct {
	Kind  string  `json:"kind"`
	Cells []Coord `json:"cells"`
}

// Coord is a grid coordinate
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ViewResponse is one requester's session state
type ViewResponse struct {
	Access    string   `json:"access"`
	GameID    uint64   `json:"game_id"`
	Capacity  int      `json:"capacity"`
	State     string   `json:"state"`
	Challenge string   `json:"challenge,omitempty"`
	Roster    []string `json:"roster"`
	Fleet     []Ship   `json:"fleet,omitempty"`
	Board     Board    `json:"board"`
	ShotMask  uint32   `json:"shot_mask"`
	Winner    string   `json:"winner,omitempty"`
}

// ViewFromModel converts a session view
func ViewFromModel(v *session.View) ViewResponse {
	var fleet []Ship
	for _, s := range v.Fleet {
		cells := make([]Coord, len(s.Cells))
		for i, c := range s.Cells {
			cells[i] = Coord{X: c.X, Y: c.Y}
		}
		fleet = append(fleet, Ship{Kind: s.Kind, Cells: cells})
	}

	return ViewResponse{
		Access:    string(v.Access),
		GameID:    uint64(v.GameID),
		Capacity:  v.Capacity,
		State:     string(v.State),
		Challenge: v.Challenge,
		Roster:    handles(v.Roster),
		Fleet:     fleet,
		Board:     BoardFromModel(v.Board),
		ShotMask:  v.ShotMask,
		Winner:    string(v.Winner),
	}
}

// FireResponse is the response to an accepted fire command
type FireResponse struct {
	Accepted      bool   `json:"accepted"`
	Outcome       string `json:"outcome"`
	RoundComplete bool   `json:"round_complete"`
	Finished      bool   `json:"finished,omitempty"`
	Winner        string `json:"winner,omitempty"`
}

// FireFromModel converts a fire result
func FireFromModel(r *fire.Result) FireResponse {
	return FireResponse{
		Accepted:      true,
		Outcome:       string(r.Outcome),
		RoundComplete: r.RoundComplete,
		Finished:      r.Finished,
		Winner:        string(r.Winner),
	}
}

func handles(hs []model.Handle) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = string(h)
	}
	return out
}
