package model

// GameDescriptor is the directory catalog entry for a game: its id,
// capacity and fill state. Entries are appended on creation and updated on
// join; the catalog never removes them.
type GameDescriptor struct {
	GameID   GameID    `json:"game_id"`
	Capacity int       `json:"capacity"`
	Players  []Handle  `json:"players"`
	State    GameState `json:"state"`
}

// IsFull reports whether the described roster has reached capacity
func (d *GameDescriptor) IsFull() bool {
	return len(d.Players) >= d.Capacity
}

// Directory is the catalog document holding every game descriptor
type Directory struct {
	Games []GameDescriptor `json:"games"`
}

// Find returns the descriptor for a game id, or nil
func (d *Directory) Find(id GameID) *GameDescriptor {
	for i := range d.Games {
		if d.Games[i].GameID == id {
			return &d.Games[i]
		}
	}
	return nil
}
