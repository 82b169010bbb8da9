package model

// BoardSize is the fixed grid dimension
const BoardSize = 10

// Coord identifies a cell on the grid
type Coord struct {
	X int `json:"x"` // 0-indexed column
	Y int `json:"y"` // 0-indexed row
}

// FiredState is the closed set of states a cell can hold for one player slot
type FiredState string

const (
	FiredEmpty     FiredState = "empty"     // game not started
	FiredUntouched FiredState = "untouched" // in play, no shot yet
	FiredMiss      FiredState = "miss"
	FiredHit       FiredState = "hit"
	FiredShip      FiredState = "ship" // own-fleet overlay, never persisted
)

// CellState is one player slot's view of a cell. ShipKind is set only when
// State is FiredShip.
type CellState struct {
	State    FiredState `json:"state"`
	ShipKind string     `json:"ship_kind,omitempty"`
}

// Cell holds one fired-state entry per roster slot
type Cell struct {
	Fired []CellState `json:"fired"`
}

// Board is the fixed 10x10 grid. Cells[y][x].Fired has one entry per
// roster slot; before the roster fills every entry is FiredEmpty.
type Board struct {
	Cells [][]Cell `json:"cells"`
}

// NewBoard creates a board with every cell in the given state for each of
// the given number of slots
func NewBoard(slots int, state FiredState) Board {
	cells := make([][]Cell, BoardSize)
	for y := range cells {
		cells[y] = make([]Cell, BoardSize)
		for x := range cells[y] {
			fired := make([]CellState, slots)
			for i := range fired {
				fired[i] = CellState{State: state}
			}
			cells[y][x] = Cell{Fired: fired}
		}
	}
	return Board{Cells: cells}
}

// InBounds reports whether the coordinate lies on the grid
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < BoardSize && y >= 0 && y < BoardSize
}

// StateAt returns the fired state of a cell for one slot
func (b *Board) StateAt(x, y, slot int) CellState {
	return b.Cells[y][x].Fired[slot]
}

// SetState writes the fired state of a cell for one slot
func (b *Board) SetState(x, y, slot int, state CellState) {
	b.Cells[y][x].Fired[slot] = state
}

// Clone returns a deep copy of the board
func (b *Board) Clone() Board {
	cells := make([][]Cell, len(b.Cells))
	for y, row := range b.Cells {
		cells[y] = make([]Cell, len(row))
		for x, cell := range row {
			fired := make([]CellState, len(cell.Fired))
			copy(fired, cell.Fired)
			cells[y][x] = Cell{Fired: fired}
		}
	}
	return Board{Cells: cells}
}
