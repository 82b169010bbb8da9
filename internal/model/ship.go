package model

// Ship is a placed vessel: a kind and the cells it occupies. Ships are
// placed once at game start and never relocated.
type Ship struct {
	Kind  string  `json:"kind"`
	Cells []Coord `json:"cells"`
}

// fleetSpec is the fixed composition of each player's fleet
var fleetSpec = []struct {
	kind string
	size int
}{
	{"Carrier", 5},
	{"Battleship", 4},
	{"Destroyer", 3},
	{"Submarine", 3},
	{"Patrol Boat", 2},
}

// NewFleet returns one player's fleet laid out deterministically: ship i
// runs eastward from (0, i), so ships occupy distinct rows and never
// overlap.
func NewFleet() []Ship {
	fleet := make([]Ship, len(fleetSpec))
	for i, spec := range fleetSpec {
		cells := make([]Coord, spec.size)
		for j := range cells {
			cells[j] = Coord{X: j, Y: i}
		}
		fleet[i] = Ship{Kind: spec.kind, Cells: cells}
	}
	return fleet
}

// NewFleets returns one fleet per roster slot
func NewFleets(slots int) [][]Ship {
	fleets := make([][]Ship, slots)
	for i := range fleets {
		fleets[i] = NewFleet()
	}
	return fleets
}

// Occupies reports whether the ship covers the given coordinate
func (s *Ship) Occupies(x, y int) bool {
	for _, c := range s.Cells {
		if c.X == x && c.Y == y {
			return true
		}
	}
	return false
}

// ShipAt returns the ship in the fleet covering the coordinate, or nil
func ShipAt(fleet []Ship, x, y int) *Ship {
	for i := range fleet {
		if fleet[i].Occupies(x, y) {
			return &fleet[i]
		}
	}
	return nil
}
