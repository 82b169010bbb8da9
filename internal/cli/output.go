package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Identity:
		o.printIdentity(v)
	case Directory:
		o.printDirectory(v)
	case CreateGameResult:
		o.printCreateGameResult(v)
	case JoinResult:
		o.printJoinResult(v)
	case GameView:
		o.printGameView(v)
	case FireResult:
		o.printFireResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Identity response type (matches API)
type Identity struct {
	Handle    string `json:"handle"`
	PublicKey string `json:"public_key"`
}

// GameSummary response type
type GameSummary struct {
	GameID   uint64   `json:"game_id"`
	Capacity int      `json:"capacity"`
	Players  []string `json:"players"`
	State    string   `json:"state"`
}

// Directory response type
type Directory struct {
	Games []GameSummary `json:"games"`
}

// CreateGameResult response type
type CreateGameResult struct {
	GameID   uint64 `json:"game_id"`
	Capacity int    `json:"capacity"`
	State    string `json:"state"`
}

// JoinResult response type
type JoinResult struct {
	Outcome string   `json:"outcome"`
	GameID  uint64   `json:"game_id"`
	State   string   `json:"state"`
	Roster  []string `json:"roster"`
}

// CellState response type
type CellState struct {
	State    string `json:"state"`
	ShipKind string `json:"ship_kind,omitempty"`
}

// Cell response type
type Cell struct {
	Fired []CellState `json:"fired"`
}

// BoardView response type
type BoardView struct {
	Cells [][]Cell `json:"cells"`
}

// Coord response type
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ShipView response type
type ShipView struct {
	Kind  string  `json:"kind"`
	Cells []Coord `json:"cells"`
}

// GameView response type
type GameView struct {
	Access    string     `json:"access"`
	GameID    uint64     `json:"game_id"`
	Capacity  int        `json:"capacity"`
	State     string     `json:"state"`
	Challenge string     `json:"challenge,omitempty"`
	Roster    []string   `json:"roster"`
	Fleet     []ShipView `json:"fleet,omitempty"`
	Board     BoardView  `json:"board"`
	ShotMask  uint32     `json:"shot_mask"`
	Winner    string     `json:"winner,omitempty"`
}

// FireResult response type
type FireResult struct {
	Accepted      bool   `json:"accepted"`
	Outcome       string `json:"outcome"`
	RoundComplete bool   `json:"round_complete"`
	Finished      bool   `json:"finished,omitempty"`
	Winner        string `json:"winner,omitempty"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printIdentity(id Identity) {
	fmt.Printf("Handle: %s\n", id.Handle)
	fmt.Printf("Public Key:\n%s\n", id.PublicKey)
}

func (o *Output) printDirectory(d Directory) {
	if len(d.Games) == 0 {
		fmt.Println("No games")
		return
	}
	fmt.Printf("Games (%d):\n", len(d.Games))
	for _, g := range d.Games {
		fmt.Printf("  #%d [%s] %d/%d players", g.GameID, g.State, len(g.Players), g.Capacity)
		if len(g.Players) > 0 {
			fmt.Printf(": %s", strings.Join(g.Players, ", "))
		}
		fmt.Println()
	}
}

func (o *Output) printCreateGameResult(r CreateGameResult) {
	fmt.Printf("Created game #%d\n", r.GameID)
	fmt.Printf("Capacity: %d\n", r.Capacity)
	fmt.Printf("State: %s\n", r.State)
}

func (o *Output) printJoinResult(r JoinResult) {
	switch r.Outcome {
	case "joined":
		fmt.Printf("Joined game #%d\n", r.GameID)
	case "rejoined":
		fmt.Printf("Already in game #%d\n", r.GameID)
	case "spectator":
		fmt.Printf("Game #%d is full, watching as spectator\n", r.GameID)
	default:
		fmt.Printf("Outcome: %s\n", r.Outcome)
	}
	fmt.Printf("State: %s\n", r.State)
	fmt.Printf("Roster: %s\n", strings.Join(r.Roster, ", "))
}

func (o *Output) printGameView(v GameView) {
	fmt.Printf("Game: #%d\n", v.GameID)
	fmt.Printf("State: %s\n", v.State)
	fmt.Printf("Access: %s\n", v.Access)
	fmt.Printf("Roster (%d/%d): %s\n", len(v.Roster), v.Capacity, strings.Join(v.Roster, ", "))

	if v.Challenge != "" {
		fmt.Printf("Challenge: %s\n", v.Challenge)
	}
	if v.State == "active" {
		fmt.Printf("Shots this round: %s\n", shotMaskString(v.ShotMask, v.Capacity))
	}

	if len(v.Fleet) > 0 {
		fmt.Println("\nYour Fleet:")
		for _, s := range v.Fleet {
			fmt.Printf("  %s:", s.Kind)
			for _, c := range s.Cells {
				fmt.Printf(" (%d,%d)", c.X, c.Y)
			}
			fmt.Println()
		}
	}

	if len(v.Board.Cells) > 0 {
		for slot := 0; slot < v.Capacity; slot++ {
			fmt.Printf("\nBoard (slot %d):\n", slot)
			o.printBoardSlot(v.Board, slot)
		}
	}

	if v.Winner != "" {
		fmt.Printf("\nWinner: %s\n", v.Winner)
	}
}

func shotMaskString(mask uint32, capacity int) string {
	fired := []string{}
	waiting := []string{}
	for slot := 0; slot < capacity; slot++ {
		s := fmt.Sprintf("%d", slot)
		if mask&(1<<slot) != 0 {
			fired = append(fired, s)
		} else {
			waiting = append(waiting, s)
		}
	}
	out := ""
	if len(fired) > 0 {
		out += "fired " + strings.Join(fired, ",")
	}
	if len(waiting) > 0 {
		if out != "" {
			out += "; "
		}
		out += "waiting " + strings.Join(waiting, ",")
	}
	return out
}

func (o *Output) printBoardSlot(b BoardView, slot int) {
	size := len(b.Cells)

	// Print column headers
	fmt.Print("    ")
	for col := 0; col < size; col++ {
		fmt.Printf(" %d ", col)
	}
	fmt.Println()

	// Print top border
	fmt.Print("   +")
	for col := 0; col < size; col++ {
		fmt.Print("---")
	}
	fmt.Println("+")

	// Print rows
	for row := 0; row < size; row++ {
		fmt.Printf(" %d |", row)
		for col := 0; col < size; col++ {
			fmt.Printf(" %s ", cellGlyph(b.Cells[row][col], slot))
		}
		fmt.Println("|")
	}

	// Print bottom border
	fmt.Print("   +")
	for col := 0; col < size; col++ {
		fmt.Print("---")
	}
	fmt.Println("+")
}

func cellGlyph(c Cell, slot int) string {
	if slot >= len(c.Fired) {
		return "."
	}
	switch c.Fired[slot].State {
	case "hit":
		return "X"
	case "miss":
		return "o"
	case "ship":
		return "S"
	default:
		return "."
	}
}

func (o *Output) printFireResult(r FireResult) {
	switch r.Outcome {
	case "hit":
		fmt.Println("Hit!")
	case "miss":
		fmt.Println("Miss")
	default:
		fmt.Printf("Outcome: %s\n", r.Outcome)
	}

	if r.RoundComplete {
		fmt.Println("Round complete, fetch the view for the new challenge")
	}

	if r.Finished {
		fmt.Println("Game over!")
		if r.Winner != "" {
			fmt.Printf("Winner: %s\n", r.Winner)
		}
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
