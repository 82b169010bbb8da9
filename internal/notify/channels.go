package notify

import (
	"fmt"

	"github.com/mcoot/broadside/internal/model"
)

// DirectoryChannel is the channel key signalled when the game catalog
// changes
const DirectoryChannel = "lobby_update"

// GameChannel returns the channel key signalled when a game's state
// changes at a round boundary or roster fill
func GameChannel(id model.GameID) string {
	return fmt.Sprintf("game_update_%d", id)
}
