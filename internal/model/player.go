package model

import "time"

// Handle uniquely identifies a player across the system.
// Handles are sequential ("player_0", "player_1", ...) and stable for the
// life of the client's local storage.
type Handle string

// Player represents a game participant and their identity keypair.
// The private key never leaves the server; the public half is handed to the
// client, which proves identity per-request by encrypting an expected
// plaintext against it.
type Player struct {
	Handle     Handle
	PublicKey  []byte // PKIX DER
	PrivateKey []byte // PKCS #8 DER, server-side only
	CreatedAt  time.Time
}
