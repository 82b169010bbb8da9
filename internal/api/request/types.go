package request

// CreateGameRequest is the request body for creating a game
type CreateGameRequest struct {
	Capacity int `json:"capacity"`
}

// JoinGameRequest is the request body for joining a game
type JoinGameRequest struct {
	Handle string `json:"handle"`
}

// ViewRequest is the request body for fetching session state. Proof is the
// base64 ciphertext of the read plaintext encrypted against the
// requester's public key; it rides in the body because it is too large for
// a query string and must not land in access logs.
type ViewRequest struct {
	Handle string `json:"handle"`
	Proof  string `json:"proof,omitempty"`
}

// FireRequest is the request body for a fire command. Proof is the current
// round challenge encrypted against the firing player's public key.
type FireRequest struct {
	From   int    `json:"from"`
	Target int    `json:"target"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Proof  string `json:"proof"`
}
