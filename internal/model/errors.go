package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Game errors
	ErrGameNotFound  = errors.New("game not found")
	ErrGameNotActive = errors.New("game has not started")
	ErrGameFinished  = errors.New("game is finished")

	// Join errors. ErrGameFull selects spectator semantics at the API
	// surface rather than failing the request.
	ErrGameFull        = errors.New("game roster is full")
	ErrInvalidCapacity = errors.New("capacity out of range")

	// Fire rejections; surfaced as a rejected result, not a request failure
	ErrAuthenticationFailed = errors.New("proof did not decrypt to the expected plaintext")
	ErrAlreadyFired         = errors.New("slot has already fired this round")
	ErrOutOfRange           = errors.New("coordinate or target slot out of range")
)
