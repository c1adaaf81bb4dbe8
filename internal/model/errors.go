package model

import "errors"

var (
	ErrNotAuthorized   = errors.New("not authorized for this game")
	ErrGameOver        = errors.New("game is over")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrOutOfBounds     = errors.New("invalid move, out of bounds")
	ErrNoPiece         = errors.New("no piece at from square")
	ErrIllegalMove     = errors.New("invalid move, not legal")
	ErrTimeExpired     = errors.New("time expired")
	ErrInvalidSettings = errors.New("invalid game settings")
	// ErrStaleMove is returned when a computed move no longer matches the
	// position it was searched on.
	ErrStaleMove = errors.New("move computed for an outdated position")
)
