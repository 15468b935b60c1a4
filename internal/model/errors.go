package model

import "errors"

var (
	ErrGameFull            = errors.New("game is full")
	ErrGameOver            = errors.New("game is over")
	ErrNotInGame           = errors.New("player not in game")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrNotAuthorized       = errors.New("not authorized to join this game")
	ErrIllegalMove         = errors.New("invalid move, not legal")
	ErrAwaitingPromotion   = errors.New("a promotion piece must be chosen first")
	ErrNoPendingPromotion  = errors.New("no promotion pending")
	ErrDuplicateConnection = errors.New("connection already exists")
)
