package engine

import "errors"

var (
	// ErrInvalidSquare indicates coordinates outside the 8x8 board.
	ErrInvalidSquare = errors.New("invalid square")

	ErrNoPieceAtSource    = errors.New("no piece at source square")
	ErrWrongTurn          = errors.New("piece belongs to the other side")
	ErrIllegalDestination = errors.New("illegal destination")

	// ErrInvalidPromotion indicates a promotion to king or pawn, or a
	// promotion request on a square that holds no promotable pawn.
	ErrInvalidPromotion = errors.New("invalid promotion")

	// ErrInvariantViolation indicates a board that the engine could never
	// have produced, such as one without a king.
	ErrInvariantViolation = errors.New("invariant violation")
)

// Reason explains why ValidateMove rejected a move.
type Reason string

const (
	ReasonNoPieceAtSource Reason = "NoPieceAtSource"
	ReasonWrongTurn       Reason = "WrongTurn"
	ReasonNotLegal        Reason = "NotLegal"
)

// Err maps a reason onto the matching sentinel error.
func (r Reason) Err() error {
	switch r {
	case ReasonNoPieceAtSource:
		return ErrNoPieceAtSource
	case ReasonWrongTurn:
		return ErrWrongTurn
	case ReasonNotLegal:
		return ErrIllegalDestination
	}
	return nil
}
