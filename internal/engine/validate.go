package engine

import "fmt"

// Validation is the outcome of ValidateMove. Reason is empty when Valid.
type Validation struct {
	Valid  bool   `json:"valid"`
	Reason Reason `json:"reason,omitempty"`
}

// ValidateMove re-derives the legality of from->to for mover from scratch,
// independent of any previously computed move list. Routine rejections are
// reported through the Validation; only malformed squares and invariant
// violations are returned as errors.
func ValidateMove(b *Board, from, to Square, mover Color, ep *Square) (Validation, error) {
	if !from.Valid() || !to.Valid() {
		return Validation{}, fmt.Errorf("%w: %v -> %v", ErrInvalidSquare, from, to)
	}
	piece := b.at(from)
	if piece == nil {
		return Validation{Reason: ReasonNoPieceAtSource}, nil
	}
	if piece.Color != mover {
		return Validation{Reason: ReasonWrongTurn}, nil
	}
	targets, err := LegalMoves(b, from, ep)
	if err != nil {
		return Validation{}, err
	}
	for _, t := range targets {
		if t == to {
			return Validation{Valid: true}, nil
		}
	}
	return Validation{Reason: ReasonNotLegal}, nil
}
