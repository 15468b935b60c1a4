package engine

import "fmt"

// CompletePromotion replaces mover's pawn on sq with a new piece of kind and
// classifies the position for the opponent. Any pending en-passant target
// is discarded, so the opponent is evaluated without one.
func CompletePromotion(b *Board, sq Square, kind PieceType, mover Color) (*Board, GameStatus, error) {
	if !kind.IsPromotionChoice() {
		return nil, GameStatus{}, fmt.Errorf("%w: cannot promote to %q", ErrInvalidPromotion, kind)
	}
	if !sq.Valid() {
		return nil, GameStatus{}, fmt.Errorf("%w: %v", ErrInvalidSquare, sq)
	}
	pawn := b.at(sq)
	if pawn == nil || pawn.Type != Pawn || pawn.Color != mover {
		return nil, GameStatus{}, fmt.Errorf("%w: no %s pawn on %v", ErrInvalidPromotion, mover, sq)
	}
	if sq.Row != mover.Opponent().backRank() {
		return nil, GameStatus{}, fmt.Errorf("%w: %v is not on the last rank", ErrInvalidPromotion, sq)
	}

	next := b.With(sq, &Piece{Type: kind, Color: mover, HasMoved: true})
	status, err := GetGameStatus(next, mover.Opponent(), nil)
	if err != nil {
		return nil, GameStatus{}, err
	}
	return next, status, nil
}
