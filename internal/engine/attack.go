package engine

import "fmt"

// IsAttacked reports whether any piece of color by attacks sq.
//
// The search runs outward from sq: a rook or queen must be visible along a
// rank or file, a bishop or queen along a diagonal, and knights, kings and
// pawns must sit on the matching fixed offsets. Pawns attack only their two
// forward diagonals, whether or not sq is occupied, so empty squares on a
// castling path are judged correctly.
func IsAttacked(b *Board, sq Square, by Color) bool {
	if rayAttacked(b, sq, by, rookDirs, Rook) || rayAttacked(b, sq, by, bishopDirs, Bishop) {
		return true
	}
	if stepAttacked(b, sq, by, knightDirs, Knight) || stepAttacked(b, sq, by, kingDirs, King) {
		return true
	}
	// a pawn of color by attacks sq from one row behind it, relative to by
	dir := by.forward()
	for _, dCol := range []int{-1, 1} {
		p := b.at(sq.offset(-dir, dCol))
		if p != nil && p.Color == by && p.Type == Pawn {
			return true
		}
	}
	return false
}

func rayAttacked(b *Board, sq Square, by Color, dirs []Square, slider PieceType) bool {
	for _, dir := range dirs {
		target := sq.offset(dir.Row, dir.Col)
		for target.Valid() {
			if p := b.at(target); p != nil {
				if p.Color == by && (p.Type == slider || p.Type == Queen) {
					return true
				}
				break
			}
			target = target.offset(dir.Row, dir.Col)
		}
	}
	return false
}

func stepAttacked(b *Board, sq Square, by Color, dirs []Square, kind PieceType) bool {
	for _, dir := range dirs {
		p := b.at(sq.offset(dir.Row, dir.Col))
		if p != nil && p.Color == by && p.Type == kind {
			return true
		}
	}
	return false
}

// IsInCheck reports whether color's king is attacked by the opponent.
// A board without that king yields ErrInvariantViolation.
func IsInCheck(b *Board, color Color) (bool, error) {
	king, ok := b.FindKing(color)
	if !ok {
		return false, fmt.Errorf("%w: no %s king on board", ErrInvariantViolation, color)
	}
	return IsAttacked(b, king, color.Opponent()), nil
}
