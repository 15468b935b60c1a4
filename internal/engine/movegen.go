package engine

// RawMoves returns the destinations the piece on sq can reach by its
// movement geometry alone, ignoring whether its own king is left in check.
// Castling is not included. ep is the en-passant target, or nil.
func RawMoves(b *Board, sq Square, ep *Square) []Square {
	piece := b.at(sq)
	if piece == nil {
		return nil
	}
	switch piece.Type {
	case Pawn:
		return pawnMoves(b, sq, piece, ep)
	case Knight:
		return stepMoves(b, sq, piece, knightDirs)
	case Bishop:
		return slideMoves(b, sq, piece, bishopDirs)
	case Rook:
		return slideMoves(b, sq, piece, rookDirs)
	case Queen:
		return slideMoves(b, sq, piece, kingDirs)
	case King:
		return stepMoves(b, sq, piece, kingDirs)
	}
	return nil
}

func pawnMoves(b *Board, sq Square, piece *Piece, ep *Square) []Square {
	var moves []Square
	dir := piece.Color.forward()

	// forward 1, then forward 2 from the starting rank
	one := sq.offset(dir, 0)
	if one.Valid() && b.at(one) == nil {
		moves = append(moves, one)
		two := sq.offset(2*dir, 0)
		if sq.Row == piece.Color.pawnStartRow() && b.at(two) == nil {
			moves = append(moves, two)
		}
	}

	for _, dCol := range []int{-1, 1} {
		target := sq.offset(dir, dCol)
		if !target.Valid() {
			continue
		}
		if occupant := b.at(target); occupant != nil {
			if occupant.Color != piece.Color {
				moves = append(moves, target)
			}
			continue
		}
		if ep != nil && *ep == target && isEnPassantVictim(b, Square{Row: sq.Row, Col: target.Col}, piece.Color) {
			moves = append(moves, target)
		}
	}
	return moves
}

// isEnPassantVictim reports whether sq holds an enemy pawn that can be taken
// en passant by a pawn of color.
func isEnPassantVictim(b *Board, sq Square, color Color) bool {
	p := b.at(sq)
	return p != nil && p.Type == Pawn && p.Color != color
}

func stepMoves(b *Board, sq Square, piece *Piece, dirs []Square) []Square {
	var moves []Square
	for _, dir := range dirs {
		target := sq.offset(dir.Row, dir.Col)
		if !target.Valid() {
			continue
		}
		if occupant := b.at(target); occupant == nil || occupant.Color != piece.Color {
			moves = append(moves, target)
		}
	}
	return moves
}

func slideMoves(b *Board, sq Square, piece *Piece, dirs []Square) []Square {
	var moves []Square
	for _, dir := range dirs {
		target := sq.offset(dir.Row, dir.Col)
		for target.Valid() {
			occupant := b.at(target)
			if occupant == nil {
				moves = append(moves, target)
			} else {
				if occupant.Color != piece.Color {
					moves = append(moves, target)
				}
				break
			}
			target = target.offset(dir.Row, dir.Col)
		}
	}
	return moves
}
