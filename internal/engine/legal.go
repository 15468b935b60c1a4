package engine

import "fmt"

// LegalMoves returns every destination the piece on sq may move to without
// leaving its own king in check, castling included. The order of the result
// is not significant. An empty square yields no moves.
func LegalMoves(b *Board, sq Square, ep *Square) ([]Square, error) {
	if !sq.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSquare, sq)
	}
	piece := b.at(sq)
	if piece == nil {
		return nil, nil
	}

	candidates := RawMoves(b, sq, ep)
	if piece.Type == King {
		candidates = append(candidates, castlingMoves(b, sq, piece)...)
	}

	legal := make([]Square, 0, len(candidates))
	for _, to := range candidates {
		scratch := simulate(b, sq, to, piece, ep)
		inCheck, err := IsInCheck(scratch, piece.Color)
		if err != nil {
			return nil, err
		}
		if !inCheck {
			legal = append(legal, to)
		}
	}
	return legal, nil
}

// LegalMovesForColor returns all legal moves of every piece of color.
func LegalMovesForColor(b *Board, color Color, ep *Square) ([]Move, error) {
	var moves []Move
	for _, from := range b.Pieces(color) {
		targets, err := LegalMoves(b, from, ep)
		if err != nil {
			return nil, err
		}
		for _, to := range targets {
			moves = append(moves, Move{From: from, To: to})
		}
	}
	return moves, nil
}

// HasAnyLegalMoves reports whether color can make at least one move.
func HasAnyLegalMoves(b *Board, color Color, ep *Square) (bool, error) {
	for _, from := range b.Pieces(color) {
		targets, err := LegalMoves(b, from, ep)
		if err != nil {
			return false, err
		}
		if len(targets) > 0 {
			return true, nil
		}
	}
	return false, nil
}

// simulate plays from->to on a scratch copy, removing the en-passant victim
// when applicable. The castling rook is left in place: it cannot affect
// whether the king's destination is attacked.
func simulate(b *Board, from, to Square, piece *Piece, ep *Square) *Board {
	scratch := b.Clone()
	moved := *piece
	moved.HasMoved = true
	scratch.squares[to.Row][to.Col] = &moved
	scratch.squares[from.Row][from.Col] = nil
	if piece.Type == Pawn && ep != nil && *ep == to && from.Col != to.Col {
		scratch.squares[from.Row][to.Col] = nil
	}
	return scratch
}

type castleSide struct {
	rookCol   int
	kingTo    int
	rookTo    int
	kingPath  []int // columns the king stands on or crosses, start included
	emptyCols []int // columns strictly between king and rook
}

var (
	kingside = castleSide{
		rookCol:   7,
		kingTo:    6,
		rookTo:    5,
		kingPath:  []int{4, 5, 6},
		emptyCols: []int{5, 6},
	}
	queenside = castleSide{
		rookCol:   0,
		kingTo:    2,
		rookTo:    3,
		kingPath:  []int{4, 3, 2},
		emptyCols: []int{1, 2, 3},
	}
)

// castlingMoves returns the king destinations allowed by the castling rule.
func castlingMoves(b *Board, sq Square, king *Piece) []Square {
	row := king.Color.backRank()
	if king.HasMoved || sq.Row != row || sq.Col != 4 {
		return nil
	}
	var moves []Square
	for _, side := range []castleSide{kingside, queenside} {
		if canCastle(b, row, king.Color, side) {
			moves = append(moves, Square{Row: row, Col: side.kingTo})
		}
	}
	return moves
}

func canCastle(b *Board, row int, color Color, side castleSide) bool {
	rook := b.squares[row][side.rookCol]
	if rook == nil || rook.Type != Rook || rook.Color != color || rook.HasMoved {
		return false
	}
	for _, col := range side.emptyCols {
		if b.squares[row][col] != nil {
			return false
		}
	}
	for _, col := range side.kingPath {
		if IsAttacked(b, Square{Row: row, Col: col}, color.Opponent()) {
			return false
		}
	}
	return true
}
