package engine

import "fmt"

type CastleRookMove struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

// MoveResult describes a committed move. Board is a new, independent board;
// the board the move was applied to is left untouched.
type MoveResult struct {
	Board          *Board          `json:"board"`
	Mover          Piece           `json:"mover"`
	From           Square          `json:"from"`
	To             Square          `json:"to"`
	CapturedPiece  *Piece          `json:"capturedPiece"`
	CapturedAt     *Square         `json:"capturedAt"`
	CastleRookMove *CastleRookMove `json:"castleRookMove"`
	IsPromotion    bool            `json:"isPromotion"`
	IsCastling     bool            `json:"isCastling"`
	IsEnPassant    bool            `json:"isEnPassant"`
}

// ApplyMove commits from->to and returns the resulting position. The move
// is expected to have passed ValidateMove; ApplyMove only rejects input it
// cannot interpret at all (off-board squares or an empty source).
//
// A pawn reaching the last rank is flagged with IsPromotion but stays a pawn
// until CompletePromotion is called with the chosen piece.
func ApplyMove(b *Board, from, to Square, ep *Square) (MoveResult, error) {
	if !from.Valid() || !to.Valid() {
		return MoveResult{}, fmt.Errorf("%w: %v -> %v", ErrInvalidSquare, from, to)
	}
	mover := b.at(from)
	if mover == nil {
		return MoveResult{}, fmt.Errorf("%w: %v", ErrNoPieceAtSource, from)
	}

	next := b.Clone()
	res := MoveResult{
		Mover: *mover,
		From:  from,
		To:    to,
	}

	if captured := next.squares[to.Row][to.Col]; captured != nil {
		res.CapturedPiece = captured
		res.CapturedAt = &Square{Row: to.Row, Col: to.Col}
	}

	if mover.Type == Pawn && ep != nil && *ep == to && from.Col != to.Col {
		victim := Square{Row: from.Row, Col: to.Col}
		res.CapturedPiece = next.squares[victim.Row][victim.Col]
		res.CapturedAt = &victim
		next.squares[victim.Row][victim.Col] = nil
		res.IsEnPassant = true
	}

	if mover.Type == King && abs(to.Col-from.Col) == 2 {
		side := kingside
		if to.Col < from.Col {
			side = queenside
		}
		if rook := next.squares[from.Row][side.rookCol]; rook != nil {
			rook.HasMoved = true
			next.squares[from.Row][side.rookTo] = rook
			next.squares[from.Row][side.rookCol] = nil
			res.CastleRookMove = &CastleRookMove{
				From: Square{Row: from.Row, Col: side.rookCol},
				To:   Square{Row: from.Row, Col: side.rookTo},
			}
		}
		res.IsCastling = true
	}

	placed := next.squares[from.Row][from.Col]
	placed.HasMoved = true
	next.squares[to.Row][to.Col] = placed
	next.squares[from.Row][from.Col] = nil

	res.IsPromotion = mover.Type == Pawn && (to.Row == 0 || to.Row == 7)
	res.Board = next
	return res, nil
}

// ComputeEnPassantTarget returns the square a pawn skipped over when from->to
// was a double step, or nil otherwise. b may be the board before or after
// the move. The result is valid for the very next half-move only.
func ComputeEnPassantTarget(b *Board, from, to Square) *Square {
	piece := b.at(to)
	if piece == nil {
		piece = b.at(from)
	}
	if piece == nil || piece.Type != Pawn || from.Col != to.Col || abs(to.Row-from.Row) != 2 {
		return nil
	}
	return &Square{Row: (from.Row + to.Row) / 2, Col: from.Col}
}

// IsCastlingMove reports, before the move is applied, whether from->to is a
// castling move. After application MoveResult.IsCastling is authoritative.
func IsCastlingMove(b *Board, from, to Square) bool {
	p := b.at(from)
	return p != nil && p.Type == King && from.Row == to.Row && abs(to.Col-from.Col) == 2
}

// IsPromotionMove reports, before the move is applied, whether from->to
// brings a pawn to the last rank. After application MoveResult.IsPromotion
// is authoritative.
func IsPromotionMove(b *Board, from, to Square) bool {
	p := b.at(from)
	return p != nil && p.Type == Pawn && (to.Row == 0 || to.Row == 7)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
