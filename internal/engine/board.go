package engine

import (
	"encoding/json"
	"strings"
)

// Board is an 8x8 grid of optional pieces indexed [row][col].
//
// A Board is treated as a value: the engine never modifies a board it was
// handed, and callers replace their current board wholesale with the one
// returned by ApplyMove or CompletePromotion.
type Board struct {
	squares [8][8]*Piece
}

var backRankOrder = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns the standard initial arrangement.
func NewBoard() *Board {
	b := &Board{}
	for col, kind := range backRankOrder {
		b.squares[Black.backRank()][col] = &Piece{Type: kind, Color: Black}
		b.squares[White.backRank()][col] = &Piece{Type: kind, Color: White}
		b.squares[Black.pawnStartRow()][col] = &Piece{Type: Pawn, Color: Black}
		b.squares[White.pawnStartRow()][col] = &Piece{Type: Pawn, Color: White}
	}
	return b
}

func EmptyBoard() *Board {
	return &Board{}
}

// Clone returns a deep copy; no piece is shared between the two boards.
func (b *Board) Clone() *Board {
	c := &Board{}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if p := b.squares[row][col]; p != nil {
				cp := *p
				c.squares[row][col] = &cp
			}
		}
	}
	return c
}

// At returns a copy of the piece on sq, or nil when the square is empty or
// off the board.
func (b *Board) At(sq Square) *Piece {
	p := b.at(sq)
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

func (b *Board) at(sq Square) *Piece {
	if !sq.Valid() {
		return nil
	}
	return b.squares[sq.Row][sq.Col]
}

// With returns a copy of the board with sq set to p (nil clears it).
func (b *Board) With(sq Square, p *Piece) *Board {
	c := b.Clone()
	if !sq.Valid() {
		return c
	}
	if p == nil {
		c.squares[sq.Row][sq.Col] = nil
		return c
	}
	cp := *p
	c.squares[sq.Row][sq.Col] = &cp
	return c
}

// FindKing returns the square of color's king.
func (b *Board) FindKing(color Color) (Square, bool) {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := b.squares[row][col]
			if p != nil && p.Type == King && p.Color == color {
				return Square{Row: row, Col: col}, true
			}
		}
	}
	return Square{}, false
}

// Pieces returns the squares occupied by color, in row-major order.
func (b *Board) Pieces(color Color) []Square {
	var squares []Square
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if p := b.squares[row][col]; p != nil && p.Color == color {
				squares = append(squares, Square{Row: row, Col: col})
			}
		}
	}
	return squares
}

// Equal reports whether both boards hold the same pieces on the same squares.
func (b *Board) Equal(o *Board) bool {
	if b == nil || o == nil {
		return b == o
	}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p, q := b.squares[row][col], o.squares[row][col]
			if (p == nil) != (q == nil) {
				return false
			}
			if p != nil && *p != *q {
				return false
			}
		}
	}
	return true
}

// String renders the board with uppercase white and lowercase black letters,
// row 0 first. Empty squares are dots.
func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			sb.WriteString(pieceLetter(b.squares[row][col]))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func pieceLetter(p *Piece) string {
	if p == nil {
		return "."
	}
	letter := p.Type.Notation()
	if p.Type == Pawn {
		letter = "P"
	}
	if p.Color == Black {
		return strings.ToLower(letter)
	}
	return letter
}

func (b *Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.squares)
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var squares [8][8]*Piece
	if err := json.Unmarshal(data, &squares); err != nil {
		return err
	}
	b.squares = squares
	return nil
}
