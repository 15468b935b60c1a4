// Package engine implements the chess rules: move generation, attack
// detection, legality filtering, move application and game status.
//
// Every function is pure. Boards passed in are never modified; operations
// that change the position return a new board.
package engine

import (
	"fmt"
	"strings"
)

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// forward is the row delta a pawn of this color advances by.
func (c Color) forward() int {
	if c == White {
		return -1
	}
	return 1
}

func (c Color) backRank() int {
	if c == White {
		return 7
	}
	return 0
}

func (c Color) pawnStartRow() int {
	if c == White {
		return 6
	}
	return 1
}

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

// Notation returns the SAN letter for the piece type. Pawns have none.
func (p PieceType) Notation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return ""
	}
	return ""
}

// IsPromotionChoice reports whether a pawn may promote to p.
func (p PieceType) IsPromotionChoice() bool {
	switch p {
	case Queen, Rook, Bishop, Knight:
		return true
	case King, Pawn:
		return false
	}
	return false
}

type Piece struct {
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	HasMoved bool      `json:"hasMoved"`
}

// Square addresses a board cell. Row 0 is black's back rank, row 7 white's.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (s Square) Valid() bool {
	return s.Row >= 0 && s.Row < 8 && s.Col >= 0 && s.Col < 8
}

func (s Square) offset(dRow, dCol int) Square {
	return Square{Row: s.Row + dRow, Col: s.Col + dCol}
}

// String returns the algebraic name of the square, e.g. "e4".
func (s Square) String() string {
	if !s.Valid() {
		return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
	}
	return fmt.Sprintf("%c%d", 'a'+s.Col, 8-s.Row)
}

func (s Square) file() string {
	return string(rune('a' + s.Col))
}

func (s Square) rank() string {
	return fmt.Sprintf("%d", 8-s.Row)
}

// ParseSquare converts an algebraic name like "e4" into a Square.
func ParseSquare(name string) (Square, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if len(name) != 2 {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, name)
	}
	col := int(name[0]) - 'a'
	rank := int(name[1]) - '0'
	sq := Square{Row: 8 - rank, Col: col}
	if !sq.Valid() {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, name)
	}
	return sq, nil
}

// Move is a from/to pair without any metadata.
type Move struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

var (
	rookDirs   = []Square{{Row: 1, Col: 0}, {Row: -1, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: -1}}
	bishopDirs = []Square{{Row: 1, Col: 1}, {Row: 1, Col: -1}, {Row: -1, Col: 1}, {Row: -1, Col: -1}}
	kingDirs   = append(append([]Square{}, rookDirs...), bishopDirs...)
	knightDirs = []Square{{Row: 2, Col: 1}, {Row: 2, Col: -1}, {Row: -2, Col: 1}, {Row: -2, Col: -1}, {Row: 1, Col: 2}, {Row: 1, Col: -2}, {Row: -1, Col: 2}, {Row: -1, Col: -2}}
)
