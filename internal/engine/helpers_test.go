package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var sortSquares = cmpopts.SortSlices(func(a, b Square) bool {
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	return a.Col < b.Col
})

// boardFromDiagram builds a board from eight rows of eight characters,
// row 0 (rank 8) first. Uppercase is white, lowercase black, '.' is empty.
// All pieces start unmoved.
func boardFromDiagram(t *testing.T, rows ...string) *Board {
	t.Helper()
	if len(rows) != 8 {
		t.Fatalf("diagram has %d rows; want 8", len(rows))
	}
	kinds := map[byte]PieceType{'k': King, 'q': Queen, 'r': Rook, 'b': Bishop, 'n': Knight, 'p': Pawn}
	b := EmptyBoard()
	for row, line := range rows {
		if len(line) != 8 {
			t.Fatalf("row %d has %d columns; want 8", row, len(line))
		}
		for col := 0; col < 8; col++ {
			c := line[col]
			if c == '.' {
				continue
			}
			color := White
			lower := c
			if c >= 'a' && c <= 'z' {
				color = Black
			} else {
				lower = c + ('a' - 'A')
			}
			kind, ok := kinds[lower]
			if !ok {
				t.Fatalf("unknown piece %q at row %d col %d", c, row, col)
			}
			b.squares[row][col] = &Piece{Type: kind, Color: color}
		}
	}
	return b
}

func sq(t *testing.T, name string) Square {
	t.Helper()
	s, err := ParseSquare(name)
	if err != nil {
		t.Fatalf("ParseSquare(%q): %v", name, err)
	}
	return s
}

func squares(t *testing.T, names ...string) []Square {
	t.Helper()
	out := make([]Square, 0, len(names))
	for _, n := range names {
		out = append(out, sq(t, n))
	}
	return out
}

func assertSquares(t *testing.T, got, want []Square) {
	t.Helper()
	if diff := cmp.Diff(want, got, sortSquares, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("squares mismatch (-want +got):\n%s", diff)
	}
}

// play applies a sequence of algebraic from/to pairs from the side to move,
// checking each with ValidateMove first. It returns the final board, the
// en-passant target and the side to move.
func play(t *testing.T, b *Board, moves ...[2]string) (*Board, *Square, Color) {
	t.Helper()
	var ep *Square
	turn := White
	for i, m := range moves {
		from, to := sq(t, m[0]), sq(t, m[1])
		v, err := ValidateMove(b, from, to, turn, ep)
		if err != nil {
			t.Fatalf("move %d %s-%s: %v", i+1, m[0], m[1], err)
		}
		if !v.Valid {
			t.Fatalf("move %d %s-%s rejected: %s", i+1, m[0], m[1], v.Reason)
		}
		res, err := ApplyMove(b, from, to, ep)
		if err != nil {
			t.Fatalf("apply %d %s-%s: %v", i+1, m[0], m[1], err)
		}
		b = res.Board
		ep = ComputeEnPassantTarget(b, from, to)
		turn = turn.Opponent()
	}
	return b, ep, turn
}
