package engine

var pieceValues = map[PieceType]int{
	Pawn:   1,
	Knight: 3,
	Bishop: 3,
	Rook:   5,
	Queen:  9,
	King:   0,
}

// Material is the static material count of each side.
type Material struct {
	White int `json:"white"`
	Black int `json:"black"`
}

// Balance is white's material minus black's.
func (m Material) Balance() int {
	return m.White - m.Black
}

func PieceValue(kind PieceType) int {
	return pieceValues[kind]
}

func CountMaterial(b *Board) Material {
	var m Material
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := b.squares[row][col]
			if p == nil {
				continue
			}
			if p.Color == White {
				m.White += pieceValues[p.Type]
			} else {
				m.Black += pieceValues[p.Type]
			}
		}
	}
	return m
}
