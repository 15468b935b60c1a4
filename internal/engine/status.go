package engine

// GameStatus classifies a position from one side's point of view.
// IsCheckmate and IsStalemate are never both true.
type GameStatus struct {
	IsCheck     bool `json:"isCheck"`
	IsCheckmate bool `json:"isCheckmate"`
	IsStalemate bool `json:"isStalemate"`
}

// IsOver reports whether the game has ended.
func (s GameStatus) IsOver() bool {
	return s.IsCheckmate || s.IsStalemate
}

// GetGameStatus computes check, checkmate and stalemate for color, which is
// normally the side about to move.
func GetGameStatus(b *Board, color Color, ep *Square) (GameStatus, error) {
	inCheck, err := IsInCheck(b, color)
	if err != nil {
		return GameStatus{}, err
	}
	hasMoves, err := HasAnyLegalMoves(b, color, ep)
	if err != nil {
		return GameStatus{}, err
	}
	return GameStatus{
		IsCheck:     inCheck,
		IsCheckmate: inCheck && !hasMoves,
		IsStalemate: !inCheck && !hasMoves,
	}, nil
}
